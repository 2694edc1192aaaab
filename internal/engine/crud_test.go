package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"melodia-backend/internal/config"
	"melodia-backend/internal/schema"
	"melodia-backend/internal/store"
)

// newTestEngine opens a throwaway SQLite database with the full schema so the
// CRUD paths run against a real driver.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	ctx := context.Background()

	cfg := config.DatabaseConfig{Driver: "sqlite", Path: t.TempDir(), Name: "test"}
	db, err := store.New(ctx, cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(db.Close)

	if err := store.NewMigrator(db).EnsureSchema(ctx, schema.Builtin()); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return New(db)
}

func mustCreate(t *testing.T, e *Engine, table *schema.Table, values map[string]any) int64 {
	t.Helper()
	id, err := e.Create(context.Background(), table, values)
	if err != nil {
		t.Fatalf("create %s: %v", table.Name, err)
	}
	return id
}

func TestCreateAndLoadRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, schema.Usuario, map[string]any{
		"nombre":             "Ana",
		"correo":             "ana@example.com",
		"fecha_registro":     "2024-03-15",
		"pais":               "Chile",
		"edad":               "29",
		"suscripcion_activa": "true",
	})
	if id != 1 {
		t.Fatalf("first generated id = %d, want 1", id)
	}

	record, err := e.LoadOne(ctx, schema.Usuario, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if record["nombre"] != "Ana" {
		t.Fatalf("nombre = %v", record["nombre"])
	}
	if record["fecha_registro"] != "2024-03-15" {
		t.Fatalf("fecha_registro = %v, want canonical date", record["fecha_registro"])
	}
	if record["edad"] != int64(29) {
		t.Fatalf("edad = %v (%T), want int64 29", record["edad"], record["edad"])
	}
	if record["suscripcion_activa"] != true {
		t.Fatalf("suscripcion_activa = %v, want native true", record["suscripcion_activa"])
	}
}

func TestCreateMissingColumnsBecomeNull(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, schema.Artista, map[string]any{"nombre_artista": "Soda Stereo"})

	record, err := e.LoadOne(ctx, schema.Artista, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if record["pais_artista"] != nil || record["anio_debut"] != nil {
		t.Fatalf("absent columns must be NULL, got %v / %v", record["pais_artista"], record["anio_debut"])
	}
}

func TestCreateValidationAbortsBeforeSQL(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Create(ctx, schema.Usuario, map[string]any{
		"nombre":         "Ana",
		"edad":           "not-a-number",
		"fecha_registro": "15/03/2024",
	})
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
	if len(appErr.Details) != 2 {
		t.Fatalf("expected 2 failing fields, got %+v", appErr.Details)
	}

	// Nothing was inserted.
	total, _, err := e.Count(ctx, schema.Usuario, Filter{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 0 {
		t.Fatalf("table should be empty, total = %d", total)
	}
}

func TestCreateEmptyPayload(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Create(context.Background(), schema.Usuario, map[string]any{})
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != "EMPTY_PAYLOAD" {
		t.Fatalf("expected EMPTY_PAYLOAD, got %v", err)
	}
}

func TestUpdateRewritesAllDataColumns(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, schema.Artista, map[string]any{
		"nombre_artista": "Soda",
		"pais_artista":   "Argentina",
		"anio_debut":     "1982",
	})

	// Columns absent from the update payload are overwritten with NULL.
	err := e.Update(ctx, schema.Artista, map[string]any{
		"id_artista":     id,
		"nombre_artista": "Soda Stereo",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	record, err := e.LoadOne(ctx, schema.Artista, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if record["nombre_artista"] != "Soda Stereo" {
		t.Fatalf("nombre_artista = %v", record["nombre_artista"])
	}
	if record["pais_artista"] != nil {
		t.Fatalf("pais_artista should have been nulled, got %v", record["pais_artista"])
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, schema.Artista, map[string]any{
		"nombre_artista": "Soda",
		"pais_artista":   "Argentina",
		"anio_debut":     "1982",
	})

	payload := map[string]any{
		"id_artista":     id,
		"nombre_artista": "Soda Stereo",
		"anio_debut":     "1983",
	}

	if err := e.Update(ctx, schema.Artista, payload); err != nil {
		t.Fatalf("first update: %v", err)
	}
	first, err := e.LoadOne(ctx, schema.Artista, id)
	if err != nil {
		t.Fatalf("load after first update: %v", err)
	}

	// Replaying the identical payload must leave the stored row unchanged.
	if err := e.Update(ctx, schema.Artista, payload); err != nil {
		t.Fatalf("second update: %v", err)
	}
	second, err := e.LoadOne(ctx, schema.Artista, id)
	if err != nil {
		t.Fatalf("load after second update: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated update changed the row:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestUpdateNonexistentIDSucceeds(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	err := e.Update(ctx, schema.Artista, map[string]any{
		"id_artista":     999,
		"nombre_artista": "Ghost",
	})
	if err != nil {
		t.Fatalf("updating a missing id must not fail, got %v", err)
	}

	_, err = e.LoadOne(ctx, schema.Artista, 999)
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND on load, got %v", err)
	}
}

func TestUpdateRequiresID(t *testing.T) {
	e := newTestEngine(t)

	err := e.Update(context.Background(), schema.Artista, map[string]any{"nombre_artista": "X"})
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != "MISSING_ID" {
		t.Fatalf("expected MISSING_ID, got %v", err)
	}

	err = e.Update(context.Background(), schema.Artista, map[string]any{"id_artista": "abc"})
	if !errors.As(err, &appErr) || appErr.Code != "INVALID_ID" {
		t.Fatalf("expected INVALID_ID, got %v", err)
	}
}

func TestDeleteBlankAndNonexistentID(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	err := e.Delete(ctx, schema.Artista, "")
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != "MISSING_ID" {
		t.Fatalf("expected MISSING_ID for blank id, got %v", err)
	}

	// Deleting an id that never existed reports success.
	if err := e.Delete(ctx, schema.Artista, "999"); err != nil {
		t.Fatalf("deleting a missing id must not fail, got %v", err)
	}
}

func TestDeleteRemovesRow(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	id := mustCreate(t, e, schema.Artista, map[string]any{"nombre_artista": "Temp"})
	if err := e.Delete(ctx, schema.Artista, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := e.LoadOne(ctx, schema.Artista, id)
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND after delete, got %v", err)
	}
}

func TestForeignKeyViolationIsConflict(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Create(context.Background(), schema.Album, map[string]any{
		"titulo_album": "Orphan",
		"id_artista":   "999",
	})
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != "CONFLICT" {
		t.Fatalf("expected CONFLICT for dangling foreign key, got %v", err)
	}
}

func seedUsuarios(t *testing.T, e *Engine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		pais := "Chile"
		if i%2 == 1 {
			pais = "Peru"
		}
		mustCreate(t, e, schema.Usuario, map[string]any{
			"nombre": "User",
			"pais":   pais,
		})
	}
}

func TestListPagination(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedUsuarios(t, e, 12)

	result, err := e.List(ctx, schema.Usuario, Filter{}, Window{Offset: 0, Limit: 5}, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Rows) != 5 || result.Label != "Page 1 of 3" {
		t.Fatalf("page 1: %d rows, label %q", len(result.Rows), result.Label)
	}

	// The last window clamps to total-limit, so the final page is always full.
	result, err = e.List(ctx, schema.Usuario, Filter{}, Window{Offset: 5, Limit: 5}, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Window.Offset != 7 || len(result.Rows) != 5 {
		t.Fatalf("last window: offset=%d rows=%d", result.Window.Offset, len(result.Rows))
	}

	// Another step forward stays put and signals the boundary.
	result, err = e.List(ctx, schema.Usuario, Filter{}, Window{Offset: 7, Limit: 5}, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !result.AtBoundary || len(result.Rows) != 0 {
		t.Fatalf("expected boundary no-op, got %d rows, atBoundary=%v", len(result.Rows), result.AtBoundary)
	}
	if result.Window.Offset != 7 {
		t.Fatalf("offset moved at boundary: %d", result.Window.Offset)
	}
}

func TestListEmptyTable(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.List(context.Background(), schema.Usuario, Filter{}, Window{Limit: 25}, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Rows) != 0 || result.Label != "Page 0 of 0" || result.Window.Total != 0 {
		t.Fatalf("empty listing: rows=%d label=%q total=%d", len(result.Rows), result.Label, result.Window.Total)
	}
}

func TestListTextFilterSubstring(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedUsuarios(t, e, 6)

	result, err := e.List(ctx, schema.Usuario, Filter{Column: "pais", Value: "chi"}, Window{Limit: 25}, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Window.Total != 3 {
		t.Fatalf("expected 3 matches for substring, got %d", result.Window.Total)
	}
	for _, row := range result.Rows {
		if row["pais"] != "Chile" {
			t.Fatalf("unexpected row: %v", row)
		}
	}
}

func TestListIntegerListFilter(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedUsuarios(t, e, 5)

	result, err := e.List(ctx, schema.Usuario, Filter{Column: "id_usuario", Value: "1,3,99"}, Window{Limit: 25}, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Window.Total != 2 {
		t.Fatalf("expected 2 matches, got %d", result.Window.Total)
	}
}

func TestListDroppedFilterNote(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedUsuarios(t, e, 3)

	result, err := e.List(ctx, schema.Usuario, Filter{Column: "fecha_registro", Value: "not-a-date"}, Window{Limit: 25}, 0)
	if err != nil {
		t.Fatalf("a bad filter must degrade, not fail: %v", err)
	}
	if result.Note == nil {
		t.Fatal("expected a filter note")
	}
	if result.Window.Total != 3 {
		t.Fatalf("expected unfiltered total 3, got %d", result.Window.Total)
	}
}

func TestListBooleanDisplay(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	mustCreate(t, e, schema.Usuario, map[string]any{"nombre": "A", "suscripcion_activa": "true"})
	mustCreate(t, e, schema.Usuario, map[string]any{"nombre": "B", "suscripcion_activa": "false"})
	mustCreate(t, e, schema.Usuario, map[string]any{"nombre": "C"})

	result, err := e.List(ctx, schema.Usuario, Filter{}, Window{Limit: 25}, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []any{}
	for _, row := range result.Rows {
		got = append(got, row["suscripcion_activa"])
	}
	want := []any{"True", "False", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("boolean display = %v, want %v", got, want)
		}
	}
}
