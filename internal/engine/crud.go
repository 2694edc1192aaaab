package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"melodia-backend/internal/schema"
	"melodia-backend/internal/store"
)

// Engine exposes the generic CRUD operations for any declared table. It is
// stateless between calls: the caller owns the filter and page window and
// resupplies them on every invocation.
type Engine struct {
	db *store.Store
}

func New(db *store.Store) *Engine {
	return &Engine{db: db}
}

// ListResult is one page of rows plus the recomputed window.
type ListResult struct {
	Rows   []map[string]any `json:"rows"`
	Window Window           `json:"window"`
	Label  string           `json:"label"`

	// AtBoundary is set when a page change could not move the offset even
	// though rows exist: the caller was already on the first or last page.
	AtBoundary bool `json:"at_boundary"`

	// Note is set when the filter was dropped instead of applied.
	Note *FilterNote `json:"note,omitempty"`
}

// Count returns the number of rows matching the filter. A filter that cannot
// be applied degrades to an unfiltered count with a note, never an error.
func (e *Engine) Count(ctx context.Context, t *schema.Table, f Filter) (int, *FilterNote, error) {
	sqlStr, params, note := BuildCountSQL(e.db.Dialect, t, f)
	var total int
	if err := e.db.DB.QueryRowContext(ctx, sqlStr, params...).Scan(&total); err != nil {
		return 0, note, fmt.Errorf("count %s: %w", t.Name, err)
	}
	return total, note, nil
}

// List returns one page of rows. The total is recomputed first, then the
// requested page delta is applied and the offset clamped into range. Rows are
// returned in display form: dates and times as canonical strings, booleans as
// "True"/"False"/"".
func (e *Engine) List(ctx context.Context, t *schema.Table, f Filter, w Window, pageDelta int) (*ListResult, error) {
	w.Limit = normalizeLimit(w.Limit)

	total, note, err := e.Count(ctx, t, f)
	if err != nil {
		return nil, err
	}
	w.Total = total

	newOffset := w.clampOffset(w.Offset + pageDelta*w.Limit)
	if pageDelta != 0 && newOffset == w.Offset && total > 0 {
		// Already on the first or last page; nothing to reload.
		return &ListResult{
			Rows:       []map[string]any{},
			Window:     w,
			Label:      w.Label(),
			AtBoundary: true,
			Note:       note,
		}, nil
	}
	w.Offset = newOffset

	sqlStr, params, _ := BuildListSQL(e.db.Dialect, t, f, w.Limit, w.Offset)
	rows, err := store.QueryRows(ctx, e.db.DB, sqlStr, params...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.Name, err)
	}

	if len(rows) == 0 {
		w.Total = 0
		return &ListResult{
			Rows:   []map[string]any{},
			Window: w,
			Label:  w.Label(),
			Note:   note,
		}, nil
	}

	for _, row := range rows {
		for _, col := range t.Columns {
			row[col.Name] = formatDisplay(col, row[col.Name])
		}
	}

	return &ListResult{
		Rows:   rows,
		Window: w,
		Label:  w.Label(),
		Note:   note,
	}, nil
}

// LoadOne fetches a single record by id in edit form: dates and times as
// canonical strings, booleans native.
func (e *Engine) LoadOne(ctx context.Context, t *schema.Table, rawID any) (map[string]any, error) {
	id, appErr := parseID(t, rawID)
	if appErr != nil {
		return nil, appErr
	}

	sqlStr, params := BuildSelectOneSQL(e.db.Dialect, t, id)
	row, err := store.QueryRow(ctx, e.db.DB, sqlStr, params...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFoundError(t.Name, id)
		}
		return nil, fmt.Errorf("load %s/%d: %w", t.Name, id, err)
	}

	record := make(map[string]any, len(t.Columns))
	for _, col := range t.Columns {
		record[col.Name] = formatEdit(col, row[col.Name])
	}
	return record, nil
}

// Create inserts a new record and returns the database-generated id. Every
// data column is written; absent values become NULL. Any coercion failure
// aborts before SQL executes.
func (e *Engine) Create(ctx context.Context, t *schema.Table, values map[string]any) (int64, error) {
	if countDataValues(t, values) == 0 {
		return 0, EmptyPayloadError(t.Name)
	}
	cols, params, appErr := e.coerceDataColumns(t, values)
	if appErr != nil {
		return 0, appErr
	}

	sqlStr, args := BuildInsertSQL(e.db.Dialect, t, cols, params)
	row, err := store.QueryRow(ctx, e.db.DB, sqlStr, args...)
	if err != nil {
		return 0, e.writeError("create", t, err)
	}

	newID, ok := asInt64(row[t.IDColumn])
	if !ok {
		return 0, fmt.Errorf("create %s: unexpected id value %v", t.Name, row[t.IDColumn])
	}
	return newID, nil
}

// Update rewrites every data column of the record whose id is in values. The
// statement's success is reported without checking the affected row count, so
// updating a nonexistent id silently succeeds. Preserved legacy behavior.
func (e *Engine) Update(ctx context.Context, t *schema.Table, values map[string]any) error {
	id, appErr := parseID(t, values[t.IDColumn])
	if appErr != nil {
		return appErr
	}

	if countDataValues(t, values) == 0 {
		return NoFieldsToUpdateError(t.Name)
	}
	cols, params, appErr := e.coerceDataColumns(t, values)
	if appErr != nil {
		return appErr
	}

	sqlStr, args := BuildUpdateSQL(e.db.Dialect, t, cols, params, id)
	if _, err := store.Exec(ctx, e.db.DB, sqlStr, args...); err != nil {
		return e.writeError("update", t, err)
	}
	return nil
}

// Delete removes the record with the given id. Like Update, it does not
// verify that a row matched.
func (e *Engine) Delete(ctx context.Context, t *schema.Table, rawID any) error {
	id, appErr := parseID(t, rawID)
	if appErr != nil {
		return appErr
	}

	sqlStr, args := BuildDeleteSQL(e.db.Dialect, t, id)
	if _, err := store.Exec(ctx, e.db.DB, sqlStr, args...); err != nil {
		return e.writeError("delete", t, err)
	}
	return nil
}

// coerceDataColumns converts the payload into ordered column/parameter slices
// covering every data column. Coercion failures are collected per field and
// reported together.
func (e *Engine) coerceDataColumns(t *schema.Table, values map[string]any) ([]string, []any, *AppError) {
	dataCols := t.DataColumns()
	cols := make([]string, 0, len(dataCols))
	params := make([]any, 0, len(dataCols))
	var details []ErrorDetail

	for _, col := range dataCols {
		v, detail := coerceWrite(col, values[col.Name])
		if detail != nil {
			details = append(details, *detail)
			continue
		}
		cols = append(cols, col.Name)
		params = append(params, v)
	}

	if len(details) > 0 {
		return nil, nil, ValidationError(details)
	}
	return cols, params, nil
}

// countDataValues counts payload keys that name a writable column. Every data
// column is written regardless, so emptiness is judged on the payload, not on
// the generated column list.
func countDataValues(t *schema.Table, values map[string]any) int {
	n := 0
	for key := range values {
		if key != t.IDColumn && t.HasColumn(key) {
			n++
		}
	}
	return n
}

func (e *Engine) writeError(op string, t *schema.Table, err error) error {
	mapped := e.db.Dialect.MapError(err)
	if errors.Is(mapped, store.ErrUniqueViolation) {
		return ConflictError(fmt.Sprintf("%s violates a unique constraint", t.Name))
	}
	if errors.Is(mapped, store.ErrForeignKeyViolation) {
		return ConflictError(fmt.Sprintf("%s violates a foreign key constraint", t.Name))
	}
	return fmt.Errorf("%s %s: %w", op, t.Name, err)
}

// parseID interprets an external id value. Blank means missing; anything that
// is not an integer is invalid.
func parseID(t *schema.Table, raw any) (int64, *AppError) {
	switch val := raw.(type) {
	case nil:
		return 0, MissingIDError(t.Name, t.IDColumn)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, MissingIDError(t.Name, t.IDColumn)
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, InvalidIDError(t.IDColumn)
		}
		return n, nil
	case float64:
		if val != math.Trunc(val) {
			return 0, InvalidIDError(t.IDColumn)
		}
		return int64(val), nil
	case int:
		return int64(val), nil
	case int64:
		return val, nil
	default:
		return 0, InvalidIDError(t.IDColumn)
	}
}

func asInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case float64:
		return int64(val), true
	default:
		return 0, false
	}
}
