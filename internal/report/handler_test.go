package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"

	"melodia-backend/internal/engine"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	g, e := newTestGenerator(t)
	seedCatalog(t, e)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var appErr *engine.AppError
			if errors.As(err, &appErr) {
				return c.Status(appErr.Status).JSON(engine.ErrorResponse{Error: appErr})
			}
			return c.Status(500).JSON(engine.ErrorResponse{Error: &engine.AppError{Code: "INTERNAL_ERROR", Message: err.Error()}})
		},
	})
	RegisterRoutes(app, NewHandler(g))
	return app
}

func request(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("parse %s: %v", raw, err)
		}
	}
	return resp, decoded
}

func TestReportRoutes(t *testing.T) {
	app := newTestApp(t)

	resp, body := request(t, app, "GET", "/api/reports/most-played-by-country", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	rows := body["data"].([]any)
	if len(rows) != 1 || rows[0].(map[string]any)["pais"] != "Chile" {
		t.Fatalf("rows = %v", rows)
	}

	resp, body = request(t, app, "GET", "/api/reports/artist-catalog-counts", nil)
	if resp.StatusCode != 200 || len(body["data"].([]any)) != 1 {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
}

func TestAdHocRoute(t *testing.T) {
	app := newTestApp(t)

	resp, body := request(t, app, "POST", "/api/query", map[string]any{
		"sql": "SELECT nombre_artista FROM artista",
	})
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	rows := body["data"].([]any)
	if len(rows) != 1 || rows[0].(map[string]any)["nombre_artista"] != "Soda Stereo" {
		t.Fatalf("rows = %v", rows)
	}

	resp, body = request(t, app, "POST", "/api/query", map[string]any{
		"sql": "DELETE FROM artista",
	})
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["error"].(map[string]any)["code"] != "INVALID_QUERY" {
		t.Fatalf("body = %v", body)
	}
}
