package report

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"melodia-backend/internal/engine"
)

type Handler struct {
	generator *Generator
}

func NewHandler(g *Generator) *Handler {
	return &Handler{generator: g}
}

func RegisterRoutes(app *fiber.App, h *Handler, middleware ...fiber.Handler) {
	reports := app.Group("/api/reports")
	for _, mw := range middleware {
		reports.Use(mw)
	}
	reports.Get("/most-played-by-country", h.MostPlayedByCountry)
	reports.Get("/artist-catalog-counts", h.ArtistCatalogCounts)

	handlers := append(append([]fiber.Handler{}, middleware...), h.AdHoc)
	app.Post("/api/query", handlers...)
}

// MostPlayedByCountry handles GET /api/reports/most-played-by-country.
func (h *Handler) MostPlayedByCountry(c *fiber.Ctx) error {
	rows, err := h.generator.MostPlayedByCountry(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ensureRows(rows)})
}

// ArtistCatalogCounts handles GET /api/reports/artist-catalog-counts.
func (h *Handler) ArtistCatalogCounts(c *fiber.Ctx) error {
	rows, err := h.generator.ArtistCatalogCounts(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ensureRows(rows)})
}

// AdHoc handles POST /api/query.
func (h *Handler) AdHoc(c *fiber.Ctx) error {
	var body struct {
		SQL    string `json:"sql"`
		Params []any  `json:"params"`
	}
	if err := c.BodyParser(&body); err != nil {
		return engine.NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body")
	}

	rows, err := h.generator.RunAdHoc(c.Context(), body.SQL, body.Params)
	if err != nil {
		var appErr *engine.AppError
		if errors.As(err, &appErr) {
			return c.Status(appErr.Status).JSON(engine.ErrorResponse{Error: appErr})
		}
		return err
	}
	return c.JSON(fiber.Map{"data": ensureRows(rows)})
}

func ensureRows(rows []map[string]any) []map[string]any {
	if rows == nil {
		return []map[string]any{}
	}
	return rows
}
