package engine

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"melodia-backend/internal/schema"
)

// Handler exposes the CRUD engine over HTTP.
type Handler struct {
	engine   *Engine
	registry *schema.Registry
}

func NewHandler(e *Engine, reg *schema.Registry) *Handler {
	return &Handler{engine: e, registry: reg}
}

// Tables handles GET /api/tables.
func (h *Handler) Tables(c *fiber.Ctx) error {
	tables := h.registry.All()
	out := make([]fiber.Map, len(tables))
	for i, t := range tables {
		out[i] = fiber.Map{
			"name":      t.Name,
			"id_column": t.IDColumn,
			"columns":   t.Columns,
		}
	}
	return c.JSON(fiber.Map{"data": out})
}

// List handles GET /api/:table.
//
// Query parameters: filter_column, filter_value, per_page, and either page
// (1-based) or offset, plus page_delta for relative paging.
func (h *Handler) List(c *fiber.Ctx) error {
	t, err := h.resolveTable(c)
	if err != nil {
		return err
	}

	limit := normalizeLimit(queryInt(c, "per_page", DefaultLimit))
	offset := 0
	if p := queryInt(c, "page", 0); p > 0 {
		offset = (p - 1) * limit
	}
	if o := queryInt(c, "offset", -1); o >= 0 {
		offset = o
	}
	delta := queryInt(c, "page_delta", 0)

	filter := Filter{
		Column: c.Query("filter_column"),
		Value:  c.Query("filter_value"),
	}

	result, err := h.engine.List(c.Context(), t, filter, Window{Offset: offset, Limit: limit}, delta)
	if err != nil {
		return h.respond(c, err)
	}

	meta := fiber.Map{
		"page":        result.Window.Page(),
		"per_page":    result.Window.Limit,
		"offset":      result.Window.Offset,
		"total":       result.Window.Total,
		"total_pages": result.Window.TotalPages(),
		"label":       result.Label,
		"at_boundary": result.AtBoundary,
	}
	if result.Note != nil {
		meta["filter_note"] = result.Note
	}
	return c.JSON(fiber.Map{"data": result.Rows, "meta": meta})
}

// GetByID handles GET /api/:table/:id.
func (h *Handler) GetByID(c *fiber.Ctx) error {
	t, err := h.resolveTable(c)
	if err != nil {
		return err
	}

	record, err := h.engine.LoadOne(c.Context(), t, c.Params("id"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"data": record})
}

// Create handles POST /api/:table.
func (h *Handler) Create(c *fiber.Ctx) error {
	t, err := h.resolveTable(c)
	if err != nil {
		return err
	}

	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body"))
	}

	newID, err := h.engine.Create(c.Context(), t, body)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"data": fiber.Map{t.IDColumn: newID}})
}

// Update handles PUT /api/:table. The id travels inside the payload, exactly
// as the edit form submits it.
func (h *Handler) Update(c *fiber.Ctx) error {
	t, err := h.resolveTable(c)
	if err != nil {
		return err
	}

	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body"))
	}

	if err := h.engine.Update(c.Context(), t, body); err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"ok": true}})
}

// Delete handles DELETE /api/:table/:id. The id segment is optional so that a
// blank id reports MISSING_ID instead of a routing error.
func (h *Handler) Delete(c *fiber.Ctx) error {
	t, err := h.resolveTable(c)
	if err != nil {
		return err
	}

	if err := h.engine.Delete(c.Context(), t, c.Params("id")); err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"ok": true}})
}

func (h *Handler) resolveTable(c *fiber.Ctx) (*schema.Table, error) {
	name := c.Params("table")
	t := h.registry.Get(name)
	if t == nil {
		return nil, UnknownTableError(name)
	}
	return t, nil
}

// respond renders AppErrors with their status and lets everything else
// propagate to the app error handler as a 500.
func (h *Handler) respond(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return respondError(c, appErr)
	}
	return err
}

func respondError(c *fiber.Ctx, appErr *AppError) error {
	return c.Status(appErr.Status).JSON(ErrorResponse{Error: appErr})
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
