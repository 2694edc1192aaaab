package engine

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, h *Handler, middleware ...fiber.Handler) {
	api := app.Group("/api")
	for _, mw := range middleware {
		api.Use(mw)
	}

	api.Get("/tables", h.Tables)
	api.Get("/:table", h.List)
	api.Post("/:table", h.Create)
	api.Put("/:table", h.Update)
	api.Get("/:table/:id", h.GetByID)
	api.Delete("/:table/:id?", h.Delete)
}
