package handler

import (
	"github.com/gofiber/fiber/v3"

	"talent-graph/internal/delivery/http/middleware"
	"talent-graph/internal/graph"
	"talent-graph/internal/pipeline"
	"talent-graph/internal/pkg/response"
)

// GraphHandler exposes destructive graph maintenance. Registered only
// when the service runs in debug mode.
type GraphHandler struct {
	store graph.Store
	cache pipeline.RankInvalidator
}

func NewGraphHandler(store graph.Store, cache pipeline.RankInvalidator) *GraphHandler {
	return &GraphHandler{store: store, cache: cache}
}

func (h *GraphHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Delete("/graph", h.Clear)
}

func (h *GraphHandler) Clear(c fiber.Ctx) error {
	if err := h.store.DeleteAll(c.Context()); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
	if h.cache != nil {
		h.cache.InvalidateAll(c.Context())
	}
	return response.Success(c, fiber.StatusOK, "graph cleared", nil)
}
