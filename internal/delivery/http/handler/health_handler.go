package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"talent-graph/internal/pkg/response"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and graph-store reachability.
type HealthHandler struct {
	store pinger
}

func NewHealthHandler(store pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	graphStatus := "ok"
	status := fiber.StatusOK
	if h.store != nil {
		if err := h.store.Ping(c.Context()); err != nil {
			graphStatus = "unreachable"
			status = fiber.StatusServiceUnavailable
		}
	}
	return response.Success(c, status, "", fiber.Map{
		"status": "up",
		"graph":  graphStatus,
	})
}
