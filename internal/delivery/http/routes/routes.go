package routes

import (
	"github.com/gofiber/fiber/v3"

	"talent-graph/internal/delivery/http/handler"
)

// Registry wires every handler onto the fiber app.
type Registry struct {
	health     *handler.HealthHandler
	analyze    *handler.AnalyzeHandler
	candidates *handler.CandidatesHandler
	graph      *handler.GraphHandler
	debug      bool
}

func NewRegistry(
	health *handler.HealthHandler,
	analyze *handler.AnalyzeHandler,
	candidates *handler.CandidatesHandler,
	graph *handler.GraphHandler,
	debug bool,
) *Registry {
	return &Registry{
		health:     health,
		analyze:    analyze,
		candidates: candidates,
		graph:      graph,
		debug:      debug,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	v1 := app.Group("/api").Group("/v1")
	r.analyze.RegisterRoutes(v1)
	r.candidates.RegisterRoutes(v1)
	if r.debug && r.graph != nil {
		r.graph.RegisterRoutes(v1)
	}
}
