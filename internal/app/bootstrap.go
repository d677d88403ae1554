package app

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"

	"talent-graph/internal/config"
	"talent-graph/internal/delivery/http/handler"
	"talent-graph/internal/delivery/http/middleware"
	"talent-graph/internal/delivery/http/routes"
	"talent-graph/internal/pipeline"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap wires the container and the HTTP surface. The returned
// cleanup closes every connection the container opened.
func Bootstrap(cfg config.Config, c *Container) (*App, func() error, error) {
	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: 512 << 20,
	})

	f.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
	f.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())

	var invalidator pipeline.RankInvalidator
	if c.Cache != nil {
		invalidator = c.Cache
	}
	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.Store),
		handler.NewAnalyzeHandler(c.Analyzer),
		handler.NewCandidatesHandler(c.Ranker, c.Scorer),
		handler.NewGraphHandler(c.Store, invalidator),
		cfg.App.Debug,
	)
	registry.Register(f)

	app := &App{Fiber: f, Container: c}
	return app, c.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
