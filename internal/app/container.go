package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"talent-graph/internal/config"
	"talent-graph/internal/database"
	dbpostgres "talent-graph/internal/database/postgres"
	"talent-graph/internal/docparse"
	"talent-graph/internal/extract"
	"talent-graph/internal/graph"
	graphmemory "talent-graph/internal/graph/memory"
	graphneo4j "talent-graph/internal/graph/neo4j"
	graphpostgres "talent-graph/internal/graph/postgres"
	"talent-graph/internal/infrastructure/cache"
	"talent-graph/internal/ingest"
	"talent-graph/internal/pipeline"
	"talent-graph/internal/scoring"
	"talent-graph/internal/usecase"
)

// Container holds every wired dependency of the service.
type Container struct {
	Config   config.Config
	Logger   *zap.Logger
	Store    graph.Store
	DB       database.DB
	Cache    *cache.Redis
	Ingestor *ingest.Service
	Scorer   *usecase.Match
	Ranker   *usecase.Rank
	Analyzer *pipeline.Analyzer
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := &Container{Config: cfg, Logger: logger}

	switch cfg.Graph.Backend {
	case config.BackendNeo4j:
		store, err := graphneo4j.NewStore(ctx, graphneo4j.Config{
			URI:      cfg.Neo4j.URI,
			User:     cfg.Neo4j.User,
			Password: cfg.Neo4j.Password,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("connect neo4j: %w", err)
		}
		c.Store = store
	case config.BackendPostgres:
		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store, err := graphpostgres.NewStore(ctx, db, logger)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("prepare postgres graph: %w", err)
		}
		c.DB = db
		c.Store = store
	case config.BackendMemory:
		c.Store = graphmemory.NewStore()
		logger.Warn("using the in-memory graph backend, data will not survive restarts")
	default:
		return nil, fmt.Errorf("unknown graph backend %q", cfg.Graph.Backend)
	}

	var rankCache usecase.RankCache
	if addr := cfg.Redis.RedisAddr(); addr != "" {
		c.Cache = cache.NewRedis(cache.Config{
			Addr:     addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		}, logger)
		rankCache = c.Cache
	}

	var extractor extract.Extractor
	if cfg.Gemini.APIKey != "" {
		gen, err := extract.NewGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, fmt.Errorf("init gemini: %w", err)
		}
		extractor = extract.NewGeminiExtractor(gen, logger)
	} else {
		logger.Warn("no gemini api key configured, using the keyword extractor")
		extractor = extract.NewFallbackExtractor()
	}

	c.Ingestor = ingest.NewService(c.Store, logger)
	c.Scorer = usecase.NewMatchUsecase(c.Store, scoring.DefaultConfig(), logger)
	c.Ranker = usecase.NewRankUsecase(c.Store, c.Scorer, rankCache, cfg.Ranking.Workers, logger)

	var invalidator pipeline.RankInvalidator
	if c.Cache != nil {
		invalidator = c.Cache
	}
	c.Analyzer = pipeline.NewAnalyzer(
		c.Store,
		docparse.NewTextParser(),
		extractor,
		c.Ingestor,
		c.Ranker,
		invalidator,
		pipeline.Options{
			Workers: cfg.Ranking.Workers,
			TopN:    cfg.Ranking.TopN,
			RateRPS: cfg.Gemini.RateRPS,
		},
		logger,
	)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var firstErr error
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			firstErr = err
		}
	}
	if c.Store != nil {
		if err := c.Store.Close(context.Background()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
