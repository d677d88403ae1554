package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Graph backend selectors accepted in GRAPH_BACKEND.
const (
	BackendNeo4j    = "neo4j"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Graph    GraphConfig
	Database DatabaseConfig
	Neo4j    Neo4jConfig
	Redis    RedisConfig
	Gemini   GeminiConfig
	Ranking  RankingConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	Debug       bool
	LogJSON     bool
}

type GraphConfig struct {
	Backend string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	PoolMaxConns int32
}

type Neo4jConfig struct {
	URI      string
	User     string
	Password string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type GeminiConfig struct {
	APIKey string
	Model  string
	// RateRPS caps extraction calls per second; 0 means unthrottled.
	RateRPS int
}

type RankingConfig struct {
	Workers int
	TopN    int
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errUnknownBackend     = errors.New("unknown graph backend")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, fallback string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}
	optInt := func(key string, fallback int) int {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fallback
		}
		return n
	}
	optBool := func(key string) bool {
		v := strings.TrimSpace(os.Getenv(key))
		return strings.EqualFold(v, "true") || v == "1"
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "talent-graph"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    opt("HTTP_PORT", "8080"),
		Debug:       optBool("APP_DEBUG"),
		LogJSON:     optBool("LOG_JSON"),
	}

	cfg.Graph = GraphConfig{
		Backend: strings.ToLower(opt("GRAPH_BACKEND", BackendMemory)),
	}

	switch cfg.Graph.Backend {
	case BackendNeo4j:
		cfg.Neo4j = Neo4jConfig{
			URI:      req("NEO4J_URI"),
			User:     opt("NEO4J_USER", "neo4j"),
			Password: req("NEO4J_PASSWORD"),
		}
	case BackendPostgres:
		cfg.Database = DatabaseConfig{
			Host:         req("DB_HOST"),
			Port:         opt("DB_PORT", "5432"),
			Name:         req("DB_NAME"),
			User:         req("DB_USER"),
			Password:     os.Getenv("DB_PASSWORD"),
			SSLMode:      opt("DB_SSL_MODE", "disable"),
			PoolMaxConns: int32(optInt("DB_POOL_MAX_CONNS", 0)),
		}
	case BackendMemory:
	default:
		return Config{}, fmt.Errorf("%w: %q", errUnknownBackend, cfg.Graph.Backend)
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", ""),
		Port:     opt("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB", 0),
		TTL:      time.Duration(optInt("REDIS_TTL_SECONDS", 600)) * time.Second,
	}

	cfg.Gemini = GeminiConfig{
		APIKey:  opt("GEMINI_API_KEY", ""),
		Model:   opt("GEMINI_MODEL", "gemini-2.0-flash"),
		RateRPS: optInt("GEMINI_RPS", 0),
	}

	cfg.Ranking = RankingConfig{
		Workers: optInt("RANK_WORKERS", 8),
		TopN:    optInt("RANK_TOP_N", 20),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

// RedisAddr joins host and port; an empty host disables the cache.
func (r RedisConfig) RedisAddr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}
