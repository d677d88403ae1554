package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"talent-graph/internal/domain"
)

const defaultRankTTL = 10 * time.Minute

// Config carries the Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Redis caches ranking results per job. The cache is strictly optional:
// when Redis is unreachable every read is a miss and every write is a
// no-op, with a single warning per process.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	warnedUnavailable atomic.Bool
}

// NewRedis dials Redis and probes it. An unreachable server yields a
// bypassing cache rather than an error.
func NewRedis(cfg Config, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultRankTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, bypassing rank cache", zap.Error(err))
		_ = client.Close()
		return &Redis{client: nil, ttl: ttl, logger: logger}
	}

	return &Redis{client: client, ttl: ttl, logger: logger}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn("redis unavailable, bypassing rank cache", zap.Error(err))
	}
}

func rankKey(jobID string) string {
	return "ranking:" + jobID
}

// Get returns the cached ranking for a job, or a miss.
func (r *Redis) Get(ctx context.Context, jobID string) ([]domain.RankedCandidate, bool) {
	if r.isUnavailable() {
		return nil, false
	}
	b, err := r.client.Get(ctx, rankKey(jobID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.warnUnavailableOnce(err)
		}
		return nil, false
	}
	var ranked []domain.RankedCandidate
	if err := json.Unmarshal(b, &ranked); err != nil {
		r.logger.Warn("dropping undecodable cached ranking",
			zap.String("job_id", jobID), zap.Error(err))
		return nil, false
	}
	return ranked, true
}

// Set stores the ranking for a job with the configured TTL. Failures are
// logged and swallowed; the next request recomputes.
func (r *Redis) Set(ctx context.Context, jobID string, ranked []domain.RankedCandidate) {
	if r.isUnavailable() {
		return
	}
	b, err := json.Marshal(ranked)
	if err != nil {
		r.logger.Warn("failed to encode ranking for cache",
			zap.String("job_id", jobID), zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, rankKey(jobID), b, r.ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
	}
}

// Invalidate drops the cached ranking for a job after the graph changed.
func (r *Redis) Invalidate(ctx context.Context, jobID string) {
	if r.isUnavailable() {
		return
	}
	if err := r.client.Del(ctx, rankKey(jobID)).Err(); err != nil {
		r.warnUnavailableOnce(err)
	}
}

// InvalidateAll flushes every cached ranking.
func (r *Redis) InvalidateAll(ctx context.Context) {
	if r.isUnavailable() {
		return
	}
	iter := r.client.Scan(ctx, 0, rankKey("*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.warnUnavailableOnce(err)
		return
	}
	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			r.warnUnavailableOnce(err)
		}
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}
