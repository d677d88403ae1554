package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"talent-graph/internal/domain"
	"talent-graph/internal/graph"
)

const defaultRankWorkers = 8

// RankCache caches ranked results per job between identical requests.
// Implementations must degrade to a miss when the cache is unavailable.
type RankCache interface {
	Get(ctx context.Context, jobID string) ([]domain.RankedCandidate, bool)
	Set(ctx context.Context, jobID string, ranked []domain.RankedCandidate)
}

// Rank scores every candidate against one job and returns a total order.
// Per-candidate scoring is read-only and fans out over a bounded worker
// group; a failed candidate is skipped with a logged cause, never aborting
// the batch.
type Rank struct {
	store   graph.Store
	scorer  *Match
	cache   RankCache
	workers int
	logger  *zap.Logger
}

func NewRankUsecase(store graph.Store, scorer *Match, cache RankCache, workers int, logger *zap.Logger) *Rank {
	if workers <= 0 {
		workers = defaultRankWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rank{store: store, scorer: scorer, cache: cache, workers: workers, logger: logger}
}

func (u *Rank) RankCandidates(ctx context.Context, jobID string) ([]domain.RankedCandidate, error) {
	if u.cache != nil {
		if ranked, ok := u.cache.Get(ctx, jobID); ok {
			u.logger.Debug("ranking served from cache", zap.String("job_id", jobID))
			return ranked, nil
		}
	}

	candidates, err := u.store.Candidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	var mu sync.Mutex
	ranked := make([]domain.RankedCandidate, 0, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)
	for _, cand := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := u.scorer.Score(gctx, cand.ID, jobID)
			if err != nil {
				u.logger.Warn("skipping candidate after scoring failure",
					zap.String("candidate_id", cand.ID),
					zap.String("job_id", jobID),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			ranked = append(ranked, domain.RankedCandidate{
				CandidateID:         res.CandidateID,
				Name:                cand.Name,
				Email:               cand.Email,
				MatchScore:          res.MatchScore,
				SkillCoverage:       res.SkillCoverage,
				MatchedSkills:       res.MatchedSkills,
				TotalRequiredSkills: res.TotalRequiredSkills,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].MatchScore != ranked[j].MatchScore {
			return ranked[i].MatchScore > ranked[j].MatchScore
		}
		return ranked[i].CandidateID < ranked[j].CandidateID
	})

	if u.cache != nil {
		u.cache.Set(ctx, jobID, ranked)
	}
	return ranked, nil
}
