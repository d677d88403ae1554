package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"talent-graph/internal/domain"
	"talent-graph/internal/graph"
	"talent-graph/internal/graph/memory"
	"talent-graph/internal/ingest"
	"talent-graph/internal/scoring"
)

type fakeCache struct {
	entries map[string][]domain.RankedCandidate
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]domain.RankedCandidate{}}
}

func (c *fakeCache) Get(_ context.Context, jobID string) ([]domain.RankedCandidate, bool) {
	ranked, ok := c.entries[jobID]
	return ranked, ok
}

func (c *fakeCache) Set(_ context.Context, jobID string, ranked []domain.RankedCandidate) {
	c.entries[jobID] = ranked
	c.sets++
}

func seedRankingGraph(t *testing.T, store graph.Store) {
	t.Helper()
	ctx := context.Background()
	svc := ingest.NewService(store, zap.NewNop())

	_, err := svc.UpsertSkills(ctx, []domain.Skill{
		{Name: "go", Category: domain.CategoryTechnical},
		{Name: "postgres", Category: domain.CategoryTechnical},
	})
	require.NoError(t, err)

	require.NoError(t, svc.CreateJob(ctx, domain.Job{ID: "job_1", Title: "Platform Engineer"}))
	require.NoError(t, svc.LinkJobRequiredSkills(ctx, "job_1", []domain.JobSkill{
		{Name: "go", Importance: 9, Required: true},
		{Name: "postgres", Importance: 6, Required: true},
	}))

	// strong: both skills, senior tenure. weak: one skill, junior.
	// twin_a / twin_b: identical profiles to exercise the tie-break.
	profiles := []struct {
		id, name string
		years    int
		skills   []domain.CandidateSkill
	}{
		{"cand_strong", "Strong", 8, []domain.CandidateSkill{
			{Name: "go", Proficiency: 9, Years: 7},
			{Name: "postgres", Proficiency: 8, Years: 6},
		}},
		{"cand_weak", "Weak", 1, []domain.CandidateSkill{
			{Name: "go", Proficiency: 3, Years: 1},
		}},
		{"cand_twin_b", "Twin B", 4, []domain.CandidateSkill{
			{Name: "go", Proficiency: 6, Years: 4},
		}},
		{"cand_twin_a", "Twin A", 4, []domain.CandidateSkill{
			{Name: "go", Proficiency: 6, Years: 4},
		}},
	}
	for _, p := range profiles {
		require.NoError(t, svc.CreateCandidate(ctx, domain.Candidate{
			ID: p.id, Name: p.name, Email: p.id + "@example.com", TotalYears: p.years,
		}))
		require.NoError(t, svc.LinkCandidateSkills(ctx, p.id, p.skills))
	}
}

func newRankUsecase(store graph.Store, cache RankCache) *Rank {
	scorer := NewMatchUsecase(store, scoring.DefaultConfig(), zap.NewNop())
	return NewRankUsecase(store, scorer, cache, 4, zap.NewNop())
}

func TestRankCandidates_OrderedByScoreThenID(t *testing.T) {
	store := memory.NewStore()
	seedRankingGraph(t, store)

	ranked, err := newRankUsecase(store, nil).RankCandidates(context.Background(), "job_1")
	require.NoError(t, err)
	require.Len(t, ranked, 4)

	assert.Equal(t, "cand_strong", ranked[0].CandidateID)
	assert.Equal(t, "cand_weak", ranked[3].CandidateID)
	// Equal scores fall back to candidate id ascending.
	assert.Equal(t, ranked[1].MatchScore, ranked[2].MatchScore)
	assert.Equal(t, "cand_twin_a", ranked[1].CandidateID)
	assert.Equal(t, "cand_twin_b", ranked[2].CandidateID)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].MatchScore, ranked[i].MatchScore)
	}
	assert.Equal(t, "Strong", ranked[0].Name)
	assert.Equal(t, "cand_strong@example.com", ranked[0].Email)
}

func TestRankCandidates_SkipsFailingCandidate(t *testing.T) {
	store := memory.NewStore()
	seedRankingGraph(t, store)
	flaky := &flakyStore{Store: store, failFor: map[string]bool{"cand_twin_a": true}}

	ranked, err := newRankUsecase(flaky, nil).RankCandidates(context.Background(), "job_1")
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	for _, rc := range ranked {
		assert.NotEqual(t, "cand_twin_a", rc.CandidateID)
	}
}

func TestRankCandidates_CacheHitBypassesScoring(t *testing.T) {
	store := memory.NewStore()
	seedRankingGraph(t, store)
	cache := newFakeCache()
	uc := newRankUsecase(store, cache)

	first, err := uc.RankCandidates(context.Background(), "job_1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// Second call must come from the cache even after the graph is wiped.
	require.NoError(t, store.DeleteAll(context.Background()))
	second, err := uc.RankCandidates(context.Background(), "job_1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
}
