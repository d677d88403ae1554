package usecase

import (
	"context"
	"errors"
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

// flakyStore wraps the in-memory store and fails reads for chosen
// candidates.
type flakyStore struct {
	graph.Store
	failFor map[string]bool
}

var errStoreDown = errors.New("store down")

func (f *flakyStore) MatchedSkills(ctx context.Context, candidateID, jobID string) ([]graph.SkillMatchRow, error) {
	if f.failFor[candidateID] {
		return nil, errStoreDown
	}
	return f.Store.MatchedSkills(ctx, candidateID, jobID)
}

func seedGraph(t *testing.T, store graph.Store) {
	t.Helper()
	ctx := context.Background()
	svc := ingest.NewService(store, zap.NewNop())

	_, err := svc.UpsertSkills(ctx, []domain.Skill{
		{Name: "Python", Category: domain.CategoryTechnical, Level: 5},
		{Name: "AWS", Category: domain.CategoryTechnical, Level: 3},
	})
	require.NoError(t, err)

	require.NoError(t, svc.CreateJob(ctx, domain.Job{ID: "job_1", Title: "Backend Engineer"}))
	require.NoError(t, svc.LinkJobRequiredSkills(ctx, "job_1", []domain.JobSkill{
		{Name: "python", Importance: 9, Required: true},
		{Name: "aws", Importance: 6, Required: true},
	}))

	require.NoError(t, svc.CreateCandidate(ctx, domain.Candidate{
		ID: "cand_1", Name: "Alice", Email: "alice@example.com", TotalYears: 6,
	}))
	require.NoError(t, svc.LinkCandidateSkills(ctx, "cand_1", []domain.CandidateSkill{
		{Name: "python", Proficiency: 8, Years: 5},
	}))
}

func TestScore_PartialMatchAgainstGraph(t *testing.T) {
	store := memory.NewStore()
	seedGraph(t, store)

	uc := NewMatchUsecase(store, scoring.DefaultConfig(), zap.NewNop())
	res, err := uc.Score(context.Background(), "cand_1", "job_1")
	require.NoError(t, err)

	assert.Equal(t, "cand_1", res.CandidateID)
	assert.Equal(t, "job_1", res.JobID)
	assert.Equal(t, 1, res.MatchedSkills)
	assert.Equal(t, 2, res.TotalRequiredSkills)
	assert.Equal(t, 50.0, res.SkillCoverage)
	assert.InDelta(t, 93.4, res.MatchScore, 0.05)
	require.Len(t, res.SkillMatches, 1)
	assert.Equal(t, "python", res.SkillMatches[0].SkillName)
	assert.Equal(t, 8, res.SkillMatches[0].Proficiency)
}

func TestScore_DefaultsMissingEdgeAttributes(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertNode(ctx, graph.LabelCandidate, "cand_1", map[string]any{"total_years": 2}, graph.Overwrite))
	require.NoError(t, store.UpsertNode(ctx, graph.LabelJob, "job_1", nil, graph.Overwrite))
	require.NoError(t, store.UpsertNode(ctx, graph.LabelSkill, "go", nil, graph.Overwrite))
	// Attribute-less edges: all weights must come from the defaults.
	require.NoError(t, store.UpsertEdge(ctx, graph.EdgeHasSkill, "cand_1", "go", nil))
	require.NoError(t, store.UpsertEdge(ctx, graph.EdgeRequiresSkill, "job_1", "go", nil))

	uc := NewMatchUsecase(store, scoring.DefaultConfig(), zap.NewNop())
	res, err := uc.Score(ctx, "cand_1", "job_1")
	require.NoError(t, err)

	require.Len(t, res.SkillMatches, 1)
	m := res.SkillMatches[0]
	assert.Equal(t, 1, m.Proficiency)
	assert.Equal(t, 0, m.CandidateYears)
	assert.Equal(t, 5, m.Importance)
	assert.Equal(t, 0, m.RequiredYears)
	assert.True(t, m.Required)
}

func TestScore_DegradesToZeroOnStoreFailure(t *testing.T) {
	store := memory.NewStore()
	seedGraph(t, store)
	flaky := &flakyStore{Store: store, failFor: map[string]bool{"cand_1": true}}

	uc := NewMatchUsecase(flaky, scoring.DefaultConfig(), zap.NewNop())
	res, err := uc.Score(context.Background(), "cand_1", "job_1")

	require.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 0.0, res.MatchScore)
	assert.Equal(t, 0.0, res.SkillCoverage)
	assert.Equal(t, 0, res.MatchedSkills)
	// Sentinel denominator prevents division by zero downstream.
	assert.Equal(t, 1, res.TotalRequiredSkills)
}

func TestScore_NoMatchingSkills(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	svc := ingest.NewService(store, zap.NewNop())

	_, err := svc.UpsertSkills(ctx, []domain.Skill{{Name: "go"}, {Name: "rust"}, {Name: "zig"}})
	require.NoError(t, err)
	require.NoError(t, svc.CreateJob(ctx, domain.Job{ID: "job_1"}))
	require.NoError(t, svc.LinkJobRequiredSkills(ctx, "job_1", []domain.JobSkill{
		{Name: "go", Importance: 8, Required: true},
		{Name: "rust", Importance: 7},
		{Name: "zig", Importance: 5},
	}))
	require.NoError(t, svc.CreateCandidate(ctx, domain.Candidate{ID: "cand_1", TotalYears: 9}))

	uc := NewMatchUsecase(store, scoring.DefaultConfig(), zap.NewNop())
	res, err := uc.Score(ctx, "cand_1", "job_1")
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.MatchScore)
	assert.Equal(t, 0.0, res.SkillCoverage)
	assert.Equal(t, 0, res.MatchedSkills)
	assert.Equal(t, 3, res.TotalRequiredSkills)
}
