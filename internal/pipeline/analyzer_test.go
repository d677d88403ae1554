package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"talent-graph/internal/docparse"
	"talent-graph/internal/domain"
	"talent-graph/internal/extract"
	"talent-graph/internal/graph/memory"
	"talent-graph/internal/ingest"
	"talent-graph/internal/scoring"
	"talent-graph/internal/usecase"
)

// scriptedExtractor returns canned profiles keyed by filename.
type scriptedExtractor struct {
	posting  extract.JobPosting
	profiles map[string]extract.CandidateProfile
}

func (s *scriptedExtractor) ExtractJob(context.Context, string) (extract.JobPosting, error) {
	return s.posting, nil
}

func (s *scriptedExtractor) ExtractCandidate(_ context.Context, _, filename string) (extract.CandidateProfile, error) {
	return s.profiles[filename], nil
}

func newTestAnalyzer(t *testing.T, opts Options) (*Analyzer, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	logger := zap.NewNop()

	extractor := &scriptedExtractor{
		posting: extract.JobPosting{
			Title:           "Backend Engineer",
			ExperienceLevel: "senior",
			Skills: []domain.JobSkill{
				{Name: "Go", Category: domain.CategoryTechnical, Importance: 9, Required: true},
				{Name: "Postgres", Category: domain.CategoryTechnical, Importance: 6, Required: true},
			},
		},
		profiles: map[string]extract.CandidateProfile{
			"alice.txt": {
				Name: "Alice", Email: "alice@example.com", TotalYears: 8,
				Skills: []domain.CandidateSkill{
					{Name: "go", Proficiency: 9, Years: 7},
					{Name: "postgres", Proficiency: 8, Years: 6},
				},
				Experience: []domain.ExperienceRecord{
					{Role: "Staff Engineer", Company: "Acme", Years: 5},
				},
			},
			"bob.txt": {
				Name: "Bob", Email: "bob@example.com", TotalYears: 2,
				Skills: []domain.CandidateSkill{
					{Name: "go", Proficiency: 4, Years: 2},
				},
			},
		},
	}

	svc := ingest.NewService(store, logger)
	scorer := usecase.NewMatchUsecase(store, scoring.DefaultConfig(), logger)
	ranker := usecase.NewRankUsecase(store, scorer, nil, 2, logger)

	return NewAnalyzer(store, docparse.NewTextParser(), extractor, svc, ranker, nil, opts, logger), store
}

func TestAnalyze_EndToEnd(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, Options{Workers: 2})

	report, err := analyzer.Analyze(context.Background(), "We need Go and Postgres.", []ResumeFile{
		{Filename: "alice.txt", Content: []byte("Alice resume text")},
		{Filename: "bob.txt", Content: []byte("Bob resume text")},
		{Filename: "broken.pdf", Content: []byte("%PDF-1.4")},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(report.JobID, "job_"))
	assert.Equal(t, "Backend Engineer", report.JobInfo.Title)
	assert.Equal(t, 2, report.JobInfo.TotalRequiredSkills)
	assert.Equal(t, 3, report.TotalResumes)
	assert.Equal(t, 2, report.SuccessfullyProcessed)
	require.Len(t, report.ProcessingErrors, 1)
	assert.Equal(t, "broken.pdf", report.ProcessingErrors[0].Filename)

	require.Len(t, report.RankedCandidates, 2)
	assert.Equal(t, "Alice", report.RankedCandidates[0].Name)
	assert.Equal(t, "Bob", report.RankedCandidates[1].Name)
	assert.Greater(t, report.RankedCandidates[0].MatchScore, report.RankedCandidates[1].MatchScore)
	assert.True(t, strings.HasPrefix(report.RankedCandidates[0].CandidateID, "candidate_"))
}

func TestAnalyze_ClearsPreviousRun(t *testing.T) {
	analyzer, store := newTestAnalyzer(t, Options{Workers: 1})
	files := []ResumeFile{{Filename: "alice.txt", Content: []byte("text")}}

	_, err := analyzer.Analyze(context.Background(), "jd", files)
	require.NoError(t, err)
	first, err := store.Candidates(context.Background())
	require.NoError(t, err)

	report, err := analyzer.Analyze(context.Background(), "jd", files)
	require.NoError(t, err)
	second, err := store.Candidates(context.Background())
	require.NoError(t, err)

	// The second run starts from an empty graph.
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ID, second[0].ID)
	require.Len(t, report.RankedCandidates, 1)
}

func TestAnalyze_TopNCapsRanking(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, Options{Workers: 2, TopN: 1})

	report, err := analyzer.Analyze(context.Background(), "jd", []ResumeFile{
		{Filename: "alice.txt", Content: []byte("text")},
		{Filename: "bob.txt", Content: []byte("text")},
	})
	require.NoError(t, err)
	require.Len(t, report.RankedCandidates, 1)
	assert.Equal(t, "Alice", report.RankedCandidates[0].Name)
}

func TestAnalyze_InputValidation(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, Options{MaxFiles: 1})
	files := []ResumeFile{
		{Filename: "alice.txt", Content: []byte("a")},
		{Filename: "bob.txt", Content: []byte("b")},
	}

	_, err := analyzer.Analyze(context.Background(), "  ", files[:1])
	require.Error(t, err)

	_, err = analyzer.Analyze(context.Background(), "jd", nil)
	require.Error(t, err)

	_, err = analyzer.Analyze(context.Background(), "jd", files)
	require.ErrorContains(t, err, "too many resumes")
}
