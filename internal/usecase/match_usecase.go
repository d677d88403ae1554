package usecase

import (
	"context"

	"go.uber.org/zap"

	"talent-graph/internal/domain"
	"talent-graph/internal/graph"
	"talent-graph/internal/scoring"
)

// Defaults for HAS_SKILL / REQUIRES_SKILL edge attributes that were never
// written.
const (
	defaultProficiency = 1
	defaultYears       = 0
	defaultImportance  = 5
	defaultMinYears    = 0
	defaultRequired    = true
)

// Match reads the (candidate, job) subgraph and hands it to the pure
// scoring engine.
type Match struct {
	store  graph.Store
	cfg    scoring.Config
	logger *zap.Logger
}

func NewMatchUsecase(store graph.Store, cfg scoring.Config, logger *zap.Logger) *Match {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Match{store: store, cfg: cfg, logger: logger}
}

// Score computes the compatibility of one candidate against one job. On a
// retrieval failure it returns a zeroed result whose TotalRequiredSkills
// is 1 (so downstream ratios never divide by zero) together with the
// cause; the degrade is deliberate, not a silent success.
func (u *Match) Score(ctx context.Context, candidateID, jobID string) (domain.MatchResult, error) {
	matchRows, err := u.store.MatchedSkills(ctx, candidateID, jobID)
	if err != nil {
		return u.degraded(candidateID, jobID, err), err
	}
	requiredRows, err := u.store.RequiredSkills(ctx, jobID)
	if err != nil {
		return u.degraded(candidateID, jobID, err), err
	}
	totalYears, err := u.store.CandidateYears(ctx, candidateID)
	if err != nil {
		return u.degraded(candidateID, jobID, err), err
	}

	matches := make([]domain.SkillMatch, 0, len(matchRows))
	for _, row := range matchRows {
		matches = append(matches, domain.SkillMatch{
			SkillName:      row.SkillName,
			Proficiency:    intOr(row.Proficiency, defaultProficiency),
			CandidateYears: intOr(row.CandidateYears, defaultYears),
			Importance:     intOr(row.Importance, defaultImportance),
			RequiredYears:  intOr(row.RequiredYears, defaultMinYears),
			Required:       boolOr(row.Required, defaultRequired),
		})
	}

	required := make([]scoring.RequiredSkill, 0, len(requiredRows))
	for _, row := range requiredRows {
		required = append(required, scoring.RequiredSkill{
			Name:     row.SkillName,
			Required: boolOr(row.Required, defaultRequired),
		})
	}

	res := scoring.Calculate(matches, required, totalYears, u.cfg)
	return domain.MatchResult{
		CandidateID:         candidateID,
		JobID:               jobID,
		MatchScore:          res.Score,
		SkillCoverage:       res.Coverage,
		MatchedSkills:       len(matches),
		TotalRequiredSkills: len(required),
		SkillMatches:        matches,
		Breakdown:           res.Breakdown,
	}, nil
}

func (u *Match) degraded(candidateID, jobID string, cause error) domain.MatchResult {
	u.logger.Warn("scoring degraded to zero",
		zap.String("candidate_id", candidateID),
		zap.String("job_id", jobID),
		zap.Error(cause))
	return domain.MatchResult{
		CandidateID: candidateID,
		JobID:       jobID,
		// Sentinel denominator: keeps coverage ratios computable downstream.
		TotalRequiredSkills: 1,
		SkillMatches:        []domain.SkillMatch{},
	}
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
