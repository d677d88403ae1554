// Package scoring holds the pure match formula. It never touches the graph
// store; callers fetch the subgraph and hand it plain slices.
package scoring

import (
	"math"
	"strings"

	"talent-graph/internal/domain"
)

// RequiredSkill is one REQUIRES_SKILL edge of the job, as needed for the
// coverage denominator and the critical-skill accounting.
type RequiredSkill struct {
	Name     string
	Required bool
}

// Result carries the final score, the coverage percentage and the
// per-sub-score breakdown, all rounded to one decimal place.
type Result struct {
	Score     float64
	Coverage  float64
	Breakdown domain.ScoreBreakdown
}

// Calculate turns a candidate's matched skills, the job's requirement list
// and the candidate's total years of experience into a single 0-95 score.
func Calculate(matches []domain.SkillMatch, required []RequiredSkill, totalYears int, cfg Config) Result {
	matchedCount := len(matches)
	totalRequired := len(required)

	coverage := 0.0
	if totalRequired > 0 {
		coverage = float64(matchedCount) / float64(totalRequired) * 100
	}

	coverageScore := math.Min(coverage, 100) * cfg.CoverageWeight
	qualityScore := qualitySubScore(matches, cfg)
	experienceScore := experienceSubScore(totalYears, cfg)
	criticalScore := criticalSubScore(matches, required, cfg)

	final := coverageScore + qualityScore + experienceScore + criticalScore

	if coverage >= cfg.SeniorCoverageMin && totalYears >= cfg.SeniorYears {
		if coverage >= cfg.StrongCoverageMin {
			final *= cfg.StrongCoverageBoost
		} else {
			final *= cfg.SeniorCoverageBoost
		}
	}
	if totalYears >= cfg.LeadershipYears && hasLeadershipSkill(matches, cfg.LeadershipTerms) {
		final += cfg.LeadershipBonus
	}

	final = math.Min(final, cfg.MaxScore)
	switch {
	case matchedCount == 0:
		final = 0
	case coverage < cfg.LowCoverageMax:
		final = math.Min(final, cfg.LowCoverageCeiling)
	case coverage < cfg.MidCoverageMax:
		final = math.Min(final, cfg.MidCoverageCeiling)
	}

	return Result{
		Score:    round1(final),
		Coverage: round1(coverage),
		Breakdown: domain.ScoreBreakdown{
			Coverage:   round1(coverageScore),
			Quality:    round1(qualityScore),
			Experience: round1(experienceScore),
			Critical:   round1(criticalScore),
		},
	}
}

func qualitySubScore(matches []domain.SkillMatch, cfg Config) float64 {
	if len(matches) == 0 {
		return 0
	}

	var contributions, importanceSum float64
	for _, m := range matches {
		var expFactor float64
		if m.RequiredYears > 0 {
			ratio := float64(m.CandidateYears) / float64(m.RequiredYears)
			expFactor = clamp(ratio, cfg.ExpFactorMin, cfg.ExpFactorMax)
		} else {
			expFactor = math.Min(float64(m.CandidateYears)/cfg.ExpYearsDivisor, cfg.ExpFactorDefaultCap)
		}

		profFactor := math.Min(float64(m.Proficiency)/10, 1.0)
		if profFactor >= cfg.ProficiencyBoostMin {
			profFactor *= cfg.ProficiencyBoost
		}

		contributions += profFactor * expFactor * float64(m.Importance)
		importanceSum += float64(m.Importance)
	}

	if importanceSum == 0 {
		return 0
	}
	return contributions / importanceSum * (cfg.QualityWeight * 100)
}

func experienceSubScore(totalYears int, cfg Config) float64 {
	for _, step := range cfg.ExperienceSteps {
		if totalYears >= step.MinYears {
			return step.Points
		}
	}
	return 0
}

func criticalSubScore(matches []domain.SkillMatch, required []RequiredSkill, cfg Config) float64 {
	flagged := 0
	matchedByName := make(map[string]bool, len(matches))
	for _, m := range matches {
		matchedByName[m.SkillName] = true
	}

	covered := 0
	for _, r := range required {
		if !r.Required {
			continue
		}
		flagged++
		if matchedByName[r.Name] {
			covered++
		}
	}

	if flagged == 0 {
		return cfg.CriticalPoints
	}
	return float64(covered) / float64(flagged) * cfg.CriticalPoints
}

func hasLeadershipSkill(matches []domain.SkillMatch, terms []string) bool {
	for _, m := range matches {
		name := strings.ToLower(m.SkillName)
		for _, term := range terms {
			if strings.Contains(name, term) {
				return true
			}
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
