package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talent-graph/internal/domain"
)

func match(name string, prof, years, importance, reqYears int, required bool) domain.SkillMatch {
	return domain.SkillMatch{
		SkillName:      name,
		Proficiency:    prof,
		CandidateYears: years,
		Importance:     importance,
		RequiredYears:  reqYears,
		Required:       required,
	}
}

func TestCalculate_PartialMatch(t *testing.T) {
	// Job requires python (importance 9, required) and aws (importance 6,
	// required); candidate holds python at proficiency 8 with 5 years and
	// has 6 years total.
	matches := []domain.SkillMatch{match("python", 8, 5, 9, 0, true)}
	required := []RequiredSkill{
		{Name: "python", Required: true},
		{Name: "aws", Required: true},
	}

	res := Calculate(matches, required, 6, DefaultConfig())

	require.Equal(t, 50.0, res.Coverage)
	// coverage 17.5 + quality 63.4 + experience 10 + critical 2.5, no
	// boost (6 < 7 years), no coverage cap at 50%.
	assert.InDelta(t, 93.4, res.Score, 0.05)
	assert.InDelta(t, 17.5, res.Breakdown.Coverage, 0.05)
	assert.InDelta(t, 63.4, res.Breakdown.Quality, 0.05)
	assert.Equal(t, 10.0, res.Breakdown.Experience)
	assert.Equal(t, 2.5, res.Breakdown.Critical)
}

func TestCalculate_NoMatchedSkills(t *testing.T) {
	required := []RequiredSkill{
		{Name: "python", Required: true},
		{Name: "aws", Required: false},
		{Name: "docker", Required: false},
	}

	res := Calculate(nil, required, 12, DefaultConfig())

	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, 0.0, res.Coverage)
	assert.Equal(t, 0.0, res.Breakdown.Quality)
}

func TestCalculate_NoRequiredSkills(t *testing.T) {
	res := Calculate(nil, nil, 5, DefaultConfig())

	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, 0.0, res.Coverage)
	// The critical sub-score defaults to its full value when the job flags
	// nothing as required, but the zero-match rule still forces 0.
	assert.Equal(t, 5.0, res.Breakdown.Critical)
}

func TestCalculate_StrongCoverageBoostCappedAtMax(t *testing.T) {
	matches := make([]domain.SkillMatch, 0, 5)
	required := make([]RequiredSkill, 0, 5)
	for _, name := range []string{"go", "postgres", "redis", "docker", "kubernetes"} {
		matches = append(matches, match(name, 10, 4, 5, 0, true))
		required = append(required, RequiredSkill{Name: name, Required: true})
	}

	res := Calculate(matches, required, 10, DefaultConfig())

	assert.Equal(t, 100.0, res.Coverage)
	assert.Equal(t, 95.0, res.Score)
}

func TestCalculate_SeniorBoostBelowStrongCoverage(t *testing.T) {
	// 3 of 4 required skills at 75% coverage, 8 years total: the 1.10
	// multiplier applies, not the 1.15 one.
	matches := []domain.SkillMatch{
		match("go", 5, 2, 5, 2, false),
		match("postgres", 5, 2, 5, 2, false),
		match("redis", 5, 2, 5, 2, false),
	}
	required := []RequiredSkill{
		{Name: "go"}, {Name: "postgres"}, {Name: "redis"}, {Name: "kafka"},
	}

	cfg := DefaultConfig()
	res := Calculate(matches, required, 8, cfg)

	// coverage 26.25 + quality 20 + experience 18 + critical 5 = 69.25,
	// boosted by 1.10 to 76.175.
	assert.Equal(t, 75.0, res.Coverage)
	assert.InDelta(t, 76.2, res.Score, 0.05)
}

func TestCalculate_LowCoverageCeiling(t *testing.T) {
	matches := []domain.SkillMatch{match("go", 10, 10, 9, 0, true)}
	required := make([]RequiredSkill, 10)
	for i := range required {
		required[i] = RequiredSkill{Name: "skill"}
	}
	required[0].Name = "go"
	required[0].Required = true

	res := Calculate(matches, required, 10, DefaultConfig())

	assert.Equal(t, 10.0, res.Coverage)
	assert.Equal(t, 30.0, res.Score)
}

func TestCalculate_MidCoverageCeiling(t *testing.T) {
	matches := []domain.SkillMatch{match("go", 10, 10, 9, 0, true)}
	required := []RequiredSkill{
		{Name: "go", Required: true}, {Name: "aws"}, {Name: "docker"},
	}

	res := Calculate(matches, required, 10, DefaultConfig())

	assert.Equal(t, 33.3, res.Coverage)
	assert.Equal(t, 55.0, res.Score)
}

func TestCalculate_LeadershipBonus(t *testing.T) {
	matches := []domain.SkillMatch{match("Senior Python", 7, 5, 5, 5, true)}
	required := []RequiredSkill{
		{Name: "Senior Python", Required: true},
		{Name: "aws"},
	}

	withBonus := Calculate(matches, required, 5, DefaultConfig())
	withoutBonus := Calculate(matches, required, 4, DefaultConfig())

	// coverage 17.5 + quality 30.8 + experience 10 + critical 5 = 63.3,
	// plus the flat 5 at >= 5 years.
	assert.InDelta(t, 68.3, withBonus.Score, 0.05)
	// At 4 years the experience step drops to 6 and no bonus applies.
	assert.InDelta(t, 59.3, withoutBonus.Score, 0.05)
}

func TestCalculate_ExperienceFactorClamped(t *testing.T) {
	// 1 year against a 10-year requirement clamps the factor at 0.6;
	// 30 years against 1 clamps at 2.2.
	low := Calculate([]domain.SkillMatch{match("go", 10, 1, 5, 10, false)}, []RequiredSkill{{Name: "go"}}, 0, DefaultConfig())
	high := Calculate([]domain.SkillMatch{match("go", 10, 30, 5, 1, false)}, []RequiredSkill{{Name: "go"}}, 0, DefaultConfig())

	// quality = 1.1 * factor * 40
	assert.InDelta(t, 0.6*1.1*40, low.Breakdown.Quality, 0.05)
	assert.InDelta(t, 2.2*1.1*40, high.Breakdown.Quality, 0.05)
}

func TestCalculate_ScoreAlwaysWithinBounds(t *testing.T) {
	cfg := DefaultConfig()
	profiles := [][]domain.SkillMatch{
		nil,
		{match("go", 0, 0, 0, 0, false)},
		{match("go", 99, 99, 99, 0, true), match("lead architect", 10, 40, 10, 1, true)},
	}
	reqs := [][]RequiredSkill{
		nil,
		{{Name: "go", Required: true}},
		{{Name: "go", Required: true}, {Name: "lead architect", Required: true}},
	}
	for _, matches := range profiles {
		for _, required := range reqs {
			for _, years := range []int{0, 3, 7, 12, 40} {
				res := Calculate(matches, required, years, cfg)
				require.GreaterOrEqual(t, res.Score, 0.0)
				require.LessOrEqual(t, res.Score, cfg.MaxScore)
			}
		}
	}
}

func TestExperienceSubScoreSteps(t *testing.T) {
	cfg := DefaultConfig()
	cases := map[int]float64{
		0: 2, 2: 2, 3: 6, 4: 6, 5: 10, 6: 10, 7: 15, 8: 18, 9: 18, 10: 20, 25: 20,
	}
	for years, want := range cases {
		if got := experienceSubScore(years, cfg); got != want {
			t.Fatalf("experienceSubScore(%d) = %v, want %v", years, got, want)
		}
	}
}
