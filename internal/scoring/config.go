package scoring

// Config names every weight, threshold and cap of the match formula so the
// policy can be swapped or tested independently of graph access.
type Config struct {
	// CoverageWeight scales the skill-coverage percentage (0-100).
	CoverageWeight float64
	// QualityWeight scales the importance-normalized quality ratio, which
	// is multiplied by QualityWeight*100.
	QualityWeight float64
	// ExperienceSteps maps candidate total years to flat points. Evaluated
	// top-down; the first step whose MinYears the candidate meets wins.
	ExperienceSteps []ExperienceStep
	// CriticalPoints is the full value of the critical-skills sub-score,
	// also awarded outright when the job flags no skill as required.
	CriticalPoints float64

	// Per-skill experience factor bounds when the job states minimum years.
	ExpFactorMin float64
	ExpFactorMax float64
	// Without stated minimum years the factor is
	// min(candidateYears/ExpYearsDivisor, ExpFactorDefaultCap).
	ExpYearsDivisor     float64
	ExpFactorDefaultCap float64

	// Proficiency factor boost once the normalized proficiency reaches
	// ProficiencyBoostMin.
	ProficiencyBoostMin float64
	ProficiencyBoost    float64

	// Seniority boosts: with SeniorYears total experience the final score
	// is multiplied by StrongCoverageBoost at StrongCoverageMin coverage,
	// else by SeniorCoverageBoost at SeniorCoverageMin coverage.
	SeniorYears         int
	SeniorCoverageMin   float64
	SeniorCoverageBoost float64
	StrongCoverageMin   float64
	StrongCoverageBoost float64

	// Flat bonus when a matched skill name contains a leadership term and
	// the candidate has at least LeadershipYears of experience.
	LeadershipTerms []string
	LeadershipYears int
	LeadershipBonus float64

	// Ceilings applied after the boosts.
	MaxScore           float64
	LowCoverageMax     float64
	LowCoverageCeiling float64
	MidCoverageMax     float64
	MidCoverageCeiling float64
}

type ExperienceStep struct {
	MinYears int
	Points   float64
}

// DefaultConfig returns the production scoring policy.
func DefaultConfig() Config {
	return Config{
		CoverageWeight: 0.35,
		QualityWeight:  0.40,
		ExperienceSteps: []ExperienceStep{
			{MinYears: 10, Points: 20},
			{MinYears: 8, Points: 18},
			{MinYears: 7, Points: 15},
			{MinYears: 5, Points: 10},
			{MinYears: 3, Points: 6},
			{MinYears: 0, Points: 2},
		},
		CriticalPoints: 5,

		ExpFactorMin:        0.6,
		ExpFactorMax:        2.2,
		ExpYearsDivisor:     2,
		ExpFactorDefaultCap: 1.8,

		ProficiencyBoostMin: 0.7,
		ProficiencyBoost:    1.1,

		SeniorYears:         7,
		SeniorCoverageMin:   60,
		SeniorCoverageBoost: 1.10,
		StrongCoverageMin:   80,
		StrongCoverageBoost: 1.15,

		LeadershipTerms: []string{"lead", "senior", "manage"},
		LeadershipYears: 5,
		LeadershipBonus: 5,

		MaxScore:           95,
		LowCoverageMax:     20,
		LowCoverageCeiling: 30,
		MidCoverageMax:     40,
		MidCoverageCeiling: 55,
	}
}
