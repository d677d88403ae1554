package domain

// Skill categories as produced by the extraction step. Anything else is
// stored as CategoryGeneral.
const (
	CategoryTechnical = "technical"
	CategorySoft      = "soft"
	CategoryDomain    = "domain"
	CategoryGeneral   = "general"
)

// Skill is shared across all jobs and candidates: one node per canonical
// name. Level is a watermark that only ever goes up.
type Skill struct {
	Name     string
	Category string
	Level    int
}

// CandidateSkill describes one HAS_SKILL edge from a candidate.
type CandidateSkill struct {
	Name        string
	Category    string
	Level       int
	Proficiency int
	Years       int
}

// JobSkill describes one REQUIRES_SKILL edge from a job.
type JobSkill struct {
	Name       string
	Category   string
	Level      int
	Importance int
	MinYears   int
	Required   bool
}
