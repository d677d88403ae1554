package domain

// SkillMatch is one skill held by the candidate and required by the job,
// with the weights read from both edges. Missing edge attributes have
// already been defaulted by the time a SkillMatch is built.
type SkillMatch struct {
	SkillName      string `json:"skill"`
	Proficiency    int    `json:"candidate_proficiency"`
	CandidateYears int    `json:"candidate_years"`
	Importance     int    `json:"job_importance"`
	RequiredYears  int    `json:"required_years"`
	Required       bool   `json:"is_required"`
}

// ScoreBreakdown reports each weighted sub-score of the final match score.
type ScoreBreakdown struct {
	Coverage   float64 `json:"coverage"`
	Quality    float64 `json:"quality"`
	Experience float64 `json:"experience"`
	Critical   float64 `json:"critical"`
}

// MatchResult is the scorer output for one (candidate, job) pair.
type MatchResult struct {
	CandidateID         string         `json:"candidate_id"`
	JobID               string         `json:"job_id"`
	MatchScore          float64        `json:"match_score"`
	SkillCoverage       float64        `json:"skill_coverage"`
	MatchedSkills       int            `json:"matched_skills"`
	TotalRequiredSkills int            `json:"total_required_skills"`
	SkillMatches        []SkillMatch   `json:"skill_matches"`
	Breakdown           ScoreBreakdown `json:"score_breakdown"`
}

// RankedCandidate is one row of the ranking output, sorted by MatchScore
// descending with candidate id as the tie-break.
type RankedCandidate struct {
	CandidateID         string  `json:"candidate_id"`
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	MatchScore          float64 `json:"match_score"`
	SkillCoverage       float64 `json:"skill_coverage"`
	MatchedSkills       int     `json:"matched_skills"`
	TotalRequiredSkills int     `json:"total_required_skills"`
}
