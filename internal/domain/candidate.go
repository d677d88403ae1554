package domain

import "time"

// Candidate is created once per processed resume and is immutable afterwards.
type Candidate struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	LinkedIn   string
	GitHub     string
	ResumeText string
	// TotalYears is the candidate's total years of professional experience as
	// stated by the extraction step. Ingestion raises it to the sum of the
	// experience record years when that sum is larger.
	TotalYears int
	Experience []ExperienceRecord
	CreatedAt  time.Time
}

// ExperienceRecord is owned by exactly one candidate. Its node id is derived
// by ingestion as <candidate_id>_exp_<index>.
type ExperienceRecord struct {
	Role        string
	Company     string
	Duration    string
	Description string
	// Years defaults to 1 during ingestion when left at zero.
	Years int
}

// TotalExperienceYears returns the larger of the stated total and the sum of
// the per-record years, with unset record years counted as 1.
func (c Candidate) TotalExperienceYears() int {
	sum := 0
	for _, exp := range c.Experience {
		years := exp.Years
		if years <= 0 {
			years = 1
		}
		sum += years
	}
	if sum > c.TotalYears {
		return sum
	}
	return c.TotalYears
}
