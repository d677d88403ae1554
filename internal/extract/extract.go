// Package extract turns free-text job descriptions and resumes into the
// structured profiles the graph is built from.
package extract

import (
	"context"

	"talent-graph/internal/domain"
)

// JobPosting is a structured job description.
type JobPosting struct {
	Title           string
	Company         string
	Location        string
	ExperienceLevel string
	MinYears        int
	Skills          []domain.JobSkill
}

// CandidateProfile is a structured resume.
type CandidateProfile struct {
	Name       string
	Email      string
	Phone      string
	LinkedIn   string
	GitHub     string
	TotalYears int
	Skills     []domain.CandidateSkill
	Experience []domain.ExperienceRecord
}

// Extractor parses raw text into structured profiles. Implementations
// must return a usable (possibly sparse) result rather than failing the
// whole analysis on bad input.
type Extractor interface {
	ExtractJob(ctx context.Context, description string) (JobPosting, error)
	ExtractCandidate(ctx context.Context, resumeText, filename string) (CandidateProfile, error)
}
