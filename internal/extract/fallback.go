package extract

import (
	"context"
	"regexp"
	"strings"

	"talent-graph/internal/domain"
)

// Keyword list scanned by the fallback job extractor.
var fallbackSkillKeywords = []string{
	"python", "java", "javascript", "golang", "react", "node.js", "sql", "aws",
	"docker", "kubernetes", "git", "agile", "scrum", "machine learning",
	"data science", "frontend", "backend", "full stack", "api", "rest",
}

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
)

// FallbackExtractor is a keyword and regex based parser used when no AI
// extractor is configured or the AI call fails. It trades recall for
// never erroring out.
type FallbackExtractor struct{}

func NewFallbackExtractor() *FallbackExtractor {
	return &FallbackExtractor{}
}

func (e *FallbackExtractor) ExtractJob(_ context.Context, description string) (JobPosting, error) {
	lower := strings.ToLower(description)

	var skills []domain.JobSkill
	for _, kw := range fallbackSkillKeywords {
		if strings.Contains(lower, kw) {
			skills = append(skills, domain.JobSkill{
				Name:       kw,
				Category:   domain.CategoryTechnical,
				Importance: 5,
				Required:   true,
			})
		}
	}

	return JobPosting{
		Title:  firstNonEmptyLine(description, "Unknown Position"),
		Skills: skills,
	}, nil
}

func (e *FallbackExtractor) ExtractCandidate(_ context.Context, resumeText, filename string) (CandidateProfile, error) {
	profile := CandidateProfile{
		Name:  strings.TrimSuffix(filename, filepathExt(filename)),
		Email: emailPattern.FindString(resumeText),
		Phone: strings.TrimSpace(phonePattern.FindString(resumeText)),
	}
	if profile.Name == "" {
		profile.Name = "Unknown Candidate"
	}

	lower := strings.ToLower(resumeText)
	for _, kw := range fallbackSkillKeywords {
		if strings.Contains(lower, kw) {
			profile.Skills = append(profile.Skills, domain.CandidateSkill{
				Name:        kw,
				Category:    domain.CategoryTechnical,
				Proficiency: 5,
				Years:       1,
			})
		}
	}
	return profile, nil
}

func firstNonEmptyLine(text, fallback string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return fallback
}

func filepathExt(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx:]
	}
	return ""
}
