package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"talent-graph/internal/domain"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiExtractor parses job descriptions and resumes with Gemini,
// degrading to the keyword fallback when the model call or its JSON
// output fails.
type GeminiExtractor struct {
	generator contentGenerator
	fallback  Extractor
	logger    *zap.Logger
}

func NewGeminiExtractor(generator contentGenerator, logger *zap.Logger) *GeminiExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiExtractor{
		generator: generator,
		fallback:  NewFallbackExtractor(),
		logger:    logger,
	}
}

const jobPrompt = `You are a job description parser. Analyze the job description and output structured JSON only, no commentary and no markdown fences.

Job Description:
%s

Output schema:
{
  "title": "job title",
  "company": "company name if mentioned",
  "location": "location if mentioned",
  "experience_level": "junior/mid/senior/lead",
  "min_years_experience": 0,
  "required_skills": [
    {"name": "skill name", "category": "technical/soft/domain", "importance": 1, "min_years": 0, "required": true}
  ]
}

Rules:
1. Missing information becomes an empty string, 0, or an empty array.
2. Certifications are category "domain".
3. Rate importance 1-10 where 10 is absolutely critical.
4. Set required=true only for skills stated as mandatory or must-have.

Return only valid JSON matching the schema.`

const resumePrompt = `You are a resume parser. Analyze the resume and output structured JSON only, no commentary and no markdown fences.

Resume:
%s

Output schema:
{
  "name": "candidate full name",
  "email": "email address",
  "phone": "phone number",
  "linkedin": "linkedin profile if mentioned",
  "github": "github profile if mentioned",
  "total_years_experience": 0,
  "skills": [
    {"name": "skill name", "category": "technical/soft/domain", "proficiency": 1, "years_experience": 0}
  ],
  "experience": [
    {"role": "job title", "company": "company name", "duration": "duration text", "years_experience": 0, "description": "short description"}
  ]
}

Rules:
1. Missing information becomes an empty string, 0, or an empty array.
2. Rate proficiency 1-10 from years of experience, project complexity, and professional usage.
3. Be thorough with technical skills: languages, frameworks, databases, cloud platforms, tooling, methodologies.

Return only valid JSON matching the schema.`

type jobPayload struct {
	Title           string `json:"title"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	ExperienceLevel string `json:"experience_level"`
	MinYears        flexInt `json:"min_years_experience"`
	RequiredSkills  []struct {
		Name       string   `json:"name"`
		Category   string   `json:"category"`
		Importance flexInt  `json:"importance"`
		MinYears   flexInt  `json:"min_years"`
		Required   flexBool `json:"required"`
	} `json:"required_skills"`
}

type candidatePayload struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	LinkedIn   string  `json:"linkedin"`
	GitHub     string  `json:"github"`
	TotalYears flexInt `json:"total_years_experience"`
	Skills     []struct {
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		Proficiency flexInt `json:"proficiency"`
		Years       flexInt `json:"years_experience"`
	} `json:"skills"`
	Experience []struct {
		Role        string  `json:"role"`
		Company     string  `json:"company"`
		Duration    string  `json:"duration"`
		Years       flexInt `json:"years_experience"`
		Description string  `json:"description"`
	} `json:"experience"`
}

func (e *GeminiExtractor) ExtractJob(ctx context.Context, description string) (JobPosting, error) {
	raw, err := e.generator.GenerateContent(ctx, fmt.Sprintf(jobPrompt, description))
	if err != nil {
		e.logger.Warn("gemini job extraction failed, using fallback", zap.Error(err))
		return e.fallback.ExtractJob(ctx, description)
	}

	var payload jobPayload
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		e.logger.Warn("undecodable gemini job response, using fallback", zap.Error(err))
		return e.fallback.ExtractJob(ctx, description)
	}

	posting := JobPosting{
		Title:           strings.TrimSpace(payload.Title),
		Company:         strings.TrimSpace(payload.Company),
		Location:        strings.TrimSpace(payload.Location),
		ExperienceLevel: strings.TrimSpace(payload.ExperienceLevel),
		MinYears:        int(payload.MinYears),
	}
	if posting.Title == "" {
		posting.Title = "Unknown Position"
	}
	for _, s := range payload.RequiredSkills {
		posting.Skills = append(posting.Skills, domain.JobSkill{
			Name:       s.Name,
			Category:   skillCategory(s.Category),
			Importance: int(s.Importance),
			MinYears:   int(s.MinYears),
			Required:   bool(s.Required),
		})
	}

	e.logger.Info("extracted job requirements",
		zap.String("title", posting.Title),
		zap.Int("required_skills", len(posting.Skills)))
	return posting, nil
}

func (e *GeminiExtractor) ExtractCandidate(ctx context.Context, resumeText, filename string) (CandidateProfile, error) {
	raw, err := e.generator.GenerateContent(ctx, fmt.Sprintf(resumePrompt, resumeText))
	if err != nil {
		e.logger.Warn("gemini resume extraction failed, using fallback",
			zap.String("filename", filename), zap.Error(err))
		return e.fallback.ExtractCandidate(ctx, resumeText, filename)
	}

	var payload candidatePayload
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		e.logger.Warn("undecodable gemini resume response, using fallback",
			zap.String("filename", filename), zap.Error(err))
		return e.fallback.ExtractCandidate(ctx, resumeText, filename)
	}

	profile := CandidateProfile{
		Name:       strings.TrimSpace(payload.Name),
		Email:      strings.TrimSpace(payload.Email),
		Phone:      strings.TrimSpace(payload.Phone),
		LinkedIn:   strings.TrimSpace(payload.LinkedIn),
		GitHub:     strings.TrimSpace(payload.GitHub),
		TotalYears: int(payload.TotalYears),
	}
	if profile.Name == "" {
		profile.Name = "Unknown Candidate"
	}
	for _, s := range payload.Skills {
		profile.Skills = append(profile.Skills, domain.CandidateSkill{
			Name:        s.Name,
			Category:    skillCategory(s.Category),
			Proficiency: int(s.Proficiency),
			Years:       int(s.Years),
		})
	}
	for _, exp := range payload.Experience {
		profile.Experience = append(profile.Experience, domain.ExperienceRecord{
			Role:        exp.Role,
			Company:     exp.Company,
			Duration:    exp.Duration,
			Years:       int(exp.Years),
			Description: exp.Description,
		})
	}

	e.logger.Info("extracted candidate profile",
		zap.String("name", profile.Name),
		zap.Int("skills", len(profile.Skills)))
	return profile, nil
}

func skillCategory(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case domain.CategoryTechnical:
		return domain.CategoryTechnical
	case domain.CategorySoft:
		return domain.CategorySoft
	case domain.CategoryDomain:
		return domain.CategoryDomain
	default:
		return domain.CategoryGeneral
	}
}

// extractJSON strips markdown code fences the model sometimes wraps its
// output in despite the prompt.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}

// flexInt tolerates numbers the model quotes or returns as floats.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(v)
	return nil
}

// flexBool tolerates quoted booleans.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.ToLower(strings.Trim(strings.TrimSpace(string(data)), `"`))
	*f = flexBool(s == "true" || s == "1")
	return nil
}
