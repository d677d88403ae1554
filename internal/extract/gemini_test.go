package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"talent-graph/internal/domain"
)

type stubGenerator struct {
	response string
	err      error
}

func (s *stubGenerator) GenerateContent(context.Context, string) (string, error) {
	return s.response, s.err
}

func TestExtractJob_ParsesModelResponse(t *testing.T) {
	gen := &stubGenerator{response: `{
		"title": "Senior Backend Engineer",
		"company": "Acme",
		"location": "Remote",
		"experience_level": "senior",
		"min_years_experience": 5,
		"required_skills": [
			{"name": "Go", "category": "technical", "importance": 9, "min_years": 3, "required": true},
			{"name": "Communication", "category": "soft", "importance": "6", "required": "false"}
		]
	}`}

	posting, err := NewGeminiExtractor(gen, zap.NewNop()).ExtractJob(context.Background(), "jd text")
	require.NoError(t, err)

	assert.Equal(t, "Senior Backend Engineer", posting.Title)
	assert.Equal(t, "Acme", posting.Company)
	assert.Equal(t, 5, posting.MinYears)
	require.Len(t, posting.Skills, 2)
	assert.Equal(t, domain.JobSkill{
		Name: "Go", Category: domain.CategoryTechnical, Importance: 9, MinYears: 3, Required: true,
	}, posting.Skills[0])
	// Quoted numbers and booleans still decode.
	assert.Equal(t, 6, posting.Skills[1].Importance)
	assert.False(t, posting.Skills[1].Required)
}

func TestExtractJob_StripsCodeFences(t *testing.T) {
	gen := &stubGenerator{response: "```json\n{\"title\": \"Data Engineer\", \"required_skills\": []}\n```"}

	posting, err := NewGeminiExtractor(gen, zap.NewNop()).ExtractJob(context.Background(), "jd")
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", posting.Title)
}

func TestExtractJob_FallsBackOnGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}

	posting, err := NewGeminiExtractor(gen, zap.NewNop()).ExtractJob(context.Background(),
		"Looking for a python developer with aws and docker experience")
	require.NoError(t, err)

	names := make([]string, 0, len(posting.Skills))
	for _, s := range posting.Skills {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "python")
	assert.Contains(t, names, "aws")
	assert.Contains(t, names, "docker")
}

func TestExtractJob_FallsBackOnMalformedJSON(t *testing.T) {
	gen := &stubGenerator{response: "Sure! Here are the requirements you asked for."}

	posting, err := NewGeminiExtractor(gen, zap.NewNop()).ExtractJob(context.Background(), "needs sql and react")
	require.NoError(t, err)
	require.Len(t, posting.Skills, 2)
}

func TestExtractCandidate_ParsesModelResponse(t *testing.T) {
	gen := &stubGenerator{response: `{
		"name": "Jane Doe",
		"email": "jane@example.com",
		"phone": "+1 555 0100",
		"github": "github.com/janedoe",
		"total_years_experience": 7,
		"skills": [
			{"name": "Python", "category": "technical", "proficiency": 8, "years_experience": 6},
			{"name": "Hiring", "category": "management", "proficiency": 5}
		],
		"experience": [
			{"role": "Staff Engineer", "company": "Acme", "duration": "2019 - present", "years_experience": 5, "description": "Platform work"}
		]
	}`}

	profile, err := NewGeminiExtractor(gen, zap.NewNop()).ExtractCandidate(context.Background(), "resume", "jane.pdf")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, 7, profile.TotalYears)
	require.Len(t, profile.Skills, 2)
	assert.Equal(t, 8, profile.Skills[0].Proficiency)
	// Unknown categories normalize to general.
	assert.Equal(t, domain.CategoryGeneral, profile.Skills[1].Category)
	require.Len(t, profile.Experience, 1)
	assert.Equal(t, "Staff Engineer", profile.Experience[0].Role)
	assert.Equal(t, 5, profile.Experience[0].Years)
}

func TestExtractCandidate_FallbackFindsEmail(t *testing.T) {
	gen := &stubGenerator{err: errors.New("unavailable")}

	profile, err := NewGeminiExtractor(gen, zap.NewNop()).ExtractCandidate(context.Background(),
		"John Smith\njohn.smith@corp.example\nPython developer, 6 years", "john_smith.txt")
	require.NoError(t, err)

	assert.Equal(t, "john_smith", profile.Name)
	assert.Equal(t, "john.smith@corp.example", profile.Email)
	require.NotEmpty(t, profile.Skills)
	assert.Equal(t, "python", profile.Skills[0].Name)
}
