package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"talent-graph/internal/docparse"
	"talent-graph/internal/domain"
	"talent-graph/internal/extract"
	"talent-graph/internal/graph"
	"talent-graph/internal/ingest"
	"talent-graph/internal/usecase"
)

const (
	defaultWorkers  = 4
	defaultTopN     = 20
	defaultMaxFiles = 50
)

// ResumeFile is one uploaded resume.
type ResumeFile struct {
	Filename string
	Content  []byte
}

// FileError reports a resume that could not be processed.
type FileError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// JobInfo summarizes the extracted job in the analysis report.
type JobInfo struct {
	Title               string `json:"title"`
	TotalRequiredSkills int    `json:"total_required_skills"`
	ExperienceLevel     string `json:"experience_level"`
}

// AnalysisReport is the end-to-end result of one analysis run.
type AnalysisReport struct {
	JobID                 string                   `json:"job_id"`
	JobInfo               JobInfo                  `json:"job_info"`
	TotalResumes          int                      `json:"total_resumes"`
	SuccessfullyProcessed int                      `json:"successfully_processed"`
	ProcessingErrors      []FileError              `json:"processing_errors"`
	RankedCandidates      []domain.RankedCandidate `json:"ranked_candidates"`
}

// RankInvalidator drops cached rankings before a run rebuilds the graph.
type RankInvalidator interface {
	InvalidateAll(ctx context.Context)
}

// Options tune an Analyzer. Zero values fall back to the defaults.
type Options struct {
	Workers  int
	TopN     int
	MaxFiles int
	RateRPS  int
}

// Analyzer runs the full analysis: rebuild the graph from one job
// description and a batch of resumes, then rank every candidate.
type Analyzer struct {
	store     graph.Store
	parser    docparse.Parser
	extractor extract.Extractor
	ingestor  *ingest.Service
	ranker    *usecase.Rank
	cache     RankInvalidator
	opts      Options
	logger    *zap.Logger
}

func NewAnalyzer(
	store graph.Store,
	parser docparse.Parser,
	extractor extract.Extractor,
	ingestor *ingest.Service,
	ranker *usecase.Rank,
	cache RankInvalidator,
	opts Options,
	logger *zap.Logger,
) *Analyzer {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.TopN <= 0 {
		opts.TopN = defaultTopN
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = defaultMaxFiles
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		store:     store,
		parser:    parser,
		extractor: extractor,
		ingestor:  ingestor,
		ranker:    ranker,
		cache:     cache,
		opts:      opts,
		logger:    logger,
	}
}

// MaxFiles is the per-request resume limit enforced by the handler.
func (a *Analyzer) MaxFiles() int {
	return a.opts.MaxFiles
}

// Analyze wipes the graph, ingests the job and all resumes, and returns
// the ranked top candidates. Per-resume failures are collected, not
// fatal; only graph-wide failures abort the run.
func (a *Analyzer) Analyze(ctx context.Context, jobDescription string, files []ResumeFile) (*AnalysisReport, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("job description must not be empty")
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("at least one resume is required")
	}
	if len(files) > a.opts.MaxFiles {
		return nil, fmt.Errorf("too many resumes: %d exceeds the limit of %d", len(files), a.opts.MaxFiles)
	}

	// Each run scores one job against one batch, so the previous graph
	// and any cached rankings are discarded first.
	if err := a.store.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear graph: %w", err)
	}
	if a.cache != nil {
		a.cache.InvalidateAll(ctx)
	}

	jobID := "job_" + shortID()
	a.logger.Info("starting analysis",
		zap.String("job_id", jobID),
		zap.Int("resumes", len(files)))

	posting, err := a.extractor.ExtractJob(ctx, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("extract job requirements: %w", err)
	}

	if err := a.ingestor.CreateJob(ctx, domain.Job{
		ID:          jobID,
		Title:       posting.Title,
		Description: jobDescription,
		Company:     posting.Company,
		Location:    posting.Location,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if len(posting.Skills) > 0 {
		skills := make([]domain.Skill, 0, len(posting.Skills))
		for _, s := range posting.Skills {
			skills = append(skills, domain.Skill{Name: s.Name, Category: s.Category})
		}
		if _, err := a.ingestor.UpsertSkills(ctx, skills); err != nil {
			return nil, fmt.Errorf("upsert job skills: %w", err)
		}
		if err := a.ingestor.LinkJobRequiredSkills(ctx, jobID, posting.Skills); err != nil {
			return nil, fmt.Errorf("link job requirements: %w", err)
		}
	}

	report := &AnalysisReport{
		JobID: jobID,
		JobInfo: JobInfo{
			Title:               posting.Title,
			TotalRequiredSkills: len(posting.Skills),
			ExperienceLevel:     posting.ExperienceLevel,
		},
		TotalResumes:     len(files),
		ProcessingErrors: []FileError{},
	}

	pool := NewWorkerPool(a.opts.Workers, len(files))
	if a.opts.RateRPS > 0 {
		pool.SetRateLimit(a.opts.RateRPS)
	}
	results := pool.Run(ctx)
	for i, file := range files {
		candidateID := fmt.Sprintf("candidate_%s_%d", shortID(), i)
		pool.Submit(file.Filename, func(ctx context.Context) error {
			return a.processResume(ctx, candidateID, file)
		})
	}
	pool.Close()

	for res := range results {
		if res.Err != nil {
			a.logger.Warn("resume processing failed",
				zap.String("filename", res.Filename),
				zap.Error(res.Err))
			report.ProcessingErrors = append(report.ProcessingErrors, FileError{
				Filename: res.Filename,
				Error:    res.Err.Error(),
			})
			continue
		}
		report.SuccessfullyProcessed++
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranked, err := a.ranker.RankCandidates(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}
	if len(ranked) > a.opts.TopN {
		ranked = ranked[:a.opts.TopN]
	}
	report.RankedCandidates = ranked

	a.logger.Info("analysis completed",
		zap.String("job_id", jobID),
		zap.Int("processed", report.SuccessfullyProcessed),
		zap.Int("failed", len(report.ProcessingErrors)))
	return report, nil
}

func (a *Analyzer) processResume(ctx context.Context, candidateID string, file ResumeFile) error {
	text, err := a.parser.Parse(file.Filename, file.Content)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if text == "" {
		return fmt.Errorf("no text extracted from %q", file.Filename)
	}

	profile, err := a.extractor.ExtractCandidate(ctx, text, file.Filename)
	if err != nil {
		return fmt.Errorf("extract profile: %w", err)
	}

	if err := a.ingestor.CreateCandidate(ctx, domain.Candidate{
		ID:         candidateID,
		Name:       profile.Name,
		Email:      profile.Email,
		Phone:      profile.Phone,
		LinkedIn:   profile.LinkedIn,
		GitHub:     profile.GitHub,
		ResumeText: text,
		TotalYears: profile.TotalYears,
		Experience: profile.Experience,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("create candidate: %w", err)
	}

	if len(profile.Skills) > 0 {
		skills := make([]domain.Skill, 0, len(profile.Skills))
		for _, s := range profile.Skills {
			skills = append(skills, domain.Skill{Name: s.Name, Category: s.Category, Level: s.Proficiency})
		}
		if _, err := a.ingestor.UpsertSkills(ctx, skills); err != nil {
			return fmt.Errorf("upsert candidate skills: %w", err)
		}
		if err := a.ingestor.LinkCandidateSkills(ctx, candidateID, profile.Skills); err != nil {
			return fmt.Errorf("link candidate skills: %w", err)
		}
	}

	if len(profile.Experience) > 0 {
		if _, err := a.ingestor.CreateExperienceRecords(ctx, candidateID, profile.Experience); err != nil {
			return fmt.Errorf("create experience records: %w", err)
		}
	}
	return nil
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
