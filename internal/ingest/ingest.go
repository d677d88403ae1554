// Package ingest writes jobs, candidates, skills and their weighted edges
// into the graph store. Every operation is idempotent under retry: node
// upserts are keyed, skill levels merge as max(old, new) inside the store,
// and re-linking an edge overwrites its payload instead of duplicating it.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"talent-graph/internal/domain"
	"talent-graph/internal/graph"
	"talent-graph/internal/normalize"
)

type Service struct {
	store  graph.Store
	logger *zap.Logger
}

func NewService(store graph.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// UpsertSkills creates or updates one Skill node per entry and returns the
// canonical names that were processed. Entries whose name normalizes to
// empty are skipped and do not count toward the return list. A store
// failure aborts: ingestion errors are surfaced, not retried silently.
func (s *Service) UpsertSkills(ctx context.Context, skills []domain.Skill) ([]string, error) {
	names := make([]string, 0, len(skills))
	for _, skill := range skills {
		name, err := normalize.Name(skill.Name)
		if err != nil {
			s.logger.Warn("skipping skill with empty name", zap.String("raw", skill.Name))
			continue
		}

		category := skill.Category
		if category == "" {
			category = domain.CategoryGeneral
		}
		attrs := map[string]any{
			"category": category,
			"level":    skill.Level,
		}
		if err := s.store.UpsertNode(ctx, graph.LabelSkill, name, attrs, graph.MaxOf("level")); err != nil {
			return names, fmt.Errorf("upsert skill %q: %w", name, err)
		}
		names = append(names, name)
	}
	return names, nil
}

// CreateJob writes the job node. The caller guarantees id uniqueness.
func (s *Service) CreateJob(ctx context.Context, job domain.Job) error {
	if job.ID == "" {
		return errors.New("ingest: job id is required")
	}
	createdAt := job.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	attrs := map[string]any{
		"title":       job.Title,
		"description": job.Description,
		"company":     job.Company,
		"location":    job.Location,
		"created_at":  createdAt.Format(time.RFC3339),
	}
	if err := s.store.UpsertNode(ctx, graph.LabelJob, job.ID, attrs, graph.Overwrite); err != nil {
		return fmt.Errorf("create job %s: %w", job.ID, err)
	}
	s.logger.Info("created job node", zap.String("job_id", job.ID), zap.String("title", job.Title))
	return nil
}

// CreateCandidate writes the candidate node. The stored total-years figure
// is never less than either the stated total or the sum of the candidate's
// experience record years.
func (s *Service) CreateCandidate(ctx context.Context, cand domain.Candidate) error {
	if cand.ID == "" {
		return errors.New("ingest: candidate id is required")
	}
	createdAt := cand.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	attrs := map[string]any{
		"name":        cand.Name,
		"email":       cand.Email,
		"phone":       cand.Phone,
		"linkedin":    cand.LinkedIn,
		"github":      cand.GitHub,
		"resume_text": cand.ResumeText,
		"total_years": cand.TotalExperienceYears(),
		"created_at":  createdAt.Format(time.RFC3339),
	}
	if err := s.store.UpsertNode(ctx, graph.LabelCandidate, cand.ID, attrs, graph.Overwrite); err != nil {
		return fmt.Errorf("create candidate %s: %w", cand.ID, err)
	}
	s.logger.Info("created candidate node", zap.String("candidate_id", cand.ID))
	return nil
}

// LinkCandidateSkills writes one HAS_SKILL edge per entry. Skills must have
// been upserted first; an entry whose name does not resolve to a skill node
// is logged and skipped while the batch continues.
func (s *Service) LinkCandidateSkills(ctx context.Context, candidateID string, skills []domain.CandidateSkill) error {
	linked := 0
	for _, skill := range skills {
		name, err := normalize.Name(skill.Name)
		if err != nil {
			s.logger.Warn("skipping candidate skill with empty name", zap.String("candidate_id", candidateID))
			continue
		}

		attrs := map[string]any{
			"proficiency":      clampInt(skill.Proficiency, 1, 10),
			"years_experience": maxInt(skill.Years, 0),
		}
		err = s.store.UpsertEdge(ctx, graph.EdgeHasSkill, candidateID, name, attrs)
		if errors.Is(err, graph.ErrNodeNotFound) {
			s.logger.Warn("candidate skill does not resolve to a node",
				zap.String("candidate_id", candidateID), zap.String("skill", name))
			continue
		}
		if err != nil {
			return fmt.Errorf("link candidate %s to skill %q: %w", candidateID, name, err)
		}
		linked++
	}
	s.logger.Info("linked candidate skills", zap.String("candidate_id", candidateID), zap.Int("count", linked))
	return nil
}

// LinkJobRequiredSkills writes one REQUIRES_SKILL edge per entry with the
// same skip-and-continue policy as LinkCandidateSkills.
func (s *Service) LinkJobRequiredSkills(ctx context.Context, jobID string, skills []domain.JobSkill) error {
	linked := 0
	for _, skill := range skills {
		name, err := normalize.Name(skill.Name)
		if err != nil {
			s.logger.Warn("skipping required skill with empty name", zap.String("job_id", jobID))
			continue
		}

		attrs := map[string]any{
			"importance": clampInt(skill.Importance, 1, 10),
			"min_years":  maxInt(skill.MinYears, 0),
			"required":   skill.Required,
		}
		err = s.store.UpsertEdge(ctx, graph.EdgeRequiresSkill, jobID, name, attrs)
		if errors.Is(err, graph.ErrNodeNotFound) {
			s.logger.Warn("required skill does not resolve to a node",
				zap.String("job_id", jobID), zap.String("skill", name))
			continue
		}
		if err != nil {
			return fmt.Errorf("link job %s to skill %q: %w", jobID, name, err)
		}
		linked++
	}
	s.logger.Info("linked job required skills", zap.String("job_id", jobID), zap.Int("count", linked))
	return nil
}

// CreateExperienceRecords writes one Experience node and one HAS_EXPERIENCE
// edge per entry, numbering ids from 0. A failure on one entry is logged
// and does not abort the remaining entries. Returns the created ids.
func (s *Service) CreateExperienceRecords(ctx context.Context, candidateID string, experiences []domain.ExperienceRecord) ([]string, error) {
	created := make([]string, 0, len(experiences))
	var firstErr error
	for i, exp := range experiences {
		expID := fmt.Sprintf("%s_exp_%d", candidateID, i)

		years := exp.Years
		if years <= 0 {
			years = 1
		}
		attrs := map[string]any{
			"role":             exp.Role,
			"company":          exp.Company,
			"duration":         exp.Duration,
			"description":      exp.Description,
			"years_experience": years,
		}
		if err := s.store.UpsertNode(ctx, graph.LabelExperience, expID, attrs, graph.Overwrite); err != nil {
			s.logger.Warn("failed to create experience node", zap.String("experience_id", expID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := s.store.UpsertEdge(ctx, graph.EdgeHasExperience, candidateID, expID, nil); err != nil {
			s.logger.Warn("failed to link experience node", zap.String("experience_id", expID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		created = append(created, expID)
	}
	if firstErr != nil {
		return created, fmt.Errorf("create experience records for %s: %w", candidateID, firstErr)
	}
	return created, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}
