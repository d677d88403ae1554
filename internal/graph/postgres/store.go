// Package postgres backs the graph.Store contract with relational joins
// over Postgres. Upserts are single INSERT ... ON CONFLICT statements, so
// the max-merge on skill levels stays atomic under concurrent writers.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"talent-graph/internal/database"
	"talent-graph/internal/graph"
)

type Store struct {
	db     database.DB
	logger *zap.Logger
}

func NewStore(ctx context.Context, db database.DB, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := Migrate(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db, logger: logger}, nil
}

type nodeTable struct {
	name    string
	keyCol  string
	attrCol []string
}

var nodeTables = map[graph.Label]nodeTable{
	graph.LabelJob: {
		name:    "jobs",
		keyCol:  "id",
		attrCol: []string{"title", "description", "company", "location", "created_at"},
	},
	graph.LabelCandidate: {
		name:    "candidates",
		keyCol:  "id",
		attrCol: []string{"name", "email", "phone", "linkedin", "github", "resume_text", "total_years", "created_at"},
	},
	graph.LabelSkill: {
		name:    "skills",
		keyCol:  "name",
		attrCol: []string{"category", "level"},
	},
	graph.LabelExperience: {
		name:    "experiences",
		keyCol:  "id",
		attrCol: []string{"role", "company", "duration", "description", "years_experience"},
	},
}

func (s *Store) UpsertNode(ctx context.Context, label graph.Label, key string, attrs map[string]any, merge graph.MergePolicy) error {
	table, ok := nodeTables[label]
	if !ok {
		return fmt.Errorf("%w: %q", graph.ErrUnknownLabel, label)
	}

	cols := append([]string{table.keyCol}, table.attrCol...)
	args := make([]any, 0, len(cols))
	args = append(args, key)
	placeholders := make([]string, 0, len(cols))
	placeholders = append(placeholders, "$1")
	for i, col := range table.attrCol {
		args = append(args, attrs[col])
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
	}

	updates := make([]string, 0, len(table.attrCol))
	for _, col := range table.attrCol {
		if col == merge.MaxField {
			updates = append(updates, fmt.Sprintf(
				"%[1]s = GREATEST(COALESCE(%[2]s.%[1]s, 0), COALESCE(EXCLUDED.%[1]s, 0))",
				col, table.name))
			continue
		}
		updates = append(updates, fmt.Sprintf("%[1]s = EXCLUDED.%[1]s", col))
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		table.name,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		table.keyCol,
		strings.Join(updates, ", "),
	)

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %s node %q: %w", label, key, err)
	}
	return nil
}

func (s *Store) UpsertEdge(ctx context.Context, label graph.EdgeLabel, fromKey, toKey string, attrs map[string]any) error {
	var query string
	var args []any

	switch label {
	case graph.EdgeHasSkill:
		query = `
			INSERT INTO candidate_skills (candidate_id, skill_name, proficiency, years_experience)
			SELECT c.id, s.name, $3, $4 FROM candidates c, skills s WHERE c.id = $1 AND s.name = $2
			ON CONFLICT (candidate_id, skill_name) DO UPDATE SET
				proficiency = EXCLUDED.proficiency,
				years_experience = EXCLUDED.years_experience`
		args = []any{fromKey, toKey, attrs["proficiency"], attrs["years_experience"]}
	case graph.EdgeRequiresSkill:
		query = `
			INSERT INTO job_skills (job_id, skill_name, importance, min_years, required)
			SELECT j.id, s.name, $3, $4, $5 FROM jobs j, skills s WHERE j.id = $1 AND s.name = $2
			ON CONFLICT (job_id, skill_name) DO UPDATE SET
				importance = EXCLUDED.importance,
				min_years = EXCLUDED.min_years,
				required = EXCLUDED.required`
		args = []any{fromKey, toKey, attrs["importance"], attrs["min_years"], attrs["required"]}
	case graph.EdgeHasExperience:
		// The no-op update keeps re-links counting as an affected row.
		query = `
			INSERT INTO candidate_experiences (candidate_id, experience_id)
			SELECT c.id, e.id FROM candidates c, experiences e WHERE c.id = $1 AND e.id = $2
			ON CONFLICT (candidate_id, experience_id) DO UPDATE SET candidate_id = EXCLUDED.candidate_id`
		args = []any{fromKey, toKey}
	default:
		return fmt.Errorf("%w: %q", graph.ErrUnknownLabel, label)
	}

	affected, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("upsert %s edge %s->%s: %w", label, fromKey, toKey, err)
	}
	if affected == 0 {
		return graph.ErrNodeNotFound
	}
	return nil
}

func (s *Store) MatchedSkills(ctx context.Context, candidateID, jobID string) ([]graph.SkillMatchRow, error) {
	query := `
		SELECT s.name, cs.proficiency, cs.years_experience, js.importance, js.min_years, js.required
		FROM candidate_skills cs
		JOIN job_skills js ON js.skill_name = cs.skill_name
		JOIN skills s ON s.name = cs.skill_name
		WHERE cs.candidate_id = $1 AND js.job_id = $2
		ORDER BY s.name`

	rows, err := s.db.Query(ctx, query, candidateID, jobID)
	if err != nil {
		return nil, fmt.Errorf("matched skills query: %w", err)
	}
	defer rows.Close()

	out := make([]graph.SkillMatchRow, 0)
	for rows.Next() {
		var row graph.SkillMatchRow
		if err := rows.Scan(&row.SkillName, &row.Proficiency, &row.CandidateYears, &row.Importance, &row.RequiredYears, &row.Required); err != nil {
			return nil, fmt.Errorf("matched skills scan: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("matched skills rows: %w", err)
	}
	return out, nil
}

func (s *Store) RequiredSkills(ctx context.Context, jobID string) ([]graph.RequiredSkillRow, error) {
	query := `
		SELECT skill_name, importance, required
		FROM job_skills
		WHERE job_id = $1
		ORDER BY skill_name`

	rows, err := s.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("required skills query: %w", err)
	}
	defer rows.Close()

	out := make([]graph.RequiredSkillRow, 0)
	for rows.Next() {
		var row graph.RequiredSkillRow
		if err := rows.Scan(&row.SkillName, &row.Importance, &row.Required); err != nil {
			return nil, fmt.Errorf("required skills scan: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("required skills rows: %w", err)
	}
	return out, nil
}

func (s *Store) CandidateYears(ctx context.Context, candidateID string) (int, error) {
	rows, err := s.db.Query(ctx, `SELECT total_years FROM candidates WHERE id = $1`, candidateID)
	if err != nil {
		return 0, fmt.Errorf("candidate years query: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return 0, rows.Err()
	}
	var years *int
	if err := rows.Scan(&years); err != nil {
		return 0, fmt.Errorf("candidate years scan: %w", err)
	}
	if years == nil {
		return 0, nil
	}
	return *years, nil
}

func (s *Store) Candidates(ctx context.Context) ([]graph.CandidateRow, error) {
	rows, err := s.db.Query(ctx, `SELECT id, COALESCE(name, ''), COALESCE(email, '') FROM candidates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("candidates query: %w", err)
	}
	defer rows.Close()

	out := make([]graph.CandidateRow, 0)
	for rows.Next() {
		var row graph.CandidateRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Email); err != nil {
			return nil, fmt.Errorf("candidates scan: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("candidates rows: %w", err)
	}
	return out, nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	query := `TRUNCATE jobs, candidates, skills, experiences, candidate_skills, job_skills, candidate_experiences`
	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	s.logger.Info("graph wiped")
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

func (s *Store) Close(_ context.Context) error { return s.db.Close() }
