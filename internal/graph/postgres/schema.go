package postgres

import (
	"context"
	"fmt"

	"talent-graph/internal/database"
)

// One table per node label and per edge label; the pattern queries of the
// engine become plain joins over them.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id          TEXT PRIMARY KEY,
		title       TEXT,
		description TEXT,
		company     TEXT,
		location    TEXT,
		created_at  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS candidates (
		id          TEXT PRIMARY KEY,
		name        TEXT,
		email       TEXT,
		phone       TEXT,
		linkedin    TEXT,
		github      TEXT,
		resume_text TEXT,
		total_years INT,
		created_at  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		name     TEXT PRIMARY KEY,
		category TEXT,
		level    INT
	)`,
	`CREATE TABLE IF NOT EXISTS experiences (
		id               TEXT PRIMARY KEY,
		role             TEXT,
		company          TEXT,
		duration         TEXT,
		description      TEXT,
		years_experience INT
	)`,
	`CREATE TABLE IF NOT EXISTS candidate_skills (
		candidate_id     TEXT NOT NULL,
		skill_name       TEXT NOT NULL,
		proficiency      INT,
		years_experience INT,
		PRIMARY KEY (candidate_id, skill_name)
	)`,
	`CREATE TABLE IF NOT EXISTS job_skills (
		job_id     TEXT NOT NULL,
		skill_name TEXT NOT NULL,
		importance INT,
		min_years  INT,
		required   BOOLEAN,
		PRIMARY KEY (job_id, skill_name)
	)`,
	`CREATE TABLE IF NOT EXISTS candidate_experiences (
		candidate_id  TEXT NOT NULL,
		experience_id TEXT NOT NULL,
		PRIMARY KEY (candidate_id, experience_id)
	)`,
}

// Migrate creates the schema when missing. Statements are idempotent so
// running it on every startup is safe.
func Migrate(ctx context.Context, db database.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
