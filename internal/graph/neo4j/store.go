// Package neo4j backs the graph.Store contract with a Neo4j database.
// Upserts are single MERGE statements so the max-merge on skill levels is
// atomic; there is no separate read step to race against.
package neo4j

import (
	"context"
	"fmt"
	"regexp"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"talent-graph/internal/graph"
)

type Config struct {
	URI      string
	User     string
	Password string
}

type Store struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_]+$`)

var indexStatements = []string{
	"CREATE INDEX candidate_id_idx IF NOT EXISTS FOR (c:Candidate) ON (c.id)",
	"CREATE INDEX job_id_idx IF NOT EXISTS FOR (j:Job) ON (j.id)",
	"CREATE INDEX skill_name_idx IF NOT EXISTS FOR (s:Skill) ON (s.name)",
	"CREATE INDEX experience_id_idx IF NOT EXISTS FOR (e:Experience) ON (e.id)",
}

func NewStore(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	s := &Store{driver: driver, logger: logger}
	s.createIndexes(ctx)
	return s, nil
}

func (s *Store) createIndexes(ctx context.Context) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, stmt := range indexStatements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			s.logger.Warn("index creation failed", zap.String("statement", stmt), zap.Error(err))
		}
	}
}

func (s *Store) UpsertNode(ctx context.Context, label graph.Label, key string, attrs map[string]any, merge graph.MergePolicy) error {
	if err := checkIdentifier(string(label)); err != nil {
		return err
	}
	if attrs == nil {
		attrs = map[string]any{}
	}

	keyProp := graph.KeyProperty(label)
	params := map[string]any{"key": key, "attrs": attrs}

	var query string
	maxValue, hasMax := attrs[merge.MaxField]
	if merge.MaxField != "" && hasMax {
		if err := checkIdentifier(merge.MaxField); err != nil {
			return err
		}
		rest := make(map[string]any, len(attrs))
		for k, v := range attrs {
			if k != merge.MaxField {
				rest[k] = v
			}
		}
		params["rest"] = rest
		params["max"] = maxValue
		query = fmt.Sprintf(`
			MERGE (n:%s {%s: $key})
			ON CREATE SET n += $attrs
			ON MATCH SET n += $rest,
				n.%[3]s = CASE WHEN $max > coalesce(n.%[3]s, 0) THEN $max ELSE n.%[3]s END
		`, label, keyProp, merge.MaxField)
	} else {
		query = fmt.Sprintf("MERGE (n:%s {%s: $key}) SET n += $attrs", label, keyProp)
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	if _, err := session.Run(ctx, query, params); err != nil {
		return fmt.Errorf("upsert %s node %q: %w", label, key, err)
	}
	return nil
}

func (s *Store) UpsertEdge(ctx context.Context, label graph.EdgeLabel, fromKey, toKey string, attrs map[string]any) error {
	fromLabel, toLabel, err := graph.EndpointLabels(label)
	if err != nil {
		return err
	}
	if attrs == nil {
		attrs = map[string]any{}
	}

	// SET r = replaces the full payload so a re-link drops stale attrs.
	query := fmt.Sprintf(`
		MATCH (a:%s {%s: $from})
		MATCH (b:%s {%s: $to})
		MERGE (a)-[r:%s]->(b)
		SET r = $attrs
		RETURN 1 AS linked
	`, fromLabel, graph.KeyProperty(fromLabel), toLabel, graph.KeyProperty(toLabel), label)

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]any{"from": fromKey, "to": toKey, "attrs": attrs})
	if err != nil {
		return fmt.Errorf("upsert %s edge %s->%s: %w", label, fromKey, toKey, err)
	}
	if !result.Next(ctx) {
		return graph.ErrNodeNotFound
	}
	return nil
}

func (s *Store) MatchedSkills(ctx context.Context, candidateID, jobID string) ([]graph.SkillMatchRow, error) {
	query := `
		MATCH (c:Candidate {id: $candidateID})-[ch:HAS_SKILL]->(s:Skill)<-[jr:REQUIRES_SKILL]-(j:Job {id: $jobID})
		RETURN
			s.name AS skill,
			ch.proficiency AS candidate_proficiency,
			ch.years_experience AS candidate_years,
			jr.importance AS job_importance,
			jr.min_years AS required_years,
			jr.required AS is_required
		ORDER BY s.name
	`

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]any{"candidateID": candidateID, "jobID": jobID})
	if err != nil {
		return nil, fmt.Errorf("matched skills query: %w", err)
	}

	rows := make([]graph.SkillMatchRow, 0)
	for result.Next(ctx) {
		record := result.Record()
		rows = append(rows, graph.SkillMatchRow{
			SkillName:      recordString(record, "skill"),
			Proficiency:    recordIntPtr(record, "candidate_proficiency"),
			CandidateYears: recordIntPtr(record, "candidate_years"),
			Importance:     recordIntPtr(record, "job_importance"),
			RequiredYears:  recordIntPtr(record, "required_years"),
			Required:       recordBoolPtr(record, "is_required"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("matched skills rows: %w", err)
	}
	return rows, nil
}

func (s *Store) RequiredSkills(ctx context.Context, jobID string) ([]graph.RequiredSkillRow, error) {
	query := `
		MATCH (j:Job {id: $jobID})-[jr:REQUIRES_SKILL]->(s:Skill)
		RETURN s.name AS skill, jr.importance AS importance, jr.required AS is_required
		ORDER BY s.name
	`

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]any{"jobID": jobID})
	if err != nil {
		return nil, fmt.Errorf("required skills query: %w", err)
	}

	rows := make([]graph.RequiredSkillRow, 0)
	for result.Next(ctx) {
		record := result.Record()
		rows = append(rows, graph.RequiredSkillRow{
			SkillName:  recordString(record, "skill"),
			Importance: recordIntPtr(record, "importance"),
			Required:   recordBoolPtr(record, "is_required"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("required skills rows: %w", err)
	}
	return rows, nil
}

func (s *Store) CandidateYears(ctx context.Context, candidateID string) (int, error) {
	query := `MATCH (c:Candidate {id: $candidateID}) RETURN c.total_years AS years`

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]any{"candidateID": candidateID})
	if err != nil {
		return 0, fmt.Errorf("candidate years query: %w", err)
	}
	if result.Next(ctx) {
		if years := recordIntPtr(result.Record(), "years"); years != nil {
			return *years, nil
		}
	}
	if err := result.Err(); err != nil {
		return 0, fmt.Errorf("candidate years row: %w", err)
	}
	return 0, nil
}

func (s *Store) Candidates(ctx context.Context) ([]graph.CandidateRow, error) {
	query := `MATCH (c:Candidate) RETURN c.id AS id, c.name AS name, c.email AS email ORDER BY c.id`

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("candidates query: %w", err)
	}

	rows := make([]graph.CandidateRow, 0)
	for result.Next(ctx) {
		record := result.Record()
		rows = append(rows, graph.CandidateRow{
			ID:    recordString(record, "id"),
			Name:  recordString(record, "name"),
			Email: recordString(record, "email"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("candidates rows: %w", err)
	}
	return rows, nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	if _, err := session.Run(ctx, "MATCH (n) DETACH DELETE n", nil); err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	s.logger.Info("graph wiped")
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func checkIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", graph.ErrUnknownLabel, name)
	}
	return nil
}

func recordString(record *neo4j.Record, key string) string {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func recordIntPtr(record *neo4j.Record, key string) *int {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case int64:
		i := int(n)
		return &i
	case float64:
		i := int(n)
		return &i
	default:
		return nil
	}
}

func recordBoolPtr(record *neo4j.Record, key string) *bool {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}
