// Package graph defines the store-agnostic contract the engine depends on.
// Backends map typed nodes and typed weighted edges onto a property graph
// (Neo4j), relational joins (Postgres) or in-memory maps.
package graph

import (
	"context"
	"errors"
)

type Label string

const (
	LabelJob        Label = "Job"
	LabelCandidate  Label = "Candidate"
	LabelSkill      Label = "Skill"
	LabelExperience Label = "Experience"
)

type EdgeLabel string

const (
	EdgeHasSkill      EdgeLabel = "HAS_SKILL"
	EdgeRequiresSkill EdgeLabel = "REQUIRES_SKILL"
	EdgeHasExperience EdgeLabel = "HAS_EXPERIENCE"
)

var (
	// ErrNodeNotFound is returned by UpsertEdge when either endpoint does
	// not exist. Callers treat it as a per-entry skip, not a batch failure.
	ErrNodeNotFound = errors.New("graph: endpoint node not found")

	ErrUnknownLabel = errors.New("graph: unknown label")
)

// MergePolicy controls what a node upsert does when the node already
// exists. The zero value overwrites every supplied attribute. MaxOf keeps
// the named numeric attribute at max(existing, new); the merge must be
// atomic in every backend, never a read-modify-write.
type MergePolicy struct {
	MaxField string
}

var Overwrite = MergePolicy{}

func MaxOf(field string) MergePolicy { return MergePolicy{MaxField: field} }

// SkillMatchRow is one row of the matched-skill join between a candidate's
// HAS_SKILL edges and a job's REQUIRES_SKILL edges. Nil pointers mean the
// attribute was never written; defaulting is the caller's concern.
type SkillMatchRow struct {
	SkillName      string
	Proficiency    *int
	CandidateYears *int
	Importance     *int
	RequiredYears  *int
	Required       *bool
}

// RequiredSkillRow is one REQUIRES_SKILL edge of a job.
type RequiredSkillRow struct {
	SkillName  string
	Importance *int
	Required   *bool
}

// CandidateRow is the slim candidate projection used by the ranker.
type CandidateRow struct {
	ID    string
	Name  string
	Email string
}

// Store is the graph-store contract consumed by ingestion and scoring.
type Store interface {
	// UpsertNode creates or updates the node identified by (label, key).
	// The key attribute (id, or name for skills) is implied by the label
	// and must not appear in attrs.
	UpsertNode(ctx context.Context, label Label, key string, attrs map[string]any, merge MergePolicy) error

	// UpsertEdge creates or updates the single edge of the given label
	// between two existing nodes. Re-linking replaces the whole edge
	// payload with attrs rather than duplicating the edge; MergePolicy
	// applies to nodes only. Returns ErrNodeNotFound when an endpoint is
	// missing.
	UpsertEdge(ctx context.Context, label EdgeLabel, fromKey, toKey string, attrs map[string]any) error

	// MatchedSkills returns the skills held by the candidate and required
	// by the job, with the weights of both edges.
	MatchedSkills(ctx context.Context, candidateID, jobID string) ([]SkillMatchRow, error)

	// RequiredSkills returns every REQUIRES_SKILL edge of the job.
	RequiredSkills(ctx context.Context, jobID string) ([]RequiredSkillRow, error)

	// CandidateYears returns the candidate's total years of experience,
	// zero when absent.
	CandidateYears(ctx context.Context, candidateID string) (int, error)

	// Candidates lists every candidate node.
	Candidates(ctx context.Context) ([]CandidateRow, error)

	// DeleteAll wipes every node and edge. Destructive reset between
	// independent runs; there is no per-entity delete.
	DeleteAll(ctx context.Context) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// KeyProperty names the attribute that identifies nodes of the label.
func KeyProperty(label Label) string {
	if label == LabelSkill {
		return "name"
	}
	return "id"
}

// EndpointLabels returns the from/to node labels an edge label connects.
func EndpointLabels(label EdgeLabel) (Label, Label, error) {
	switch label {
	case EdgeHasSkill:
		return LabelCandidate, LabelSkill, nil
	case EdgeRequiresSkill:
		return LabelJob, LabelSkill, nil
	case EdgeHasExperience:
		return LabelCandidate, LabelExperience, nil
	default:
		return "", "", ErrUnknownLabel
	}
}
