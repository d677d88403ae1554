// Package memory backs the graph.Store contract with mutex-guarded maps.
// It is the store used by the test suite and by the server when no
// external backend is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"talent-graph/internal/graph"
)

type edgeKey struct {
	from string
	to   string
}

type Store struct {
	mu    sync.RWMutex
	nodes map[graph.Label]map[string]map[string]any
	edges map[graph.EdgeLabel]map[edgeKey]map[string]any
}

func NewStore() *Store {
	return &Store{
		nodes: make(map[graph.Label]map[string]map[string]any),
		edges: make(map[graph.EdgeLabel]map[edgeKey]map[string]any),
	}
}

func (s *Store) UpsertNode(_ context.Context, label graph.Label, key string, attrs map[string]any, merge graph.MergePolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byKey := s.nodes[label]
	if byKey == nil {
		byKey = make(map[string]map[string]any)
		s.nodes[label] = byKey
	}
	byKey[key] = graph.MergeAttrs(byKey[key], attrs, merge)
	return nil
}

func (s *Store) UpsertEdge(_ context.Context, label graph.EdgeLabel, fromKey, toKey string, attrs map[string]any) error {
	fromLabel, toLabel, err := graph.EndpointLabels(label)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[fromLabel][fromKey]; !ok {
		return graph.ErrNodeNotFound
	}
	if _, ok := s.nodes[toLabel][toKey]; !ok {
		return graph.ErrNodeNotFound
	}

	byKey := s.edges[label]
	if byKey == nil {
		byKey = make(map[edgeKey]map[string]any)
		s.edges[label] = byKey
	}
	// Re-linking replaces the whole payload, matching what the other
	// backends do.
	replaced := make(map[string]any, len(attrs))
	for k, v := range attrs {
		replaced[k] = v
	}
	byKey[edgeKey{from: fromKey, to: toKey}] = replaced
	return nil
}

func (s *Store) MatchedSkills(_ context.Context, candidateID, jobID string) ([]graph.SkillMatchRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]graph.SkillMatchRow, 0)
	for hk, hasAttrs := range s.edges[graph.EdgeHasSkill] {
		if hk.from != candidateID {
			continue
		}
		reqAttrs, ok := s.edges[graph.EdgeRequiresSkill][edgeKey{from: jobID, to: hk.to}]
		if !ok {
			continue
		}
		rows = append(rows, graph.SkillMatchRow{
			SkillName:      hk.to,
			Proficiency:    graph.IntAttr(hasAttrs, "proficiency"),
			CandidateYears: graph.IntAttr(hasAttrs, "years_experience"),
			Importance:     graph.IntAttr(reqAttrs, "importance"),
			RequiredYears:  graph.IntAttr(reqAttrs, "min_years"),
			Required:       graph.BoolAttr(reqAttrs, "required"),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SkillName < rows[j].SkillName })
	return rows, nil
}

func (s *Store) RequiredSkills(_ context.Context, jobID string) ([]graph.RequiredSkillRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]graph.RequiredSkillRow, 0)
	for rk, attrs := range s.edges[graph.EdgeRequiresSkill] {
		if rk.from != jobID {
			continue
		}
		rows = append(rows, graph.RequiredSkillRow{
			SkillName:  rk.to,
			Importance: graph.IntAttr(attrs, "importance"),
			Required:   graph.BoolAttr(attrs, "required"),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SkillName < rows[j].SkillName })
	return rows, nil
}

func (s *Store) CandidateYears(_ context.Context, candidateID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attrs, ok := s.nodes[graph.LabelCandidate][candidateID]
	if !ok {
		return 0, nil
	}
	if years := graph.IntAttr(attrs, "total_years"); years != nil {
		return *years, nil
	}
	return 0, nil
}

func (s *Store) Candidates(_ context.Context) ([]graph.CandidateRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]graph.CandidateRow, 0, len(s.nodes[graph.LabelCandidate]))
	for id, attrs := range s.nodes[graph.LabelCandidate] {
		rows = append(rows, graph.CandidateRow{
			ID:    id,
			Name:  graph.StringAttr(attrs, "name"),
			Email: graph.StringAttr(attrs, "email"),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (s *Store) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = make(map[graph.Label]map[string]map[string]any)
	s.edges = make(map[graph.EdgeLabel]map[edgeKey]map[string]any)
	return nil
}

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close(_ context.Context) error { return nil }

// EdgeCount reports how many edges of the label exist between the two
// nodes. Test helper for the no-duplicate-edge property.
func (s *Store) EdgeCount(label graph.EdgeLabel, fromKey, toKey string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.edges[label][edgeKey{from: fromKey, to: toKey}]; ok {
		return 1
	}
	return 0
}

// NodeAttrs returns a copy of a node's attributes. Test helper.
func (s *Store) NodeAttrs(label graph.Label, key string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attrs, ok := s.nodes[label][key]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
