package causality

import "github.com/trailmap-ai/trailmap/pkg/common"

// relationKey identifies the ordered milestone pair a relation judges.
type relationKey struct {
	prerequisite string
	dependent    string
}

// coverageTracker accumulates relation judgments across groups and rounds.
// For every ordered pair it keeps the highest-confidence relation seen so
// far (whole-record replacement) and remembers that the pair has been
// observed at all, which is what coverage is computed from. A pair stays
// covered even when a later judgment replaces the stored relation.
type coverageTracker struct {
	known     map[string]bool
	relations map[relationKey]common.Relation
	order     []relationKey
	covered   map[relationKey]bool
}

func newCoverageTracker(milestones []common.Milestone) *coverageTracker {
	known := make(map[string]bool, len(milestones))
	for _, m := range milestones {
		known[m.ID] = true
	}
	return &coverageTracker{
		known:     known,
		relations: make(map[relationKey]common.Relation),
		covered:   make(map[relationKey]bool),
	}
}

// add merges one relation into the accumulator. Malformed records (unknown
// ids, unknown kind, strength or confidence outside [0,1]) are dropped and
// do not count toward coverage. Returns true when the relation was stored
// or replaced an earlier one.
func (t *coverageTracker) add(rel common.Relation) bool {
	if !t.known[rel.PrerequisiteID] || !t.known[rel.DependentID] {
		return false
	}
	if !rel.Type.IsValid() {
		return false
	}
	if rel.Strength < 0 || rel.Strength > 1 || rel.Confidence < 0 || rel.Confidence > 1 {
		return false
	}

	key := relationKey{prerequisite: rel.PrerequisiteID, dependent: rel.DependentID}
	t.covered[key] = true

	existing, ok := t.relations[key]
	if !ok {
		t.relations[key] = rel
		t.order = append(t.order, key)
		return true
	}
	if rel.Confidence > existing.Confidence {
		t.relations[key] = rel
		return true
	}
	return false
}

// pairsCovered returns how many distinct ordered pairs have been observed.
func (t *coverageTracker) pairsCovered() int {
	return len(t.covered)
}

// relationCount returns how many relations are currently stored.
func (t *coverageTracker) relationCount() int {
	return len(t.relations)
}

// list returns the accumulated relations in first-observed order, so the
// derived network properties are deterministic for a given run.
func (t *coverageTracker) list() []common.Relation {
	out := make([]common.Relation, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.relations[key])
	}
	return out
}
