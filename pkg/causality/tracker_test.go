package causality

import (
	"testing"

	"github.com/trailmap-ai/trailmap/pkg/common"
)

func trackerMilestones() []common.Milestone {
	return []common.Milestone{
		{ID: "m1", Description: "Learn fundamentals"},
		{ID: "m2", Description: "Build first project"},
		{ID: "m3", Description: "Land internship"},
	}
}

func rel(pre, dep string, kind common.RelationKind, strength, confidence float64) common.Relation {
	return common.Relation{
		PrerequisiteID: pre,
		DependentID:    dep,
		Type:           kind,
		Strength:       strength,
		Confidence:     confidence,
	}
}

func TestTrackerRejectsMalformedRelations(t *testing.T) {
	tests := []struct {
		name string
		rel  common.Relation
	}{
		{name: "unknown prerequisite", rel: rel("m9", "m2", common.RelationPrerequisite, 0.8, 0.8)},
		{name: "unknown dependent", rel: rel("m1", "m9", common.RelationPrerequisite, 0.8, 0.8)},
		{name: "unknown kind", rel: rel("m1", "m2", common.RelationKind("causes"), 0.8, 0.8)},
		{name: "strength above one", rel: rel("m1", "m2", common.RelationPrerequisite, 1.2, 0.8)},
		{name: "negative strength", rel: rel("m1", "m2", common.RelationPrerequisite, -0.1, 0.8)},
		{name: "confidence above one", rel: rel("m1", "m2", common.RelationPrerequisite, 0.8, 1.5)},
		{name: "negative confidence", rel: rel("m1", "m2", common.RelationPrerequisite, 0.8, -0.2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := newCoverageTracker(trackerMilestones())
			if tracker.add(tt.rel) {
				t.Errorf("add() accepted malformed relation %+v", tt.rel)
			}
			if tracker.pairsCovered() != 0 {
				t.Errorf("malformed relation counted toward coverage")
			}
			if tracker.relationCount() != 0 {
				t.Errorf("malformed relation was stored")
			}
		})
	}
}

func TestTrackerHigherConfidenceWins(t *testing.T) {
	lower := rel("m1", "m2", common.RelationSupports, 0.4, 0.5)
	lower.Reasoning = "weaker judgment"
	higher := rel("m1", "m2", common.RelationPrerequisite, 0.9, 0.8)
	higher.Reasoning = "stronger judgment"

	orders := []struct {
		name  string
		first common.Relation
		then  common.Relation
	}{
		{name: "low then high", first: lower, then: higher},
		{name: "high then low", first: higher, then: lower},
	}

	for _, tt := range orders {
		t.Run(tt.name, func(t *testing.T) {
			tracker := newCoverageTracker(trackerMilestones())
			tracker.add(tt.first)
			tracker.add(tt.then)

			got := tracker.list()
			if len(got) != 1 {
				t.Fatalf("got %d relations, want 1", len(got))
			}
			if got[0].Confidence != higher.Confidence || got[0].Reasoning != higher.Reasoning {
				t.Errorf("kept %+v, want the higher-confidence relation", got[0])
			}
			// Whole-record replacement, not a field merge.
			if got[0].Type != common.RelationPrerequisite || got[0].Strength != 0.9 {
				t.Errorf("replacement was partial: %+v", got[0])
			}
		})
	}
}

func TestTrackerEqualConfidenceKeepsFirst(t *testing.T) {
	tracker := newCoverageTracker(trackerMilestones())
	first := rel("m1", "m2", common.RelationPrerequisite, 0.9, 0.7)
	second := rel("m1", "m2", common.RelationSupports, 0.2, 0.7)

	tracker.add(first)
	if tracker.add(second) {
		t.Errorf("equal-confidence relation replaced the stored one")
	}

	got := tracker.list()
	if got[0].Type != common.RelationPrerequisite {
		t.Errorf("stored relation changed: %+v", got[0])
	}
}

func TestTrackerCoverageCountsPairsNotRelations(t *testing.T) {
	tracker := newCoverageTracker(trackerMilestones())

	tracker.add(rel("m1", "m2", common.RelationPrerequisite, 0.8, 0.6))
	tracker.add(rel("m1", "m2", common.RelationPrerequisite, 0.8, 0.9))
	tracker.add(rel("m2", "m1", common.RelationSupports, 0.3, 0.5))

	if got := tracker.pairsCovered(); got != 2 {
		t.Errorf("pairsCovered() = %d, want 2", got)
	}
	if got := tracker.relationCount(); got != 2 {
		t.Errorf("relationCount() = %d, want 2", got)
	}
}

func TestTrackerListPreservesInsertionOrder(t *testing.T) {
	tracker := newCoverageTracker(trackerMilestones())

	tracker.add(rel("m2", "m3", common.RelationEnables, 0.5, 0.5))
	tracker.add(rel("m1", "m2", common.RelationPrerequisite, 0.8, 0.6))
	// Replacement must not move the pair to the back of the list.
	tracker.add(rel("m2", "m3", common.RelationPrerequisite, 0.9, 0.9))

	got := tracker.list()
	if len(got) != 2 {
		t.Fatalf("got %d relations, want 2", len(got))
	}
	if got[0].PrerequisiteID != "m2" || got[0].DependentID != "m3" {
		t.Errorf("first relation is %s -> %s, want m2 -> m3", got[0].PrerequisiteID, got[0].DependentID)
	}
	if got[0].Type != common.RelationPrerequisite {
		t.Errorf("replacement did not take effect in place: %+v", got[0])
	}
	if got[1].PrerequisiteID != "m1" {
		t.Errorf("second relation is %s -> %s, want m1 -> m2", got[1].PrerequisiteID, got[1].DependentID)
	}
}

func TestTrackerAcceptsSelfLoop(t *testing.T) {
	tracker := newCoverageTracker(trackerMilestones())
	if !tracker.add(rel("m1", "m1", common.RelationMutualReinforcement, 0.5, 0.5)) {
		t.Errorf("self-referential relation was rejected")
	}
}
