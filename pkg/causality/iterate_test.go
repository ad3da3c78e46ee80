package causality

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/trailmap-ai/trailmap/pkg/common"
)

// stubAnalyzer returns canned relations whenever both endpoints of a canned
// relation appear in the submitted group. It stands in for the model so the
// iterative loop can be exercised without network access.
type stubAnalyzer struct {
	mu        sync.Mutex
	calls     int
	relations []common.Relation
	err       error
}

func (s *stubAnalyzer) AnalyzeGroup(_ context.Context, _ string, group []common.Milestone) ([]common.Relation, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	members := make(map[string]bool, len(group))
	for _, m := range group {
		members[m.ID] = true
	}

	var out []common.Relation
	for _, r := range s.relations {
		if members[r.PrerequisiteID] && members[r.DependentID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubAnalyzer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func pipelineMilestones() []common.Milestone {
	return []common.Milestone{
		{ID: "m1", Description: "Learn fundamentals", ImportanceScore: 9},
		{ID: "m2", Description: "Build first project", ImportanceScore: 7},
		{ID: "m3", Description: "Land first role", ImportanceScore: 5},
	}
}

func TestIdentifyDependenciesEndToEnd(t *testing.T) {
	// A single group per iteration holds every milestone, so the first
	// round already observes both canned relations and the loop stops at
	// the coverage target.
	client := NewCausalityClient(NewCausalityClientParams{
		GroupsPerIteration: 1,
		MaxIterations:      5,
		CoverageThreshold:  0.3,
		Seed:               42,
	})
	analyzer := &stubAnalyzer{
		relations: []common.Relation{
			rel("m1", "m2", common.RelationPrerequisite, 0.9, 0.9),
			rel("m2", "m3", common.RelationPrerequisite, 0.8, 0.8),
		},
	}

	got, err := client.IdentifyDependencies(context.Background(), "Become a software engineer", pipelineMilestones(), analyzer)
	if err != nil {
		t.Fatalf("IdentifyDependencies() error = %v", err)
	}

	if len(got.Dependencies) != 2 {
		t.Fatalf("got %d dependencies, want 2: %+v", len(got.Dependencies), got.Dependencies)
	}
	if got.Dependencies[0].PrerequisiteID != "m1" || got.Dependencies[1].PrerequisiteID != "m2" {
		t.Errorf("dependencies out of order: %+v", got.Dependencies)
	}

	meta := got.Metadata
	if meta == nil {
		t.Fatal("Metadata is nil")
	}
	if meta.TotalIterations != 1 {
		t.Errorf("TotalIterations = %d, want early stop after 1", meta.TotalIterations)
	}
	if meta.TotalPossiblePairs != 6 {
		t.Errorf("TotalPossiblePairs = %d, want 6", meta.TotalPossiblePairs)
	}
	if meta.PairsAnalyzed != 2 {
		t.Errorf("PairsAnalyzed = %d, want 2", meta.PairsAnalyzed)
	}
	if want := 2.0 / 6.0; meta.CoveragePercentage != want {
		t.Errorf("CoveragePercentage = %v, want %v", meta.CoveragePercentage, want)
	}
	if meta.DependenciesFound != 2 {
		t.Errorf("DependenciesFound = %d, want 2", meta.DependenciesFound)
	}

	props := got.NetworkProperties
	if want := []string{"m1"}; !reflect.DeepEqual(props.FoundationalIDs, want) {
		t.Errorf("FoundationalIDs = %v, want %v", props.FoundationalIDs, want)
	}
	if want := []string{"m3"}; !reflect.DeepEqual(props.TerminalIDs, want) {
		t.Errorf("TerminalIDs = %v, want %v", props.TerminalIDs, want)
	}
	if want := []string{"m1", "m2", "m3"}; !reflect.DeepEqual(props.CriticalPath, want) {
		t.Errorf("CriticalPath = %v, want %v", props.CriticalPath, want)
	}
}

func TestIdentifyDependenciesRunsAllIterationsWithoutCoverage(t *testing.T) {
	client := NewCausalityClient(NewCausalityClientParams{
		GroupsPerIteration: 1,
		MaxIterations:      4,
		CoverageThreshold:  0.9,
		Seed:               7,
	})
	analyzer := &stubAnalyzer{}

	got, err := client.IdentifyDependencies(context.Background(), "goal", pipelineMilestones(), analyzer)
	if err != nil {
		t.Fatalf("IdentifyDependencies() error = %v", err)
	}

	if got.Metadata.TotalIterations != 4 {
		t.Errorf("TotalIterations = %d, want the full budget of 4", got.Metadata.TotalIterations)
	}
	if analyzer.callCount() != 4 {
		t.Errorf("analyzer called %d times, want 4", analyzer.callCount())
	}
	if got.Metadata.CoveragePercentage != 0 {
		t.Errorf("CoveragePercentage = %v, want 0", got.Metadata.CoveragePercentage)
	}
}

func TestIdentifyDependenciesToleratesGroupFailures(t *testing.T) {
	client := NewCausalityClient(NewCausalityClientParams{
		GroupsPerIteration: 2,
		MaxIterations:      2,
		CoverageThreshold:  0.9,
		Seed:               11,
	})
	analyzer := &stubAnalyzer{err: errors.New("model unavailable")}

	got, err := client.IdentifyDependencies(context.Background(), "goal", pipelineMilestones(), analyzer)
	if err != nil {
		t.Fatalf("group failures must not fail the run, got %v", err)
	}
	if len(got.Dependencies) != 0 {
		t.Errorf("got %d dependencies from a failing analyzer", len(got.Dependencies))
	}
	if got.Metadata.TotalIterations != 2 {
		t.Errorf("TotalIterations = %d, want 2", got.Metadata.TotalIterations)
	}
}

func TestIdentifyDependenciesTrivialSets(t *testing.T) {
	tests := []struct {
		name       string
		milestones []common.Milestone
	}{
		{name: "empty set", milestones: nil},
		{name: "single milestone", milestones: []common.Milestone{{ID: "m1", Description: "only step"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewCausalityClient(NewCausalityClientParams{Seed: 1})
			analyzer := &stubAnalyzer{}

			got, err := client.IdentifyDependencies(context.Background(), "goal", tt.milestones, analyzer)
			if err != nil {
				t.Fatalf("IdentifyDependencies() error = %v", err)
			}
			if analyzer.callCount() != 0 {
				t.Errorf("analyzer called %d times for a trivial set", analyzer.callCount())
			}
			if len(got.Dependencies) != 0 {
				t.Errorf("got %d dependencies, want 0", len(got.Dependencies))
			}
			if got.Metadata.TotalIterations != 0 {
				t.Errorf("TotalIterations = %d, want 0", got.Metadata.TotalIterations)
			}
			if got.Metadata.CoveragePercentage != 1.0 {
				t.Errorf("CoveragePercentage = %v, want 1.0", got.Metadata.CoveragePercentage)
			}
		})
	}
}

// leakingAnalyzer misbehaves on purpose: whenever the submitted group is
// missing one of m1/m2 it still returns a judgment between them. Every
// relation it emits therefore references an id outside the group it was
// asked about.
type leakingAnalyzer struct{}

func (l *leakingAnalyzer) AnalyzeGroup(_ context.Context, _ string, group []common.Milestone) ([]common.Relation, error) {
	members := make(map[string]bool, len(group))
	for _, m := range group {
		members[m.ID] = true
	}
	if members["m1"] && members["m2"] {
		return nil, nil
	}
	return []common.Relation{rel("m1", "m2", common.RelationPrerequisite, 0.9, 0.9)}, nil
}

func TestIdentifyDependenciesDiscardsRelationsOutsideGroup(t *testing.T) {
	client := NewCausalityClient(NewCausalityClientParams{
		GroupsPerIteration: 2,
		MaxIterations:      3,
		CoverageThreshold:  0.9,
		Seed:               7,
	})

	milestones := []common.Milestone{
		{ID: "m1", Description: "Learn fundamentals", ImportanceScore: 9},
		{ID: "m2", Description: "Build first project", ImportanceScore: 7},
		{ID: "m3", Description: "Publish portfolio", ImportanceScore: 6},
		{ID: "m4", Description: "Land first role", ImportanceScore: 5},
	}

	got, err := client.IdentifyDependencies(context.Background(), "goal", milestones, &leakingAnalyzer{})
	if err != nil {
		t.Fatalf("IdentifyDependencies() error = %v", err)
	}

	// m1 and m2 are run milestones, so the leaked judgments pass the
	// tracker's id check. They still must not be merged or gain coverage.
	if len(got.Dependencies) != 0 {
		t.Errorf("got %d dependencies from leaked judgments: %#v", len(got.Dependencies), got.Dependencies)
	}
	if got.Metadata.PairsAnalyzed != 0 {
		t.Errorf("PairsAnalyzed = %d, want 0", got.Metadata.PairsAnalyzed)
	}
	if got.Metadata.TotalIterations != 3 {
		t.Errorf("TotalIterations = %d, want 3", got.Metadata.TotalIterations)
	}
}

func TestIdentifyDependenciesCancelledContext(t *testing.T) {
	client := NewCausalityClient(NewCausalityClientParams{
		GroupsPerIteration: 2,
		MaxIterations:      3,
		Seed:               5,
	})
	analyzer := &stubAnalyzer{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.IdentifyDependencies(ctx, "goal", pipelineMilestones(), analyzer)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("IdentifyDependencies() error = %v, want context.Canceled", err)
	}
}
