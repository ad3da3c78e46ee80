package roadmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/trailmap-ai/trailmap/pkg/ai"
	"github.com/trailmap-ai/trailmap/pkg/causality"
	"github.com/trailmap-ai/trailmap/pkg/common"
)

// mockAIClient serves canned replies keyed by the structured-output name, in
// place of a hosted model.
type mockAIClient struct {
	formatReplies map[string]string
	completion    string
	err           error
}

func (m *mockAIClient) GenerateCompletion(_ context.Context, _ string, _ ...ai.GenerateOption) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.completion, nil
}

func (m *mockAIClient) GenerateCompletionWithFormat(_ context.Context, name, _, _ string, out any, _ ...ai.GenerateOption) error {
	if m.err != nil {
		return m.err
	}
	reply, ok := m.formatReplies[name]
	if !ok {
		return fmt.Errorf("no canned reply for %q", name)
	}
	return json.Unmarshal([]byte(reply), out)
}

func (m *mockAIClient) ResetMetrics()               {}
func (m *mockAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

// countingAnalyzer records how it was invoked and returns canned relations.
type countingAnalyzer struct {
	calls     int
	lastGroup int
	relations []common.Relation
	err       error
}

func (c *countingAnalyzer) AnalyzeGroup(_ context.Context, _ string, group []common.Milestone) ([]common.Relation, error) {
	c.calls++
	c.lastGroup = len(group)
	if c.err != nil {
		return nil, c.err
	}
	return c.relations, nil
}

func manyMilestones(n int) []common.Milestone {
	out := make([]common.Milestone, n)
	for i := range out {
		out[i] = common.Milestone{ID: fmt.Sprintf("m%d", i+1), Description: fmt.Sprintf("step %d", i+1)}
	}
	return out
}

func TestClassifyRoadmapType(t *testing.T) {
	tests := []struct {
		name           string
		client         *mockAIClient
		wantType       string
		wantConfidence float64
	}{
		{
			name: "valid classification",
			client: &mockAIClient{formatReplies: map[string]string{
				"classify_roadmap_type": `{"primary_roadmap_type": "Career Entry", "confidence_score": 0.92, "secondary_types": ["Certification"]}`,
			}},
			wantType:       "Career Entry",
			wantConfidence: 0.92,
		},
		{
			name: "off-taxonomy reply falls back",
			client: &mockAIClient{formatReplies: map[string]string{
				"classify_roadmap_type": `{"primary_roadmap_type": "Becoming Rich", "confidence_score": 0.9}`,
			}},
			wantType:       DefaultRoadmapType,
			wantConfidence: 0.5,
		},
		{
			name:           "model failure falls back",
			client:         &mockAIClient{err: errors.New("model unavailable")},
			wantType:       DefaultRoadmapType,
			wantConfidence: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(NewPipelineParams{Client: tt.client, MaxRetries: 1})
			got := p.classifyRoadmapType(context.Background(), "Become a nurse", "some narrative")
			if got.PrimaryType != tt.wantType {
				t.Errorf("PrimaryType = %q, want %q", got.PrimaryType, tt.wantType)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestClassifyMilestonesAppliesAndDefaults(t *testing.T) {
	client := &mockAIClient{formatReplies: map[string]string{
		"classify_milestones": `{"classified_milestones": [
			{"id": "m1", "milestone_type": "Degree", "confidence": 0.9},
			{"id": "m2", "milestone_type": "Space Travel", "confidence": 0.8}
		]}`,
	}}
	p := NewPipeline(NewPipelineParams{Client: client, MaxRetries: 1})

	milestones := []common.Milestone{
		{ID: "m1", Description: "Finish the bachelor program"},
		{ID: "m2", Description: "Do something unusual"},
		{ID: "m3", Description: "Never mentioned in the reply"},
	}
	got := p.classifyMilestones(context.Background(), "Become a doctor", milestones)

	if got[0].Type != "Degree" || got[0].ClassificationConf != 0.9 {
		t.Errorf("m1 classified as %q (%v), want Degree (0.9)", got[0].Type, got[0].ClassificationConf)
	}
	for _, i := range []int{1, 2} {
		if got[i].Type != DefaultMilestoneType || got[i].ClassificationConf != 0.5 {
			t.Errorf("%s classified as %q (%v), want default", got[i].ID, got[i].Type, got[i].ClassificationConf)
		}
	}
}

func TestAnonymizeMilestones(t *testing.T) {
	t.Run("rewrites description and keeps original", func(t *testing.T) {
		client := &mockAIClient{completion: "Complete a nursing degree"}
		p := NewPipeline(NewPipelineParams{Client: client, MaxRetries: 1})

		milestones := []common.Milestone{{
			ID:                  "m1",
			Description:         "I finished my nursing degree at a local college",
			OriginalDescription: "I finished my nursing degree at a local college",
		}}
		got := p.anonymizeMilestones(context.Background(), "Become a nurse", milestones)

		if got[0].Description != "Complete a nursing degree" {
			t.Errorf("Description = %q, want the rewritten form", got[0].Description)
		}
		if got[0].OriginalDescription != "I finished my nursing degree at a local college" {
			t.Errorf("OriginalDescription lost: %q", got[0].OriginalDescription)
		}
	})

	t.Run("failure keeps original description", func(t *testing.T) {
		client := &mockAIClient{err: errors.New("model unavailable")}
		p := NewPipeline(NewPipelineParams{Client: client, MaxRetries: 1})

		milestones := []common.Milestone{{
			ID:                  "m1",
			Description:         "original text",
			OriginalDescription: "original text",
		}}
		got := p.anonymizeMilestones(context.Background(), "goal", milestones)

		if got[0].Description != "original text" {
			t.Errorf("Description = %q, want the original kept", got[0].Description)
		}
	})
}

func TestAnalyzeDependenciesPicksStrategyBySize(t *testing.T) {
	t.Run("small set uses a single full group", func(t *testing.T) {
		analyzer := &countingAnalyzer{
			relations: []common.Relation{
				{PrerequisiteID: "m1", DependentID: "m2", Type: common.RelationPrerequisite, Strength: 0.8, Confidence: 0.8},
			},
		}
		p := NewPipeline(NewPipelineParams{
			Client:             &mockAIClient{},
			Analyzer:           analyzer,
			IterativeThreshold: 15,
		})

		got, err := p.analyzeDependencies(context.Background(), "goal", manyMilestones(5))
		if err != nil {
			t.Fatalf("analyzeDependencies() error = %v", err)
		}
		if analyzer.calls != 1 {
			t.Errorf("analyzer called %d times, want 1", analyzer.calls)
		}
		if analyzer.lastGroup != 5 {
			t.Errorf("single group had %d milestones, want the full set of 5", analyzer.lastGroup)
		}
		if len(got.Dependencies) != 1 {
			t.Errorf("got %d dependencies, want 1", len(got.Dependencies))
		}
	})

	t.Run("large set uses the iterative analysis", func(t *testing.T) {
		analyzer := &countingAnalyzer{}
		p := NewPipeline(NewPipelineParams{
			Client: &mockAIClient{},
			Causality: causality.NewCausalityClient(causality.NewCausalityClientParams{
				GroupsPerIteration: 4,
				MaxIterations:      2,
				Seed:               3,
			}),
			Analyzer:           analyzer,
			IterativeThreshold: 15,
		})

		_, err := p.analyzeDependencies(context.Background(), "goal", manyMilestones(16))
		if err != nil {
			t.Fatalf("analyzeDependencies() error = %v", err)
		}
		if want := 8; analyzer.calls != want {
			t.Errorf("analyzer called %d times, want %d (groups times iterations)", analyzer.calls, want)
		}
	})

	t.Run("failed single analysis degrades to an empty network", func(t *testing.T) {
		analyzer := &countingAnalyzer{err: errors.New("model unavailable")}
		p := NewPipeline(NewPipelineParams{
			Client:   &mockAIClient{},
			Analyzer: analyzer,
		})

		got, err := p.analyzeDependencies(context.Background(), "goal", manyMilestones(4))
		if err != nil {
			t.Fatalf("analyzeDependencies() error = %v, want degraded result", err)
		}
		if len(got.Dependencies) != 0 {
			t.Errorf("got %d dependencies from a failing analyzer", len(got.Dependencies))
		}
		if got.NetworkProperties.TotalMilestones != 4 {
			t.Errorf("TotalMilestones = %d, want 4", got.NetworkProperties.TotalMilestones)
		}
	})
}

func TestAssembleRoadmap(t *testing.T) {
	milestones := []common.Milestone{
		{ID: "m1", Description: "Earn the degree", Type: "Degree", ImportanceScore: 8.2, OrderPosition: 1},
		{ID: "m2", Description: "Join a study group", Type: "Networking", ImportanceScore: 3.1, OrderPosition: 2},
		{ID: "m3", Description: "Pass the board exam", Type: "Certificate", ImportanceScore: 7.0, OrderPosition: 3},
	}
	analysis := &common.DependencyAnalysis{
		Dependencies: []common.Relation{
			{PrerequisiteID: "m1", DependentID: "m3", Type: common.RelationPrerequisite, Strength: 0.9, Confidence: 0.9},
		},
		NetworkProperties: common.NetworkProperties{TotalRelationships: 1, TotalMilestones: 3},
		Metadata:          &common.AnalysisMetadata{TotalIterations: 1},
	}
	classification := roadmapClassification{
		PrimaryType:    "Career Entry",
		Confidence:     0.9,
		SecondaryTypes: []string{"Certification"},
	}

	got := assembleRoadmap("Become a doctor", milestones, analysis, classification)

	if got.Metadata.GoalTitle != "Become a doctor" || got.Metadata.PrimaryRoadmapType != "Career Entry" {
		t.Errorf("metadata = %+v", got.Metadata)
	}
	if got.Metadata.TotalMilestones != 3 || got.Metadata.TotalDependencies != 1 {
		t.Errorf("counts = %d/%d, want 3/1", got.Metadata.TotalMilestones, got.Metadata.TotalDependencies)
	}
	if got.Metadata.MilestoneTypes["Degree"] != 1 || got.Metadata.MilestoneTypes["Networking"] != 1 {
		t.Errorf("MilestoneTypes = %v", got.Metadata.MilestoneTypes)
	}
	if got.Metadata.ExtractionTimestamp.IsZero() {
		t.Error("ExtractionTimestamp not set")
	}

	// m1 and m3 clear the critical threshold, m2 does not.
	if len(got.Analysis.CriticalMilestones) != 2 || got.Analysis.HighImportanceSteps != 2 {
		t.Errorf("critical milestones = %v", got.Analysis.CriticalMilestones)
	}
	wantComplexity := 1.0 / 3.0
	if got.Analysis.RoadmapComplexity != wantComplexity {
		t.Errorf("RoadmapComplexity = %v, want %v", got.Analysis.RoadmapComplexity, wantComplexity)
	}
	if got.Analysis.TotalSteps != 3 {
		t.Errorf("TotalSteps = %d, want 3", got.Analysis.TotalSteps)
	}
}
