package causality

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trailmap-ai/trailmap/internal/util"
	"github.com/trailmap-ai/trailmap/pkg/ai"
	"github.com/trailmap-ai/trailmap/pkg/common"
)

// GroupAnalyzer judges the causal relations within one milestone group.
// Every relation it returns must reference only ids from the submitted
// group; implementations backed by a generative model cannot be trusted to
// uphold this, so the caller re-validates on receipt.
type GroupAnalyzer interface {
	AnalyzeGroup(
		ctx context.Context,
		goalTitle string,
		group []common.Milestone,
	) ([]common.Relation, error)
}

// LLMGroupAnalyzer implements GroupAnalyzer by prompting a chat model for
// the relation schema. Replies are parsed tolerantly; relations referencing
// ids outside the submitted group are discarded.
type LLMGroupAnalyzer struct {
	client     ai.RoadmapAIClient
	maxRetries int
}

// NewLLMGroupAnalyzer creates an analyzer on top of the given model client.
// If maxRetries <= 0, it defaults to 3.
func NewLLMGroupAnalyzer(client ai.RoadmapAIClient, maxRetries int) *LLMGroupAnalyzer {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &LLMGroupAnalyzer{
		client:     client,
		maxRetries: maxRetries,
	}
}

// groupMilestone is the trimmed record sent to the model for one group
// member.
type groupMilestone struct {
	ID              string  `json:"id"`
	Description     string  `json:"description"`
	ImportanceScore float64 `json:"importance_score,omitempty"`
}

type analyzeGroupReply struct {
	Dependencies []common.Relation `json:"dependencies" jsonschema_description:"Causal relationships between the provided milestones"`
}

// AnalyzeGroup prompts the model for all causal relations between the group
// members and returns the relations whose endpoints both belong to the
// group.
func (a *LLMGroupAnalyzer) AnalyzeGroup(
	ctx context.Context,
	goalTitle string,
	group []common.Milestone,
) ([]common.Relation, error) {
	records := make([]groupMilestone, 0, len(group))
	members := make(map[string]bool, len(group))
	for _, m := range group {
		records = append(records, groupMilestone{
			ID:              m.ID,
			Description:     m.Description,
			ImportanceScore: m.ImportanceScore,
		})
		members[m.ID] = true
	}

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode group payload: %w", err)
	}

	prompt := fmt.Sprintf(ai.CausalityPrompt, goalTitle, string(payload), goalTitle)

	reply, err := util.RetryWithContext(ctx, a.maxRetries, func(ctx context.Context) (analyzeGroupReply, error) {
		var r analyzeGroupReply
		err := a.client.GenerateCompletionWithFormat(
			ctx,
			"identify_dependencies",
			"Identify causal relationships and dependencies between milestones.",
			prompt,
			&r,
			ai.WithTemperature(0.2),
		)
		return r, err
	})
	if err != nil {
		return nil, err
	}

	relations := make([]common.Relation, 0, len(reply.Dependencies))
	for _, rel := range reply.Dependencies {
		if !members[rel.PrerequisiteID] || !members[rel.DependentID] {
			continue
		}
		relations = append(relations, rel)
	}

	return relations, nil
}
