package roadmap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trailmap-ai/trailmap/internal/util"
	"github.com/trailmap-ai/trailmap/pkg/ai"
	"github.com/trailmap-ai/trailmap/pkg/common"
	"github.com/trailmap-ai/trailmap/pkg/logger"
)

// roadmapClassification is the model's judgment of the overall journey type.
type roadmapClassification struct {
	PrimaryType    string   `json:"primary_roadmap_type" jsonschema_description:"The taxonomy entry that best describes the journey"`
	Confidence     float64  `json:"confidence_score" jsonschema_description:"Confidence in the classification between 0 and 1"`
	SecondaryTypes []string `json:"secondary_types,omitempty" jsonschema_description:"Other relevant taxonomy entries"`
	Reasoning      string   `json:"reasoning,omitempty" jsonschema_description:"Why this classification was chosen"`
}

// classifyRoadmapType classifies the whole narrative against the roadmap
// taxonomy. Classification is advisory metadata, so a failed or off-taxonomy
// reply degrades to the default type instead of failing the run.
func (p *Pipeline) classifyRoadmapType(ctx context.Context, goalTitle, text string) roadmapClassification {
	prompt := fmt.Sprintf(ai.RoadmapTypePrompt, goalTitle, taxonomyList(RoadmapTypes), text, goalTitle)

	classification, err := util.RetryWithContext(ctx, p.maxRetries, func(ctx context.Context) (roadmapClassification, error) {
		var c roadmapClassification
		err := p.client.GenerateCompletionWithFormat(
			ctx,
			"classify_roadmap_type",
			"Classify a career narrative against the roadmap taxonomy.",
			prompt,
			&c,
			ai.WithTemperature(0.1),
		)
		return c, err
	})
	if err != nil {
		logger.Warn("[Roadmap] Roadmap type classification failed, using default", "err", err)
		return roadmapClassification{PrimaryType: DefaultRoadmapType, Confidence: 0.5}
	}

	if !inTaxonomy(RoadmapTypes, classification.PrimaryType) {
		logger.Warn("[Roadmap] Roadmap type outside taxonomy, using default", "got", classification.PrimaryType)
		classification.PrimaryType = DefaultRoadmapType
		classification.Confidence = 0.5
	}
	return classification
}

type extractedMilestones struct {
	Milestones []common.Milestone `json:"milestones" jsonschema_description:"Milestones found in the text"`
}

// extractMilestones pulls goal-relevant milestones out of the narrative. Long
// texts are chunked by token budget and processed chunk by chunk; the merged
// list gets fresh sequential ids, which stay stable for the rest of the run.
func (p *Pipeline) extractMilestones(ctx context.Context, goalTitle, text string) ([]common.Milestone, error) {
	chunks, err := chunkNarrative(text, p.chunkTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk narrative: %w", err)
	}

	var merged []common.Milestone
	for i, chunk := range chunks {
		prompt := fmt.Sprintf(ai.ExtractMilestonesPrompt, goalTitle, chunk, goalTitle)

		extracted, err := util.RetryWithContext(ctx, p.maxRetries, func(ctx context.Context) (extractedMilestones, error) {
			var e extractedMilestones
			err := p.client.GenerateCompletionWithFormat(
				ctx,
				"extract_milestones",
				"Extract goal-relevant milestones from a personal narrative.",
				prompt,
				&e,
				ai.WithTemperature(0.2),
			)
			return e, err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to extract milestones from chunk %d/%d: %w", i+1, len(chunks), err)
		}
		merged = append(merged, extracted.Milestones...)
	}

	for i := range merged {
		merged[i].ID = fmt.Sprintf("m%d", i+1)
		merged[i].OriginalDescription = merged[i].Description
	}

	logger.Info("[Roadmap] Milestones extracted", "chunks", len(chunks), "milestones", len(merged))
	return merged, nil
}

// anonymizeMilestones rewrites each milestone description from narrative to
// imperative form, stripping personal identifiers. A failed rewrite keeps
// the original description.
func (p *Pipeline) anonymizeMilestones(ctx context.Context, goalTitle string, milestones []common.Milestone) []common.Milestone {
	for i := range milestones {
		prompt := fmt.Sprintf(ai.AnonymizePrompt, goalTitle, goalTitle, milestones[i].OriginalDescription)

		rewritten, err := util.RetryWithContext(ctx, p.maxRetries, func(ctx context.Context) (string, error) {
			return p.client.GenerateCompletion(ctx, prompt, ai.WithTemperature(0.3))
		})
		if err != nil {
			logger.Warn("[Roadmap] Anonymization failed, keeping original", "id", milestones[i].ID, "err", err)
			continue
		}

		rewritten = strings.TrimSpace(ai.StripCodeFences(rewritten))
		if rewritten != "" {
			milestones[i].Description = rewritten
		}
	}
	return milestones
}

type classifiedMilestone struct {
	ID         string  `json:"id" jsonschema_description:"Milestone id"`
	Type       string  `json:"milestone_type" jsonschema_description:"Exact taxonomy entry"`
	Confidence float64 `json:"confidence" jsonschema_description:"Confidence between 0 and 1"`
	Reasoning  string  `json:"reasoning,omitempty" jsonschema_description:"Brief explanation"`
}

type classifiedMilestones struct {
	Milestones []classifiedMilestone `json:"classified_milestones" jsonschema_description:"One classification per milestone"`
}

// classifyMilestones assigns each milestone a type from the milestone
// taxonomy. Milestones the reply skips or mislabels fall back to the default
// type.
func (p *Pipeline) classifyMilestones(ctx context.Context, goalTitle string, milestones []common.Milestone) []common.Milestone {
	type record struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	}
	records := make([]record, 0, len(milestones))
	for _, m := range milestones {
		records = append(records, record{ID: m.ID, Description: m.Description})
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		logger.Warn("[Roadmap] Failed to encode milestones for classification", "err", err)
		payload = []byte("[]")
	}

	prompt := fmt.Sprintf(ai.ClassifyMilestonesPrompt, goalTitle, taxonomyList(MilestoneTypes), string(payload))

	classified, err := util.RetryWithContext(ctx, p.maxRetries, func(ctx context.Context) (classifiedMilestones, error) {
		var c classifiedMilestones
		err := p.client.GenerateCompletionWithFormat(
			ctx,
			"classify_milestones",
			"Classify milestones against the milestone taxonomy.",
			prompt,
			&c,
			ai.WithTemperature(0.1),
		)
		return c, err
	})
	if err != nil {
		logger.Warn("[Roadmap] Milestone classification failed, using defaults", "err", err)
	}

	byID := make(map[string]classifiedMilestone, len(classified.Milestones))
	for _, c := range classified.Milestones {
		byID[c.ID] = c
	}

	for i := range milestones {
		c, ok := byID[milestones[i].ID]
		if !ok || !inTaxonomy(MilestoneTypes, c.Type) {
			milestones[i].Type = DefaultMilestoneType
			milestones[i].ClassificationConf = 0.5
			continue
		}
		milestones[i].Type = c.Type
		milestones[i].ClassificationConf = c.Confidence
	}
	return milestones
}
