package roadmap

import (
	"context"
	"fmt"

	"github.com/trailmap-ai/trailmap/pkg/ai"
	"github.com/trailmap-ai/trailmap/pkg/causality"
	"github.com/trailmap-ai/trailmap/pkg/common"
	"github.com/trailmap-ai/trailmap/pkg/logger"
)

// Pipeline turns a goal title and a narrative text into a complete roadmap
// document: classify the journey, extract and normalize milestones, analyze
// their dependency network, then order and score them.
//
// A Pipeline should be created using NewPipeline and can be reused across
// runs; per-run state lives in the call.
type Pipeline struct {
	client    ai.RoadmapAIClient
	causality *causality.CausalityClient
	analyzer  causality.GroupAnalyzer

	chunkTokens        int
	iterativeThreshold int
	maxRetries         int
}

// NewPipelineParams defines the configuration for creating a new Pipeline.
//
// Client is the chat model used for classification, extraction and
// anonymization. Causality drives the iterative dependency analysis and
// Analyzer judges individual groups; when Analyzer is nil an LLM-backed one
// is built on Client. ChunkTokens bounds the narrative tokens per extraction
// request. IterativeThreshold is the milestone count above which the
// iterative analysis replaces the single full-set request.
type NewPipelineParams struct {
	Client             ai.RoadmapAIClient
	Causality          *causality.CausalityClient
	Analyzer           causality.GroupAnalyzer
	ChunkTokens        int
	IterativeThreshold int
	MaxRetries         int
}

// NewPipeline creates and returns a Pipeline configured with the provided
// parameters, applying defaults for zero values.
func NewPipeline(params NewPipelineParams) *Pipeline {
	chunkTokens := params.ChunkTokens
	if chunkTokens <= 0 {
		chunkTokens = 6000
	}
	threshold := params.IterativeThreshold
	if threshold <= 0 {
		threshold = 15
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	client := params.Causality
	if client == nil {
		client = causality.NewCausalityClient(causality.NewCausalityClientParams{})
	}
	analyzer := params.Analyzer
	if analyzer == nil {
		analyzer = causality.NewLLMGroupAnalyzer(params.Client, maxRetries)
	}

	return &Pipeline{
		client:             params.Client,
		causality:          client,
		analyzer:           analyzer,
		chunkTokens:        chunkTokens,
		iterativeThreshold: threshold,
		maxRetries:         maxRetries,
	}
}

// Run executes the full pipeline for one narrative and returns the assembled
// roadmap document. Extraction failures abort the run; classification,
// anonymization and single-group dependency failures degrade with a warning
// so a partial narrative still yields a roadmap.
func (p *Pipeline) Run(ctx context.Context, rawTitle, text string) (*common.Roadmap, error) {
	goalTitle := CleanGoalTitle(rawTitle)
	logger.Info("[Roadmap] Starting pipeline", "goal", goalTitle)

	classification := p.classifyRoadmapType(ctx, goalTitle, text)
	logger.Info("[Roadmap] Narrative classified",
		"type", classification.PrimaryType,
		"confidence", classification.Confidence,
	)

	milestones, err := p.extractMilestones(ctx, goalTitle, text)
	if err != nil {
		return nil, fmt.Errorf("failed to extract milestones: %w", err)
	}
	if len(milestones) == 0 {
		return nil, fmt.Errorf("no milestones found in narrative")
	}

	milestones = p.anonymizeMilestones(ctx, goalTitle, milestones)
	milestones = p.classifyMilestones(ctx, goalTitle, milestones)

	analysis, err := p.analyzeDependencies(ctx, goalTitle, milestones)
	if err != nil {
		return nil, err
	}

	milestones = orderMilestones(milestones, analysis.Dependencies)
	milestones = scoreMilestones(milestones, analysis.Dependencies)

	roadmap := assembleRoadmap(goalTitle, milestones, analysis, classification)
	logger.Info("[Roadmap] Pipeline complete",
		"milestones", len(roadmap.Milestones),
		"dependencies", len(roadmap.Dependencies),
	)
	return roadmap, nil
}

// analyzeDependencies picks the analysis strategy by milestone count. Small
// sets fit into one request; larger sets go through the sampled iterative
// loop for coverage. A failed single request degrades to an empty network
// instead of failing the run.
func (p *Pipeline) analyzeDependencies(ctx context.Context, goalTitle string, milestones []common.Milestone) (*common.DependencyAnalysis, error) {
	if len(milestones) > p.iterativeThreshold {
		logger.Info("[Roadmap] Using iterative dependency analysis", "milestones", len(milestones))
		return p.causality.IdentifyDependencies(ctx, goalTitle, milestones, p.analyzer)
	}

	analysis, err := causality.IdentifySingleGroup(ctx, goalTitle, milestones, p.analyzer)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("[Roadmap] Dependency analysis failed, continuing without network", "err", err)
		return causality.IdentifySingleGroup(ctx, goalTitle, milestones, noRelations{})
	}
	return analysis, nil
}

// noRelations is the degraded analyzer used when the model cannot produce a
// usable dependency judgment.
type noRelations struct{}

func (noRelations) AnalyzeGroup(context.Context, string, []common.Milestone) ([]common.Relation, error) {
	return nil, nil
}
