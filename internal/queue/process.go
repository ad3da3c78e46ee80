package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trailmap-ai/trailmap/internal/storage"
	"github.com/trailmap-ai/trailmap/internal/util"
	"github.com/trailmap-ai/trailmap/pkg/ai"
	"github.com/trailmap-ai/trailmap/pkg/causality"
	"github.com/trailmap-ai/trailmap/pkg/common"
	"github.com/trailmap-ai/trailmap/pkg/logger"
	"github.com/trailmap-ai/trailmap/pkg/roadmap"
	"github.com/trailmap-ai/trailmap/pkg/store"
	storepgx "github.com/trailmap-ai/trailmap/pkg/store/pgx"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyzeMsg is the payload published to the analyze queue.
type AnalyzeMsg struct {
	RoadmapID string `json:"roadmap_id"`
}

// ProcessAnalyzeMessage executes one analysis run: load the run row, fetch
// the narrative from object storage, run the roadmap pipeline and persist
// the resulting document. A returned error sends the message into the
// retry/DLQ flow.
func ProcessAnalyzeMessage(
	ctx context.Context,
	s3Client *s3.Client,
	aiClient ai.RoadmapAIClient,
	conn *pgxpool.Pool,
	msgBody string,
) error {
	var msg AnalyzeMsg
	if err := json.Unmarshal([]byte(msgBody), &msg); err != nil {
		return fmt.Errorf("failed to parse analyze message: %w", err)
	}
	if msg.RoadmapID == "" {
		return fmt.Errorf("analyze message missing roadmap_id")
	}

	db := storepgx.NewRoadmapDBStorageWithConnection(conn)

	run, err := db.GetRun(ctx, msg.RoadmapID)
	if err != nil {
		return fmt.Errorf("failed to load analysis run %s: %w", msg.RoadmapID, err)
	}

	if err := db.SetRunStatus(ctx, run.ID, store.RunProcessing, ""); err != nil {
		return fmt.Errorf("failed to mark run processing: %w", err)
	}

	logger.Info("[Queue] Processing analysis run", "id", run.ID, "goal", run.GoalTitle)

	narrative, err := storage.GetNarrative(ctx, s3Client, run.SourceKey)
	if err != nil {
		failRun(ctx, db, run.ID, err)
		return fmt.Errorf("failed to load narrative %s: %w", run.SourceKey, err)
	}

	pipeline := roadmap.NewPipeline(roadmap.NewPipelineParams{
		Client: aiClient,
		Causality: causality.NewCausalityClient(causality.NewCausalityClientParams{
			GroupsPerIteration: util.GetEnvInt("CAUSALITY_GROUPS", 6),
			MaxIterations:      util.GetEnvInt("CAUSALITY_MAX_ITERATIONS", 8),
			CoverageThreshold:  util.GetEnvFloat("CAUSALITY_COVERAGE", 0.85),
			ParallelGroups:     util.GetEnvInt("CAUSALITY_PARALLEL", 1),
		}),
		ChunkTokens:        util.GetEnvInt("PIPELINE_CHUNK_TOKENS", 6000),
		IterativeThreshold: util.GetEnvInt("PIPELINE_ITERATIVE_THRESHOLD", 15),
	})

	doc, err := pipeline.Run(ctx, run.GoalTitle, narrative)
	if err != nil {
		failRun(ctx, db, run.ID, err)
		return fmt.Errorf("pipeline failed for run %s: %w", run.ID, err)
	}

	if err := completeRun(ctx, db, run.ID, doc); err != nil {
		return err
	}

	logger.Info(
		"[Queue] Analysis run complete",
		"id", run.ID,
		"milestones", doc.Metadata.TotalMilestones,
		"dependencies", doc.Metadata.TotalDependencies,
	)
	return nil
}

// completeRun persists the finished document. A failed save also marks the
// run failed; otherwise the row would report processing forever once the
// message exhausts its retries and lands in the DLQ.
func completeRun(ctx context.Context, db store.RoadmapStorage, id string, doc *common.Roadmap) error {
	if err := db.SaveResult(ctx, id, doc); err != nil {
		failRun(ctx, db, id, err)
		return fmt.Errorf("failed to save roadmap for run %s: %w", id, err)
	}
	return nil
}

func failRun(ctx context.Context, db store.RoadmapStorage, id string, cause error) {
	if err := db.SetRunStatus(ctx, id, store.RunFailed, cause.Error()); err != nil {
		logger.Error("[Queue] Failed to mark run failed", "id", id, "err", err)
	}
}
