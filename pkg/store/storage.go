package store

import (
	"context"
	"time"

	"github.com/trailmap-ai/trailmap/pkg/common"
)

// RunStatus tracks an analysis run through its lifecycle.
type RunStatus string

const (
	RunPending    RunStatus = "pending"
	RunProcessing RunStatus = "processing"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// AnalysisRun is one submitted roadmap analysis: the goal, where the
// narrative lives in object storage, the current status and, once the worker
// finishes, the resulting roadmap document.
type AnalysisRun struct {
	ID        string          `json:"id"`
	GoalTitle string          `json:"goal_title"`
	SourceKey string          `json:"source_key"`
	Status    RunStatus       `json:"status"`
	Error     string          `json:"error,omitempty"`
	Result    *common.Roadmap `json:"result,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RoadmapStorage defines the interface for persisting analysis runs and
// their roadmap documents.
type RoadmapStorage interface {
	CreateRun(ctx context.Context, run *AnalysisRun) error
	GetRun(ctx context.Context, id string) (*AnalysisRun, error)
	ListRuns(ctx context.Context) ([]AnalysisRun, error)

	// SetRunStatus moves a run to status; errMsg is stored for failed runs
	// and cleared otherwise.
	SetRunStatus(ctx context.Context, id string, status RunStatus, errMsg string) error

	// SaveResult stores the finished roadmap document and marks the run
	// completed.
	SaveResult(ctx context.Context, id string, roadmap *common.Roadmap) error

	DeleteRun(ctx context.Context, id string) error
}
