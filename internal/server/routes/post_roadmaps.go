package routes

import (
	"encoding/json"
	"net/http"

	"github.com/trailmap-ai/trailmap/internal/queue"
	"github.com/trailmap-ai/trailmap/internal/server/middleware"
	"github.com/trailmap-ai/trailmap/internal/storage"
	"github.com/trailmap-ai/trailmap/pkg/logger"
	"github.com/trailmap-ai/trailmap/pkg/store"
	storepgx "github.com/trailmap-ai/trailmap/pkg/store/pgx"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CreateRoadmapHandler accepts a goal plus a narrative (inline text or an
// existing object key), creates the analysis run and enqueues it for the
// worker.
func CreateRoadmapHandler(c echo.Context) error {
	type createRoadmapBody struct {
		GoalTitle string `json:"goal_title" validate:"required"`
		SourceKey string `json:"source_key" validate:"required_without=Text"`
		Text      string `json:"text" validate:"required_without=SourceKey"`
	}

	type createRoadmapResponse struct {
		Message string `json:"message"`
		ID      string `json:"id,omitempty"`
	}

	data := new(createRoadmapBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createRoadmapResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createRoadmapResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	id, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate run id", "err", err)
		return c.JSON(http.StatusInternalServerError, createRoadmapResponse{
			Message: "Internal server error",
		})
	}

	sourceKey := data.SourceKey
	if sourceKey == "" {
		sourceKey, err = storage.PutNarrative(ctx, app.S3, id, data.Text)
		if err != nil {
			logger.Error("Failed to upload narrative", "err", err)
			return c.JSON(http.StatusInternalServerError, createRoadmapResponse{
				Message: "Internal server error",
			})
		}
	}

	db := storepgx.NewRoadmapDBStorageWithConnection(app.DBConn)
	run := &store.AnalysisRun{
		ID:        id,
		GoalTitle: data.GoalTitle,
		SourceKey: sourceKey,
		Status:    store.RunPending,
	}
	if err := db.CreateRun(ctx, run); err != nil {
		logger.Error("Failed to create analysis run", "err", err)
		return c.JSON(http.StatusInternalServerError, createRoadmapResponse{
			Message: "Internal server error",
		})
	}

	msgBytes, err := json.Marshal(queue.AnalyzeMsg{RoadmapID: id})
	if err != nil {
		logger.Error("Failed to marshal queue message", "err", err)
		return c.JSON(http.StatusInternalServerError, createRoadmapResponse{
			Message: "Internal server error",
		})
	}
	if err := queue.PublishFIFO(app.Queue, queue.AnalyzeQueue, msgBytes); err != nil {
		logger.Error("Failed to enqueue analysis run", "id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, createRoadmapResponse{
			Message: "Internal server error",
		})
	}

	logger.Info("Analysis run enqueued", "id", id, "goal", data.GoalTitle)
	return c.JSON(http.StatusAccepted, createRoadmapResponse{
		Message: "Analysis run created",
		ID:      id,
	})
}
