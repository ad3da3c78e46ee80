package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/trailmap-ai/trailmap/internal/server/middleware"
	"github.com/trailmap-ai/trailmap/internal/storage"
	"github.com/trailmap-ai/trailmap/pkg/logger"
	storepgx "github.com/trailmap-ai/trailmap/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// DeleteRoadmapHandler removes an analysis run and, when the narrative was
// uploaded through this service, its object in storage.
func DeleteRoadmapHandler(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Missing run id",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	db := storepgx.NewRoadmapDBStorageWithConnection(app.DBConn)
	run, err := db.GetRun(ctx, id)
	if errors.Is(err, storepgx.ErrRunNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{
			"message": "Analysis run not found",
		})
	}
	if err != nil {
		logger.Error("Failed to load analysis run", "id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}

	if err := db.DeleteRun(ctx, id); err != nil {
		logger.Error("Failed to delete analysis run", "id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}

	// Only objects this service created live under narratives/.
	if strings.HasPrefix(run.SourceKey, "narratives/") {
		if err := storage.DeleteNarrative(ctx, app.S3, run.SourceKey); err != nil {
			logger.Warn("Failed to delete narrative object", "key", run.SourceKey, "err", err)
		}
	}

	logger.Info("Analysis run deleted", "id", id)
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Analysis run deleted",
	})
}
