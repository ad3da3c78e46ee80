package routes

import (
	"errors"
	"net/http"

	"github.com/trailmap-ai/trailmap/internal/server/middleware"
	"github.com/trailmap-ai/trailmap/pkg/logger"
	storepgx "github.com/trailmap-ai/trailmap/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// GetRoadmapsHandler lists all analysis runs without their result documents.
func GetRoadmapsHandler(c echo.Context) error {
	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	db := storepgx.NewRoadmapDBStorageWithConnection(app.DBConn)
	runs, err := db.ListRuns(ctx)
	if err != nil {
		logger.Error("Failed to list analysis runs", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"runs": runs,
	})
}

// GetRoadmapHandler returns one analysis run, including the roadmap document
// when the run is complete.
func GetRoadmapHandler(c echo.Context) error {
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

	return c.JSON(http.StatusOK, run)
}
