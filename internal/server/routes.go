package server

import (
	"github.com/trailmap-ai/trailmap/internal/server/middleware"
	"github.com/trailmap-ai/trailmap/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Roadmap analysis routes
	apiRoutes.GET("/roadmaps", routes.GetRoadmapsHandler)
	apiRoutes.POST("/roadmaps", routes.CreateRoadmapHandler)
	apiRoutes.GET("/roadmaps/:id", routes.GetRoadmapHandler)
	apiRoutes.DELETE("/roadmaps/:id", routes.DeleteRoadmapHandler)
}
