package server

import (
	"github.com/glkb/annograph/internal/server/middleware"
	"github.com/glkb/annograph/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Ingest job routes
	apiRoutes.POST("/ingest", routes.CreateIngestHandler, middleware.RequirePermission("ingest.create"))
	apiRoutes.GET("/jobs", routes.GetJobsHandler, middleware.RequirePermission("ingest.view"))
	apiRoutes.GET("/jobs/:correlation_id", routes.GetJobHandler, middleware.RequirePermission("ingest.view"))
	apiRoutes.DELETE("/jobs/:correlation_id", routes.DeleteJobHandler, middleware.RequirePermission("ingest.delete"))

	// Export routes
	apiRoutes.GET("/jobs/:correlation_id/export", routes.GetExportHandler, middleware.RequireAnyPermission("export.view", "ingest.view"))
}
