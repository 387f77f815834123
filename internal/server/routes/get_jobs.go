package routes

import (
	"net/http"
	"strconv"

	"github.com/glkb/annograph/internal/server/middleware"
	"github.com/glkb/annograph/pkg/logger"
	"github.com/glkb/annograph/pkg/store"
	recordstore "github.com/glkb/annograph/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// GetJobsHandler lists recent ingest jobs.
func GetJobsHandler(c echo.Context) error {
	type getJobsResponse struct {
		Message string      `json:"message"`
		Jobs    []store.Job `json:"jobs,omitempty"`
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	db := recordstore.NewRecordDBStoreWithConnection(app.DBConn)

	jobs, err := db.ListJobs(ctx, limit)
	if err != nil {
		logger.Error("Failed to list ingest jobs", "err", err)
		return c.JSON(http.StatusInternalServerError, getJobsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getJobsResponse{
		Message: "OK",
		Jobs:    jobs,
	})
}

// GetJobHandler returns one ingest job by correlation ID.
func GetJobHandler(c echo.Context) error {
	type getJobResponse struct {
		Message string     `json:"message"`
		Job     *store.Job `json:"job,omitempty"`
	}

	correlationID := c.Param("correlation_id")

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	db := recordstore.NewRecordDBStoreWithConnection(app.DBConn)

	job, err := db.GetJob(ctx, correlationID)
	if err != nil {
		logger.Error("Failed to get ingest job", "correlation_id", correlationID, "err", err)
		return c.JSON(http.StatusInternalServerError, getJobResponse{
			Message: "Internal server error",
		})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, getJobResponse{
			Message: "Job not found",
		})
	}

	return c.JSON(http.StatusOK, getJobResponse{
		Message: "OK",
		Job:     job,
	})
}
