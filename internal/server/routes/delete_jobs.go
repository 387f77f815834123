package routes

import (
	"net/http"

	"github.com/glkb/annograph/internal/server/middleware"
	"github.com/glkb/annograph/pkg/logger"
	recordstore "github.com/glkb/annograph/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// DeleteJobHandler removes an ingest job and its staged records.
func DeleteJobHandler(c echo.Context) error {
	type deleteJobResponse struct {
		Message string `json:"message"`
	}

	correlationID := c.Param("correlation_id")

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	db := recordstore.NewRecordDBStoreWithConnection(app.DBConn)

	job, err := db.GetJob(ctx, correlationID)
	if err != nil {
		logger.Error("Failed to get ingest job", "correlation_id", correlationID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteJobResponse{
			Message: "Internal server error",
		})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, deleteJobResponse{
			Message: "Job not found",
		})
	}

	if err := db.DeleteBatch(ctx, correlationID); err != nil {
		logger.Error("Failed to delete batch records", "correlation_id", correlationID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteJobResponse{
			Message: "Internal server error",
		})
	}
	if err := db.DeleteJob(ctx, correlationID); err != nil {
		logger.Error("Failed to delete ingest job", "correlation_id", correlationID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteJobResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, deleteJobResponse{
		Message: "Job deleted",
	})
}
