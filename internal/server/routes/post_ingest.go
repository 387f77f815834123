package routes

import (
	"encoding/json"
	"net/http"

	"github.com/glkb/annograph/internal/queue"
	"github.com/glkb/annograph/internal/server/middleware"
	"github.com/glkb/annograph/pkg/logger"
	"github.com/glkb/annograph/pkg/store"
	recordstore "github.com/glkb/annograph/pkg/store/pgx"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CreateIngestHandler registers a new ingest job for annotation exports
// already uploaded to the object store, and queues it for the worker.
func CreateIngestHandler(c echo.Context) error {
	type createIngestBody struct {
		ObjectKeys []string `json:"object_keys" validate:"required,min=1,dive,required"`
		Format     string   `json:"format" validate:"omitempty,oneof=mention_stream standoff"`
	}

	type createIngestResponse struct {
		Message       string `json:"message"`
		CorrelationID string `json:"correlation_id,omitempty"`
	}

	data := new(createIngestBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createIngestResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createIngestResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	correlationID, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate correlation ID", "err", err)
		return c.JSON(http.StatusInternalServerError, createIngestResponse{
			Message: "Internal server error",
		})
	}

	db := recordstore.NewRecordDBStoreWithConnection(app.DBConn)
	if err := db.CreateJob(ctx, store.Job{
		CorrelationID: correlationID,
		ObjectKey:     data.ObjectKeys[0],
		Format:        data.Format,
	}); err != nil {
		logger.Error("Failed to create ingest job", "err", err)
		return c.JSON(http.StatusInternalServerError, createIngestResponse{
			Message: "Internal server error",
		})
	}

	msg, err := json.Marshal(queue.QueueIngestMsg{
		Message:       "Ingest annotation exports",
		CorrelationID: correlationID,
		ObjectKeys:    data.ObjectKeys,
		Format:        data.Format,
	})
	if err != nil {
		logger.Error("Failed to marshal ingest message", "err", err)
		return c.JSON(http.StatusInternalServerError, createIngestResponse{
			Message: "Internal server error",
		})
	}
	if err := queue.PublishFIFO(app.Queue, queue.IngestQueue, msg); err != nil {
		logger.Error("Failed to publish ingest message", "err", err)
		return c.JSON(http.StatusInternalServerError, createIngestResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, createIngestResponse{
		Message:       "Ingest queued",
		CorrelationID: correlationID,
	})
}
