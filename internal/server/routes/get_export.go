package routes

import (
	"net/http"

	"github.com/glkb/annograph/internal/server/middleware"
	"github.com/glkb/annograph/internal/storage"
	"github.com/glkb/annograph/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetExportHandler returns presigned download links for a batch's
// generated bulk-load files.
func GetExportHandler(c echo.Context) error {
	type exportFile struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	type getExportResponse struct {
		Message string       `json:"message"`
		Files   []exportFile `json:"files,omitempty"`
	}

	correlationID := c.Param("correlation_id")

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	keys, err := storage.ListFilesWithPrefix(ctx, app.S3, "exports/"+correlationID+"/")
	if err != nil {
		logger.Error("Failed to list export files", "correlation_id", correlationID, "err", err)
		return c.JSON(http.StatusInternalServerError, getExportResponse{
			Message: "Internal server error",
		})
	}
	if len(keys) == 0 {
		return c.JSON(http.StatusNotFound, getExportResponse{
			Message: "No export files for this batch",
		})
	}

	files := make([]exportFile, 0, len(keys))
	for _, key := range keys {
		url, err := storage.GenerateDownloadLink(ctx, app.S3, key)
		if err != nil {
			logger.Error("Failed to presign export file", "key", key, "err", err)
			return c.JSON(http.StatusInternalServerError, getExportResponse{
				Message: "Internal server error",
			})
		}
		files = append(files, exportFile{Key: key, URL: url})
	}

	return c.JSON(http.StatusOK, getExportResponse{
		Message: "OK",
		Files:   files,
	})
}
