package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/glkb/annograph/internal/storage"
	"github.com/glkb/annograph/internal/util"
	"github.com/glkb/annograph/pkg/emit"
	"github.com/glkb/annograph/pkg/logger"
	"github.com/glkb/annograph/pkg/store/bulk"
	recordstore "github.com/glkb/annograph/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

const s3UploadRetries = 3

// ProcessExportMessage renders a completed batch as bulk-load files and
// uploads them under exports/<correlation_id>/ in the object store.
func ProcessExportMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(QueueExportMsg)
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return err
	}
	if data.CorrelationID == "" {
		return fmt.Errorf("export message has no correlation ID")
	}

	db := recordstore.NewRecordDBStoreWithConnection(conn)
	nodes, edges, err := db.GetBatchRecords(ctx, data.CorrelationID)
	if err != nil {
		return err
	}
	if len(nodes) == 0 && len(edges) == 0 {
		logger.Warn("[Queue] Nothing to export", "correlation_id", data.CorrelationID)
		return nil
	}

	dir, err := os.MkdirTemp("", "annograph-export-")
	if err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	defer os.RemoveAll(dir)

	writer, err := bulk.NewWriter(dir, emit.DefaultDelimiters())
	if err != nil {
		return err
	}
	if err := writer.WriteNodes(nodes); err != nil {
		return err
	}
	if err := writer.WriteEdges(edges); err != nil {
		return err
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read export directory: %w", err)
	}
	for _, entry := range files {
		if entry.IsDir() {
			continue
		}
		f, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to open export file: %w", err)
		}
		name := entry.Name()
		base := name[:len(name)-len(filepath.Ext(name))]
		var key string
		err = util.RetryErrWithContext(ctx, s3UploadRetries, func(ctx context.Context) error {
			// A failed attempt may have consumed part of the body.
			if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil {
				return seekErr
			}
			var putErr error
			key, putErr = storage.PutFile(ctx, s3Client, "exports/"+data.CorrelationID, name, base, f)
			return putErr
		})
		f.Close()
		if err != nil {
			return err
		}
		logger.Info("[Queue] Uploaded export file", "correlation_id", data.CorrelationID, "key", key)
	}

	logger.Info("[Queue] Export complete", "correlation_id", data.CorrelationID, "files", len(files))
	return nil
}
