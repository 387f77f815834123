package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/glkb/annograph/internal/storage"
	"github.com/glkb/annograph/internal/util"
	"github.com/glkb/annograph/pkg/annot"
	"github.com/glkb/annograph/pkg/emit"
	"github.com/glkb/annograph/pkg/ground"
	"github.com/glkb/annograph/pkg/leaselock"
	"github.com/glkb/annograph/pkg/logger"
	"github.com/glkb/annograph/pkg/parse"
	"github.com/glkb/annograph/pkg/store"
	recordstore "github.com/glkb/annograph/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

const s3FetchRetries = 3

// DetectFormat sniffs the annotation export format from its first
// non-blank content: standoff files open with a document header,
// mention streams are JSON.
func DetectFormat(data []byte) string {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("###")) {
		return FormatStandoff
	}
	return FormatMentionStream
}

// ProcessIngestMessage handles one ingest job: download the annotation
// exports, parse them into document records, and stage each document's
// node/edge stream. Documents are independent and processed in
// parallel; a document that fails to save fails the whole job so the
// batch is never half-staged. On success an export message is enqueued.
func ProcessIngestMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	gateway ground.Gateway,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
	msg string,
) (err error) {
	data := new(QueueIngestMsg)
	if err = json.Unmarshal([]byte(msg), &data); err != nil {
		return err
	}
	if data.CorrelationID == "" {
		return fmt.Errorf("ingest message has no correlation ID")
	}

	// A redelivered message must not run concurrently with an attempt
	// still holding the batch; returning the error sends it to retry.
	locks := leaselock.New(conn)
	return locks.WithLease(ctx, "ingest:"+data.CorrelationID, leaselock.Options{}, func(ctx context.Context) error {
		return processIngest(ctx, s3Client, gateway, ch, conn, data)
	})
}

func processIngest(
	ctx context.Context,
	s3Client *awss3.Client,
	gateway ground.Gateway,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
	data *QueueIngestMsg,
) (err error) {
	db := recordstore.NewRecordDBStoreWithConnection(conn)
	defer func() {
		if err == nil {
			return
		}
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if updateErr := db.UpdateJobStatus(updateCtx, data.CorrelationID, store.JobFailed, err.Error()); updateErr != nil {
			logger.Warn("[Queue] Failed to mark ingest job as failed", "correlation_id", data.CorrelationID, "err", updateErr)
		}
	}()

	if err = db.UpdateJobStatus(ctx, data.CorrelationID, store.JobProcessing, ""); err != nil {
		return err
	}

	// A failed earlier attempt may have left partial documents behind.
	if err = db.DeleteBatch(ctx, data.CorrelationID); err != nil {
		return err
	}

	keys := store.DedupeStrings(data.ObjectKeys)
	if len(keys) == 0 {
		return fmt.Errorf("ingest message has no object keys")
	}

	var docs []*annot.Document
	for _, key := range keys {
		contents, fetchErr := util.RetryWithContext(ctx, s3FetchRetries, func(ctx context.Context) ([]byte, error) {
			return storage.GetFile(ctx, s3Client, key)
		})
		if fetchErr != nil {
			err = fmt.Errorf("failed to fetch %s: %w", key, fetchErr)
			return err
		}

		format := data.Format
		if format == "" {
			format = DetectFormat(contents)
		}
		logger.Info("[Queue] Parsing annotation export", "correlation_id", data.CorrelationID, "key", key, "format", format)

		parsed, parseErr := parseExport(ctx, gateway, format, contents)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse %s: %w", key, parseErr)
			return err
		}
		docs = append(docs, parsed...)
	}

	totalNodes := 0
	totalEdges := 0
	type docCounts struct{ nodes, edges int }
	counts := make([]docCounts, len(docs))

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(util.GetEnvInt("PARALLEL_DOCS", 4))
	for i, doc := range docs {
		i, doc := i, doc
		eg.Go(func() error {
			nodes, edges := emit.Records(doc)
			if saveErr := db.SaveDocument(ectx, data.CorrelationID, doc.ID, nodes, edges); saveErr != nil {
				return fmt.Errorf("failed to save document %s: %w", doc.ID, saveErr)
			}
			counts[i] = docCounts{nodes: len(nodes), edges: len(edges)}
			logger.Debug("[Queue] Staged document",
				"correlation_id", data.CorrelationID,
				"doc_id", doc.ID, "nodes", len(nodes), "edges", len(edges))
			return nil
		})
	}
	if err = eg.Wait(); err != nil {
		return err
	}
	for _, c := range counts {
		totalNodes += c.nodes
		totalEdges += c.edges
	}

	if err = db.UpdateJobCounts(ctx, data.CorrelationID, len(docs), totalNodes, totalEdges); err != nil {
		return err
	}
	if err = db.UpdateJobStatus(ctx, data.CorrelationID, store.JobCompleted, ""); err != nil {
		return err
	}

	logger.Info("[Queue] Ingest complete",
		"correlation_id", data.CorrelationID,
		"documents", len(docs), "nodes", totalNodes, "edges", totalEdges)

	exportMsg, marshalErr := json.Marshal(QueueExportMsg{
		Message:       "Export ingested batch",
		CorrelationID: data.CorrelationID,
	})
	if marshalErr != nil {
		return marshalErr
	}
	if err = util.RetryErr(3, func() error {
		return PublishFIFO(ch, ExportQueue, exportMsg)
	}); err != nil {
		return fmt.Errorf("failed to enqueue export: %w", err)
	}

	return nil
}

func parseExport(ctx context.Context, gateway ground.Gateway, format string, contents []byte) ([]*annot.Document, error) {
	switch format {
	case FormatStandoff:
		return parse.NewStandoffParser(gateway).Parse(ctx, bytes.NewReader(contents))
	case FormatMentionStream:
		entries, err := parse.DecodeMentionStream(bytes.NewReader(contents))
		if err != nil {
			return nil, err
		}
		parser := parse.NewMentionParser(gateway)
		docs := make([]*annot.Document, 0, len(entries))
		for _, entry := range entries {
			doc, err := parser.ParseDocument(ctx, entry)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		return docs, nil
	default:
		return nil, fmt.Errorf("unknown annotation format %q", strings.TrimSpace(format))
	}
}
