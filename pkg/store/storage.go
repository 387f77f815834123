package store

import (
	"context"
	"time"

	"github.com/glkb/annograph/pkg/emit"
)

// Ingest job states.
const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// Job is the bookkeeping record of one ingest request.
type Job struct {
	CorrelationID string    `json:"correlation_id"`
	ObjectKey     string    `json:"object_key"`
	Format        string    `json:"format"`
	Status        string    `json:"status"`
	Message       string    `json:"message,omitempty"`
	Documents     int       `json:"documents"`
	Nodes         int       `json:"nodes"`
	Edges         int       `json:"edges"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RecordStore persists finalized node/edge streams. SaveDocument writes
// one document's records atomically: either the whole document lands or
// nothing does, so a failed parse never leaves a half-emitted document
// behind.
type RecordStore interface {
	SaveDocument(ctx context.Context, correlationID, docID string, nodes []emit.Node, edges []emit.Edge) error
	GetBatchRecords(ctx context.Context, correlationID string) ([]emit.Node, []emit.Edge, error)
	DeleteBatch(ctx context.Context, correlationID string) error
}

// JobStore tracks ingest jobs across their lifecycle.
type JobStore interface {
	CreateJob(ctx context.Context, job Job) error
	UpdateJobStatus(ctx context.Context, correlationID, status, message string) error
	UpdateJobCounts(ctx context.Context, correlationID string, documents, nodes, edges int) error
	GetJob(ctx context.Context, correlationID string) (*Job, error)
	ListJobs(ctx context.Context, limit int) ([]Job, error)
	DeleteJob(ctx context.Context, correlationID string) error
}
