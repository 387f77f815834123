package pgx

import (
	"context"
	"errors"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/glkb/annograph/pkg/store"
)

// CreateJob records a new ingest job in the pending state.
func (s *RecordDBStore) CreateJob(ctx context.Context, job store.Job) error {
	if _, err := s.conn.Exec(ctx,
		`INSERT INTO ingest_jobs (correlation_id, object_key, format, status, message)
		 VALUES ($1, $2, $3, $4, $5)`,
		job.CorrelationID, job.ObjectKey, job.Format, store.JobPending, job.Message,
	); err != nil {
		return fmt.Errorf("failed to create ingest job: %w", err)
	}
	return nil
}

// UpdateJobStatus transitions a job and stores an optional message.
func (s *RecordDBStore) UpdateJobStatus(ctx context.Context, correlationID, status, message string) error {
	if _, err := s.conn.Exec(ctx,
		`UPDATE ingest_jobs SET status = $2, message = $3, updated_at = now()
		 WHERE correlation_id = $1`,
		correlationID, status, message,
	); err != nil {
		return fmt.Errorf("failed to update ingest job status: %w", err)
	}
	return nil
}

// UpdateJobCounts stores the output statistics of a finished parse.
func (s *RecordDBStore) UpdateJobCounts(ctx context.Context, correlationID string, documents, nodes, edges int) error {
	if _, err := s.conn.Exec(ctx,
		`UPDATE ingest_jobs SET documents = $2, nodes = $3, edges = $4, updated_at = now()
		 WHERE correlation_id = $1`,
		correlationID, documents, nodes, edges,
	); err != nil {
		return fmt.Errorf("failed to update ingest job counts: %w", err)
	}
	return nil
}

// GetJob fetches one job; it returns nil when the correlation ID is
// unknown.
func (s *RecordDBStore) GetJob(ctx context.Context, correlationID string) (*store.Job, error) {
	var job store.Job
	err := s.conn.QueryRow(ctx,
		`SELECT correlation_id, object_key, format, status, message, documents, nodes, edges, created_at, updated_at
		 FROM ingest_jobs WHERE correlation_id = $1`,
		correlationID,
	).Scan(
		&job.CorrelationID, &job.ObjectKey, &job.Format, &job.Status, &job.Message,
		&job.Documents, &job.Nodes, &job.Edges, &job.CreatedAt, &job.UpdatedAt,
	)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingest job: %w", err)
	}
	return &job, nil
}

// DeleteJob removes a job's bookkeeping row.
func (s *RecordDBStore) DeleteJob(ctx context.Context, correlationID string) error {
	if _, err := s.conn.Exec(ctx,
		`DELETE FROM ingest_jobs WHERE correlation_id = $1`,
		correlationID,
	); err != nil {
		return fmt.Errorf("failed to delete ingest job: %w", err)
	}
	return nil
}

// ListJobs returns the most recent jobs, newest first.
func (s *RecordDBStore) ListJobs(ctx context.Context, limit int) ([]store.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.Query(ctx,
		`SELECT correlation_id, object_key, format, status, message, documents, nodes, edges, created_at, updated_at
		 FROM ingest_jobs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingest jobs: %w", err)
	}
	defer rows.Close()

	var jobs []store.Job
	for rows.Next() {
		var job store.Job
		if err := rows.Scan(
			&job.CorrelationID, &job.ObjectKey, &job.Format, &job.Status, &job.Message,
			&job.Documents, &job.Nodes, &job.Edges, &job.CreatedAt, &job.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ingest job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ingest jobs: %w", err)
	}

	return jobs, nil
}
