package pgx

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/glkb/annograph/pkg/emit"
	"github.com/glkb/annograph/pkg/store"
)

const recordInsertChunkSize = 1000

const (
	recordKindNode = "node"
	recordKindEdge = "edge"
)

// SaveDocument writes one document's node and edge records in a single
// transaction. Re-saving a document replaces its previous records, so
// re-ingestion is idempotent.
func (s *RecordDBStore) SaveDocument(
	ctx context.Context,
	correlationID, docID string,
	nodes []emit.Node,
	edges []emit.Edge,
) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM annotation_records WHERE correlation_id = $1 AND doc_id = $2`,
		correlationID, docID,
	); err != nil {
		return fmt.Errorf("failed to clear previous document records: %w", err)
	}

	nodeRows := make([]string, 0, len(nodes))
	for _, node := range nodes {
		data, err := json.Marshal(node)
		if err != nil {
			return fmt.Errorf("failed to marshal node: %w", err)
		}
		nodeRows = append(nodeRows, string(data))
	}
	edgeRows := make([]string, 0, len(edges))
	for _, edge := range edges {
		data, err := json.Marshal(edge)
		if err != nil {
			return fmt.Errorf("failed to marshal edge: %w", err)
		}
		edgeRows = append(edgeRows, string(data))
	}

	insert := func(kind string, rows []string) error {
		return store.ChunkRange(len(rows), recordInsertChunkSize, func(start, end int) error {
			if _, err := tx.Exec(ctx,
				`INSERT INTO annotation_records (correlation_id, doc_id, kind, data)
				 SELECT $1, $2, $3, unnest($4::jsonb[])`,
				correlationID, docID, kind, rows[start:end],
			); err != nil {
				return fmt.Errorf("failed to insert %s batch: %w", kind, err)
			}
			return nil
		})
	}
	if err := insert(recordKindNode, nodeRows); err != nil {
		return err
	}
	if err := insert(recordKindEdge, edgeRows); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit document records: %w", err)
	}
	return nil
}

// GetBatchRecords reads every record of an ingest batch back in
// insertion order.
func (s *RecordDBStore) GetBatchRecords(
	ctx context.Context,
	correlationID string,
) ([]emit.Node, []emit.Edge, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT kind, data FROM annotation_records WHERE correlation_id = $1 ORDER BY id`,
		correlationID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query batch records: %w", err)
	}
	defer rows.Close()

	var nodes []emit.Node
	var edges []emit.Edge
	for rows.Next() {
		var kind string
		var data []byte
		if err := rows.Scan(&kind, &data); err != nil {
			return nil, nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		switch kind {
		case recordKindNode:
			var node emit.Node
			if err := json.Unmarshal(data, &node); err != nil {
				return nil, nil, fmt.Errorf("failed to unmarshal node: %w", err)
			}
			nodes = append(nodes, node)
		case recordKindEdge:
			var edge emit.Edge
			if err := json.Unmarshal(data, &edge); err != nil {
				return nil, nil, fmt.Errorf("failed to unmarshal edge: %w", err)
			}
			edges = append(edges, edge)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read batch records: %w", err)
	}

	return nodes, edges, nil
}

// DeleteBatch removes every record of an ingest batch.
func (s *RecordDBStore) DeleteBatch(ctx context.Context, correlationID string) error {
	if _, err := s.conn.Exec(ctx,
		`DELETE FROM annotation_records WHERE correlation_id = $1`,
		correlationID,
	); err != nil {
		return fmt.Errorf("failed to delete batch records: %w", err)
	}
	return nil
}
