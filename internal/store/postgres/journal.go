package postgres

import (
	"context"
	"fmt"
	"time"

	"cardctl/internal/store"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// StartRun inserts a run row.
func (s *Store) StartRun(ctx context.Context, run *store.Run) error {
	query := `
		INSERT INTO runs (id, token_hash, board, column_name, card, labels, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	labels := run.Labels
	if labels == nil {
		labels = []string{}
	}

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.TokenHash,
		run.Board,
		run.Column,
		run.Card,
		pq.Array(labels),
		run.Status,
		run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}
	return nil
}

// RecordResource appends a created resource and fills in its ID and
// CreatedAt.
func (s *Store) RecordResource(ctx context.Context, res *store.Resource) error {
	query := `
		INSERT INTO created_resources (run_id, kind, name, remote_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, res.RunID, res.Kind, res.Name, res.RemoteID).
		Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record %s %s: %w", res.Kind, res.RemoteID, err)
	}
	return nil
}

// FinishRun sets the final status, error and completion time of a run.
func (s *Store) FinishRun(ctx context.Context, runID uuid.UUID, status store.RunStatus, errMsg *string) error {
	query := `UPDATE runs SET status = $2, error = $3, completed_at = $4 WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, runID, status, errMsg, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", runID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// ListResources returns the resources a run created, oldest first.
func (s *Store) ListResources(ctx context.Context, runID uuid.UUID) ([]store.Resource, error) {
	query := `
		SELECT id, run_id, kind, name, remote_id, created_at
		FROM created_resources
		WHERE run_id = $1
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []store.Resource
	for rows.Next() {
		var r store.Resource
		if err := rows.Scan(&r.ID, &r.RunID, &r.Kind, &r.Name, &r.RemoteID, &r.CreatedAt); err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}

	return resources, rows.Err()
}
