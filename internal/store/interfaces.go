package store

import (
	"context"

	"github.com/google/uuid"
)

// Journal records runs and the resources they created. It is write-mostly:
// resolution never reads it.
type Journal interface {
	// StartRun inserts a run in the running state.
	StartRun(ctx context.Context, run *Run) error

	// RecordResource appends a created resource to a run.
	RecordResource(ctx context.Context, res *Resource) error

	// FinishRun sets the final status of a run.
	FinishRun(ctx context.Context, runID uuid.UUID, status RunStatus, errMsg *string) error

	// ListResources returns what a run created, oldest first.
	ListResources(ctx context.Context, runID uuid.UUID) ([]Resource, error)
}
