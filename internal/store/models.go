// Package store contains the run journal layer for cardctl.
package store

import (
	"time"

	"github.com/google/uuid"
)

// Run is one invocation of the add pipeline.
type Run struct {
	ID          uuid.UUID
	TokenHash   string // SHA-256 of the API token, never the token itself
	Board       string
	Column      string
	Card        string
	Labels      []string
	Status      RunStatus
	Error       *string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// RunStatus represents the state of a run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Resource is something a run created on the board service.
// Nothing is rolled back on failure, so these rows are how leftovers of a
// failed run are found.
type Resource struct {
	ID        int64
	RunID     uuid.UUID
	Kind      ResourceKind
	Name      string
	RemoteID  string
	CreatedAt time.Time
}

// ResourceKind is the type of a created resource.
type ResourceKind string

const (
	ResourceBoard   ResourceKind = "board"
	ResourceColumn  ResourceKind = "column"
	ResourceLabel   ResourceKind = "label"
	ResourceCard    ResourceKind = "card"
	ResourceComment ResourceKind = "comment"
)
