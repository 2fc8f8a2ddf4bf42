package resolve

import (
	"context"
	"time"

	"cardctl/internal/logger"
	"cardctl/internal/store"

	"github.com/google/uuid"
)

// Request is what the caller wants filed.
type Request struct {
	Board   string
	Column  string
	Card    string
	Labels  []string
	Comment string
}

// Result holds every id the run resolved or created.
type Result struct {
	RunID     uuid.UUID
	MemberID  string
	Board     ResourceRef
	Column    ResourceRef
	Labels    []ResourceRef
	Card      ResourceRef
	CommentID string
}

// Pipeline runs member, board, column, labels, card and comment in that
// order. The first failing stage ends the run; nothing already created is
// undone.
type Pipeline struct {
	resolver *Resolver
	journal  store.Journal
}

// NewPipeline creates a pipeline. journal may be nil.
func NewPipeline(resolver *Resolver, journal store.Journal) *Pipeline {
	return &Pipeline{resolver: resolver, journal: journal}
}

// Run executes the pipeline. tokenHash is stored in the journal only.
func (p *Pipeline) Run(ctx context.Context, runID uuid.UUID, tokenHash string, req Request) (*Result, error) {
	ctx = logger.WithRunID(ctx, runID.String())
	log := logger.FromContext(ctx, p.resolver.logger)
	res := &Result{RunID: runID}

	p.startRun(ctx, &store.Run{
		ID:        runID,
		TokenHash: tokenHash,
		Board:     req.Board,
		Column:    req.Column,
		Card:      req.Card,
		Labels:    req.Labels,
		Status:    store.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	})

	err := p.run(ctx, req, res)
	if err != nil {
		log.Error("run failed", "error", err)
		msg := err.Error()
		p.finishRun(ctx, runID, store.RunStatusFailed, &msg)
		return res, err
	}

	p.finishRun(ctx, runID, store.RunStatusSucceeded, nil)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, req Request, res *Result) error {
	var err error
	r := p.resolver

	if res.MemberID, err = r.ResolveMember(ctx); err != nil {
		return err
	}

	if res.Board, err = r.ResolveBoard(ctx, res.MemberID, req.Board); err != nil {
		return err
	}
	p.record(ctx, res.RunID, store.ResourceBoard, res.Board)

	if res.Column, err = r.ResolveColumn(ctx, res.Board.ID, req.Column); err != nil {
		return err
	}
	p.record(ctx, res.RunID, store.ResourceColumn, res.Column)

	res.Labels, err = r.ResolveLabels(ctx, res.Board.ID, req.Labels)
	for _, label := range res.Labels {
		p.record(ctx, res.RunID, store.ResourceLabel, label)
	}
	if err != nil {
		return err
	}

	if res.Card, err = r.CreateCard(ctx, res.Column.ID, req.Card, IDs(res.Labels)); err != nil {
		return err
	}
	p.record(ctx, res.RunID, store.ResourceCard, res.Card)

	if res.CommentID, err = r.AddComment(ctx, res.Card.ID, req.Comment); err != nil {
		return err
	}
	p.record(ctx, res.RunID, store.ResourceComment, ResourceRef{ID: res.CommentID, Created: true})

	return nil
}

// Journal failures are logged and never change the outcome of a run.
// Writes outlive cancellation of the run so an interrupted run is still
// marked failed.

func (p *Pipeline) startRun(ctx context.Context, run *store.Run) {
	if p.journal == nil {
		return
	}
	if err := p.journal.StartRun(context.WithoutCancel(ctx), run); err != nil {
		logger.FromContext(ctx, p.resolver.logger).Warn("journal: failed to start run", "error", err)
	}
}

func (p *Pipeline) record(ctx context.Context, runID uuid.UUID, kind store.ResourceKind, ref ResourceRef) {
	if p.journal == nil || !ref.Created {
		return
	}
	err := p.journal.RecordResource(context.WithoutCancel(ctx), &store.Resource{
		RunID:    runID,
		Kind:     kind,
		Name:     ref.Name,
		RemoteID: ref.ID,
	})
	if err != nil {
		logger.FromContext(ctx, p.resolver.logger).Warn("journal: failed to record resource", "kind", kind, "error", err)
	}
}

func (p *Pipeline) finishRun(ctx context.Context, runID uuid.UUID, status store.RunStatus, errMsg *string) {
	if p.journal == nil {
		return
	}
	if err := p.journal.FinishRun(context.WithoutCancel(ctx), runID, status, errMsg); err != nil {
		logger.FromContext(ctx, p.resolver.logger).Warn("journal: failed to finish run", "error", err)
	}
}
