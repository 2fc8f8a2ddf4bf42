// Package resolve turns board, list and label names into service ids,
// creating whatever does not exist yet, and then files the card.
package resolve

import (
	"context"
	"iter"
	"log/slog"
	"math/rand/v2"
	"time"

	"cardctl/pkg/api"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// DefaultLabelLimit is how many labels of a board are fetched for matching.
// Labels beyond it are invisible to resolution.
const DefaultLabelLimit = 50

// MemberSource maps the client's credentials to an account.
type MemberSource interface {
	TokenMember(ctx context.Context) (string, error)
}

// BoardSource lists and creates boards.
type BoardSource interface {
	MemberBoardIDs(ctx context.Context, memberID string) ([]string, error)
	BoardName(ctx context.Context, boardID string) (string, error)
	CreateBoard(ctx context.Context, name string) (*api.Board, error)
}

// ListSource lists and creates the columns of a board.
type ListSource interface {
	BoardLists(ctx context.Context, boardID string) ([]api.List, error)
	CreateList(ctx context.Context, boardID, name string) (*api.List, error)
}

// LabelSource lists and creates the labels of a board.
type LabelSource interface {
	BoardLabels(ctx context.Context, boardID string, limit int) ([]api.Label, error)
	CreateLabel(ctx context.Context, boardID, name, color string) (*api.Label, error)
}

// CardSink creates cards and comments.
type CardSink interface {
	CreateCard(ctx context.Context, listID, name string, labelIDs []string) (*api.Card, error)
	AddComment(ctx context.Context, cardID, text string) (*api.Action, error)
}

// Service is everything the resolver needs from the board service.
type Service interface {
	MemberSource
	BoardSource
	ListSource
	LabelSource
	CardSink
}

// ResourceRef names a board, list, label or card together with its id.
type ResourceRef struct {
	Name    string
	ID      string
	Created bool
}

// IDs returns the ids of refs in order.
func IDs(refs []ResourceRef) []string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids
}

// ByName matches refs whose name equals name exactly.
func ByName(name string) func(ResourceRef) bool {
	return func(ref ResourceRef) bool {
		return ref.Name == name
	}
}

// ResolveOrCreate returns the first ref from existing accepted by match.
// When none matches it calls create and marks the result as created.
// Enumeration stops at the first match.
func ResolveOrCreate(
	ctx context.Context,
	existing iter.Seq2[ResourceRef, error],
	match func(ResourceRef) bool,
	create func(context.Context) (ResourceRef, error),
) (ResourceRef, error) {
	for ref, err := range existing {
		if err != nil {
			return ResourceRef{}, err
		}
		if match(ref) {
			return ref, nil
		}
	}

	ref, err := create(ctx)
	if err != nil {
		return ResourceRef{}, err
	}
	if ref.ID == "" {
		return ResourceRef{}, errNoID
	}
	ref.Created = true
	return ref, nil
}

// Options configures a Resolver.
type Options struct {
	// LabelLimit caps the labels fetched per board (default 50).
	LabelLimit int
	// StrictLabels creates a label only when its own name found no match.
	StrictLabels bool
	// Rand picks label colors. Nil means a time-seeded source.
	Rand   *rand.Rand
	Logger *slog.Logger
}

// Resolver implements the member, board, column, label and card stages.
type Resolver struct {
	svc          Service
	labelLimit   int
	strictLabels bool
	rand         *rand.Rand
	logger       *slog.Logger
	created      metric.Int64Counter
}

// New creates a Resolver backed by svc.
func New(svc Service, opts Options) (*Resolver, error) {
	if opts.LabelLimit <= 0 {
		opts.LabelLimit = DefaultLabelLimit
	}
	if opts.Rand == nil {
		opts.Rand = NewRand(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	created, err := otel.Meter("cardctl/resolve").Int64Counter(
		"cardctl.resources.created",
		metric.WithDescription("Resources created on the board service by kind"),
	)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		svc:          svc,
		labelLimit:   opts.LabelLimit,
		strictLabels: opts.StrictLabels,
		rand:         opts.Rand,
		logger:       opts.Logger,
		created:      created,
	}, nil
}

// NewRand returns a color source for seed; zero seeds from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1))
}
