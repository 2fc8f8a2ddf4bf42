package resolve

import (
	"context"
	"iter"

	"cardctl/internal/logger"
)

// ResolveBoard returns the first of the member's boards named boardName,
// in the order the service lists them, creating the board when none is.
func (r *Resolver) ResolveBoard(ctx context.Context, memberID, boardName string) (ResourceRef, error) {
	ref, err := ResolveOrCreate(ctx, r.memberBoards(ctx, memberID), ByName(boardName),
		func(ctx context.Context) (ResourceRef, error) {
			board, err := r.svc.CreateBoard(ctx, boardName)
			if err != nil {
				return ResourceRef{}, err
			}
			return ResourceRef{Name: boardName, ID: board.ID}, nil
		},
	)
	if err != nil {
		return ResourceRef{}, stageError(ErrBoardResolution, err)
	}

	r.observe(ctx, "board", ref)
	return ref, nil
}

// memberBoards yields the member's boards, reading each name only when the
// previous one did not match.
func (r *Resolver) memberBoards(ctx context.Context, memberID string) iter.Seq2[ResourceRef, error] {
	return func(yield func(ResourceRef, error) bool) {
		ids, err := r.svc.MemberBoardIDs(ctx, memberID)
		if err != nil {
			yield(ResourceRef{}, err)
			return
		}
		for _, id := range ids {
			name, err := r.svc.BoardName(ctx, id)
			if err != nil {
				yield(ResourceRef{}, err)
				return
			}
			if !yield(ResourceRef{Name: name, ID: id}, nil) {
				return
			}
		}
	}
}

// observe logs a resolved ref and counts it when it was created.
func (r *Resolver) observe(ctx context.Context, kind string, ref ResourceRef) {
	logger.FromContext(ctx, r.logger).Info(kind+" resolved",
		"name", ref.Name,
		"id", ref.ID,
		"created", ref.Created,
	)
	if ref.Created {
		r.countCreated(ctx, kind)
	}
}
