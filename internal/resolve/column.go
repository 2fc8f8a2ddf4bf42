package resolve

import (
	"context"
	"iter"
)

// ResolveColumn returns the first open list of the board named columnName,
// creating it at the top of the board when absent.
func (r *Resolver) ResolveColumn(ctx context.Context, boardID, columnName string) (ResourceRef, error) {
	ref, err := ResolveOrCreate(ctx, r.openLists(ctx, boardID), ByName(columnName),
		func(ctx context.Context) (ResourceRef, error) {
			list, err := r.svc.CreateList(ctx, boardID, columnName)
			if err != nil {
				return ResourceRef{}, err
			}
			return ResourceRef{Name: columnName, ID: list.ID}, nil
		},
	)
	if err != nil {
		return ResourceRef{}, stageError(ErrColumnResolution, err)
	}

	r.observe(ctx, "column", ref)
	return ref, nil
}

func (r *Resolver) openLists(ctx context.Context, boardID string) iter.Seq2[ResourceRef, error] {
	return func(yield func(ResourceRef, error) bool) {
		lists, err := r.svc.BoardLists(ctx, boardID)
		if err != nil {
			yield(ResourceRef{}, err)
			return
		}
		for _, l := range lists {
			if !yield(ResourceRef{Name: l.Name, ID: l.ID}, nil) {
				return
			}
		}
	}
}
