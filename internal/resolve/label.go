package resolve

import (
	"context"

	"cardctl/internal/logger"
	"cardctl/pkg/api"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ResolveLabels maps names to label ids on the board.
//
// Every existing label whose name equals a requested name is kept, so a
// name present twice on the board contributes both ids. After each name is
// scanned it is queued for creation while the ids found so far plus the
// names queued so far are fewer than the names requested. That gate counts
// rather than checking the name itself: a matched name can be created again
// and a later unmatched name can be skipped. StrictLabels switches to a
// per-name gate.
//
// Created labels come first in the result, followed by the existing ones.
// When a create fails the labels created before it are returned with the
// error.
func (r *Resolver) ResolveLabels(ctx context.Context, boardID string, names []string) ([]ResourceRef, error) {
	labels, err := r.svc.BoardLabels(ctx, boardID, r.labelLimit)
	if err != nil {
		return nil, stageError(ErrLabelResolution, err)
	}

	var existing []ResourceRef
	var missing []string
	for _, name := range names {
		match := ByName(name)
		matched := false
		for _, l := range labels {
			ref := ResourceRef{Name: l.Name, ID: l.ID}
			if match(ref) {
				existing = append(existing, ref)
				matched = true
			}
		}

		if r.strictLabels {
			if !matched {
				missing = append(missing, name)
			}
			continue
		}
		if len(existing)+len(missing) < len(names) {
			missing = append(missing, name)
		}
	}

	log := logger.FromContext(ctx, r.logger)
	if len(missing) == 0 {
		log.Info("labels resolved", "existing", len(existing), "created", 0)
		return existing, nil
	}

	refs := make([]ResourceRef, 0, len(missing)+len(existing))
	for _, name := range missing {
		color := r.labelColor()
		label, err := r.svc.CreateLabel(ctx, boardID, name, color)
		if err != nil {
			return refs, stageError(ErrLabelResolution, err)
		}
		if label.ID == "" {
			return refs, stageError(ErrLabelResolution, errNoID)
		}
		log.Debug("label created", "name", name, "id", label.ID, "color", color)
		r.countCreated(ctx, "label")
		refs = append(refs, ResourceRef{Name: name, ID: label.ID, Created: true})
	}
	refs = append(refs, existing...)

	log.Info("labels resolved", "existing", len(existing), "created", len(missing))
	return refs, nil
}

// labelColor draws uniformly from api.LabelColors.
func (r *Resolver) labelColor() string {
	return api.LabelColors[r.rand.IntN(len(api.LabelColors))]
}

func (r *Resolver) countCreated(ctx context.Context, kind string) {
	r.created.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
