package resolve

import (
	"context"

	"cardctl/internal/logger"
)

// CreateCard files a card at the bottom of the list with the given labels.
func (r *Resolver) CreateCard(ctx context.Context, listID, title string, labelIDs []string) (ResourceRef, error) {
	card, err := r.svc.CreateCard(ctx, listID, title, labelIDs)
	if err != nil {
		return ResourceRef{}, stageError(ErrCardCreation, err)
	}
	if card.ID == "" {
		return ResourceRef{}, stageError(ErrCardCreation, errNoID)
	}

	ref := ResourceRef{Name: title, ID: card.ID, Created: true}
	r.observe(ctx, "card", ref)
	return ref, nil
}

// AddComment attaches text to the card. Empty text is still sent.
func (r *Resolver) AddComment(ctx context.Context, cardID, text string) (string, error) {
	action, err := r.svc.AddComment(ctx, cardID, text)
	if err != nil {
		return "", stageError(ErrComment, err)
	}

	logger.FromContext(ctx, r.logger).Debug("comment added", "card_id", cardID, "action_id", action.ID)
	r.countCreated(ctx, "comment")
	return action.ID, nil
}
