package resolve

import (
	"context"
	"errors"

	"cardctl/internal/logger"
)

// ResolveMember returns the account id behind the client's credentials.
// Any failure, including an answer without a member id, is ErrAuth.
func (r *Resolver) ResolveMember(ctx context.Context) (string, error) {
	memberID, err := r.svc.TokenMember(ctx)
	if err != nil {
		return "", stageError(ErrAuth, err)
	}
	if memberID == "" {
		return "", stageError(ErrAuth, errors.New("token info has no member id"))
	}

	logger.FromContext(ctx, r.logger).Debug("member resolved", "member_id", memberID)
	return memberID, nil
}
