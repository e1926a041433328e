package accessservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/models"
)

const pkg = "accessService/"

// Resolver is the single access authority for documents. Every read and
// mutation path resolves permissions through Decide, so the single-fetch and
// listing predicates cannot drift apart.
type Resolver struct {
	log     *slog.Logger
	shares  ShareProvider
	members MembershipProvider
}

func New(log *slog.Logger, shares ShareProvider, members MembershipProvider) *Resolver {
	return &Resolver{
		log:     log,
		shares:  shares,
		members: members,
	}
}

// Decide evaluates, in order: administrator role, ownership, public
// visibility (view only), an active share, and finally membership in the
// linked entity (view only). Share management is reserved to owner and
// administrator; a share's canEdit/canDelete never extends to it.
func (r *Resolver) Decide(ctx context.Context, doc *models.Document, user *models.User, action models.Action) (bool, error) {
	op := pkg + "Decide"

	log := r.log.With(slog.String("op", op))

	if user.IsAdmin() {
		return true, nil
	}

	if doc.OwnerID == user.ID {
		return true, nil
	}

	if action == models.ActionShare {
		return false, nil
	}

	if doc.IsPublic && action == models.ActionView {
		return true, nil
	}

	share, err := r.shares.ActiveShare(ctx, doc.ID, user.ID)
	if err != nil && !errors.Is(err, models.ErrShareNotFound) {
		log.Error("failed to resolve share", slog.String("error", err.Error()))
		return false, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if share != nil && share.ExpiresAt != nil && !share.ExpiresAt.After(time.Now()) {
		share = nil
	}

	if share != nil {
		switch action {
		case models.ActionView:
			return true, nil
		case models.ActionEdit:
			if share.CanEdit {
				return true, nil
			}
		case models.ActionDelete:
			if share.CanDelete {
				return true, nil
			}
		}
	}

	if action == models.ActionView && doc.Entity != nil {
		member, err := r.members.IsMember(ctx, *doc.Entity, user.ID)
		if err != nil {
			log.Error("failed to resolve membership",
				slog.String("entity_type", string(doc.Entity.Type)),
				slog.String("error", err.Error()))
			return false, fmt.Errorf("%s: %w", op, models.ErrInternal)
		}

		if member {
			return true, nil
		}
	}

	return false, nil
}
