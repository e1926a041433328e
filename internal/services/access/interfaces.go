package accessservice

import (
	"context"

	"docvault/internal/models"
)

type ShareProvider interface {
	ActiveShare(ctx context.Context, documentID string, userID string) (*models.Share, error)
}

type MembershipProvider interface {
	IsMember(ctx context.Context, ref models.EntityRef, userID string) (bool, error)
}
