package shareservice

import (
	"context"
	"time"

	"docvault/internal/models"
)

type ShareRepository interface {
	Upsert(ctx context.Context, share *models.Share) (*models.Share, error)
	ShareByID(ctx context.Context, documentID string, shareID string) (*models.Share, error)
	ListActive(ctx context.Context, documentID string) ([]*models.Share, error)
	Revoke(ctx context.Context, shareID string, revokedBy string, revokedAt time.Time) error
	UpdatePermissions(ctx context.Context, shareID string, patch models.SharePatch) error
}

type DocumentProvider interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
}

type UserDirectory interface {
	ExistingActiveIDs(ctx context.Context, ids []string) ([]string, error)
}

type AccessResolver interface {
	Decide(ctx context.Context, doc *models.Document, user *models.User, action models.Action) (bool, error)
}

type Notifier interface {
	NotifyShare(ctx context.Context, documentID string, title string, recipientID string, actorID string, canEdit bool) error
}

type ActivityLog interface {
	Record(ctx context.Context, documentID string, userID string, action string, metadata map[string]any) error
}
