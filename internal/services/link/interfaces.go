package linkservice

import (
	"context"
	"time"

	"docvault/internal/models"
)

type DocumentRepository interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	SetEntityLink(ctx context.Context, id string, ref *models.EntityRef, updatedAt time.Time) error
}

type EntityProvider interface {
	Exists(ctx context.Context, ref models.EntityRef) (bool, error)
}

type AccessResolver interface {
	Decide(ctx context.Context, doc *models.Document, user *models.User, action models.Action) (bool, error)
}

type Cache interface {
	Del(ctx context.Context, keys ...string) error
}

type ActivityLog interface {
	Record(ctx context.Context, documentID string, userID string, action string, metadata map[string]any) error
}
