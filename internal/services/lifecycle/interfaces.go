package lifecycleservice

import (
	"context"
	"io"
	"time"

	"docvault/internal/models"
)

type DocumentRepository interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	SoftDelete(ctx context.Context, id string, deletedBy string, deletedAt time.Time) error
	Restore(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ListTrash(ctx context.Context, userID string, admin bool, page int, limit int) ([]*models.Document, error)
	TrashedBefore(ctx context.Context, userID string, admin bool, cutoff time.Time) ([]*models.Document, error)
}

type FileStorage interface {
	SaveFile(ctx context.Context, path string, mime string, size int64, reader io.Reader) error
	LoadFile(ctx context.Context, path string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, path string) error
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
