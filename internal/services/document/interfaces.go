package documentservice

import (
	"context"
	"io"
	"time"

	"docvault/internal/models"
)

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	UpdateMetadata(ctx context.Context, id string, patch models.DocumentPatch, updatedAt time.Time) error
	IncrementView(ctx context.Context, id string, viewedAt time.Time) error
	FilteredDocuments(ctx context.Context, filter models.DocumentFilter) ([]*models.Document, error)
}

type FileStorage interface {
	SaveFile(ctx context.Context, path string, mime string, size int64, reader io.Reader) error
	LoadFile(ctx context.Context, path string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, path string) error
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}) error
	Del(ctx context.Context, keys ...string) error
}

type AccessResolver interface {
	Decide(ctx context.Context, doc *models.Document, user *models.User, action models.Action) (bool, error)
}

type EntityProvider interface {
	Exists(ctx context.Context, ref models.EntityRef) (bool, error)
	IsMember(ctx context.Context, ref models.EntityRef, userID string) (bool, error)
}

type ActivityLog interface {
	Record(ctx context.Context, documentID string, userID string, action string, metadata map[string]any) error
}
