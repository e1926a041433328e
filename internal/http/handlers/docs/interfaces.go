package docs

import (
	"context"
	"io"
	"time"

	"docvault/internal/models"
)

const pkg = "docsHandler/"

type DocumentManager interface {
	UploadDocument(ctx context.Context, requester *models.User, doc *models.Document, content io.Reader) (string, error)
	DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, io.ReadCloser, error)
	Preview(ctx context.Context, docID string, requester *models.User) (*models.Document, error)
	ListDocuments(ctx context.Context, requester *models.User, filter models.DocumentFilter) ([]*models.Document, error)
	UpdateMetadata(ctx context.Context, docID string, patch models.DocumentPatch, requester *models.User) (*models.Document, error)
}

type LifecycleManager interface {
	SoftDelete(ctx context.Context, docID string, requester *models.User) error
	Restore(ctx context.Context, docID string, requester *models.User) error
	Purge(ctx context.Context, docID string, requester *models.User) error
	ListTrash(ctx context.Context, requester *models.User, page int, limit int) ([]*models.Document, error)
	EmptySweep(ctx context.Context, requester *models.User) (int, error)
}

type ShareManager interface {
	UpsertShares(ctx context.Context, docID string, requester *models.User, targetIDs []string, canEdit bool, canDelete bool, expiresAt *time.Time) ([]*models.Share, error)
	ListShares(ctx context.Context, docID string, requester *models.User) ([]*models.Share, error)
	Revoke(ctx context.Context, docID string, shareID string, requester *models.User) error
	UpdatePermissions(ctx context.Context, docID string, shareID string, patch models.SharePatch, requester *models.User) error
}

type FavoriteManager interface {
	Add(ctx context.Context, docID string, requester *models.User) error
	Remove(ctx context.Context, docID string, requester *models.User) error
	ListFavorites(ctx context.Context, requester *models.User, page int, limit int) ([]*models.Document, error)
}

type LinkManager interface {
	Link(ctx context.Context, docID string, ref models.EntityRef, requester *models.User) error
	Unlink(ctx context.Context, docID string, entityType *models.EntityType, requester *models.User) error
}
