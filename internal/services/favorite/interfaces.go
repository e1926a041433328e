package favoriteservice

import (
	"context"

	"docvault/internal/models"
)

type FavoriteRepository interface {
	Add(ctx context.Context, documentID string, userID string) error
	Remove(ctx context.Context, documentID string, userID string) error
	ListByUser(ctx context.Context, userID string, page int, limit int) ([]*models.Document, error)
}

type DocumentProvider interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
}
