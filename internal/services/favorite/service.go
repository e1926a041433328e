package favoriteservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"docvault/internal/models"
)

const pkg = "favoriteService/"

// FavoriteService keeps per-user bookmark sets. Bookmarking does not confer
// any access: full content still goes through the access resolver wherever it
// is rendered.
type FavoriteService struct {
	log       *slog.Logger
	favorites FavoriteRepository
	docs      DocumentProvider
}

func New(log *slog.Logger, favorites FavoriteRepository, docs DocumentProvider) *FavoriteService {
	return &FavoriteService{
		log:       log,
		favorites: favorites,
		docs:      docs,
	}
}

// Add bookmarks the document; adding twice is a no-op.
func (s *FavoriteService) Add(ctx context.Context, docID string, requester *models.User) error {
	op := pkg + "Add"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to add favorite", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	if err := s.ensureDocumentExists(ctx, docID); err != nil {
		return err
	}

	if err := s.favorites.Add(ctx, docID, requester.ID); err != nil {
		log.Error("failed to add favorite", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("favorite added successfully", slog.String("doc_id", docID))

	return nil
}

// Remove drops the bookmark; removing an absent one is a no-op.
func (s *FavoriteService) Remove(ctx context.Context, docID string, requester *models.User) error {
	op := pkg + "Remove"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to remove favorite", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	if err := s.ensureDocumentExists(ctx, docID); err != nil {
		return err
	}

	if err := s.favorites.Remove(ctx, docID, requester.ID); err != nil {
		log.Error("failed to remove favorite", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("favorite removed successfully", slog.String("doc_id", docID))

	return nil
}

// ListFavorites returns the requester's non-trashed bookmarks, most recently
// updated first.
func (s *FavoriteService) ListFavorites(ctx context.Context, requester *models.User, page int, limit int) ([]*models.Document, error) {
	op := pkg + "ListFavorites"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to list favorites", slog.String("user_id", requester.ID))

	docs, err := s.favorites.ListByUser(ctx, requester.ID, page, limit)
	if err != nil {
		log.Error("failed to list favorites", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return docs, nil
}

func (s *FavoriteService) ensureDocumentExists(ctx context.Context, docID string) error {
	op := pkg + "ensureDocumentExists"

	if _, err := s.docs.DocumentByID(ctx, docID); err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		s.log.Error("failed to get document", slog.String("op", op), slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return nil
}
