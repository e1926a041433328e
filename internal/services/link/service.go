package linkservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/models"
)

const pkg = "linkService/"

// LinkService owns the single polymorphic association between a document and
// its parent record.
type LinkService struct {
	log      *slog.Logger
	docs     DocumentRepository
	entities EntityProvider
	access   AccessResolver
	cache    Cache
	activity ActivityLog
}

func New(
	log *slog.Logger,
	docs DocumentRepository,
	entities EntityProvider,
	access AccessResolver,
	cache Cache,
	activity ActivityLog,
) *LinkService {
	return &LinkService{
		log:      log,
		docs:     docs,
		entities: entities,
		access:   access,
		cache:    cache,
		activity: activity,
	}
}

// Link attaches the document to the given entity, replacing any prior link.
// The target entity must exist and the requester must hold edit access.
func (s *LinkService) Link(ctx context.Context, docID string, ref models.EntityRef, requester *models.User) error {
	op := pkg + "Link"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to link document",
		slog.String("doc_id", docID),
		slog.String("entity_type", string(ref.Type)),
		slog.String("entity_id", ref.ID))

	if !ref.Type.IsValid() || ref.ID == "" {
		log.Warn("invalid entity reference")
		return fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	doc, err := s.documentByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := s.requireEditAccess(ctx, doc, requester); err != nil {
		log.Warn("user doesn't have edit access", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return err
	}

	exists, err := s.entities.Exists(ctx, ref)
	if err != nil {
		if errors.Is(err, models.ErrInvalidParams) {
			return fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
		}
		log.Error("failed to check entity existence", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !exists {
		log.Warn("entity not found", slog.String("entity_type", string(ref.Type)), slog.String("entity_id", ref.ID))
		return &models.EntityNotFoundError{Type: ref.Type, ID: ref.ID}
	}

	if err := s.docs.SetEntityLink(ctx, docID, &ref, time.Now()); err != nil {
		log.Error("failed to set entity link", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	s.invalidate(ctx, docID)
	s.dispatchActivity(docID, requester.ID, "link", map[string]any{
		"entity_type": string(ref.Type),
		"entity_id":   ref.ID,
	})

	log.Debug("document linked successfully", slog.String("doc_id", docID))

	return nil
}

// Unlink clears the document's entity link. When entityType is given the link
// is cleared only if it currently matches that type; a mismatch is a no-op.
func (s *LinkService) Unlink(ctx context.Context, docID string, entityType *models.EntityType, requester *models.User) error {
	op := pkg + "Unlink"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to unlink document", slog.String("doc_id", docID))

	if entityType != nil && !entityType.IsValid() {
		log.Warn("invalid entity type")
		return fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	doc, err := s.documentByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := s.requireEditAccess(ctx, doc, requester); err != nil {
		log.Warn("user doesn't have edit access", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return err
	}

	if entityType != nil && (doc.Entity == nil || doc.Entity.Type != *entityType) {
		log.Debug("link type mismatch, nothing to unlink", slog.String("doc_id", docID))
		return nil
	}

	if err := s.docs.SetEntityLink(ctx, docID, nil, time.Now()); err != nil {
		log.Error("failed to clear entity link", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	s.invalidate(ctx, docID)
	s.dispatchActivity(docID, requester.ID, "unlink", nil)

	log.Debug("document unlinked successfully", slog.String("doc_id", docID))

	return nil
}

func (s *LinkService) documentByID(ctx context.Context, docID string) (*models.Document, error) {
	op := pkg + "documentByID"

	doc, err := s.docs.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		s.log.Error("failed to get document", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return doc, nil
}

func (s *LinkService) requireEditAccess(ctx context.Context, doc *models.Document, requester *models.User) error {
	ok, err := s.access.Decide(ctx, doc, requester, models.ActionEdit)
	if err != nil {
		return models.ErrInternal
	}
	if !ok {
		return models.ErrForbidden
	}
	return nil
}

func (s *LinkService) invalidate(ctx context.Context, docID string) {
	if err := s.cache.Del(ctx, docID); err != nil {
		s.log.Error("failed to invalidate document cache", slog.String("doc_id", docID), slog.String("error", err.Error()))
	}
}

func (s *LinkService) dispatchActivity(docID string, userID string, action string, metadata map[string]any) {
	go func() {
		if err := s.activity.Record(context.Background(), docID, userID, action, metadata); err != nil {
			s.log.Error("failed to record activity", slog.String("doc_id", docID), slog.String("error", err.Error()))
		}
	}()
}
