package lifecycleservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/models"
)

const pkg = "lifecycleService/"

// LifecycleService drives the Active -> Trashed -> Destroyed machine.
// Physical file removal is always best effort: the database row is the source
// of truth and storage errors never abort a purge.
type LifecycleService struct {
	log       *slog.Logger
	docs      DocumentRepository
	files     FileStorage
	access    AccessResolver
	cache     Cache
	activity  ActivityLog
	retention time.Duration
}

func New(
	log *slog.Logger,
	docs DocumentRepository,
	files FileStorage,
	access AccessResolver,
	cache Cache,
	activity ActivityLog,
	retention time.Duration,
) *LifecycleService {
	return &LifecycleService{
		log:       log,
		docs:      docs,
		files:     files,
		access:    access,
		cache:     cache,
		activity:  activity,
		retention: retention,
	}
}

func (s *LifecycleService) SoftDelete(ctx context.Context, docID string, requester *models.User) error {
	op := pkg + "SoftDelete"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to soft delete document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	doc, err := s.documentByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.IsTrashed() {
		log.Warn("document already deleted", slog.String("doc_id", docID))
		return fmt.Errorf("%s: document already deleted: %w", op, models.ErrInvalidState)
	}

	if err := s.requireDeleteAccess(ctx, doc, requester); err != nil {
		log.Warn("user doesn't have delete access", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return err
	}

	if err := s.docs.SoftDelete(ctx, docID, requester.ID, time.Now()); err != nil {
		if errors.Is(err, models.ErrInvalidState) {
			return fmt.Errorf("%s: %w", op, models.ErrInvalidState)
		}
		log.Error("failed to soft delete document", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	s.invalidate(ctx, docID)
	s.dispatchActivity(docID, requester.ID, "delete", nil)

	log.Debug("document soft deleted successfully", slog.String("doc_id", docID))

	return nil
}

// Restore brings a trashed document back. Only the owner, the user who
// deleted it, or an administrator may restore.
func (s *LifecycleService) Restore(ctx context.Context, docID string, requester *models.User) error {
	op := pkg + "Restore"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to restore document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	doc, err := s.documentByID(ctx, docID)
	if err != nil {
		return err
	}

	if !doc.IsTrashed() {
		log.Warn("document is not deleted", slog.String("doc_id", docID))
		return fmt.Errorf("%s: document is not deleted: %w", op, models.ErrInvalidState)
	}

	if !requester.IsAdmin() && doc.OwnerID != requester.ID && doc.DeletedBy != requester.ID {
		log.Warn("user is not allowed to restore", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return models.ErrForbidden
	}

	if err := s.docs.Restore(ctx, docID); err != nil {
		if errors.Is(err, models.ErrInvalidState) {
			return fmt.Errorf("%s: %w", op, models.ErrInvalidState)
		}
		log.Error("failed to restore document", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	s.invalidate(ctx, docID)
	s.dispatchActivity(docID, requester.ID, "restore", nil)

	log.Debug("document restored successfully", slog.String("doc_id", docID))

	return nil
}

// Purge removes a document permanently. Trashed state is not required: an
// active document can be purged directly by anyone holding delete access.
func (s *LifecycleService) Purge(ctx context.Context, docID string, requester *models.User) error {
	op := pkg + "Purge"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to purge document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	doc, err := s.documentByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := s.requireDeleteAccess(ctx, doc, requester); err != nil {
		log.Warn("user doesn't have delete access", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return err
	}

	s.deleteFile(ctx, doc)

	if err := s.docs.Delete(ctx, docID); err != nil {
		log.Error("failed to delete document row", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	s.invalidate(ctx, docID)
	s.dispatchActivity(docID, requester.ID, "purge", nil)

	log.Debug("document purged successfully", slog.String("doc_id", docID))

	return nil
}

func (s *LifecycleService) ListTrash(ctx context.Context, requester *models.User, page int, limit int) ([]*models.Document, error) {
	op := pkg + "ListTrash"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to list trash", slog.String("user_id", requester.ID))

	docs, err := s.docs.ListTrash(ctx, requester.ID, requester.IsAdmin(), page, limit)
	if err != nil {
		log.Error("failed to list trash", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return docs, nil
}

// EmptySweep purges every trashed document older than the retention window,
// scoped the same way as ListTrash. Returns the number of purged documents.
func (s *LifecycleService) EmptySweep(ctx context.Context, requester *models.User) (int, error) {
	op := pkg + "EmptySweep"

	log := s.log.With(slog.String("op", op))

	cutoff := time.Now().Add(-s.retention)

	log.Debug("attempting to sweep trash", slog.String("user_id", requester.ID), slog.Time("cutoff", cutoff))

	docs, err := s.docs.TrashedBefore(ctx, requester.ID, requester.IsAdmin(), cutoff)
	if err != nil {
		log.Error("failed to collect sweep candidates", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	purged := 0

	for _, doc := range docs {
		s.deleteFile(ctx, doc)

		if err := s.docs.Delete(ctx, doc.ID); err != nil {
			log.Error("failed to delete document row during sweep", slog.String("doc_id", doc.ID), slog.String("error", err.Error()))
			continue
		}

		s.invalidate(ctx, doc.ID)
		purged++
	}

	s.dispatchActivity("", requester.ID, "sweep", map[string]any{"purged": purged})

	log.Debug("trash swept", slog.Int("purged", purged))

	return purged, nil
}

func (s *LifecycleService) documentByID(ctx context.Context, docID string) (*models.Document, error) {
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

func (s *LifecycleService) requireDeleteAccess(ctx context.Context, doc *models.Document, requester *models.User) error {
	ok, err := s.access.Decide(ctx, doc, requester, models.ActionDelete)
	if err != nil {
		return models.ErrInternal
	}
	if !ok {
		return models.ErrForbidden
	}
	return nil
}

// deleteFile removes the stored object; failures are logged and swallowed so
// the database deletion always proceeds.
func (s *LifecycleService) deleteFile(ctx context.Context, doc *models.Document) {
	if err := s.files.DeleteFile(ctx, doc.FilePath); err != nil {
		s.log.Warn("failed to delete file from storage",
			slog.String("doc_id", doc.ID),
			slog.String("path", doc.FilePath),
			slog.String("error", err.Error()))
	}
}

func (s *LifecycleService) invalidate(ctx context.Context, docID string) {
	if err := s.cache.Del(ctx, docID); err != nil {
		s.log.Error("failed to invalidate document cache", slog.String("doc_id", docID), slog.String("error", err.Error()))
	}
}

func (s *LifecycleService) dispatchActivity(docID string, userID string, action string, metadata map[string]any) {
	go func() {
		if err := s.activity.Record(context.Background(), docID, userID, action, metadata); err != nil {
			s.log.Error("failed to record activity", slog.String("doc_id", docID), slog.String("error", err.Error()))
		}
	}()
}
