package shareservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/models"

	uuid "github.com/satori/go.uuid"
)

const pkg = "shareService/"

type ShareService struct {
	log      *slog.Logger
	shares   ShareRepository
	docs     DocumentProvider
	users    UserDirectory
	access   AccessResolver
	notifier Notifier
	activity ActivityLog
}

func New(
	log *slog.Logger,
	shares ShareRepository,
	docs DocumentProvider,
	users UserDirectory,
	access AccessResolver,
	notifier Notifier,
	activity ActivityLog,
) *ShareService {
	return &ShareService{
		log:      log,
		shares:   shares,
		docs:     docs,
		users:    users,
		access:   access,
		notifier: notifier,
		activity: activity,
	}
}

// UpsertShares grants or refreshes per-user access to a document. Every
// target must be an existing active user; each (document, user) pair ends up
// with exactly one active grant.
func (s *ShareService) UpsertShares(ctx context.Context, docID string, requester *models.User, targetIDs []string, canEdit bool, canDelete bool, expiresAt *time.Time) ([]*models.Share, error) {
	op := pkg + "UpsertShares"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to upsert shares", slog.String("doc_id", docID), slog.Int("targets", len(targetIDs)))

	if len(targetIDs) == 0 {
		log.Warn("no share targets given")
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	doc, err := s.documentByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if err := s.requireShareAccess(ctx, doc, requester); err != nil {
		log.Warn("user is not allowed to manage shares", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return nil, err
	}

	found, err := s.users.ExistingActiveIDs(ctx, targetIDs)
	if err != nil {
		log.Error("failed to validate share targets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	foundSet := make(map[string]bool, len(found))
	for _, id := range found {
		foundSet[id] = true
	}

	missing := make([]string, 0)
	for _, id := range targetIDs {
		if !foundSet[id] {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		log.Warn("share targets missing or inactive", slog.Any("ids", missing))
		return nil, &models.UnknownUsersError{IDs: missing}
	}

	now := time.Now()
	shares := make([]*models.Share, 0, len(targetIDs))

	for _, targetID := range targetIDs {
		share := &models.Share{
			ID:           uuid.NewV4().String(),
			DocumentID:   docID,
			SharedWithID: targetID,
			CanEdit:      canEdit,
			CanDelete:    canDelete,
			SharedAt:     now,
			ExpiresAt:    expiresAt,
		}

		stored, err := s.shares.Upsert(ctx, share)
		if err != nil {
			log.Error("failed to upsert share", slog.String("target_id", targetID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
		}

		shares = append(shares, stored)

		s.dispatchNotify(doc, stored, requester)
	}

	s.dispatchActivity(docID, requester.ID, "share", map[string]any{
		"targets":    targetIDs,
		"can_edit":   canEdit,
		"can_delete": canDelete,
	})

	log.Debug("shares upserted successfully", slog.String("doc_id", docID), slog.Int("count", len(shares)))

	return shares, nil
}

// ListShares returns the active grants, newest first. Owner and administrator
// only.
func (s *ShareService) ListShares(ctx context.Context, docID string, requester *models.User) ([]*models.Share, error) {
	op := pkg + "ListShares"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to list shares", slog.String("doc_id", docID))

	doc, err := s.documentByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if err := s.requireShareAccess(ctx, doc, requester); err != nil {
		log.Warn("user is not allowed to list shares", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return nil, err
	}

	shares, err := s.shares.ListActive(ctx, docID)
	if err != nil {
		log.Error("failed to list shares", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return shares, nil
}

// Revoke terminates a grant. Revoking an already revoked share is a no-op;
// the grant is never resurrected.
func (s *ShareService) Revoke(ctx context.Context, docID string, shareID string, requester *models.User) error {
	op := pkg + "Revoke"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to revoke share", slog.String("doc_id", docID), slog.String("share_id", shareID))

	doc, err := s.documentByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := s.requireShareAccess(ctx, doc, requester); err != nil {
		log.Warn("user is not allowed to revoke shares", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return err
	}

	share, err := s.shares.ShareByID(ctx, docID, shareID)
	if err != nil {
		if errors.Is(err, models.ErrShareNotFound) {
			log.Warn("share not found", slog.String("share_id", shareID))
			return fmt.Errorf("%s: %w", op, models.ErrShareNotFound)
		}
		log.Error("failed to get share", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !share.IsActive() {
		log.Debug("share already revoked", slog.String("share_id", shareID))
		return nil
	}

	if err := s.shares.Revoke(ctx, shareID, requester.ID, time.Now()); err != nil {
		log.Error("failed to revoke share", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	s.dispatchActivity(docID, requester.ID, "revoke", map[string]any{
		"share_id":       shareID,
		"shared_with_id": share.SharedWithID,
	})

	log.Debug("share revoked successfully", slog.String("share_id", shareID))

	return nil
}

// UpdatePermissions partially updates an active grant. Owner and
// administrator only.
func (s *ShareService) UpdatePermissions(ctx context.Context, docID string, shareID string, patch models.SharePatch, requester *models.User) error {
	op := pkg + "UpdatePermissions"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to update share permissions", slog.String("doc_id", docID), slog.String("share_id", shareID))

	doc, err := s.documentByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := s.requireShareAccess(ctx, doc, requester); err != nil {
		log.Warn("user is not allowed to update shares", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return err
	}

	share, err := s.shares.ShareByID(ctx, docID, shareID)
	if err != nil {
		if errors.Is(err, models.ErrShareNotFound) {
			log.Warn("share not found", slog.String("share_id", shareID))
			return fmt.Errorf("%s: %w", op, models.ErrShareNotFound)
		}
		log.Error("failed to get share", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !share.IsActive() {
		log.Warn("share is revoked", slog.String("share_id", shareID))
		return fmt.Errorf("%s: share is revoked: %w", op, models.ErrInvalidState)
	}

	if err := s.shares.UpdatePermissions(ctx, shareID, patch); err != nil {
		if errors.Is(err, models.ErrShareNotFound) {
			return fmt.Errorf("%s: %w", op, models.ErrShareNotFound)
		}
		log.Error("failed to update share permissions", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("share permissions updated successfully", slog.String("share_id", shareID))

	return nil
}

func (s *ShareService) documentByID(ctx context.Context, docID string) (*models.Document, error) {
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

func (s *ShareService) requireShareAccess(ctx context.Context, doc *models.Document, requester *models.User) error {
	ok, err := s.access.Decide(ctx, doc, requester, models.ActionShare)
	if err != nil {
		return models.ErrInternal
	}
	if !ok {
		return models.ErrForbidden
	}
	return nil
}

// dispatchNotify sends the share notification without blocking the request.
// Failures are logged and swallowed by contract.
func (s *ShareService) dispatchNotify(doc *models.Document, share *models.Share, actor *models.User) {
	go func() {
		if err := s.notifier.NotifyShare(context.Background(), doc.ID, doc.Title, share.SharedWithID, actor.ID, share.CanEdit); err != nil {
			s.log.Error("failed to send share notification", slog.String("doc_id", doc.ID), slog.String("error", err.Error()))
		}
	}()
}

func (s *ShareService) dispatchActivity(docID string, userID string, action string, metadata map[string]any) {
	go func() {
		if err := s.activity.Record(context.Background(), docID, userID, action, metadata); err != nil {
			s.log.Error("failed to record activity", slog.String("doc_id", docID), slog.String("error", err.Error()))
		}
	}()
}
