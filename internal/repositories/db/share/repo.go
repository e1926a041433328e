package sharerepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"docvault/internal/entities"
	"docvault/internal/models"

	"github.com/jmoiron/sqlx"
)

const pkg = "shareRepo/"

const shareColumns = `
		s.id AS id,
		s.document_id AS document_id,
		s.shared_with_id AS shared_with_id,
		s.can_edit AS can_edit,
		s.can_delete AS can_delete,
		s.shared_at AS shared_at,
		s.expires_at AS expires_at,
		s.revoked_at AS revoked_at,
		s.revoked_by AS revoked_by`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// Upsert inserts a grant or, when an active grant for the (document, user)
// pair already exists, replaces its permissions in place. The conflict target
// is the partial unique index on active rows, so two concurrent upserts can
// never leave duplicate active grants.
func (r *repository) Upsert(ctx context.Context, share *models.Share) (*models.Share, error) {
	op := pkg + "Upsert"

	rawShare := entities.Share{}

	err := r.db.GetContext(ctx, &rawShare,
		`INSERT INTO document_shares AS s (id, document_id, shared_with_id, can_edit, can_delete, shared_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (document_id, shared_with_id) WHERE revoked_at IS NULL
		DO UPDATE SET can_edit = EXCLUDED.can_edit, can_delete = EXCLUDED.can_delete, shared_at = EXCLUDED.shared_at, expires_at = EXCLUDED.expires_at
		RETURNING`+shareColumns,
		share.ID, share.DocumentID, share.SharedWithID, share.CanEdit, share.CanDelete,
		share.SharedAt, share.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return shareFromRow(rawShare), nil
}

// ActiveShare returns the single unrevoked grant for the pair, if any.
func (r *repository) ActiveShare(ctx context.Context, documentID string, userID string) (*models.Share, error) {
	op := pkg + "ActiveShare"

	rawShare := entities.Share{}

	err := r.db.GetContext(ctx, &rawShare,
		`SELECT`+shareColumns+`
		FROM document_shares s
		WHERE s.document_id = $1 AND s.shared_with_id = $2 AND s.revoked_at IS NULL`,
		documentID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrShareNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return shareFromRow(rawShare), nil
}

func (r *repository) ShareByID(ctx context.Context, documentID string, shareID string) (*models.Share, error) {
	op := pkg + "ShareByID"

	rawShare := entities.Share{}

	err := r.db.GetContext(ctx, &rawShare,
		`SELECT`+shareColumns+`
		FROM document_shares s
		WHERE s.id = $1 AND s.document_id = $2`,
		shareID, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrShareNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return shareFromRow(rawShare), nil
}

func (r *repository) ListActive(ctx context.Context, documentID string) ([]*models.Share, error) {
	op := pkg + "ListActive"

	rawShares := make([]entities.Share, 0)

	err := r.db.SelectContext(ctx, &rawShares,
		`SELECT`+shareColumns+`
		FROM document_shares s
		WHERE s.document_id = $1 AND s.revoked_at IS NULL
		ORDER BY s.shared_at DESC`,
		documentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	shares := make([]*models.Share, 0, len(rawShares))

	for _, rawShare := range rawShares {
		shares = append(shares, shareFromRow(rawShare))
	}

	return shares, nil
}

// Revoke is terminal; revoking an already revoked share is a no-op and the
// revoked_at guard guarantees it is never overwritten.
func (r *repository) Revoke(ctx context.Context, shareID string, revokedBy string, revokedAt time.Time) error {
	op := pkg + "Revoke"

	_, err := r.db.ExecContext(ctx,
		`UPDATE document_shares SET revoked_at = $2, revoked_by = $3 WHERE id = $1 AND revoked_at IS NULL`,
		shareID, revokedAt, revokedBy)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) UpdatePermissions(ctx context.Context, shareID string, patch models.SharePatch) error {
	op := pkg + "UpdatePermissions"

	res, err := r.db.ExecContext(ctx,
		`UPDATE document_shares SET
			can_edit = COALESCE($2, can_edit),
			can_delete = COALESCE($3, can_delete)
		WHERE id = $1 AND revoked_at IS NULL`,
		shareID, patch.CanEdit, patch.CanDelete)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrShareNotFound)
	}

	return nil
}

func shareFromRow(raw entities.Share) *models.Share {
	share := &models.Share{
		ID:           raw.ID,
		DocumentID:   raw.DocumentID,
		SharedWithID: raw.SharedWithID,
		CanEdit:      raw.CanEdit,
		CanDelete:    raw.CanDelete,
		SharedAt:     raw.SharedAt,
	}

	if raw.ExpiresAt.Valid {
		t := raw.ExpiresAt.Time
		share.ExpiresAt = &t
	}

	if raw.RevokedAt.Valid {
		t := raw.RevokedAt.Time
		share.RevokedAt = &t
	}

	if raw.RevokedBy.Valid {
		share.RevokedBy = raw.RevokedBy.String
	}

	return share
}
