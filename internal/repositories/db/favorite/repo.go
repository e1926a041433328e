package favoriterepo

import (
	"context"
	"fmt"

	"docvault/internal/entities"
	"docvault/internal/models"

	"github.com/jmoiron/sqlx"
)

const pkg = "favoriteRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// Add is idempotent: a second add of the same pair hits the primary key and
// is dropped by ON CONFLICT.
func (r *repository) Add(ctx context.Context, documentID string, userID string) error {
	op := pkg + "Add"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO document_favorites (document_id, user_id) VALUES ($1, $2)
		ON CONFLICT (document_id, user_id) DO NOTHING`,
		documentID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Remove of an absent pair is a no-op, not an error.
func (r *repository) Remove(ctx context.Context, documentID string, userID string) error {
	op := pkg + "Remove"

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM document_favorites WHERE document_id = $1 AND user_id = $2`,
		documentID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID string, page int, limit int) ([]*models.Document, error) {
	op := pkg + "ListByUser"

	rawDocs := make([]entities.Document, 0)

	err := r.db.SelectContext(ctx, &rawDocs,
		`SELECT
			d.id AS id,
			d.owner_id AS owner_id,
			d.title AS title,
			d.file_name AS file_name,
			d.file_path AS file_path,
			d.mime AS mime,
			d.size AS size,
			d.type AS type,
			d.description AS description,
			d.tags AS tags,
			d.is_public AS is_public,
			d.entity_type AS entity_type,
			d.entity_id AS entity_id,
			d.view_count AS view_count,
			d.last_viewed_at AS last_viewed_at,
			d.created_at AS created_at,
			d.updated_at AS updated_at,
			d.deleted_at AS deleted_at,
			d.deleted_by AS deleted_by
		FROM documents d
		INNER JOIN document_favorites f ON f.document_id = d.id
		WHERE f.user_id = $1 AND d.deleted_at IS NULL
		ORDER BY d.updated_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, page*limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docs := make([]*models.Document, 0, len(rawDocs))

	for _, rawDoc := range rawDocs {
		doc := &models.Document{
			ID:        rawDoc.ID,
			OwnerID:   rawDoc.OwnerID,
			Title:     rawDoc.Title,
			FileName:  rawDoc.FileName,
			FilePath:  rawDoc.FilePath,
			Mime:      rawDoc.Mime,
			Size:      rawDoc.Size,
			Type:      models.DocType(rawDoc.Type),
			Tags:      []string(rawDoc.Tags),
			IsPublic:  rawDoc.IsPublic,
			ViewCount: rawDoc.ViewCount,
			CreatedAt: rawDoc.CreatedAt,
			UpdatedAt: rawDoc.UpdatedAt,
		}

		if rawDoc.Description.Valid {
			doc.Description = rawDoc.Description.String
		}

		if rawDoc.EntityType.Valid && rawDoc.EntityID.Valid {
			doc.Entity = &models.EntityRef{
				Type: models.EntityType(rawDoc.EntityType.String),
				ID:   rawDoc.EntityID.String,
			}
		}

		if rawDoc.LastViewedAt.Valid {
			t := rawDoc.LastViewedAt.Time
			doc.LastViewedAt = &t
		}

		docs = append(docs, doc)
	}

	return docs, nil
}
