package documentrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"docvault/internal/entities"
	"docvault/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "documentRepo/"

const docColumns = `
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
		d.deleted_by AS deleted_by`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateDocument(ctx context.Context, doc *models.Document) error {
	op := pkg + "CreateDocument"

	var entityType, entityID any
	if doc.Entity != nil {
		entityType = string(doc.Entity.Type)
		entityID = doc.Entity.ID
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, owner_id, title, file_name, file_path, mime, size, type, description, tags, is_public, entity_type, entity_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		doc.ID, doc.OwnerID, doc.Title, doc.FileName, doc.FilePath, doc.Mime, doc.Size,
		string(doc.Type), doc.Description, pq.Array(doc.Tags), doc.IsPublic,
		entityType, entityID, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	op := pkg + "DocumentByID"

	rawDoc := entities.Document{}

	err := r.db.GetContext(ctx, &rawDoc,
		`SELECT`+docColumns+`
		FROM documents d
		WHERE d.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docFromRow(rawDoc), nil
}

func (r *repository) UpdateMetadata(ctx context.Context, id string, patch models.DocumentPatch, updatedAt time.Time) error {
	op := pkg + "UpdateMetadata"

	var docType *string
	if patch.Type != nil {
		s := string(*patch.Type)
		docType = &s
	}

	var tags any
	if patch.Tags != nil {
		tags = pq.Array(*patch.Tags)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			type = COALESCE($4, type),
			tags = COALESCE($5, tags),
			is_public = COALESCE($6, is_public),
			updated_at = $7
		WHERE id = $1`,
		id, patch.Title, patch.Description, docType, tags, patch.IsPublic, updatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
	}

	return nil
}

func (r *repository) SetEntityLink(ctx context.Context, id string, ref *models.EntityRef, updatedAt time.Time) error {
	op := pkg + "SetEntityLink"

	var entityType, entityID any
	if ref != nil {
		entityType = string(ref.Type)
		entityID = ref.ID
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET entity_type = $2, entity_id = $3, updated_at = $4 WHERE id = $1`,
		id, entityType, entityID, updatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
	}

	return nil
}

// SoftDelete marks an active document as trashed. The deleted_at guard makes
// the transition atomic: a second call finds zero matching rows.
func (r *repository) SoftDelete(ctx context.Context, id string, deletedBy string, deletedAt time.Time) error {
	op := pkg + "SoftDelete"

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET deleted_at = $2, deleted_by = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: document already deleted: %w", op, models.ErrInvalidState)
	}

	return nil
}

func (r *repository) Restore(ctx context.Context, id string) error {
	op := pkg + "Restore"

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET deleted_at = NULL, deleted_by = NULL WHERE id = $1 AND deleted_at IS NOT NULL`,
		id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: document is not deleted: %w", op, models.ErrInvalidState)
	}

	return nil
}

// Delete removes the row permanently; shares and favorites cascade.
func (r *repository) Delete(ctx context.Context, id string) error {
	op := pkg + "Delete"

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) IncrementView(ctx context.Context, id string, viewedAt time.Time) error {
	op := pkg + "IncrementView"

	_, err := r.db.ExecContext(ctx,
		`UPDATE documents SET view_count = view_count + 1, last_viewed_at = $2 WHERE id = $1`,
		id, viewedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) ListTrash(ctx context.Context, userID string, admin bool, page int, limit int) ([]*models.Document, error) {
	op := pkg + "ListTrash"

	rawDocs := make([]entities.Document, 0)

	err := r.db.SelectContext(ctx, &rawDocs,
		`SELECT`+docColumns+`
		FROM documents d
		WHERE d.deleted_at IS NOT NULL
		AND ($2 OR d.owner_id = $1 OR d.deleted_by = $1)
		ORDER BY d.deleted_at DESC
		LIMIT $3 OFFSET $4`,
		userID, admin, limit, page*limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docsFromRows(rawDocs), nil
}

// TrashedBefore returns trashed documents older than the cutoff, scoped the
// same way as ListTrash.
func (r *repository) TrashedBefore(ctx context.Context, userID string, admin bool, cutoff time.Time) ([]*models.Document, error) {
	op := pkg + "TrashedBefore"

	rawDocs := make([]entities.Document, 0)

	err := r.db.SelectContext(ctx, &rawDocs,
		`SELECT`+docColumns+`
		FROM documents d
		WHERE d.deleted_at IS NOT NULL
		AND d.deleted_at < $3
		AND ($2 OR d.owner_id = $1 OR d.deleted_by = $1)`,
		userID, admin, cutoff)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docsFromRows(rawDocs), nil
}

// FilteredDocuments returns active documents matching the non-access filters.
// Access filtering happens in the service through the resolver, so the single
// fetch and the listing can never disagree on visibility.
func (r *repository) FilteredDocuments(ctx context.Context, filter models.DocumentFilter) ([]*models.Document, error) {
	op := pkg + "FilteredDocuments"

	rawDocs := make([]entities.Document, 0)

	err := r.db.SelectContext(ctx, &rawDocs,
		`SELECT`+docColumns+`
		FROM documents d
		WHERE d.deleted_at IS NULL
		AND ($1 = '' OR d.title ILIKE '%' || $1 || '%' OR d.file_name ILIKE '%' || $1 || '%')
		AND ($2 = '' OR d.type = $2)
		AND ($3 = '' OR d.entity_type = $3)
		AND ($4 = '' OR d.entity_id = $4)
		AND ($5 = '' OR $5 = ANY(d.tags))
		ORDER BY d.updated_at DESC`,
		filter.Search, string(filter.Type), string(filter.EntityType), filter.EntityID, filter.Tag)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docsFromRows(rawDocs), nil
}

func docFromRow(raw entities.Document) *models.Document {
	doc := &models.Document{
		ID:        raw.ID,
		OwnerID:   raw.OwnerID,
		Title:     raw.Title,
		FileName:  raw.FileName,
		FilePath:  raw.FilePath,
		Mime:      raw.Mime,
		Size:      raw.Size,
		Type:      models.DocType(raw.Type),
		Tags:      []string(raw.Tags),
		IsPublic:  raw.IsPublic,
		ViewCount: raw.ViewCount,
		CreatedAt: raw.CreatedAt,
		UpdatedAt: raw.UpdatedAt,
	}

	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	if raw.Description.Valid {
		doc.Description = raw.Description.String
	}

	if raw.EntityType.Valid && raw.EntityID.Valid {
		doc.Entity = &models.EntityRef{
			Type: models.EntityType(raw.EntityType.String),
			ID:   raw.EntityID.String,
		}
	}

	if raw.LastViewedAt.Valid {
		t := raw.LastViewedAt.Time
		doc.LastViewedAt = &t
	}

	if raw.DeletedAt.Valid {
		t := raw.DeletedAt.Time
		doc.DeletedAt = &t
	}

	if raw.DeletedBy.Valid {
		doc.DeletedBy = raw.DeletedBy.String
	}

	return doc
}

func docsFromRows(rawDocs []entities.Document) []*models.Document {
	docs := make([]*models.Document, 0, len(rawDocs))

	for _, rawDoc := range rawDocs {
		docs = append(docs, docFromRow(rawDoc))
	}

	return docs
}
