package documentservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"docvault/internal/models"

	uuid "github.com/satori/go.uuid"
)

const pkg = "documentService/"

// DocumentService is the orchestrator behind the document surface: creation,
// fetch, listing, metadata edits and view accounting. Access questions are
// always delegated to the resolver so every path answers them identically.
type DocumentService struct {
	log      *slog.Logger
	docRepo  DocumentRepository
	cache    Cache
	files    FileStorage
	access   AccessResolver
	entities EntityProvider
	activity ActivityLog
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	cache Cache,
	files FileStorage,
	access AccessResolver,
	entities EntityProvider,
	activity ActivityLog,
) *DocumentService {
	return &DocumentService{
		log:      log,
		docRepo:  docRepo,
		cache:    cache,
		files:    files,
		access:   access,
		entities: entities,
		activity: activity,
	}
}

// UploadDocument stores the file and persists the metadata row. When the
// document is born linked to an entity, the entity must exist and the creator
// must be a member of it (an administrator bypasses the membership check).
func (ds *DocumentService) UploadDocument(ctx context.Context, requester *models.User, doc *models.Document, content io.Reader) (string, error) {
	op := pkg + "UploadDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to upload document", slog.String("title", doc.Title), slog.String("user_id", requester.ID))

	if doc.Title == "" || doc.FileName == "" || doc.Size < 0 {
		log.Warn("invalid document metadata")
		return "", fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	if doc.Type != "" && !doc.Type.IsValid() {
		log.Warn("unknown document type", slog.String("type", string(doc.Type)))
		return "", fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	if doc.Entity != nil {
		if err := ds.validateEntityTarget(ctx, *doc.Entity, requester); err != nil {
			return "", err
		}
	}

	doc.ID = uuid.NewV4().String()
	doc.OwnerID = requester.ID
	doc.FilePath = fmt.Sprintf("%s/%s", requester.ID, doc.ID)
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt

	if doc.Type == "" {
		doc.Type = models.DocTypeFromMime(doc.Mime)
	}

	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	if err := ds.files.SaveFile(ctx, doc.FilePath, doc.Mime, doc.Size, content); err != nil {
		log.Error("failed to save file", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := ds.docRepo.CreateDocument(ctx, doc); err != nil {
		log.Error("failed to save document metadata", slog.String("error", err.Error()))
		if derr := ds.files.DeleteFile(ctx, doc.FilePath); derr != nil {
			log.Warn("failed to clean up stored file", slog.String("error", derr.Error()))
		}
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("document uploaded successfully", slog.String("doc_id", doc.ID), slog.String("owner_id", doc.OwnerID))

	return doc.ID, nil
}

// DocumentByID returns the metadata and a content reader. The view counter is
// untouched; preview handles counting.
func (ds *DocumentService) DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, io.ReadCloser, error) {
	op := pkg + "DocumentByID"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to get document by id", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}

	if err := ds.requireViewAccess(ctx, doc, requester); err != nil {
		log.Warn("user doesn't have access for document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return nil, nil, err
	}

	file, err := ds.files.LoadFile(ctx, doc.FilePath)
	if err != nil {
		log.Error("failed to load file from storage", slog.String("error", err.Error()))
		return nil, nil, models.ErrInternal
	}

	log.Debug("document with content found successfully", slog.String("doc_id", docID))

	return doc, file, nil
}

// Preview returns the metadata alone and bumps the view counter after the
// access check passed.
func (ds *DocumentService) Preview(ctx context.Context, docID string, requester *models.User) (*models.Document, error) {
	op := pkg + "Preview"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to preview document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if err := ds.requireViewAccess(ctx, doc, requester); err != nil {
		log.Warn("user doesn't have access for document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return nil, err
	}

	if err := ds.IncrementView(ctx, docID); err != nil {
		log.Error("failed to increment view count", slog.String("error", err.Error()))
	}

	return doc, nil
}

// IncrementView bumps the counter unconditionally. Callers gate view access
// before invoking it; it performs no authorization of its own.
func (ds *DocumentService) IncrementView(ctx context.Context, docID string) error {
	op := pkg + "IncrementView"

	if err := ds.docRepo.IncrementView(ctx, docID, time.Now()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := ds.cache.Del(ctx, docID); err != nil {
		ds.log.Error("failed to invalidate document cache", slog.String("op", op), slog.String("error", err.Error()))
	}

	return nil
}

// ListDocuments returns every active document matching the filters that the
// requester may view. The access predicate is the resolver itself, applied
// per candidate, never a second SQL-side approximation.
func (ds *DocumentService) ListDocuments(ctx context.Context, requester *models.User, filter models.DocumentFilter) ([]*models.Document, error) {
	op := pkg + "ListDocuments"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to list documents",
		slog.String("requester_id", requester.ID),
		slog.String("search", filter.Search),
		slog.String("type", string(filter.Type)),
		slog.Int("limit", filter.Limit))

	if !filter.IsValid() {
		log.Warn("invalid filter format")
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	candidates, err := ds.docRepo.FilteredDocuments(ctx, filter)
	if err != nil {
		log.Error("failed to list documents", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	visible := make([]*models.Document, 0, len(candidates))

	for _, doc := range candidates {
		ok, err := ds.access.Decide(ctx, doc, requester, models.ActionView)
		if err != nil {
			log.Error("failed to resolve access", slog.String("doc_id", doc.ID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
		}

		if ok {
			visible = append(visible, doc)
		}
	}

	visible = paginate(visible, filter.Page, filter.Limit)

	log.Debug("documents listed successfully",
		slog.Int("count", len(visible)),
		slog.String("requester_id", requester.ID))

	return visible, nil
}

// UpdateMetadata applies a partial patch. Editing a trashed document is an
// invalid-state error regardless of who asks.
func (ds *DocumentService) UpdateMetadata(ctx context.Context, docID string, patch models.DocumentPatch, requester *models.User) (*models.Document, error) {
	op := pkg + "UpdateMetadata"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to update document metadata", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	if !patch.IsValid() {
		log.Warn("invalid metadata patch")
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if doc.IsTrashed() {
		log.Warn("document is deleted", slog.String("doc_id", docID))
		return nil, fmt.Errorf("%s: document is deleted: %w", op, models.ErrInvalidState)
	}

	ok, err := ds.access.Decide(ctx, doc, requester, models.ActionEdit)
	if err != nil {
		return nil, models.ErrInternal
	}
	if !ok {
		log.Warn("user doesn't have edit access", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	if err := ds.docRepo.UpdateMetadata(ctx, docID, patch, time.Now()); err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		log.Error("failed to update metadata", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := ds.cache.Del(ctx, docID); err != nil {
		log.Error("failed to invalidate document cache", slog.String("error", err.Error()))
	}

	ds.dispatchActivity(docID, requester.ID, "edit", nil)

	updated, err := ds.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		log.Error("failed to reload document", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("document metadata updated successfully", slog.String("doc_id", docID))

	return updated, nil
}

func (ds *DocumentService) validateEntityTarget(ctx context.Context, ref models.EntityRef, requester *models.User) error {
	op := pkg + "validateEntityTarget"

	log := ds.log.With(slog.String("op", op))

	if !ref.Type.IsValid() || ref.ID == "" {
		log.Warn("invalid entity reference")
		return fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	exists, err := ds.entities.Exists(ctx, ref)
	if err != nil {
		log.Error("failed to check entity existence", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !exists {
		log.Warn("entity not found", slog.String("entity_type", string(ref.Type)), slog.String("entity_id", ref.ID))
		return &models.EntityNotFoundError{Type: ref.Type, ID: ref.ID}
	}

	if requester.IsAdmin() {
		return nil
	}

	member, err := ds.entities.IsMember(ctx, ref, requester.ID)
	if err != nil {
		log.Error("failed to check entity membership", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !member {
		log.Warn("user is not a member of the target entity",
			slog.String("entity_type", string(ref.Type)),
			slog.String("user_id", requester.ID))
		return models.ErrForbidden
	}

	return nil
}

func (ds *DocumentService) requireViewAccess(ctx context.Context, doc *models.Document, requester *models.User) error {
	ok, err := ds.access.Decide(ctx, doc, requester, models.ActionView)
	if err != nil {
		return models.ErrInternal
	}
	if !ok {
		return models.ErrForbidden
	}
	return nil
}

func (ds *DocumentService) documentMetaByID(ctx context.Context, docID string) (*models.Document, error) {
	op := pkg + "documentMetaByID"

	log := ds.log.With(slog.String("op", op))

	docJSON, err := ds.cache.Get(ctx, docID)
	if err == nil && docJSON != "" {
		doc, err := jsonToDoc(docJSON)
		if err == nil {
			return doc, nil
		}
		log.Error("failed to parse cached doc", slog.String("error", err.Error()))
	}

	doc, err := ds.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if docJSON, err := docToJSON(doc); err != nil {
		log.Error("failed to parse doc to json", slog.String("error", err.Error()))
	} else if err := ds.cache.Set(ctx, docID, docJSON); err != nil {
		log.Warn("failed to set doc to cache", slog.String("error", err.Error()))
	}

	return doc, nil
}

func (ds *DocumentService) dispatchActivity(docID string, userID string, action string, metadata map[string]any) {
	go func() {
		if err := ds.activity.Record(context.Background(), docID, userID, action, metadata); err != nil {
			ds.log.Error("failed to record activity", slog.String("doc_id", docID), slog.String("error", err.Error()))
		}
	}()
}

func paginate(docs []*models.Document, page int, limit int) []*models.Document {
	if limit <= 0 {
		return docs
	}

	start := page * limit
	if start >= len(docs) {
		return []*models.Document{}
	}

	end := start + limit
	if end > len(docs) {
		end = len(docs)
	}

	return docs[start:end]
}

func docToJSON(doc *models.Document) (string, error) {
	jsonSlice, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}

	return string(jsonSlice), nil
}

func jsonToDoc(s string) (*models.Document, error) {
	if len(s) == 0 {
		return nil, errors.New("empty json string")
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}
