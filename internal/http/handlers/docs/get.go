package docs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"docvault/internal/dto"
	"docvault/internal/models"
	parseutil "docvault/internal/utils/parseLimit"
)

func Get(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, dm DocumentManager) {
	op := pkg + "Get"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	filter := models.DocumentFilter{
		Search:     r.URL.Query().Get("q"),
		Type:       models.DocType(r.URL.Query().Get("type")),
		EntityType: models.EntityType(r.URL.Query().Get("entity_type")),
		EntityID:   r.URL.Query().Get("entity_id"),
		Tag:        r.URL.Query().Get("tag"),
		Page:       parseutil.ParsePage(r.URL.Query().Get("page")),
		Limit:      parseutil.ParseLimit(r.URL.Query().Get("limit")),
	}

	rawDocs, err := dm.ListDocuments(ctx, requester, filter)
	if err != nil {
		respondError(log, w, err)
		return
	}

	dtoDocs := make([]dto.DocumentResponse, 0, len(rawDocs))

	for _, doc := range rawDocs {
		dtoDocs = append(dtoDocs, dto.NewDocumentResponse(doc))
	}

	writeJSON(log, w, map[string]any{"docs": dtoDocs})
}

// GetByID streams the document content; it does not touch the view counter.
func GetByID(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, dm DocumentManager) {
	op := pkg + "GetByID"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	doc, file, err := dm.DocumentByID(ctx, docID, requester)
	if err != nil {
		respondError(log, w, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Header().Set("Content-Type", doc.Mime)
	if _, err := io.Copy(w, file); err != nil {
		log.Error("failed to write file response", slog.String("error", err.Error()))
	}
}

// Preview returns the metadata and bumps the view counter.
func Preview(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, dm DocumentManager) {
	op := pkg + "Preview"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	doc, err := dm.Preview(ctx, docID, requester)
	if err != nil {
		respondError(log, w, err)
		return
	}

	writeJSON(log, w, dto.NewDocumentResponse(doc))
}
