package docs

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"docvault/internal/dto"
	"docvault/internal/models"
	utils "docvault/internal/utils/http_errors"
)

const maxUploadMemory = 32 << 20

// Upload handles the multipart document creation: a "meta" JSON part with the
// metadata and a "file" part with the content.
func Upload(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, dm DocumentManager) {
	op := pkg + "Upload"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		log.Warn("failed to parse multipart form", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	var meta dto.UploadMeta

	if raw := r.FormValue("meta"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			log.Warn("failed to parse meta part", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
			return
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Warn("missing file part", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}
	defer file.Close()

	doc := &models.Document{
		Title:       meta.Title,
		FileName:    header.Filename,
		Mime:        header.Header.Get("Content-Type"),
		Size:        header.Size,
		Type:        models.DocType(meta.Type),
		Description: meta.Description,
		Tags:        meta.Tags,
		IsPublic:    meta.IsPublic,
	}

	if doc.Title == "" {
		doc.Title = header.Filename
	}

	if meta.EntityType != "" || meta.EntityID != "" {
		entityType, err := models.ParseEntityType(meta.EntityType)
		if err != nil {
			log.Warn("unknown entity type", slog.String("entity_type", meta.EntityType))
			utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
			return
		}
		doc.Entity = &models.EntityRef{Type: entityType, ID: meta.EntityID}
	}

	id, err := dm.UploadDocument(ctx, requester, doc, file)
	if err != nil {
		respondError(log, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(log, w, map[string]any{"id": id})
}
