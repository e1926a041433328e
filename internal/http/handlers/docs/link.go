package docs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"docvault/internal/dto"
	"docvault/internal/models"
	utils "docvault/internal/utils/http_errors"
)

func Link(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, lm LinkManager) {
	op := pkg + "Link"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	var req dto.LinkRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode link request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	entityType, err := models.ParseEntityType(req.EntityType)
	if err != nil {
		log.Warn("unknown entity type", slog.String("entity_type", req.EntityType))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	ref := models.EntityRef{Type: entityType, ID: req.EntityID}

	if err := lm.Link(ctx, docID, ref, requester); err != nil {
		respondError(log, w, err)
		return
	}

	writeJSON(log, w, map[string]any{"linked": true})
}

// Unlink clears the entity link; an optional body narrows the unlink to a
// specific entity type.
func Unlink(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, lm LinkManager) {
	op := pkg + "Unlink"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	var entityType *models.EntityType

	var req dto.UnlinkRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Warn("failed to decode unlink request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if req.EntityType != "" {
		parsed, err := models.ParseEntityType(req.EntityType)
		if err != nil {
			log.Warn("unknown entity type", slog.String("entity_type", req.EntityType))
			utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
			return
		}
		entityType = &parsed
	}

	if err := lm.Unlink(ctx, docID, entityType, requester); err != nil {
		respondError(log, w, err)
		return
	}

	writeJSON(log, w, map[string]any{"linked": false})
}
