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

func Update(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, dm DocumentManager) {
	op := pkg + "Update"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	var patch models.DocumentPatch

	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Warn("failed to decode patch", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	doc, err := dm.UpdateMetadata(ctx, docID, patch, requester)
	if err != nil {
		respondError(log, w, err)
		return
	}

	writeJSON(log, w, dto.NewDocumentResponse(doc))
}
