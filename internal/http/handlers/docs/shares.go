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

func UpsertShares(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, sm ShareManager) {
	op := pkg + "UpsertShares"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	var req dto.UpsertSharesRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode share request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	shares, err := sm.UpsertShares(ctx, docID, requester, req.UserIDs, req.CanEdit, req.CanDelete, req.ExpiresAt)
	if err != nil {
		respondError(log, w, err)
		return
	}

	dtoShares := make([]dto.ShareResponse, 0, len(shares))

	for _, share := range shares {
		dtoShares = append(dtoShares, dto.NewShareResponse(share))
	}

	writeJSON(log, w, map[string]any{"shares": dtoShares})
}

func GetShares(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, sm ShareManager) {
	op := pkg + "GetShares"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	shares, err := sm.ListShares(ctx, docID, requester)
	if err != nil {
		respondError(log, w, err)
		return
	}

	dtoShares := make([]dto.ShareResponse, 0, len(shares))

	for _, share := range shares {
		dtoShares = append(dtoShares, dto.NewShareResponse(share))
	}

	writeJSON(log, w, map[string]any{"shares": dtoShares})
}

func UpdateShare(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, shareID string, sm ShareManager) {
	op := pkg + "UpdateShare"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	var patch models.SharePatch

	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Warn("failed to decode share patch", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if err := sm.UpdatePermissions(ctx, docID, shareID, patch, requester); err != nil {
		respondError(log, w, err)
		return
	}

	writeJSON(log, w, map[string]any{"updated": true})
}

func RevokeShare(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, shareID string, sm ShareManager) {
	op := pkg + "RevokeShare"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	if err := sm.Revoke(ctx, docID, shareID, requester); err != nil {
		respondError(log, w, err)
		return
	}

	writeJSON(log, w, map[string]any{"revoked": true})
}
