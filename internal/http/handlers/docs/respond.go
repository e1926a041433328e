package docs

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"docvault/internal/models"
	utils "docvault/internal/utils/http_errors"
)

func requesterFromContext(log *slog.Logger, w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return nil, false
	}

	return requester, true
}

func respondError(log *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrForbidden):
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
	case errors.Is(err, models.ErrDocumentNotFound),
		errors.Is(err, models.ErrShareNotFound),
		errors.Is(err, models.ErrEntityNotFound),
		errors.Is(err, models.ErrUserNotFound):
		utils.WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidState):
		utils.WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrInvalidParams):
		utils.WriteJSONError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("internal error", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
	}
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"data": payload}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
