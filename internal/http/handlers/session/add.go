package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"docvault/internal/dto"
	"docvault/internal/models"
	utils "docvault/internal/utils/http_errors"
)

func Add(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, sa SessionAdder) {
	op := pkg + "Add"

	log = log.With(slog.String("op", op))

	var loginRequest dto.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginRequest); err != nil {
		log.Warn("failed to decode login request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	token, err := sa.Login(ctx, loginRequest.Login, loginRequest.Password)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) || errors.Is(err, models.ErrInvalidCredentials) {
			log.Info("invalid credentials", slog.String("login", loginRequest.Login))
			utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrInvalidCredentials.Error())
			return
		}
		if errors.Is(err, models.ErrForbidden) {
			log.Warn("login forbidden", slog.String("login", loginRequest.Login))
			utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
			return
		}
		log.Error("failed to login user", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	response := map[string]any{
		"response": map[string]any{
			"token": token,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
