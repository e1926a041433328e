package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"docvault/internal/config"
	"docvault/internal/http/handlers/docs"
	"docvault/internal/http/handlers/session"
	"docvault/internal/http/handlers/user"
	"docvault/internal/http/middleware"
	"docvault/internal/models"
	utils "docvault/internal/utils/http_errors"

	"github.com/gorilla/mux"
)

type Services struct {
	Auth      AuthService
	Documents DocumentService
	Lifecycle LifecycleService
	Shares    ShareService
	Favorites FavoriteService
	Links     LinkService
}

func StartServer(
	ctx context.Context,
	cfg *config.HTTPServer,
	log *slog.Logger,
	services Services,
) error {
	r := mux.NewRouter()

	r.Use(middleware.Logger(log))

	setupRoutes(r, log, services)

	srv := &http.Server{
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      r,
	}

	errChan := make(chan error, 1)

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("server closed gracefully")
			} else {
				log.Error("could not start server:", "error", err)
				errChan <- err
			}
		}
	}()
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", "error", err)
			return err
		}
		log.Info("server exited gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

func setupRoutes(r *mux.Router, log *slog.Logger, services Services) {
	// POST user
	r.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		user.Add(r.Context(), log, w, r, services.Auth)
	}).Methods(http.MethodPost)

	// POST session
	r.HandleFunc("/api/auth", func(w http.ResponseWriter, r *http.Request) {
		session.Add(r.Context(), log, w, r, services.Auth)
	}).Methods(http.MethodPost)

	// DELETE session
	r.HandleFunc("/api/auth/{token}", func(w http.ResponseWriter, r *http.Request) {
		token := mux.Vars(r)["token"]
		session.Delete(r.Context(), log, w, r, token, services.Auth)
	}).Methods(http.MethodDelete)

	protected := r.NewRoute().Subrouter()

	protected.Use(middleware.Auth(log, services.Auth))

	// POST document
	protected.HandleFunc("/api/documents", func(w http.ResponseWriter, r *http.Request) {
		docs.Upload(r.Context(), log, w, r, services.Documents)
	}).Methods(http.MethodPost)

	// GET documents
	protected.HandleFunc("/api/documents", func(w http.ResponseWriter, r *http.Request) {
		docs.Get(r.Context(), log, w, r, services.Documents)
	}).Methods(http.MethodGet)

	// GET favorites
	protected.HandleFunc("/api/documents/favorites", func(w http.ResponseWriter, r *http.Request) {
		docs.GetFavorites(r.Context(), log, w, r, services.Favorites)
	}).Methods(http.MethodGet)

	// GET trash
	protected.HandleFunc("/api/documents/trash", func(w http.ResponseWriter, r *http.Request) {
		docs.GetTrash(r.Context(), log, w, r, services.Lifecycle)
	}).Methods(http.MethodGet)

	// DELETE trash sweep
	protected.HandleFunc("/api/documents/trash/empty", func(w http.ResponseWriter, r *http.Request) {
		docs.EmptyTrash(r.Context(), log, w, r, services.Lifecycle)
	}).Methods(http.MethodDelete)

	// GET document by id (download)
	protected.HandleFunc("/api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		docID := mux.Vars(r)["id"]
		docs.GetByID(r.Context(), log, w, r, docID, services.Documents)
	}).Methods(http.MethodGet)

	// GET document preview
	protected.HandleFunc("/api/documents/{id}/preview", func(w http.ResponseWriter, r *http.Request) {
		docID := mux.Vars(r)["id"]
		docs.Preview(r.Context(), log, w, r, docID, services.Documents)
	}).Methods(http.MethodGet)

	// PATCH document metadata
	protected.HandleFunc("/api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		docID := mux.Vars(r)["id"]
		docs.Update(r.Context(), log, w, r, docID, services.Documents)
	}).Methods(http.MethodPatch)

	// DELETE document (soft)
	protected.HandleFunc("/api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		docID := mux.Vars(r)["id"]
		docs.Delete(r.Context(), log, w, r, docID, services.Lifecycle)
	}).Methods(http.MethodDelete)

	// POST restore
	protected.HandleFunc("/api/documents/{id}/restore", func(w http.ResponseWriter, r *http.Request) {
		docID := mux.Vars(r)["id"]
		docs.Restore(r.Context(), log, w, r, docID, services.Lifecycle)
	}).Methods(http.MethodPost)

	// DELETE permanent
	protected.HandleFunc("/api/documents/{id}/permanent", func(w http.ResponseWriter, r *http.Request) {
		docID := mux.Vars(r)["id"]
		docs.Purge(r.Context(), log, w, r, docID, services.Lifecycle)
	}).Methods(http.MethodDelete)

	// POST entity link
	protected.HandleFunc("/api/documents/{id}/link", func(w http.ResponseWriter, r *http.Request) {
		docID := mux.Vars(r)["id"]
		docs.Link(r.Context(), log, w, r, docID, services.Links)
	}).Methods(http.MethodPost)

	// DELETE entity link
	protected.HandleFunc("/api/documents/{id}/link", func(w http.ResponseWriter, r *http.Request) {
		docID := mux.Vars(r)["id"]
		docs.Unlink(r.Context(), log, w, r, docID, services.Links)
	}).Methods(http.MethodDelete)

	// POST shares
	protected.HandleFunc("/api/documents/{id}/shares", func(w http.ResponseWriter, r *http.Request) {
		docID := mux.Vars(r)["id"]
		docs.UpsertShares(r.Context(), log, w, r, docID, services.Shares)
	}).Methods(http.MethodPost)

	// GET shares
	protected.HandleFunc("/api/documents/{id}/shares", func(w http.ResponseWriter, r *http.Request) {
		docID := mux.Vars(r)["id"]
		docs.GetShares(r.Context(), log, w, r, docID, services.Shares)
	}).Methods(http.MethodGet)

	// PATCH share
	protected.HandleFunc("/api/documents/{id}/shares/{sid}", func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		docs.UpdateShare(r.Context(), log, w, r, vars["id"], vars["sid"], services.Shares)
	}).Methods(http.MethodPatch)

	// DELETE share
	protected.HandleFunc("/api/documents/{id}/shares/{sid}", func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		docs.RevokeShare(r.Context(), log, w, r, vars["id"], vars["sid"], services.Shares)
	}).Methods(http.MethodDelete)

	// POST favorite
	protected.HandleFunc("/api/documents/{id}/favorite", func(w http.ResponseWriter, r *http.Request) {
		docID := mux.Vars(r)["id"]
		docs.AddFavorite(r.Context(), log, w, r, docID, services.Favorites)
	}).Methods(http.MethodPost)

	// DELETE favorite
	protected.HandleFunc("/api/documents/{id}/favorite", func(w http.ResponseWriter, r *http.Request) {
		docID := mux.Vars(r)["id"]
		docs.RemoveFavorite(r.Context(), log, w, r, docID, services.Favorites)
	}).Methods(http.MethodDelete)

	// Not allowed
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusMethodNotAllowed, models.ErrMethodNotAllowed.Error())
	})
}
