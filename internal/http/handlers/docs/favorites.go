package docs

import (
	"context"
	"log/slog"
	"net/http"

	"docvault/internal/dto"
	parseutil "docvault/internal/utils/parseLimit"
)

func AddFavorite(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, fm FavoriteManager) {
	op := pkg + "AddFavorite"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	if err := fm.Add(ctx, docID, requester); err != nil {
		respondError(log, w, err)
		return
	}

	writeJSON(log, w, map[string]any{"favorited": true})
}

func RemoveFavorite(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, fm FavoriteManager) {
	op := pkg + "RemoveFavorite"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	if err := fm.Remove(ctx, docID, requester); err != nil {
		respondError(log, w, err)
		return
	}

	writeJSON(log, w, map[string]any{"favorited": false})
}

func GetFavorites(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, fm FavoriteManager) {
	op := pkg + "GetFavorites"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	page := parseutil.ParsePage(r.URL.Query().Get("page"))
	limit := parseutil.ParseLimit(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 50
	}

	rawDocs, err := fm.ListFavorites(ctx, requester, page, limit)
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
