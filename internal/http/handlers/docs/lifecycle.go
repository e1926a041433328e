package docs

import (
	"context"
	"log/slog"
	"net/http"

	"docvault/internal/dto"
	parseutil "docvault/internal/utils/parseLimit"
)

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, lm LifecycleManager) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	if err := lm.SoftDelete(ctx, docID, requester); err != nil {
		respondError(log, w, err)
		return
	}

	writeJSON(log, w, map[string]any{"deleted": true})
}

func Restore(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, lm LifecycleManager) {
	op := pkg + "Restore"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	if err := lm.Restore(ctx, docID, requester); err != nil {
		respondError(log, w, err)
		return
	}

	writeJSON(log, w, map[string]any{"restored": true})
}

func Purge(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, lm LifecycleManager) {
	op := pkg + "Purge"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	if err := lm.Purge(ctx, docID, requester); err != nil {
		respondError(log, w, err)
		return
	}

	writeJSON(log, w, map[string]any{"purged": true})
}

func GetTrash(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, lm LifecycleManager) {
	op := pkg + "GetTrash"

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

	rawDocs, err := lm.ListTrash(ctx, requester, page, limit)
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

func EmptyTrash(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, lm LifecycleManager) {
	op := pkg + "EmptyTrash"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFromContext(log, w, r)
	if !ok {
		return
	}

	purged, err := lm.EmptySweep(ctx, requester)
	if err != nil {
		respondError(log, w, err)
		return
	}

	writeJSON(log, w, map[string]any{"purged": purged})
}
