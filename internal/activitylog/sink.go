package activitylog

import (
	"context"
	"log/slog"
)

const pkg = "activityLog/"

// Sink is the default activity-log collaborator. Persistent storage of the
// trail lives outside this service; the default sink writes structured log
// lines with the same payload the persistent one would receive.
type Sink struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Sink {
	return &Sink{log: log}
}

func (s *Sink) Record(ctx context.Context, documentID string, userID string, action string, metadata map[string]any) error {
	op := pkg + "Record"

	s.log.Info("document activity",
		slog.String("op", op),
		slog.String("doc_id", documentID),
		slog.String("user_id", userID),
		slog.String("action", action),
		slog.Any("metadata", metadata))

	return nil
}
