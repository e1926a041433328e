package notify

import (
	"context"
	"log/slog"
)

const pkg = "notify/"

// Service is the default share notifier. Delivery over a real channel (mail,
// message queue) is a deployment concern; this implementation records the
// event in the log so the fire-and-forget contract stays observable.
type Service struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Service {
	return &Service{log: log}
}

func (s *Service) NotifyShare(ctx context.Context, documentID string, title string, recipientID string, actorID string, canEdit bool) error {
	op := pkg + "NotifyShare"

	s.log.Info("document shared",
		slog.String("op", op),
		slog.String("doc_id", documentID),
		slog.String("title", title),
		slog.String("recipient_id", recipientID),
		slog.String("actor_id", actorID),
		slog.Bool("can_edit", canEdit))

	return nil
}
