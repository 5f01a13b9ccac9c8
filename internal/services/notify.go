package services

import (
	"context"
	"log/slog"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"
)

// ChangePublisher publishes record change messages to the broker.
// *amqp.Client satisfies it.
type ChangePublisher interface {
	PublishRecordChange(ctx context.Context, familyID, collection, month string) error
}

// ChangeNotifier delivers in-process change notifications. *watch.Hub
// satisfies it.
type ChangeNotifier interface {
	Notify(familyID string, month core.Month)
}

// changeSink fans a record change out to the broker and the in-process
// hub. Both targets are optional and a publish failure never fails the
// request, the write already landed in SQLite.
type changeSink struct {
	publisher ChangePublisher
	notifier  ChangeNotifier
}

func (s changeSink) recordChanged(ctx context.Context, familyID, collection string, month core.Month) {
	if s.notifier != nil {
		s.notifier.Notify(familyID, month)
	}
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping change message",
			"collection", collection)
		return
	}
	if err := s.publisher.PublishRecordChange(ctx, familyID, collection, month.String()); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"family_id", familyID,
			"collection", collection,
			"month", month.String(),
			"error", err)
	}
}
