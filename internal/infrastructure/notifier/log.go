package notifier

import (
	"context"
	"log/slog"

	"dealflow/internal/domain/entity"
	"dealflow/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// LogNotifier writes events to the log. It stands in for Telegram when
// the bot is not configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event entity.Event) error {
	logger(ctx).Info("deal event",
		slog.String("event", string(event.Type)),
		slog.String("deal-id", event.DealID),
		slog.String("to", event.To.String()),
		slog.String("buyer-id", event.BuyerID),
	)
	return nil
}
