package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"dealflow/internal/domain/entity"
	"dealflow/pkg/application/modules"
)

type Notifier interface {
	Notify(ctx context.Context, event entity.Event) error
}

// Handler delivers deal events to the notifier. A malformed payload is
// dropped; delivery failures are retried by asynq.
type Handler struct {
	notifier Notifier
}

func NewHandler(notifier Notifier) *Handler {
	return &Handler{notifier: notifier}
}

func (h *Handler) HandleDealEvent(ctx context.Context, task *asynq.Task) error {
	event, err := ParseDealEventTask(task)
	if err != nil {
		return fmt.Errorf("%w: %w", asynq.SkipRetry, err)
	}

	if err := h.notifier.Notify(ctx, event); err != nil {
		return fmt.Errorf("notifier.Notify: %w", err)
	}

	logger(ctx).Debug(
		"deal event delivered",
		slog.String("deal-id", event.DealID),
		slog.String("event", string(event.Type)),
	)

	return nil
}

func (h *Handler) AsynqHandlers() []modules.AsynqHandler {
	return []modules.AsynqHandler{
		{Pattern: TaskDealEvent, Handle: h.HandleDealEvent},
	}
}
