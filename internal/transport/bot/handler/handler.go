package handler

import (
	"context"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
	"dealflow/internal/worker"
)

type processor interface {
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
	RunOnce(ctx context.Context) worker.CycleResult
	Statuses() []value.Status
	AddStatus(s value.Status)
	RemoveStatus(s value.Status)
	SetStatuses(statuses []value.Status)
}

type dealService interface {
	GetDeal(ctx context.Context, id string) (*entity.Deal, error)
	ListDeals(ctx context.Context, statuses []value.Status, limit int) ([]entity.Deal, error)
}

type Handler struct {
	svc       dealService
	processor processor
	// baseCtx outlives a single update; the processor loop is started with it.
	baseCtx context.Context
}

func New(baseCtx context.Context, svc dealService, processor processor) *Handler {
	return &Handler{
		svc:       svc,
		processor: processor,
		baseCtx:   baseCtx,
	}
}
