package deal

import (
	"context"
	"time"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/service/matching"
	"dealflow/internal/domain/value"
)

type DealRepository interface {
	Create(ctx context.Context, deal *entity.Deal) error
	GetByID(ctx context.Context, id string) (*entity.Deal, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*entity.Deal, error)
	Update(ctx context.Context, deal *entity.Deal) error
	ListByStatus(ctx context.Context, statuses []value.Status, limit int) ([]entity.Deal, error)
}

type BuyerRepository interface {
	matching.QuotaLedger

	Create(ctx context.Context, buyer *entity.Buyer) error
	GetByID(ctx context.Context, id string) (*entity.Buyer, error)
	ListActive(ctx context.Context) ([]entity.Buyer, error)
	ResetMonth(ctx context.Context, id string, month time.Time) error
}

type FollowUpRepository interface {
	Create(ctx context.Context, f *entity.FollowUp) error
	Complete(ctx context.Context, id string, at time.Time) (*entity.FollowUp, error)
	ListOpenByDeal(ctx context.Context, dealID string) ([]entity.FollowUp, error)
}

type SellerCallRepository interface {
	Create(ctx context.Context, call *entity.SellerCall) error
	// LatestByDeal returns nil without error when no call was logged.
	LatestByDeal(ctx context.Context, dealID string) (*entity.SellerCall, error)
}

// Transactor runs fn in one database transaction carried by ctx.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher hands committed changes to notification collaborators.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.Event) error
}
