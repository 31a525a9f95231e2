package deal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"

	"dealflow/internal/domain"
	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
	"dealflow/pkg/contextx"
	"dealflow/pkg/errcodes"
)

// Ingest validates a raw lead and stores it as NEW.
func (s *Service) Ingest(ctx context.Context, deal *entity.Deal) (*entity.Deal, error) {
	if err := deal.Validate(); err != nil {
		return nil, err
	}

	now := s.now()

	deal.ID = xid.New().String()
	deal.Status = value.StatusNew
	deal.CreatedAt = now
	deal.UpdatedAt = now
	deal.State = strings.ToUpper(strings.TrimSpace(deal.State))
	deal.ARV, deal.Repairs, deal.MAO, deal.Spread = nil, nil, nil, nil
	deal.ProfitFlag = ""
	deal.MatchedBuyerID = nil
	deal.ActualProfit = nil

	if err := s.deals.Create(ctx, deal); err != nil {
		return nil, fmt.Errorf("deals.Create: %w", err)
	}

	logger(ctx).Info("deal ingested", slog.String("deal-id", deal.ID), slog.String("market", deal.Market()))

	return deal, nil
}

func (s *Service) GetDeal(ctx context.Context, id string) (*entity.Deal, error) {
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deals.GetByID: %w", err)
	}
	return deal, nil
}

func (s *Service) ListDeals(ctx context.Context, statuses []value.Status, limit int) ([]entity.Deal, error) {
	deals, err := s.deals.ListByStatus(ctx, statuses, limit)
	if err != nil {
		return nil, fmt.Errorf("deals.ListByStatus: %w", err)
	}
	return deals, nil
}

type TransitionInput struct {
	DealID        string
	To            value.Status
	AssignmentFee *float64
}

// Transition applies an operator driven status change and rescores the
// deal for its new status.
func (s *Service) Transition(ctx context.Context, in TransitionInput) (*entity.Deal, error) {
	var (
		deal *entity.Deal
		from value.Status
		now  = s.now()
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if deal, err = s.deals.GetForUpdate(ctx, in.DealID); err != nil {
			return fmt.Errorf("deals.GetForUpdate: %w", err)
		}
		from = deal.Status

		if in.AssignmentFee != nil {
			if *in.AssignmentFee < 0 {
				return domain.NewValidationError("assignment_fee", "must not be negative")
			}
			deal.AssignmentFee = in.AssignmentFee
		}

		if err := s.lifecycle.Transition(deal, in.To, now); err != nil {
			return err
		}

		if _, err := s.score(ctx, deal, now); err != nil {
			return err
		}

		if err := s.deals.Update(ctx, deal); err != nil {
			return fmt.Errorf("deals.Update: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	operatorID, _ := contextx.OperatorIDFromContext(ctx)
	logger(ctx).Info("deal transitioned",
		slog.String("deal-id", deal.ID),
		slog.String("from", from.String()),
		slog.String("to", deal.Status.String()),
		slog.String("operator-id", operatorID.String()),
	)

	if from != deal.Status {
		s.Publish(ctx, entity.NewStatusChangedEvent(deal, from, now))
	}

	return deal, nil
}

// RecordCall logs a seller conversation. A quoted asking price replaces the
// one on the deal and reprices its stored valuation; the priority is
// recomputed with the new call.
func (s *Service) RecordCall(ctx context.Context, call *entity.SellerCall) (*entity.SellerCall, error) {
	if err := call.Validate(); err != nil {
		return nil, err
	}

	if call.CalledAt.IsZero() {
		call.CalledAt = s.now()
	}
	call.ID = xid.New().String()

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		deal, err := s.deals.GetForUpdate(ctx, call.DealID)
		if err != nil {
			return fmt.Errorf("deals.GetForUpdate: %w", err)
		}

		if err := s.calls.Create(ctx, call); err != nil {
			return fmt.Errorf("calls.Create: %w", err)
		}

		calledAt := call.CalledAt
		if deal.LastContactedAt == nil || deal.LastContactedAt.Before(calledAt) {
			deal.LastContactedAt = &calledAt
		}

		if call.AskingPrice != nil && (deal.AskingPrice == nil || *deal.AskingPrice != *call.AskingPrice) {
			deal.AskingPrice = call.AskingPrice
			s.reprice(ctx, deal)
		}
		deal.UpdatedAt = s.now()

		if _, err := s.score(ctx, deal, deal.UpdatedAt); err != nil {
			return err
		}

		if err := s.deals.Update(ctx, deal); err != nil {
			return fmt.Errorf("deals.Update: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return call, nil
}

func (s *Service) ScheduleFollowUp(ctx context.Context, dealID string, dueAt time.Time, note string) (*entity.FollowUp, error) {
	if dueAt.IsZero() {
		return nil, domain.NewValidationError("due_at", "required")
	}

	if _, err := s.deals.GetByID(ctx, dealID); err != nil {
		return nil, fmt.Errorf("deals.GetByID: %w", err)
	}

	f := &entity.FollowUp{
		ID:        xid.New().String(),
		DealID:    dealID,
		DueAt:     dueAt,
		Note:      note,
		CreatedAt: s.now(),
	}

	if err := s.followUps.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("followUps.Create: %w", err)
	}

	return f, nil
}

func (s *Service) CompleteFollowUp(ctx context.Context, id string) (*entity.FollowUp, error) {
	f, err := s.followUps.Complete(ctx, id, s.now())
	if err != nil {
		return nil, fmt.Errorf("followUps.Complete: %w", err)
	}

	operatorID, _ := contextx.OperatorIDFromContext(ctx)
	logger(ctx).Info("follow-up completed",
		slog.String("followup-id", id),
		slog.String("deal-id", f.DealID),
		slog.String("operator-id", operatorID.String()),
	)

	return f, nil
}

func (s *Service) CreateBuyer(ctx context.Context, buyer *entity.Buyer) (*entity.Buyer, error) {
	if buyer.AssetType == "" {
		buyer.AssetType = value.AssetAny
	}

	if err := buyer.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	buyer.ID = xid.New().String()
	buyer.MonthlyMatchCount = 0
	buyer.CounterResetAt = value.MonthStart(now)
	buyer.CreatedAt = now

	if err := s.buyers.Create(ctx, buyer); err != nil {
		return nil, fmt.Errorf("buyers.Create: %w", err)
	}

	return buyer, nil
}

type Eligibility struct {
	BuyerID  string `json:"buyer_id"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
	Used     int    `json:"used"`
	Limit    int    `json:"limit"`
}

// BuyerEligibility reports whether a buyer can take another match this
// month. The first check of a new month persists the counter reset.
func (s *Service) BuyerEligibility(ctx context.Context, buyerID string) (Eligibility, error) {
	buyer, err := s.buyers.GetByID(ctx, buyerID)
	if err != nil {
		return Eligibility{}, fmt.Errorf("buyers.GetByID: %w", err)
	}

	now := s.now()
	month := value.MonthStart(now)
	stale := buyer.CounterResetAt.Before(month)

	ok, reason := s.enforcer.Eligibility(buyer, now)

	if stale {
		if err := s.buyers.ResetMonth(ctx, buyer.ID, month); err != nil {
			return Eligibility{}, fmt.Errorf("buyers.ResetMonth: %w", err)
		}
	}

	return Eligibility{
		BuyerID:  buyer.ID,
		Eligible: ok,
		Reason:   reason,
		Used:     buyer.MonthlyMatchCount,
		Limit:    s.enforcer.Quota(buyer.Tier),
	}, nil
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return domain.HasCode(err, errcodes.DealNotFound) ||
		domain.HasCode(err, errcodes.BuyerNotFound) ||
		domain.HasCode(err, errcodes.FollowUpNotFound)
}
