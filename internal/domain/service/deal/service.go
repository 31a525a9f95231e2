package deal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/service/lifecycle"
	"dealflow/internal/domain/service/matching"
	"dealflow/internal/domain/service/priority"
	"dealflow/internal/domain/service/valuation"
	"dealflow/internal/domain/value"
	"dealflow/pkg/logx"
)

const defaultCompsTimeout = 5 * time.Second

// matchableStatuses are the states in which a deal may still be offered to
// a buyer.
var matchableStatuses = map[value.Status]bool{ //nolint:gochecknoglobals
	value.StatusScored:        true,
	value.StatusContacted:     true,
	value.StatusNegotiating:   true,
	value.StatusOfferSent:     true,
	value.StatusUnderContract: true,
	value.StatusBlasted:       true,
}

type Service struct {
	tx        Transactor
	deals     DealRepository
	buyers    BuyerRepository
	followUps FollowUpRepository
	calls     SellerCallRepository

	comps     valuation.CompsProvider
	weights   priority.WeightsSource
	engine    *valuation.Engine
	lifecycle *lifecycle.Controller
	enforcer  *matching.Enforcer
	events    EventPublisher

	compsTimeout time.Duration
	now          func() time.Time
}

func NewService(
	tx Transactor,
	deals DealRepository,
	buyers BuyerRepository,
	followUps FollowUpRepository,
	calls SellerCallRepository,
	comps valuation.CompsProvider,
	weights priority.WeightsSource,
	engine *valuation.Engine,
	enforcer *matching.Enforcer,
	events EventPublisher,
) *Service {
	return &Service{
		tx:           tx,
		deals:        deals,
		buyers:       buyers,
		followUps:    followUps,
		calls:        calls,
		comps:        comps,
		weights:      weights,
		engine:       engine,
		lifecycle:    lifecycle.NewController(),
		enforcer:     enforcer,
		events:       events,
		compsTimeout: defaultCompsTimeout,
		now:          time.Now,
	}
}

func (s *Service) WithCompsTimeout(d time.Duration) *Service {
	s.compsTimeout = d
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Outcome is what one pass over a deal decided.
type Outcome struct {
	Deal      *entity.Deal
	Valuation *entity.Valuation
	Priority  priority.Result
	Match     *entity.MatchResult
	Events    []entity.Event
}

// Process evaluates, scores and matches one deal. It must run inside a
// transaction opened by the caller; Outcome.Events are to be published
// only after that transaction commits.
func (s *Service) Process(ctx context.Context, dealID string) (Outcome, error) {
	deal, err := s.deals.GetForUpdate(ctx, dealID)
	if err != nil {
		return Outcome{}, fmt.Errorf("deals.GetForUpdate: %w", err)
	}

	out := Outcome{Deal: deal}
	now := s.now()

	if deal.Status.IsTerminal() {
		return s.rescoreTerminal(ctx, out, now)
	}

	if deal.Status == value.StatusNew || deal.Status == value.StatusScored {
		v := s.engine.Evaluate(*deal, s.fetchComps(ctx, deal))
		deal.ApplyValuation(v)
		deal.UpdatedAt = now
		out.Valuation = &v

		if v.Rejected() {
			logger(ctx).Info("valuation rejected",
				slog.String("deal-id", deal.ID),
				slog.String("code", string(v.Rejection.Code)),
				slog.String("reason", v.Rejection.Reason),
			)
		}

		if deal.Status == value.StatusNew {
			if err := s.lifecycle.Transition(deal, value.StatusScored, now); err != nil {
				return out, fmt.Errorf("lifecycle.Transition: %w", err)
			}
			out.Events = append(out.Events, entity.NewStatusChangedEvent(deal, value.StatusNew, now))
		}
	}

	res, err := s.score(ctx, deal, now)
	if err != nil {
		return out, err
	}
	out.Priority = res

	if s.shouldMatch(deal) {
		m, err := s.match(ctx, deal, now)
		if err != nil {
			return out, err
		}
		out.Match = &m

		if m.Matched() {
			out.Events = append(out.Events, entity.NewMatchedEvent(deal, m.Buyer, now))

			if deal.Status == value.StatusUnderContract {
				if err := s.lifecycle.Transition(deal, value.StatusBlasted, now); err != nil {
					return out, fmt.Errorf("lifecycle.Transition: %w", err)
				}
				out.Events = append(out.Events, entity.NewStatusChangedEvent(deal, value.StatusUnderContract, now))
			}
		}
	}

	if err := s.deals.Update(ctx, deal); err != nil {
		return out, fmt.Errorf("deals.Update: %w", err)
	}

	return out, nil
}

// ProcessAndPublish runs Process in its own transaction and publishes the
// resulting events after commit.
func (s *Service) ProcessAndPublish(ctx context.Context, dealID string) (Outcome, error) {
	var out Outcome

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.Process(ctx, dealID)
		return err
	})
	if err != nil {
		return out, err
	}

	s.Publish(ctx, out.Events...)

	return out, nil
}

// Publish forwards events and only logs failures.
func (s *Service) Publish(ctx context.Context, events ...entity.Event) {
	if s.events == nil {
		return
	}

	for _, e := range events {
		if err := s.events.Publish(ctx, e); err != nil {
			logger(ctx).Error("events.Publish",
				slog.String("deal-id", e.DealID),
				slog.String("type", string(e.Type)),
				logx.Error(err),
			)
		}
	}
}

func (s *Service) score(ctx context.Context, deal *entity.Deal, now time.Time) (priority.Result, error) {
	w, err := s.weights.Current(ctx)
	if err != nil {
		return priority.Result{}, fmt.Errorf("weights.Current: %w", err)
	}

	call, err := s.calls.LatestByDeal(ctx, deal.ID)
	if err != nil {
		return priority.Result{}, fmt.Errorf("calls.LatestByDeal: %w", err)
	}

	followUps, err := s.followUps.ListOpenByDeal(ctx, deal.ID)
	if err != nil {
		return priority.Result{}, fmt.Errorf("followUps.ListOpenByDeal: %w", err)
	}

	res := priority.Score(priority.NewInput(*deal, call, followUps, now), w)
	deal.PriorityScore = res.Score
	deal.PriorityReason = res.Reason

	return res, nil
}

// rescoreTerminal only refreshes the priority of a closed or dead deal; it
// is never valued or matched again.
func (s *Service) rescoreTerminal(ctx context.Context, out Outcome, now time.Time) (Outcome, error) {
	deal := out.Deal
	prevScore, prevReason := deal.PriorityScore, deal.PriorityReason

	res, err := s.score(ctx, deal, now)
	if err != nil {
		return out, err
	}
	out.Priority = res

	if res.Score == prevScore && res.Reason == prevReason {
		return out, nil
	}

	deal.UpdatedAt = now
	if err := s.deals.Update(ctx, deal); err != nil {
		return out, fmt.Errorf("deals.Update: %w", err)
	}

	return out, nil
}

// reprice recomputes spread and flag after the asking price changed.
func (s *Service) reprice(ctx context.Context, deal *entity.Deal) {
	v, ok := s.engine.Reprice(*deal)
	if !ok {
		return
	}

	prev := deal.ProfitFlag
	deal.ApplyValuation(v)

	if prev != deal.ProfitFlag {
		logger(ctx).Info("deal repriced",
			slog.String("deal-id", deal.ID),
			slog.String("from-flag", string(prev)),
			slog.String("to-flag", string(deal.ProfitFlag)),
		)
	}
}

func (s *Service) shouldMatch(deal *entity.Deal) bool {
	return matchableStatuses[deal.Status] && deal.ProfitFlag.Matchable() && !deal.Matched()
}

func (s *Service) match(ctx context.Context, deal *entity.Deal, now time.Time) (entity.MatchResult, error) {
	pool, err := s.buyers.ListActive(ctx)
	if err != nil {
		return entity.MatchResult{}, fmt.Errorf("buyers.ListActive: %w", err)
	}

	m, err := s.enforcer.FindAndConsumeMatch(ctx, deal, pool, now)
	if err != nil {
		return m, fmt.Errorf("enforcer.FindAndConsumeMatch: %w", err)
	}

	month := value.MonthStart(now)
	for _, id := range m.ResetBuyerIDs {
		if err := s.buyers.ResetMonth(ctx, id, month); err != nil {
			return m, fmt.Errorf("buyers.ResetMonth: %w", err)
		}
	}

	for _, b := range m.Blocked {
		logger(ctx).Debug("buyer blocked",
			slog.String("deal-id", deal.ID),
			slog.String("buyer-id", b.BuyerID),
			slog.String("reason", b.Reason),
		)
	}

	return m, nil
}

func (s *Service) fetchComps(ctx context.Context, deal *entity.Deal) *value.CompsSnapshot {
	if s.comps == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.compsTimeout)
	defer cancel()

	snap, err := s.comps.GetComps(ctx, value.CompsQuery{
		Address: deal.Address,
		City:    deal.City,
		State:   deal.State,
		Zip:     deal.Zip,
		Beds:    deal.Attributes.Beds,
		Baths:   deal.Attributes.Baths,
		Sqft:    deal.Attributes.Sqft,
	})
	if err != nil {
		logger(ctx).Warn("comps unavailable, treating as zero comparables",
			slog.String("deal-id", deal.ID),
			logx.Error(err),
		)
		return nil
	}

	return snap
}
