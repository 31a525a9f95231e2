package matching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
)

const reasonTakenConcurrently = "quota consumed by a concurrent match"

type Enforcer struct {
	cfg      Config
	ledger   QuotaLedger
	selector Selector
}

func NewEnforcer(cfg Config, ledger QuotaLedger, selector Selector) *Enforcer {
	if selector == nil {
		selector = HighestBudget{}
	}

	return &Enforcer{
		cfg:      cfg,
		ledger:   ledger,
		selector: selector,
	}
}

// Eligibility resets the buyer's counter on the first touch of a new month
// and checks the tier quota. A buyer over quota is reported, not penalized.
func (e *Enforcer) Eligibility(buyer *entity.Buyer, now time.Time) (bool, string) {
	ok, reason, _ := e.eligibility(buyer, now)
	return ok, reason
}

func (e *Enforcer) eligibility(buyer *entity.Buyer, now time.Time) (ok bool, reason string, reset bool) {
	reset = buyer.ResetIfNewMonth(now)

	limit := e.cfg.Quota(buyer.Tier)
	if limit > 0 && buyer.MonthlyMatchCount >= limit {
		return false, fmt.Sprintf(
			"Tier '%s' monthly match limit reached (%d/%d)",
			buyer.Tier, buyer.MonthlyMatchCount, limit,
		), reset
	}

	return true, "", reset
}

// Fits checks whether the buyer wants this kind of deal at all.
func (e *Enforcer) Fits(buyer *entity.Buyer, deal *entity.Deal) (bool, string) {
	if !buyer.Active {
		return false, "buyer inactive"
	}

	if buyer.AssetType != value.AssetAny && buyer.AssetType != deal.AssetType {
		return false, fmt.Sprintf("wants %s, deal is %s", buyer.AssetType, deal.AssetType)
	}

	if m := strings.TrimSpace(buyer.Market); m != "" && !strings.EqualFold(m, strings.TrimSpace(deal.City)) {
		return false, fmt.Sprintf("market %s, deal is in %s", m, deal.City)
	}

	basis := deal.AskingPrice
	if e.cfg.BudgetBasis == BudgetVsMAO {
		basis = deal.MAO
	}

	if basis == nil {
		return false, fmt.Sprintf("deal has no %s to compare budget against", e.cfg.BudgetBasis)
	}

	if buyer.BudgetCeiling < *basis {
		return false, fmt.Sprintf("budget %.0f below %s %.0f", buyer.BudgetCeiling, e.cfg.BudgetBasis, *basis)
	}

	return true, ""
}

// FindAndConsumeMatch picks one buyer for the deal and consumes a match from
// their quota through the ledger. Buyers in pool are updated in place with
// any month reset and the consumed match; resets are also reported in
// ResetBuyerIDs. On success the deal references the buyer. Every buyer that
// was passed over is listed in Blocked.
func (e *Enforcer) FindAndConsumeMatch(
	ctx context.Context,
	deal *entity.Deal,
	pool []entity.Buyer,
	now time.Time,
) (entity.MatchResult, error) {
	result := entity.MatchResult{DealID: deal.ID}

	candidates := make([]*entity.Buyer, 0, len(pool))

	for i := range pool {
		buyer := &pool[i]

		if ok, reason := e.Fits(buyer, deal); !ok {
			result.Blocked = append(result.Blocked, entity.BlockedCandidate{BuyerID: buyer.ID, Reason: reason})
			continue
		}

		ok, reason, reset := e.eligibility(buyer, now)
		if reset {
			result.ResetBuyerIDs = append(result.ResetBuyerIDs, buyer.ID)
		}

		if !ok {
			result.Blocked = append(result.Blocked, entity.BlockedCandidate{BuyerID: buyer.ID, Reason: reason})
			continue
		}

		candidates = append(candidates, buyer)
	}

	e.selector.Order(deal, candidates)

	month := value.MonthStart(now)

	for _, buyer := range candidates {
		ok, err := e.ledger.Consume(ctx, buyer.ID, e.cfg.Quota(buyer.Tier), month)
		if err != nil {
			return result, fmt.Errorf("ledger.Consume(%s): %w", buyer.ID, err)
		}

		if !ok {
			result.Blocked = append(result.Blocked, entity.BlockedCandidate{BuyerID: buyer.ID, Reason: reasonTakenConcurrently})
			continue
		}

		buyer.MonthlyMatchCount++

		id := buyer.ID
		deal.MatchedBuyerID = &id
		deal.UpdatedAt = now
		result.Buyer = buyer

		return result, nil
	}

	return result, nil
}

// Quota returns the configured monthly limit for tier; zero is unlimited.
func (e *Enforcer) Quota(tier value.Tier) int {
	return e.cfg.Quota(tier)
}
