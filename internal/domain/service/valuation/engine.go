package valuation

import (
	"fmt"
	"strings"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
)

const (
	baseConfidence  = 40
	detailBonus     = 10
	maxConfidence   = 100
	compsTierHigh   = 8
	compsTierMid    = 5
	compsTierLow    = 3
	compsBonusHigh  = 25
	compsBonusMid   = 18
	compsBonusLow   = 10
	compsPenaltyLow = -10
)

// Engine evaluates deals against a fixed configuration. It holds no mutable
// state, so one engine can be shared by concurrent callers.
type Engine struct {
	cfg     Config
	markets markets
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:     cfg,
		markets: newMarkets(cfg.Markets),
	}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate computes repairs, ARV, MAO, spread, confidence and the profit
// flag. comps may be nil when the provider failed or was not asked.
func (e *Engine) Evaluate(deal entity.Deal, comps *value.CompsSnapshot) entity.Valuation {
	if !e.markets.supports(deal.City, deal.State) {
		return entity.Valuation{
			Flag: value.FlagRed,
			Rejection: &entity.Rejection{
				Code:   entity.RejectMarketUnsupported,
				Reason: fmt.Sprintf("%s is not an operating market", deal.Market()),
			},
		}
	}

	repairs := e.cfg.EstimateRepairs(deal.Attributes, deal.Description)
	arv, count := arvFromComps(comps)

	v := entity.Valuation{
		Repairs:    &repairs,
		Confidence: e.confidence(deal, count),
		Flag:       value.FlagRed,
		CompsUsed:  count,
	}

	if count < e.cfg.MinComps {
		v.Rejection = &entity.Rejection{
			Code:   entity.RejectInsufficientComps,
			Reason: fmt.Sprintf("%d usable comparables, need %d", count, e.cfg.MinComps),
		}
		return v
	}

	if reason, ok := e.guardrail(arv, deal.AskingPrice); !ok {
		v.Rejection = &entity.Rejection{Code: entity.RejectARVGuardrail, Reason: reason}
		return v
	}

	mao := MAO(arv, repairs, e.cfg.DiscountRate)
	v.ARV = &arv
	v.MAO = &mao

	if deal.AskingPrice == nil || *deal.AskingPrice <= 0 {
		v.Rejection = &entity.Rejection{
			Code:   entity.RejectMissingPrice,
			Reason: "asking price unknown, spread not computed",
		}
		return v
	}

	spread := Spread(arv, repairs, *deal.AskingPrice)
	v.Spread = &spread
	v.Flag = e.flag(spread, v.Confidence)

	return v
}

func (e *Engine) guardrail(arv float64, price *float64) (string, bool) {
	if arv > e.cfg.MaxARV {
		return fmt.Sprintf("arv %.0f exceeds cap %.0f", arv, e.cfg.MaxARV), false
	}

	if price != nil && *price > 0 {
		if ratio := arv / *price; ratio > e.cfg.MaxARVRatio {
			return fmt.Sprintf("arv/price ratio %.2f exceeds %.2f", ratio, e.cfg.MaxARVRatio), false
		}
	}

	return "", true
}

func (e *Engine) confidence(deal entity.Deal, comps int) int {
	score := baseConfidence

	switch {
	case comps >= compsTierHigh:
		score += compsBonusHigh
	case comps >= compsTierMid:
		score += compsBonusMid
	case comps >= compsTierLow:
		score += compsBonusLow
	default:
		score += compsPenaltyLow
	}

	if strings.TrimSpace(deal.Address) != "" {
		score += detailBonus
	}

	if deal.Attributes.HasSqft() {
		score += detailBonus
	}

	if deal.Attributes.HasBedsAndBaths() {
		score += detailBonus
	}

	return min(max(score, 0), maxConfidence)
}

func (e *Engine) flag(spread float64, confidence int) value.ProfitFlag {
	switch {
	case spread >= e.cfg.GreenSpread && confidence >= e.cfg.GreenConfidence:
		return value.FlagGreen
	case spread >= e.cfg.OrangeSpread:
		return value.FlagOrange
	default:
		return value.FlagRed
	}
}

// Reprice recomputes spread and flag for a deal whose asking price changed
// after it was valued. ARV, repairs and confidence are kept; the ARV
// guardrail is checked again against the new price. Returns false when the
// deal has no valuation to reprice.
func (e *Engine) Reprice(deal entity.Deal) (entity.Valuation, bool) {
	if deal.ARV == nil || deal.Repairs == nil {
		return entity.Valuation{}, false
	}

	arv, repairs := *deal.ARV, *deal.Repairs

	v := entity.Valuation{
		Repairs:    &repairs,
		Confidence: deal.Confidence,
		Flag:       value.FlagRed,
	}

	if reason, ok := e.guardrail(arv, deal.AskingPrice); !ok {
		v.Rejection = &entity.Rejection{Code: entity.RejectARVGuardrail, Reason: reason}
		return v, true
	}

	mao := MAO(arv, repairs, e.cfg.DiscountRate)
	v.ARV = &arv
	v.MAO = &mao

	if deal.AskingPrice == nil || *deal.AskingPrice <= 0 {
		v.Rejection = &entity.Rejection{
			Code:   entity.RejectMissingPrice,
			Reason: "asking price unknown, spread not computed",
		}
		return v, true
	}

	spread := Spread(arv, repairs, *deal.AskingPrice)
	v.Spread = &spread
	v.Flag = e.flag(spread, v.Confidence)

	return v, true
}
