package entity

import (
	"strings"
	"time"

	"dealflow/internal/domain"
	"dealflow/internal/domain/value"
)

type Buyer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`

	// AssetType "any" matches every deal.
	AssetType value.AssetType `json:"asset_type"`
	// Market is a city; empty matches every market.
	Market        string     `json:"market"`
	BudgetCeiling float64    `json:"budget_ceiling"`
	Tier          value.Tier `json:"tier"`

	MonthlyMatchCount int `json:"monthly_match_count"`
	// CounterResetAt is the first instant of the month the counter belongs to.
	CounterResetAt time.Time `json:"counter_reset_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (b *Buyer) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return domain.NewValidationError("name", "required")
	}

	if _, err := value.ParseAssetType(b.AssetType.String()); err != nil {
		return domain.NewValidationError("asset_type", err.Error())
	}

	if _, err := value.ParseTier(b.Tier.String()); err != nil {
		return domain.NewValidationError("tier", err.Error())
	}

	if b.BudgetCeiling < 0 {
		return domain.NewValidationError("budget_ceiling", "must not be negative")
	}

	return nil
}

// ResetIfNewMonth zeroes the counter when now falls in a later month than
// the one the counter was stamped with. Returns true when it reset.
func (b *Buyer) ResetIfNewMonth(now time.Time) bool {
	month := value.MonthStart(now)
	if !b.CounterResetAt.IsZero() && !b.CounterResetAt.Before(month) {
		return false
	}

	b.MonthlyMatchCount = 0
	b.CounterResetAt = month

	return true
}
