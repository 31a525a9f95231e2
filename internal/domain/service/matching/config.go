package matching

import "dealflow/internal/domain/value"

// BudgetBasis selects which deal figure a buyer's budget must cover.
type BudgetBasis string

const (
	BudgetVsPrice BudgetBasis = "price"
	BudgetVsMAO   BudgetBasis = "mao"
)

type Config struct {
	// Quotas are monthly match limits per tier. Zero means unlimited.
	Quotas      map[value.Tier]int
	BudgetBasis BudgetBasis
}

func DefaultConfig() Config {
	return Config{
		Quotas: map[value.Tier]int{
			value.TierFree:  3,
			value.TierPro:   50,
			value.TierElite: 0,
		},
		BudgetBasis: BudgetVsPrice,
	}
}

// Quota returns the monthly limit for tier. Unknown tiers get the free quota.
func (c Config) Quota(tier value.Tier) int {
	if q, ok := c.Quotas[tier]; ok {
		return q
	}
	return c.Quotas[value.TierFree]
}
