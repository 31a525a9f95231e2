package matching

import (
	"cmp"
	"slices"

	"dealflow/internal/domain/entity"
)

// Selector orders eligible buyers, best first. Matching takes the first one
// whose quota can still be consumed.
type Selector interface {
	Order(deal *entity.Deal, candidates []*entity.Buyer)
}

// HighestBudget prefers the largest budget ceiling, then the lowest ID so
// that repeated runs pick the same buyer. It matches each deal on its own
// and does not look for the best assignment across a batch.
type HighestBudget struct{}

func (HighestBudget) Order(_ *entity.Deal, candidates []*entity.Buyer) {
	slices.SortStableFunc(candidates, func(a, b *entity.Buyer) int {
		if c := cmp.Compare(b.BudgetCeiling, a.BudgetCeiling); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
