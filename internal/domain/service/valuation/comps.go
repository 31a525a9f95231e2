package valuation

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"dealflow/internal/domain/value"
)

// arvFromComps returns the ARV estimate and the number of usable comparables.
// Individual prices win over aggregates; an aggregate yields its median, or
// its mean when no median was supplied.
func arvFromComps(snap *value.CompsSnapshot) (float64, int) {
	if snap == nil {
		return 0, 0
	}

	if len(snap.Prices) > 0 {
		usable := lo.Filter(snap.Prices, func(p float64, _ int) bool {
			return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
		})
		return median(usable), len(usable)
	}

	switch {
	case snap.Median != nil && *snap.Median > 0:
		return *snap.Median, snap.Count
	case snap.Average != nil && *snap.Average > 0:
		return *snap.Average, snap.Count
	default:
		return 0, 0
	}
}

func median(prices []float64) float64 {
	n := len(prices)
	if n == 0 {
		return 0
	}

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
