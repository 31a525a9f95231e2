package valuation

import (
	"strings"

	"dealflow/internal/domain/value"
)

// EstimateRepairs returns the clamped repair budget for the given attributes
// and free text description.
func (c Config) EstimateRepairs(attrs value.PropertyAttributes, description string) float64 {
	total := c.BaselineRepair

	if attrs.YearBuilt != nil && *attrs.YearBuilt > 0 {
		total += firstBand(c.AgeBands, *attrs.YearBuilt)
	}

	if attrs.HasSqft() {
		total += firstBand(c.SizeBands, *attrs.Sqft)
	}

	text := strings.ToLower(description)
	for _, word := range c.DistressWords {
		if strings.Contains(text, word) {
			total += c.DistressBump
		}
	}

	return clamp(total, c.MinRepair, c.MaxRepair)
}

func firstBand(bands []Band, v int) float64 {
	for _, b := range bands {
		if b.contains(v) {
			return b.Bump
		}
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
