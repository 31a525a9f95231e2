package valuation_test

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/samber/lo"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/service/valuation"
	"dealflow/internal/domain/value"
)

func propertyParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	return parameters
}

func TestProperty_SpreadIdentity(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())
	engine := valuation.NewEngine(valuation.DefaultConfig())

	properties.Property("spread equals arv - repairs - price", prop.ForAll(
		func(price float64, prices []float64, year, sqft int) bool {
			deal := austinDeal(price)
			deal.Attributes = value.PropertyAttributes{YearBuilt: lo.ToPtr(year), Sqft: lo.ToPtr(sqft)}

			v := engine.Evaluate(deal, &value.CompsSnapshot{Prices: prices, Count: len(prices)})
			if v.ARV == nil {
				return v.Spread == nil && v.Flag == value.FlagRed
			}

			return *v.Spread == *v.ARV-*v.Repairs-price
		},
		gen.Float64Range(20000, 500000),
		gen.SliceOfN(5, gen.Float64Range(50000, 600000)),
		gen.IntRange(1900, 2024),
		gen.IntRange(400, 5000),
	))

	properties.TestingRun(t)
}

func TestProperty_Bounds(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())
	cfg := valuation.DefaultConfig()
	engine := valuation.NewEngine(cfg)

	properties.Property("confidence and repairs stay in their bands", prop.ForAll(
		func(n int, year, sqft int, desc string, hasAddress bool) bool {
			deal := austinDeal(100000)
			deal.Description = desc
			deal.Attributes = value.PropertyAttributes{YearBuilt: lo.ToPtr(year), Sqft: lo.ToPtr(sqft)}
			if !hasAddress {
				deal.Address = ""
			}

			prices := make([]float64, n)
			for i := range prices {
				prices[i] = 150000 + float64(i)*1000
			}

			v := engine.Evaluate(deal, &value.CompsSnapshot{Prices: prices, Count: n})

			return v.Confidence >= 0 && v.Confidence <= 100 &&
				*v.Repairs >= cfg.MinRepair && *v.Repairs <= cfg.MaxRepair
		},
		gen.IntRange(0, 12),
		gen.IntRange(1850, 2030),
		gen.IntRange(0, 8000),
		gen.OneConstOf("", "vacant", "fire and mold", "as-is probate foreclosure roof foundation"),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProperty_FewCompsAlwaysRed(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())
	engine := valuation.NewEngine(valuation.DefaultConfig())

	properties.Property("fewer than three comps gives nil arv and red", prop.ForAll(
		func(price float64, prices []float64) bool {
			v := engine.Evaluate(austinDeal(price), &value.CompsSnapshot{Prices: prices, Count: len(prices)})
			return v.ARV == nil && v.Flag == value.FlagRed && v.Rejection != nil &&
				v.Rejection.Code == entity.RejectInsufficientComps
		},
		gen.Float64Range(1000, 2_000_000),
		gen.SliceOfN(2, gen.Float64Range(1000, 2_000_000)),
	))

	properties.TestingRun(t)
}

func TestProperty_Guardrails(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())
	engine := valuation.NewEngine(valuation.DefaultConfig())

	properties.Property("arv over ratio or cap is discarded", prop.ForAll(
		func(price, ratio float64) bool {
			arv := price * ratio
			v := engine.Evaluate(austinDeal(price), &value.CompsSnapshot{Prices: []float64{arv, arv, arv}, Count: 3})

			if ratio > 2.5 || arv > 1_500_000 {
				return v.ARV == nil && v.Flag == value.FlagRed
			}

			return v.ARV != nil
		},
		gen.Float64Range(10000, 1_000_000),
		gen.Float64Range(0.5, 5),
	))

	properties.TestingRun(t)
}
