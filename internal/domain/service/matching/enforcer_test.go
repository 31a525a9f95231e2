package matching_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/service/matching"
	"dealflow/internal/domain/value"
)

var march = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

func testDeal() *entity.Deal {
	return &entity.Deal{
		ID:          "deal-1",
		AssetType:   value.AssetRealEstate,
		City:        "Austin",
		State:       "TX",
		AskingPrice: lo.ToPtr(100000.0),
		MAO:         lo.ToPtr(90000.0),
		ProfitFlag:  value.FlagGreen,
	}
}

func testBuyer(id string, tier value.Tier, budget float64) entity.Buyer {
	return entity.Buyer{
		ID:             id,
		Name:           "Buyer " + id,
		Active:         true,
		AssetType:      value.AssetAny,
		BudgetCeiling:  budget,
		Tier:           tier,
		CounterResetAt: value.MonthStart(march),
	}
}

func TestEnforcer_Eligibility(t *testing.T) {
	rq := require.New(t)

	enforcer := matching.NewEnforcer(matching.DefaultConfig(), matching.NewMemoryLedger(), nil)

	testCases := []struct {
		name      string
		buyer     entity.Buyer
		ok        bool
		reason    string
		wantCount int
	}{
		{
			name: "free buyer at quota",
			buyer: func() entity.Buyer {
				b := testBuyer("b1", value.TierFree, 500000)
				b.MonthlyMatchCount = 3
				return b
			}(),
			ok:        false,
			reason:    "Tier 'free' monthly match limit reached (3/3)",
			wantCount: 3,
		},
		{
			name: "free buyer below quota",
			buyer: func() entity.Buyer {
				b := testBuyer("b1", value.TierFree, 500000)
				b.MonthlyMatchCount = 2
				return b
			}(),
			ok:        true,
			wantCount: 2,
		},
		{
			name: "elite is unlimited",
			buyer: func() entity.Buyer {
				b := testBuyer("b1", value.TierElite, 500000)
				b.MonthlyMatchCount = 1000
				return b
			}(),
			ok:        true,
			wantCount: 1000,
		},
		{
			name: "last month's counter is reset",
			buyer: func() entity.Buyer {
				b := testBuyer("b1", value.TierFree, 500000)
				b.MonthlyMatchCount = 3
				b.CounterResetAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
				return b
			}(),
			ok:        true,
			wantCount: 0,
		},
		{
			name: "never stamped counter is reset",
			buyer: func() entity.Buyer {
				b := testBuyer("b1", value.TierPro, 500000)
				b.MonthlyMatchCount = 50
				b.CounterResetAt = time.Time{}
				return b
			}(),
			ok:        true,
			wantCount: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			buyer := tc.buyer

			ok, reason := enforcer.Eligibility(&buyer, march)
			rq.Equal(tc.ok, ok)
			rq.Equal(tc.reason, reason)
			rq.Equal(tc.wantCount, buyer.MonthlyMatchCount)
			rq.Equal(value.MonthStart(march), buyer.CounterResetAt)
		})
	}
}

func TestEnforcer_Fits(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name   string
		basis  matching.BudgetBasis
		modify func(b *entity.Buyer)
		ok     bool
	}{
		{name: "wildcard buyer", modify: func(*entity.Buyer) {}, ok: true},
		{name: "inactive", modify: func(b *entity.Buyer) { b.Active = false }, ok: false},
		{name: "same asset type", modify: func(b *entity.Buyer) { b.AssetType = value.AssetRealEstate }, ok: true},
		{name: "other asset type", modify: func(b *entity.Buyer) { b.AssetType = value.AssetVehicle }, ok: false},
		{name: "same market any case", modify: func(b *entity.Buyer) { b.Market = "austin" }, ok: true},
		{name: "other market", modify: func(b *entity.Buyer) { b.Market = "Dallas" }, ok: false},
		{name: "budget below price", modify: func(b *entity.Buyer) { b.BudgetCeiling = 95000 }, ok: false},
		{name: "budget equals price", modify: func(b *entity.Buyer) { b.BudgetCeiling = 100000 }, ok: true},
		{
			name:   "budget covers mao",
			basis:  matching.BudgetVsMAO,
			modify: func(b *entity.Buyer) { b.BudgetCeiling = 95000 },
			ok:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			cfg := matching.DefaultConfig()
			if tc.basis != "" {
				cfg.BudgetBasis = tc.basis
			}
			enforcer := matching.NewEnforcer(cfg, matching.NewMemoryLedger(), nil)

			buyer := testBuyer("b1", value.TierPro, 250000)
			tc.modify(&buyer)

			ok, reason := enforcer.Fits(&buyer, testDeal())
			rq.Equal(tc.ok, ok, reason)
			if !ok {
				rq.NotEmpty(reason)
			}
		})
	}
}

func TestEnforcer_FindAndConsumeMatch(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	t.Run("free buyer at quota is blocked", func(*testing.T) {
		full := testBuyer("b-free", value.TierFree, 900000)
		full.MonthlyMatchCount = 3
		pool := []entity.Buyer{full}

		enforcer := matching.NewEnforcer(matching.DefaultConfig(), matching.NewMemoryLedger(pool...), nil)
		deal := testDeal()

		res, err := enforcer.FindAndConsumeMatch(ctx, deal, pool, march)
		rq.NoError(err)
		rq.False(res.Matched())
		rq.Nil(deal.MatchedBuyerID)
		rq.Len(res.Blocked, 1)
		rq.Contains(res.Blocked[0].Reason, "3/3")
	})

	t.Run("highest budget wins, ties by id", func(*testing.T) {
		pool := []entity.Buyer{
			testBuyer("b-low", value.TierPro, 150000),
			testBuyer("b-z", value.TierPro, 400000),
			testBuyer("b-a", value.TierPro, 400000),
			testBuyer("b-poor", value.TierPro, 50000),
		}
		ledger := matching.NewMemoryLedger(pool...)
		enforcer := matching.NewEnforcer(matching.DefaultConfig(), ledger, nil)
		deal := testDeal()

		res, err := enforcer.FindAndConsumeMatch(ctx, deal, pool, march)
		rq.NoError(err)
		rq.True(res.Matched())
		rq.Equal("b-a", res.Buyer.ID)
		rq.Equal("b-a", *deal.MatchedBuyerID)
		rq.Equal(1, res.Buyer.MonthlyMatchCount)
		rq.Equal(1, ledger.Count("b-a"))
		rq.Equal(0, ledger.Count("b-z"))
		rq.Len(res.Blocked, 1)
		rq.Equal("b-poor", res.Blocked[0].BuyerID)
	})

	t.Run("ledger refusal falls through to next buyer", func(*testing.T) {
		stale := testBuyer("b-rich", value.TierFree, 900000)
		pool := []entity.Buyer{stale, testBuyer("b-next", value.TierPro, 300000)}

		// Another worker already used the whole quota of b-rich.
		taken := stale
		taken.MonthlyMatchCount = 3
		ledger := matching.NewMemoryLedger(taken, pool[1])

		enforcer := matching.NewEnforcer(matching.DefaultConfig(), ledger, nil)
		deal := testDeal()

		res, err := enforcer.FindAndConsumeMatch(ctx, deal, pool, march)
		rq.NoError(err)
		rq.Equal("b-next", res.Buyer.ID)
		rq.Equal([]entity.BlockedCandidate{{BuyerID: "b-rich", Reason: "quota consumed by a concurrent match"}}, res.Blocked)
		rq.Equal(3, ledger.Count("b-rich"))
	})

	t.Run("month rollover is reported for every evaluated buyer", func(*testing.T) {
		february := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		lastMonth := func(b entity.Buyer) entity.Buyer {
			b.MonthlyMatchCount = 3
			b.CounterResetAt = february
			return b
		}

		pool := []entity.Buyer{
			lastMonth(testBuyer("b-rich", value.TierFree, 900000)),
			lastMonth(testBuyer("b-second", value.TierFree, 400000)),
			lastMonth(testBuyer("b-poor", value.TierFree, 50000)),
		}
		ledger := matching.NewMemoryLedger(pool...)
		enforcer := matching.NewEnforcer(matching.DefaultConfig(), ledger, nil)
		deal := testDeal()

		res, err := enforcer.FindAndConsumeMatch(ctx, deal, pool, march)
		rq.NoError(err)
		rq.Equal("b-rich", res.Buyer.ID)
		rq.Equal([]string{"b-rich", "b-second"}, res.ResetBuyerIDs)
		rq.Equal(0, pool[1].MonthlyMatchCount)
		rq.Equal(value.MonthStart(march), pool[1].CounterResetAt)
		rq.Equal(3, pool[2].MonthlyMatchCount)
	})

	t.Run("ledger error aborts", func(*testing.T) {
		pool := []entity.Buyer{testBuyer("b1", value.TierPro, 300000)}
		enforcer := matching.NewEnforcer(matching.DefaultConfig(), failingLedger{}, nil)
		deal := testDeal()

		_, err := enforcer.FindAndConsumeMatch(ctx, deal, pool, march)
		rq.Error(err)
		rq.Nil(deal.MatchedBuyerID)
	})
}

type failingLedger struct{}

func (failingLedger) Consume(context.Context, string, int, time.Time) (bool, error) {
	return false, errors.New("connection reset")
}

func TestMemoryLedger_MonthlyCounter(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ledger := matching.NewMemoryLedger()

	for range 3 {
		ok, err := ledger.Consume(ctx, "b1", 3, march)
		rq.NoError(err)
		rq.True(ok)
	}

	ok, err := ledger.Consume(ctx, "b1", 3, march)
	rq.NoError(err)
	rq.False(ok)
	rq.Equal(3, ledger.Count("b1"))

	april := time.Date(2026, 4, 1, 0, 0, 1, 0, time.UTC)
	ok, err = ledger.Consume(ctx, "b1", 3, april)
	rq.NoError(err)
	rq.True(ok)
	rq.Equal(1, ledger.Count("b1"))
}

func TestEnforcer_ConcurrentWorkersNeverExceedQuota(t *testing.T) {
	rq := require.New(t)

	const workers = 20

	buyer := testBuyer("b-shared", value.TierFree, 900000)
	ledger := matching.NewMemoryLedger(buyer)
	enforcer := matching.NewEnforcer(matching.DefaultConfig(), ledger, nil)

	var matched atomic.Int32

	g, ctx := errgroup.WithContext(context.Background())
	for i := range workers {
		g.Go(func() error {
			// Each worker read the buyer before anyone consumed.
			pool := []entity.Buyer{buyer}
			deal := testDeal()
			deal.ID = "deal-" + string(rune('a'+i))

			res, err := enforcer.FindAndConsumeMatch(ctx, deal, pool, march)
			if err != nil {
				return err
			}
			if res.Matched() {
				matched.Add(1)
			}
			return nil
		})
	}

	rq.NoError(g.Wait())
	rq.EqualValues(3, matched.Load())
	rq.Equal(3, ledger.Count("b-shared"))
}
