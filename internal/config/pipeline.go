package config

import (
	"fmt"
	"strings"
	"time"

	"dealflow/internal/domain/service/matching"
	"dealflow/internal/domain/service/priority"
	"dealflow/internal/domain/service/valuation"
	"dealflow/internal/domain/value"
)

type Worker struct {
	Enabled     bool          `env:"WORKER_ENABLED" envDefault:"true"`
	Interval    time.Duration `env:"WORKER_INTERVAL" envDefault:"1m"`
	BatchSize   int           `env:"WORKER_BATCH_SIZE" envDefault:"50"`
	DealTimeout time.Duration `env:"WORKER_DEAL_TIMEOUT" envDefault:"30s"`
	// Statuses overrides the polled set; empty keeps the default.
	Statuses []string `env:"WORKER_STATUSES"`
}

func (w Worker) ParsedStatuses() ([]value.Status, error) {
	statuses := make([]value.Status, 0, len(w.Statuses))
	for _, raw := range w.Statuses {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		s, err := value.ParseStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("WORKER_STATUSES: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

type Comps struct {
	URL      string        `env:"COMPS_URL" envDefault:"http://localhost:8090"`
	Token    string        `env:"COMPS_TOKEN" json:"-"`
	Timeout  time.Duration `env:"COMPS_TIMEOUT" envDefault:"5s"`
	CacheTTL time.Duration `env:"COMPS_CACHE_TTL" envDefault:"6h"`
	// RedisCache shares cached comps across replicas.
	RedisCache bool `env:"COMPS_REDIS_CACHE" envDefault:"true"`
}

type Valuation struct {
	// Markets are separated by ";" since entries contain commas: "Tampa,FL;GA".
	Markets         []string `env:"VALUATION_MARKETS" envSeparator:";"`
	BaselineRepair  float64  `env:"VALUATION_BASELINE_REPAIR" envDefault:"15000"`
	MinRepair       float64  `env:"VALUATION_MIN_REPAIR" envDefault:"5000"`
	MaxRepair       float64  `env:"VALUATION_MAX_REPAIR" envDefault:"150000"`
	DistressBump    float64  `env:"VALUATION_DISTRESS_BUMP" envDefault:"7500"`
	DistressWords   []string `env:"VALUATION_DISTRESS_WORDS"`
	DiscountRate    float64  `env:"VALUATION_DISCOUNT_RATE" envDefault:"0.70"`
	MinComps        int      `env:"VALUATION_MIN_COMPS" envDefault:"3"`
	MaxARVRatio     float64  `env:"VALUATION_MAX_ARV_RATIO" envDefault:"2.5"`
	MaxARV          float64  `env:"VALUATION_MAX_ARV" envDefault:"1500000"`
	GreenSpread     float64  `env:"VALUATION_GREEN_SPREAD" envDefault:"30000"`
	GreenConfidence int      `env:"VALUATION_GREEN_CONFIDENCE" envDefault:"60"`
	OrangeSpread    float64  `env:"VALUATION_ORANGE_SPREAD" envDefault:"15000"`
}

// Domain overlays the configured values on the default repair bands.
func (v Valuation) Domain() valuation.Config {
	cfg := valuation.DefaultConfig()

	cfg.Markets = v.Markets
	cfg.BaselineRepair = v.BaselineRepair
	cfg.MinRepair = v.MinRepair
	cfg.MaxRepair = v.MaxRepair
	cfg.DistressBump = v.DistressBump
	if len(v.DistressWords) > 0 {
		cfg.DistressWords = v.DistressWords
	}
	cfg.DiscountRate = v.DiscountRate
	cfg.MinComps = v.MinComps
	cfg.MaxARVRatio = v.MaxARVRatio
	cfg.MaxARV = v.MaxARV
	cfg.GreenSpread = v.GreenSpread
	cfg.GreenConfidence = v.GreenConfidence
	cfg.OrangeSpread = v.OrangeSpread

	return cfg
}

type Matching struct {
	TierQuotas  map[string]int `env:"MATCHING_TIER_QUOTAS" envDefault:"free:3,pro:50,elite:0"`
	BudgetBasis string         `env:"MATCHING_BUDGET_BASIS" envDefault:"price"`
}

func (m Matching) Domain() (matching.Config, error) {
	cfg := matching.DefaultConfig()

	for raw, quota := range m.TierQuotas {
		tier, err := value.ParseTier(raw)
		if err != nil {
			return matching.Config{}, fmt.Errorf("MATCHING_TIER_QUOTAS: %w", err)
		}
		if quota < 0 {
			return matching.Config{}, fmt.Errorf("MATCHING_TIER_QUOTAS: negative quota for %s", tier)
		}
		cfg.Quotas[tier] = quota
	}

	switch basis := matching.BudgetBasis(strings.ToLower(m.BudgetBasis)); basis {
	case matching.BudgetVsPrice, matching.BudgetVsMAO:
		cfg.BudgetBasis = basis
	default:
		return matching.Config{}, fmt.Errorf("MATCHING_BUDGET_BASIS: unknown basis %q", m.BudgetBasis)
	}

	return cfg, nil
}

// Priority holds the fallback weights used until a version is published to
// the scoring_weights table. Every field of priority.Weights is covered.
type Priority struct {
	Version string `env:"PRIORITY_WEIGHTS_VERSION" envDefault:"default-v1"`

	Dead          float64 `env:"PRIORITY_DEAD" envDefault:"-999"`
	Green         float64 `env:"PRIORITY_GREEN" envDefault:"40"`
	New           float64 `env:"PRIORITY_NEW" envDefault:"5"`
	Scored        float64 `env:"PRIORITY_SCORED" envDefault:"15"`
	Contacted     float64 `env:"PRIORITY_CONTACTED" envDefault:"20"`
	Negotiating   float64 `env:"PRIORITY_NEGOTIATING" envDefault:"30"`
	OfferSent     float64 `env:"PRIORITY_OFFER_SENT" envDefault:"35"`
	UnderContract float64 `env:"PRIORITY_UNDER_CONTRACT" envDefault:"10"`
	Blasted       float64 `env:"PRIORITY_BLASTED" envDefault:"10"`
	Assigned      float64 `env:"PRIORITY_ASSIGNED" envDefault:"0"`
	Closed        float64 `env:"PRIORITY_CLOSED" envDefault:"0"`

	MotivationMultiplier float64 `env:"PRIORITY_MOTIVATION_MULTIPLIER" envDefault:"10"`

	FollowUpBase    float64 `env:"PRIORITY_FOLLOWUP_BASE" envDefault:"25"`
	FollowUpPerItem float64 `env:"PRIORITY_FOLLOWUP_PER_ITEM" envDefault:"5"`
	FollowUpCap     int     `env:"PRIORITY_FOLLOWUP_CAP" envDefault:"5"`

	NeverContacted float64 `env:"PRIORITY_NEVER_CONTACTED" envDefault:"10"`
	StaleContact   float64 `env:"PRIORITY_STALE_CONTACT" envDefault:"15"`
	StaleDays      int     `env:"PRIORITY_STALE_DAYS" envDefault:"7"`
	WarmContact    float64 `env:"PRIORITY_WARM_CONTACT" envDefault:"8"`
	WarmDays       int     `env:"PRIORITY_WARM_DAYS" envDefault:"3"`

	HotOffer float64 `env:"PRIORITY_HOT_OFFER" envDefault:"10"`
}

func (p Priority) Weights() priority.Weights {
	return priority.Weights{
		Version:              p.Version,
		Dead:                 p.Dead,
		Green:                p.Green,
		New:                  p.New,
		Scored:               p.Scored,
		Contacted:            p.Contacted,
		Negotiating:          p.Negotiating,
		OfferSent:            p.OfferSent,
		UnderContract:        p.UnderContract,
		Blasted:              p.Blasted,
		Assigned:             p.Assigned,
		Closed:               p.Closed,
		MotivationMultiplier: p.MotivationMultiplier,
		FollowUpBase:         p.FollowUpBase,
		FollowUpPerItem:      p.FollowUpPerItem,
		FollowUpCap:          p.FollowUpCap,
		NeverContacted:       p.NeverContacted,
		StaleContact:         p.StaleContact,
		StaleDays:            p.StaleDays,
		WarmContact:          p.WarmContact,
		WarmDays:             p.WarmDays,
		HotOffer:             p.HotOffer,
	}
}
