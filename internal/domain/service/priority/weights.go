package priority

import (
	"context"

	"dealflow/internal/domain/value"
)

// Weights is one versioned set of scoring points. A record is never
// mutated in place; tuning publishes a new version.
type Weights struct {
	Version string `json:"version"`

	Dead          float64 `json:"dead"`
	Green         float64 `json:"green"`
	New           float64 `json:"new"`
	Scored        float64 `json:"scored"`
	Contacted     float64 `json:"contacted"`
	Negotiating   float64 `json:"negotiating"`
	OfferSent     float64 `json:"offer_sent"`
	UnderContract float64 `json:"under_contract"`
	Blasted       float64 `json:"blasted"`
	Assigned      float64 `json:"assigned"`
	Closed        float64 `json:"closed"`

	MotivationMultiplier float64 `json:"motivation_multiplier"`

	FollowUpBase    float64 `json:"followup_base"`
	FollowUpPerItem float64 `json:"followup_per_item"`
	FollowUpCap     int     `json:"followup_cap"`

	NeverContacted float64 `json:"never_contacted"`
	StaleContact   float64 `json:"stale_contact"`
	StaleDays      int     `json:"stale_days"`
	WarmContact    float64 `json:"warm_contact"`
	WarmDays       int     `json:"warm_days"`

	HotOffer float64 `json:"hot_offer"`
}

func DefaultWeights() Weights {
	return Weights{
		Version:              "default-v1",
		Dead:                 -999,
		Green:                40,
		New:                  5,
		Scored:               15,
		Contacted:            20,
		Negotiating:          30,
		OfferSent:            35,
		UnderContract:        10,
		Blasted:              10,
		Assigned:             0,
		Closed:               0,
		MotivationMultiplier: 10,
		FollowUpBase:         25,
		FollowUpPerItem:      5,
		FollowUpCap:          5,
		NeverContacted:       10,
		StaleContact:         15,
		StaleDays:            7,
		WarmContact:          8,
		WarmDays:             3,
		HotOffer:             10,
	}
}

func (w Weights) base(status value.Status) float64 {
	switch status {
	case value.StatusNew:
		return w.New
	case value.StatusScored:
		return w.Scored
	case value.StatusContacted:
		return w.Contacted
	case value.StatusNegotiating:
		return w.Negotiating
	case value.StatusOfferSent:
		return w.OfferSent
	case value.StatusUnderContract:
		return w.UnderContract
	case value.StatusBlasted:
		return w.Blasted
	case value.StatusAssigned:
		return w.Assigned
	case value.StatusClosed:
		return w.Closed
	default:
		return 0
	}
}

// WeightsSource hands out the weights to use for one scoring cycle.
type WeightsSource interface {
	Current(ctx context.Context) (Weights, error)
}

// StaticSource always returns the same weights.
type StaticSource Weights

func (s StaticSource) Current(context.Context) (Weights, error) {
	return Weights(s), nil
}
