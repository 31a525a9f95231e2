package entity

import (
	"strings"
	"time"

	"dealflow/internal/domain"
	"dealflow/internal/domain/value"
	"dealflow/pkg/errcodes"
)

// Deal is one opportunity lead moving through evaluation, outreach and
// disposition. Deals are never deleted; DEAD is the tombstone.
type Deal struct {
	ID        string          `json:"id"`
	AssetType value.AssetType `json:"asset_type"`

	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`

	Attributes  value.PropertyAttributes `json:"attributes"`
	Description string                   `json:"description"`

	AskingPrice *float64 `json:"asking_price,omitempty"`

	// Valuation output. Written only by ApplyValuation.
	ARV           *float64         `json:"arv,omitempty"`
	Repairs       *float64         `json:"repairs,omitempty"`
	MAO           *float64         `json:"mao,omitempty"`
	Spread        *float64         `json:"spread,omitempty"`
	Confidence    int              `json:"confidence"`
	ProfitFlag    value.ProfitFlag `json:"profit_flag,omitempty"`
	ValuationNote string           `json:"valuation_note,omitempty"`

	// Status is owned by the lifecycle controller.
	Status value.Status `json:"status"`

	PriorityScore  float64 `json:"priority_score"`
	PriorityReason string  `json:"priority_reason"`

	AssignmentFee  *float64 `json:"assignment_fee,omitempty"`
	ActualProfit   *float64 `json:"actual_profit,omitempty"`
	MatchedBuyerID *string  `json:"matched_buyer_id,omitempty"`

	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
}

// ApplyValuation copies an engine result onto the deal. Spread is kept only
// when both ARV and asking price are known.
func (d *Deal) ApplyValuation(v Valuation) {
	d.ARV = v.ARV
	d.Repairs = v.Repairs
	d.MAO = v.MAO
	d.Spread = v.Spread
	d.Confidence = v.Confidence
	d.ProfitFlag = v.Flag
	d.ValuationNote = ""

	if v.Rejection != nil {
		d.ValuationNote = v.Rejection.String()
	}

	if d.ARV == nil || d.AskingPrice == nil {
		d.Spread = nil
	}
}

// Matched reports whether a buyer is already attached.
func (d *Deal) Matched() bool {
	return d.MatchedBuyerID != nil && *d.MatchedBuyerID != ""
}

// Market is the "City,ST" key used for market checks.
func (d *Deal) Market() string {
	return strings.TrimSpace(d.City) + "," + strings.TrimSpace(d.State)
}

// Validate checks what ingest needs before a deal can enter the pipeline.
func (d *Deal) Validate() error {
	switch d.AssetType {
	case value.AssetRealEstate, value.AssetVehicle, value.AssetBusiness:
	default:
		return domain.NewValidationError("asset_type", "must be real_estate, vehicle or business")
	}

	if strings.TrimSpace(d.Address) == "" && strings.TrimSpace(d.City) == "" {
		return domain.NewValidationError("address", "address or city is required")
	}

	if strings.TrimSpace(d.State) == "" {
		return domain.NewValidationError("state", "required")
	}

	if d.AskingPrice == nil {
		return domain.NewValidationError("asking_price", "required")
	}

	if *d.AskingPrice <= 0 {
		return domain.NewError(errcodes.InvalidPrice, "asking_price: must be positive")
	}

	if d.AssignmentFee != nil && *d.AssignmentFee < 0 {
		return domain.NewValidationError("assignment_fee", "must not be negative")
	}

	a := d.Attributes
	if a.Sqft != nil && *a.Sqft < 0 {
		return domain.NewValidationError("sqft", "must not be negative")
	}

	if a.Beds != nil && *a.Beds < 0 {
		return domain.NewValidationError("beds", "must not be negative")
	}

	if a.Baths != nil && *a.Baths < 0 {
		return domain.NewValidationError("baths", "must not be negative")
	}

	return nil
}
