package entity

import (
	"fmt"

	"dealflow/internal/domain/value"
)

type RejectionCode string

const (
	RejectMarketUnsupported RejectionCode = "market_unsupported"
	RejectInsufficientComps RejectionCode = "insufficient_comps"
	RejectARVGuardrail      RejectionCode = "arv_guardrail"
	RejectMissingPrice      RejectionCode = "missing_price"
)

// Rejection explains why a valuation ended red without a usable number.
type Rejection struct {
	Code   RejectionCode `json:"code"`
	Reason string        `json:"reason"`
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Reason)
}

// Valuation is the engine output for one deal.
type Valuation struct {
	ARV        *float64
	Repairs    *float64
	MAO        *float64
	Spread     *float64
	Confidence int
	Flag       value.ProfitFlag
	CompsUsed  int
	Rejection  *Rejection
}

func (v Valuation) Rejected() bool {
	return v.Rejection != nil
}
