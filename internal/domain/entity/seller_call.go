package entity

import (
	"time"

	"dealflow/internal/domain"
	"dealflow/pkg/errcodes"
)

const (
	MinMotivation = 1
	MaxMotivation = 5
)

// SellerCall is one logged conversation with the seller.
type SellerCall struct {
	ID          string    `json:"id"`
	DealID      string    `json:"deal_id"`
	Motivation  *int      `json:"motivation,omitempty"`
	AskingPrice *float64  `json:"asking_price,omitempty"`
	Notes       string    `json:"notes"`
	CalledAt    time.Time `json:"called_at"`
}

func (c *SellerCall) Validate() error {
	if c.Motivation != nil && (*c.Motivation < MinMotivation || *c.Motivation > MaxMotivation) {
		return domain.NewError(errcodes.InvalidMotivation, "motivation: must be between 1 and 5")
	}

	if c.AskingPrice != nil && *c.AskingPrice <= 0 {
		return domain.NewError(errcodes.InvalidPrice, "asking_price: must be positive")
	}

	return nil
}
