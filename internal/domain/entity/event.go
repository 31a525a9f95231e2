package entity

import (
	"time"

	"dealflow/internal/domain/value"
)

type EventType string

const (
	EventStatusChanged EventType = "deal.status_changed"
	EventMatched       EventType = "deal.matched"
)

// Event is emitted after a deal change has been committed. Consumers
// (notifications, documents, payments) handle their own failures.
type Event struct {
	Type       EventType        `json:"type"`
	DealID     string           `json:"deal_id"`
	Address    string           `json:"address"`
	City       string           `json:"city"`
	From       value.Status     `json:"from,omitempty"`
	To         value.Status     `json:"to,omitempty"`
	BuyerID    string           `json:"buyer_id,omitempty"`
	BuyerName  string           `json:"buyer_name,omitempty"`
	ProfitFlag value.ProfitFlag `json:"profit_flag,omitempty"`
	Spread     *float64         `json:"spread,omitempty"`
	Score      float64          `json:"score"`
	At         time.Time        `json:"at"`
}

func NewStatusChangedEvent(d *Deal, from value.Status, at time.Time) Event {
	return Event{
		Type:       EventStatusChanged,
		DealID:     d.ID,
		Address:    d.Address,
		City:       d.City,
		From:       from,
		To:         d.Status,
		ProfitFlag: d.ProfitFlag,
		Spread:     d.Spread,
		Score:      d.PriorityScore,
		At:         at,
	}
}

func NewMatchedEvent(d *Deal, b *Buyer, at time.Time) Event {
	return Event{
		Type:       EventMatched,
		DealID:     d.ID,
		Address:    d.Address,
		City:       d.City,
		To:         d.Status,
		BuyerID:    b.ID,
		BuyerName:  b.Name,
		ProfitFlag: d.ProfitFlag,
		Spread:     d.Spread,
		Score:      d.PriorityScore,
		At:         at,
	}
}
