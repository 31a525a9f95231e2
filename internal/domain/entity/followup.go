package entity

import "time"

type FollowUp struct {
	ID          string     `json:"id"`
	DealID      string     `json:"deal_id"`
	DueAt       time.Time  `json:"due_at"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Note        string     `json:"note"`
	CreatedAt   time.Time  `json:"created_at"`
}

// DueBy reports whether the follow-up is open and due no later than t.
func (f FollowUp) DueBy(t time.Time) bool {
	return !f.Completed && !f.DueAt.After(t)
}
