package entity

// BlockedCandidate is a buyer that fit the deal but could not take it.
type BlockedCandidate struct {
	BuyerID string `json:"buyer_id"`
	Reason  string `json:"reason"`
}

type MatchResult struct {
	DealID  string             `json:"deal_id"`
	Buyer   *Buyer             `json:"buyer,omitempty"`
	Blocked []BlockedCandidate `json:"blocked"`
	// ResetBuyerIDs lists buyers whose counter rolled over to the current
	// month while being evaluated. The reset must be persisted with the deal.
	ResetBuyerIDs []string `json:"reset_buyer_ids,omitempty"`
}

func (m MatchResult) Matched() bool {
	return m.Buyer != nil
}
