// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

type PropertyAttributes struct {
	Beds      *int     `json:"beds,omitempty" validate:"omitempty,gte=0"`
	Baths     *float64 `json:"baths,omitempty" validate:"omitempty,gte=0"`
	Sqft      *int     `json:"sqft,omitempty" validate:"omitempty,gte=0"`
	YearBuilt *int     `json:"year_built,omitempty" validate:"omitempty,gte=0"`
}

type CreateDealRequest struct {
	AssetType     string             `json:"asset_type" validate:"required"`
	Address       string             `json:"address"`
	City          string             `json:"city"`
	State         string             `json:"state" validate:"required"`
	Zip           string             `json:"zip"`
	Attributes    PropertyAttributes `json:"attributes"`
	Description   string             `json:"description"`
	AskingPrice   *float64           `json:"asking_price" validate:"required,gt=0"`
	AssignmentFee *float64           `json:"assignment_fee,omitempty" validate:"omitempty,gte=0"`
}

type Deal struct {
	ID              string             `json:"id"`
	AssetType       string             `json:"asset_type"`
	Address         string             `json:"address"`
	City            string             `json:"city"`
	State           string             `json:"state"`
	Zip             string             `json:"zip"`
	Attributes      PropertyAttributes `json:"attributes"`
	Description     string             `json:"description"`
	AskingPrice     *float64           `json:"asking_price,omitempty"`
	ARV             *float64           `json:"arv,omitempty"`
	Repairs         *float64           `json:"repairs,omitempty"`
	MAO             *float64           `json:"mao,omitempty"`
	Spread          *float64           `json:"spread,omitempty"`
	Confidence      int                `json:"confidence"`
	ProfitFlag      string             `json:"profit_flag,omitempty"`
	ValuationNote   string             `json:"valuation_note,omitempty"`
	Status          string             `json:"status"`
	PriorityScore   float64            `json:"priority_score"`
	PriorityReason  string             `json:"priority_reason"`
	AssignmentFee   *float64           `json:"assignment_fee,omitempty"`
	ActualProfit    *float64           `json:"actual_profit,omitempty"`
	MatchedBuyerID  *string            `json:"matched_buyer_id,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	LastContactedAt *time.Time         `json:"last_contacted_at,omitempty"`
}

type DealList struct {
	Items []Deal `json:"items"`
}

type TransitionRequest struct {
	Status        string   `json:"status" validate:"required"`
	AssignmentFee *float64 `json:"assignment_fee,omitempty" validate:"omitempty,gte=0"`
}

type BlockedCandidate struct {
	BuyerID string `json:"buyer_id"`
	Reason  string `json:"reason"`
}

type ProcessResult struct {
	Deal           Deal               `json:"deal"`
	MatchedBuyerID *string            `json:"matched_buyer_id,omitempty"`
	Blocked        []BlockedCandidate `json:"blocked,omitempty"`
	WeightsVersion string             `json:"weights_version,omitempty"`
}

type SellerCallRequest struct {
	Motivation  *int       `json:"motivation,omitempty" validate:"omitempty,min=1,max=5"`
	AskingPrice *float64   `json:"asking_price,omitempty" validate:"omitempty,gt=0"`
	Notes       string     `json:"notes"`
	CalledAt    *time.Time `json:"called_at,omitempty"`
}

type SellerCall struct {
	ID          string    `json:"id"`
	DealID      string    `json:"deal_id"`
	Motivation  *int      `json:"motivation,omitempty"`
	AskingPrice *float64  `json:"asking_price,omitempty"`
	Notes       string    `json:"notes"`
	CalledAt    time.Time `json:"called_at"`
}

type FollowUpRequest struct {
	DueAt time.Time `json:"due_at" validate:"required"`
	Note  string    `json:"note"`
}

type FollowUp struct {
	ID          string     `json:"id"`
	DealID      string     `json:"deal_id"`
	DueAt       time.Time  `json:"due_at"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Note        string     `json:"note"`
}

type CreateBuyerRequest struct {
	Name          string  `json:"name" validate:"required"`
	AssetType     string  `json:"asset_type"`
	Market        string  `json:"market"`
	BudgetCeiling float64 `json:"budget_ceiling" validate:"gte=0"`
	Tier          string  `json:"tier"`
}

type Buyer struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Active            bool      `json:"active"`
	AssetType         string    `json:"asset_type"`
	Market            string    `json:"market"`
	BudgetCeiling     float64   `json:"budget_ceiling"`
	Tier              string    `json:"tier"`
	MonthlyMatchCount int       `json:"monthly_match_count"`
	CounterResetAt    time.Time `json:"counter_reset_at"`
}

type Eligibility struct {
	BuyerID  string `json:"buyer_id"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
	Used     int    `json:"used"`
	// Limit 0 means unlimited.
	Limit int `json:"limit"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
