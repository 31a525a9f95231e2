package persistence

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// dealSchema maps a row of the deals table.
type dealSchema struct {
	ID              string     `db:"id"`
	AssetType       string     `db:"asset_type"`
	Address         string     `db:"address"`
	City            string     `db:"city"`
	State           string     `db:"state"`
	Zip             string     `db:"zip"`
	Attributes      []byte     `db:"attributes"`
	Description     string     `db:"description"`
	AskingPrice     *float64   `db:"asking_price"`
	ARV             *float64   `db:"arv"`
	Repairs         *float64   `db:"repairs"`
	MAO             *float64   `db:"mao"`
	Spread          *float64   `db:"spread"`
	Confidence      int        `db:"confidence"`
	ProfitFlag      string     `db:"profit_flag"`
	ValuationNote   string     `db:"valuation_note"`
	Status          string     `db:"status"`
	PriorityScore   float64    `db:"priority_score"`
	PriorityReason  string     `db:"priority_reason"`
	AssignmentFee   *float64   `db:"assignment_fee"`
	ActualProfit    *float64   `db:"actual_profit"`
	MatchedBuyerID  *string    `db:"matched_buyer_id"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	LastContactedAt *time.Time `db:"last_contacted_at"`
}

func fromDeal(d *entity.Deal) (*dealSchema, error) {
	attrs, err := json.Marshal(d.Attributes)
	if err != nil {
		return nil, err
	}

	return &dealSchema{
		ID:              d.ID,
		AssetType:       d.AssetType.String(),
		Address:         d.Address,
		City:            d.City,
		State:           d.State,
		Zip:             d.Zip,
		Attributes:      attrs,
		Description:     d.Description,
		AskingPrice:     d.AskingPrice,
		ARV:             d.ARV,
		Repairs:         d.Repairs,
		MAO:             d.MAO,
		Spread:          d.Spread,
		Confidence:      d.Confidence,
		ProfitFlag:      d.ProfitFlag.String(),
		ValuationNote:   d.ValuationNote,
		Status:          d.Status.String(),
		PriorityScore:   d.PriorityScore,
		PriorityReason:  d.PriorityReason,
		AssignmentFee:   d.AssignmentFee,
		ActualProfit:    d.ActualProfit,
		MatchedBuyerID:  d.MatchedBuyerID,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		LastContactedAt: d.LastContactedAt,
	}, nil
}

func (s *dealSchema) toDomain() (*entity.Deal, error) {
	attrs, err := s.parseAttributes()
	if err != nil {
		return nil, err
	}

	// Rows written by older importers may carry legacy status names.
	status, err := value.ParseStatus(s.Status)
	if err != nil {
		return nil, err
	}

	return &entity.Deal{
		ID:              s.ID,
		AssetType:       value.AssetType(s.AssetType),
		Address:         s.Address,
		City:            s.City,
		State:           s.State,
		Zip:             s.Zip,
		Attributes:      attrs,
		Description:     s.Description,
		AskingPrice:     s.AskingPrice,
		ARV:             s.ARV,
		Repairs:         s.Repairs,
		MAO:             s.MAO,
		Spread:          s.Spread,
		Confidence:      s.Confidence,
		ProfitFlag:      value.ProfitFlag(s.ProfitFlag),
		ValuationNote:   s.ValuationNote,
		Status:          status,
		PriorityScore:   s.PriorityScore,
		PriorityReason:  s.PriorityReason,
		AssignmentFee:   s.AssignmentFee,
		ActualProfit:    s.ActualProfit,
		MatchedBuyerID:  s.MatchedBuyerID,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		LastContactedAt: s.LastContactedAt,
	}, nil
}

func (s *dealSchema) parseAttributes() (value.PropertyAttributes, error) {
	var attrs value.PropertyAttributes
	if len(s.Attributes) > 0 {
		if err := json.Unmarshal(s.Attributes, &attrs); err != nil {
			return attrs, err
		}
	}
	return attrs, nil
}

type buyerSchema struct {
	ID                string    `db:"id"`
	Name              string    `db:"name"`
	Active            bool      `db:"active"`
	AssetType         string    `db:"asset_type"`
	Market            string    `db:"market"`
	BudgetCeiling     float64   `db:"budget_ceiling"`
	Tier              string    `db:"tier"`
	MonthlyMatchCount int       `db:"monthly_match_count"`
	CounterResetAt    time.Time `db:"counter_reset_at"`
	CreatedAt         time.Time `db:"created_at"`
}

func fromBuyer(b *entity.Buyer) *buyerSchema {
	return &buyerSchema{
		ID:                b.ID,
		Name:              b.Name,
		Active:            b.Active,
		AssetType:         b.AssetType.String(),
		Market:            b.Market,
		BudgetCeiling:     b.BudgetCeiling,
		Tier:              b.Tier.String(),
		MonthlyMatchCount: b.MonthlyMatchCount,
		CounterResetAt:    b.CounterResetAt,
		CreatedAt:         b.CreatedAt,
	}
}

func (s *buyerSchema) toDomain() entity.Buyer {
	return entity.Buyer{
		ID:                s.ID,
		Name:              s.Name,
		Active:            s.Active,
		AssetType:         value.AssetType(s.AssetType),
		Market:            s.Market,
		BudgetCeiling:     s.BudgetCeiling,
		Tier:              value.Tier(s.Tier),
		MonthlyMatchCount: s.MonthlyMatchCount,
		CounterResetAt:    s.CounterResetAt.UTC(),
		CreatedAt:         s.CreatedAt,
	}
}

type followUpSchema struct {
	ID          string     `db:"id"`
	DealID      string     `db:"deal_id"`
	DueAt       time.Time  `db:"due_at"`
	Completed   bool       `db:"completed"`
	CompletedAt *time.Time `db:"completed_at"`
	Note        string     `db:"note"`
	CreatedAt   time.Time  `db:"created_at"`
}

func fromFollowUp(f *entity.FollowUp) *followUpSchema {
	return &followUpSchema{
		ID:          f.ID,
		DealID:      f.DealID,
		DueAt:       f.DueAt,
		Completed:   f.Completed,
		CompletedAt: f.CompletedAt,
		Note:        f.Note,
		CreatedAt:   f.CreatedAt,
	}
}

func (s *followUpSchema) toDomain() entity.FollowUp {
	return entity.FollowUp{
		ID:          s.ID,
		DealID:      s.DealID,
		DueAt:       s.DueAt,
		Completed:   s.Completed,
		CompletedAt: s.CompletedAt,
		Note:        s.Note,
		CreatedAt:   s.CreatedAt,
	}
}

type sellerCallSchema struct {
	ID          string    `db:"id"`
	DealID      string    `db:"deal_id"`
	Motivation  *int      `db:"motivation"`
	AskingPrice *float64  `db:"asking_price"`
	Notes       string    `db:"notes"`
	CalledAt    time.Time `db:"called_at"`
}

func fromSellerCall(c *entity.SellerCall) *sellerCallSchema {
	return &sellerCallSchema{
		ID:          c.ID,
		DealID:      c.DealID,
		Motivation:  c.Motivation,
		AskingPrice: c.AskingPrice,
		Notes:       c.Notes,
		CalledAt:    c.CalledAt,
	}
}

func (s *sellerCallSchema) toDomain() *entity.SellerCall {
	return &entity.SellerCall{
		ID:          s.ID,
		DealID:      s.DealID,
		Motivation:  s.Motivation,
		AskingPrice: s.AskingPrice,
		Notes:       s.Notes,
		CalledAt:    s.CalledAt,
	}
}

type weightsSchema struct {
	Version   string    `db:"version"`
	Weights   []byte    `db:"weights"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
}
