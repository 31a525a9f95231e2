package server

import (
	"strings"

	"dealflow/internal/domain"
	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/service/deal"
	"dealflow/internal/domain/value"
	"dealflow/pkg/errcodes"
	"dealflow/pkg/lox"
	"dealflow/pkg/rest"
)

func newRESTDeal(d *entity.Deal) rest.Deal {
	return rest.Deal{
		ID:              d.ID,
		AssetType:       d.AssetType.String(),
		Address:         d.Address,
		City:            d.City,
		State:           d.State,
		Zip:             d.Zip,
		Attributes:      rest.PropertyAttributes(d.Attributes),
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
	}
}

func newDomainDeal(r rest.CreateDealRequest) (*entity.Deal, error) {
	assetType, err := value.ParseAssetType(r.AssetType)
	if err != nil || assetType == value.AssetAny {
		return nil, domain.NewError(errcodes.InvalidAssetType, "asset_type must be real_estate, vehicle or business")
	}

	return &entity.Deal{
		AssetType:     assetType,
		Address:       strings.TrimSpace(r.Address),
		City:          strings.TrimSpace(r.City),
		State:         r.State,
		Zip:           strings.TrimSpace(r.Zip),
		Attributes:    value.PropertyAttributes(r.Attributes),
		Description:   r.Description,
		AskingPrice:   r.AskingPrice,
		AssignmentFee: r.AssignmentFee,
	}, nil
}

func newRESTProcessResult(out deal.Outcome) rest.ProcessResult {
	result := rest.ProcessResult{
		Deal:           newRESTDeal(out.Deal),
		WeightsVersion: out.Priority.WeightsVersion,
	}

	if out.Match != nil {
		if out.Match.Buyer != nil {
			result.MatchedBuyerID = &out.Match.Buyer.ID
		}
		for _, b := range out.Match.Blocked {
			result.Blocked = append(result.Blocked, rest.BlockedCandidate(b))
		}
	}

	return result
}

func newRESTSellerCall(c *entity.SellerCall) rest.SellerCall {
	return rest.SellerCall{
		ID:          c.ID,
		DealID:      c.DealID,
		Motivation:  c.Motivation,
		AskingPrice: c.AskingPrice,
		Notes:       c.Notes,
		CalledAt:    c.CalledAt,
	}
}

func newDomainSellerCall(dealID string, r rest.SellerCallRequest) *entity.SellerCall {
	call := &entity.SellerCall{
		DealID:      dealID,
		Motivation:  r.Motivation,
		AskingPrice: r.AskingPrice,
		Notes:       r.Notes,
	}
	if r.CalledAt != nil {
		call.CalledAt = *r.CalledAt
	}
	return call
}

func newRESTFollowUp(f *entity.FollowUp) rest.FollowUp {
	return rest.FollowUp{
		ID:          f.ID,
		DealID:      f.DealID,
		DueAt:       f.DueAt,
		Completed:   f.Completed,
		CompletedAt: f.CompletedAt,
		Note:        f.Note,
	}
}

func newDomainBuyer(r rest.CreateBuyerRequest) (*entity.Buyer, error) {
	assetType := value.AssetAny
	if r.AssetType != "" {
		parsed, err := value.ParseAssetType(r.AssetType)
		if err != nil {
			return nil, domain.NewError(errcodes.InvalidAssetType, err.Error())
		}
		assetType = parsed
	}

	tier := value.TierFree
	if r.Tier != "" {
		parsed, err := value.ParseTier(r.Tier)
		if err != nil {
			return nil, domain.NewError(errcodes.InvalidBuyerTier, err.Error())
		}
		tier = parsed
	}

	return &entity.Buyer{
		Name:          strings.TrimSpace(r.Name),
		Active:        true,
		AssetType:     assetType,
		Market:        strings.TrimSpace(r.Market),
		BudgetCeiling: r.BudgetCeiling,
		Tier:          tier,
	}, nil
}

func newRESTBuyer(b *entity.Buyer) rest.Buyer {
	return rest.Buyer{
		ID:                b.ID,
		Name:              b.Name,
		Active:            b.Active,
		AssetType:         b.AssetType.String(),
		Market:            b.Market,
		BudgetCeiling:     b.BudgetCeiling,
		Tier:              b.Tier.String(),
		MonthlyMatchCount: b.MonthlyMatchCount,
		CounterResetAt:    b.CounterResetAt,
	}
}

func newRESTEligibility(e deal.Eligibility) rest.Eligibility {
	return rest.Eligibility(e)
}

func parseStatuses(raw string) ([]value.Status, error) {
	if raw == "" {
		return nil, nil
	}

	statuses, err := lox.MapErr(strings.Split(raw, ","), value.ParseStatus)
	if err != nil {
		return nil, domain.NewError(errcodes.InvalidStatus, err.Error())
	}

	return statuses, nil
}
