package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/service/deal"
	"dealflow/pkg/httpx/reply"
	"dealflow/pkg/httpx/req"
	"dealflow/pkg/rest"
)

type buyerService interface {
	CreateBuyer(ctx context.Context, buyer *entity.Buyer) (*entity.Buyer, error)
	BuyerEligibility(ctx context.Context, buyerID string) (deal.Eligibility, error)
}

type BuyerServer struct {
	buyerService buyerService
}

func NewBuyerServer(buyerService buyerService) BuyerServer {
	return BuyerServer{
		buyerService: buyerService,
	}
}

func (s BuyerServer) postV1Buyer(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateBuyerRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	buyer, err := newDomainBuyer(request)
	if err != nil {
		return err
	}

	if buyer, err = s.buyerService.CreateBuyer(ctx, buyer); err != nil {
		return fmt.Errorf("buyerService.CreateBuyer: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTBuyer(buyer))

	return nil
}

func (s BuyerServer) getV1BuyerEligibility(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	eligibility, err := s.buyerService.BuyerEligibility(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return fmt.Errorf("buyerService.BuyerEligibility: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTEligibility(eligibility))

	return nil
}
