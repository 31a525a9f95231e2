package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"dealflow/internal/domain"
	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/service/deal"
	"dealflow/internal/domain/value"
	"dealflow/pkg/errcodes"
	"dealflow/pkg/httpx/reply"
	"dealflow/pkg/httpx/req"
	"dealflow/pkg/lox"
	"dealflow/pkg/rest"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type dealService interface {
	Ingest(ctx context.Context, d *entity.Deal) (*entity.Deal, error)
	GetDeal(ctx context.Context, id string) (*entity.Deal, error)
	ListDeals(ctx context.Context, statuses []value.Status, limit int) ([]entity.Deal, error)
	ProcessAndPublish(ctx context.Context, dealID string) (deal.Outcome, error)
	Transition(ctx context.Context, in deal.TransitionInput) (*entity.Deal, error)
	RecordCall(ctx context.Context, call *entity.SellerCall) (*entity.SellerCall, error)
	ScheduleFollowUp(ctx context.Context, dealID string, dueAt time.Time, note string) (*entity.FollowUp, error)
	CompleteFollowUp(ctx context.Context, id string) (*entity.FollowUp, error)
}

type DealServer struct {
	dealService dealService
}

func NewDealServer(dealService dealService) DealServer {
	return DealServer{
		dealService: dealService,
	}
}

func (s DealServer) postV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateDealRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	d, err := newDomainDeal(request)
	if err != nil {
		return err
	}

	if d, err = s.dealService.Ingest(ctx, d); err != nil {
		return fmt.Errorf("dealService.Ingest: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTDeal(d))

	return nil
}

func (s DealServer) getV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	d, err := s.dealService.GetDeal(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return fmt.Errorf("dealService.GetDeal: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(d))

	return nil
}

// listV1Deals serves GET /v1/deals?status=SCORED,CONTACTED&limit=50.
func (s DealServer) listV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	statuses, err := parseStatuses(r.URL.Query().Get("status"))
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		statuses = value.AllStatuses
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit <= 0 || limit > maxListLimit {
			return domain.NewValidationError("limit", fmt.Sprintf("must be between 1 and %d", maxListLimit))
		}
	}

	deals, err := s.dealService.ListDeals(ctx, statuses, limit)
	if err != nil {
		return fmt.Errorf("dealService.ListDeals: %w", err)
	}

	response := rest.DealList{Items: lox.Map(deals, func(d entity.Deal) rest.Deal { return newRESTDeal(&d) })}

	reply.JSON(ctx, w, http.StatusOK, response)

	return nil
}

func (s DealServer) postV1DealProcess(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	out, err := s.dealService.ProcessAndPublish(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return fmt.Errorf("dealService.ProcessAndPublish: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTProcessResult(out))

	return nil
}

func (s DealServer) postV1DealTransition(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.TransitionRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	to, err := value.ParseStatus(request.Status)
	if err != nil {
		return domain.NewError(errcodes.InvalidStatus, err.Error())
	}

	d, err := s.dealService.Transition(ctx, deal.TransitionInput{
		DealID:        chi.URLParam(r, "id"),
		To:            to,
		AssignmentFee: request.AssignmentFee,
	})
	if err != nil {
		return fmt.Errorf("dealService.Transition: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(d))

	return nil
}

func (s DealServer) postV1DealCall(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.SellerCallRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	call, err := s.dealService.RecordCall(ctx, newDomainSellerCall(chi.URLParam(r, "id"), request))
	if err != nil {
		return fmt.Errorf("dealService.RecordCall: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTSellerCall(call))

	return nil
}

func (s DealServer) postV1DealFollowUp(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.FollowUpRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	f, err := s.dealService.ScheduleFollowUp(ctx, chi.URLParam(r, "id"), request.DueAt, request.Note)
	if err != nil {
		return fmt.Errorf("dealService.ScheduleFollowUp: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTFollowUp(f))

	return nil
}

func (s DealServer) postV1FollowUpComplete(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	f, err := s.dealService.CompleteFollowUp(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return fmt.Errorf("dealService.CompleteFollowUp: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTFollowUp(f))

	return nil
}
