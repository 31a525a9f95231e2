package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"dealflow/internal/domain"
	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/service/deal"
	"dealflow/internal/domain/service/lifecycle"
	"dealflow/internal/domain/value"
	"dealflow/pkg/errcodes"
	"dealflow/pkg/middlewarex"
	"dealflow/pkg/rest"
	"dealflow/pkg/tests"
)

type serviceStub struct {
	deals      map[string]*entity.Deal
	lastList   []value.Status
	lastLimit  int
	transition deal.TransitionInput
	call       *entity.SellerCall
}

func newServiceStub() *serviceStub {
	return &serviceStub{deals: map[string]*entity.Deal{}}
}

func (s *serviceStub) Ingest(_ context.Context, d *entity.Deal) (*entity.Deal, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	d.ID = "d1"
	d.Status = value.StatusNew
	s.deals[d.ID] = d
	return d, nil
}

func (s *serviceStub) GetDeal(_ context.Context, id string) (*entity.Deal, error) {
	d, ok := s.deals[id]
	if !ok {
		return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
	}
	return d, nil
}

func (s *serviceStub) ListDeals(_ context.Context, statuses []value.Status, limit int) ([]entity.Deal, error) {
	s.lastList, s.lastLimit = statuses, limit
	return lo.MapToSlice(s.deals, func(_ string, d *entity.Deal) entity.Deal { return *d }), nil
}

func (s *serviceStub) ProcessAndPublish(ctx context.Context, id string) (deal.Outcome, error) {
	d, err := s.GetDeal(ctx, id)
	if err != nil {
		return deal.Outcome{}, err
	}
	d.Status = value.StatusScored
	d.MatchedBuyerID = lo.ToPtr("b1")
	return deal.Outcome{
		Deal: d,
		Match: &entity.MatchResult{
			DealID:  d.ID,
			Buyer:   &entity.Buyer{ID: "b1"},
			Blocked: []entity.BlockedCandidate{{BuyerID: "b2", Reason: "Tier 'free' monthly match limit reached (3/3)"}},
		},
	}, nil
}

func (s *serviceStub) Transition(ctx context.Context, in deal.TransitionInput) (*entity.Deal, error) {
	s.transition = in
	d, err := s.GetDeal(ctx, in.DealID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.NewController().Transition(d, in.To, time.Now()); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *serviceStub) RecordCall(_ context.Context, call *entity.SellerCall) (*entity.SellerCall, error) {
	if err := call.Validate(); err != nil {
		return nil, err
	}
	call.ID = "c1"
	s.call = call
	return call, nil
}

func (s *serviceStub) ScheduleFollowUp(_ context.Context, dealID string, dueAt time.Time, note string) (*entity.FollowUp, error) {
	return &entity.FollowUp{ID: "f1", DealID: dealID, DueAt: dueAt, Note: note}, nil
}

func (s *serviceStub) CompleteFollowUp(_ context.Context, id string) (*entity.FollowUp, error) {
	if id != "f1" {
		return nil, domain.NewError(errcodes.FollowUpNotFound, "follow-up not found")
	}
	return &entity.FollowUp{ID: id, Completed: true, CompletedAt: lo.ToPtr(time.Now())}, nil
}

func (s *serviceStub) CreateBuyer(_ context.Context, b *entity.Buyer) (*entity.Buyer, error) {
	b.ID = "b1"
	return b, nil
}

func (s *serviceStub) BuyerEligibility(_ context.Context, id string) (deal.Eligibility, error) {
	if id != "b1" {
		return deal.Eligibility{}, domain.NewError(errcodes.BuyerNotFound, "buyer not found")
	}
	return deal.Eligibility{BuyerID: id, Eligible: false, Reason: "Tier 'free' monthly match limit reached (3/3)", Used: 3, Limit: 3}, nil
}

func newTestAPI(t *testing.T, stub *serviceStub) tests.APIClient {
	t.Helper()

	router := chi.NewRouter()
	router.Use(middlewarex.TraceID, middlewarex.Logger, middlewarex.OperatorID, middlewarex.Recovery)
	NewServer(NewDealServer(stub), NewBuyerServer(stub)).RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return tests.NewAPIClient(srv.URL, srv.Client())
}

func validDealRequest() rest.CreateDealRequest {
	return rest.CreateDealRequest{
		AssetType:   "real_estate",
		Address:     "12 Elm St",
		City:        "Tampa",
		State:       "FL",
		Attributes:  rest.PropertyAttributes{Beds: lo.ToPtr(3), Baths: lo.ToPtr(2.0)},
		AskingPrice: lo.ToPtr(180000.0),
	}
}

func TestDealServer_Create(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name       string
		request    func() rest.CreateDealRequest
		statusCode int
		errCode    rest.ErrorCode
	}{
		{
			name:       "created",
			request:    validDealRequest,
			statusCode: http.StatusCreated,
		},
		{
			name: "missing price",
			request: func() rest.CreateDealRequest {
				r := validDealRequest()
				r.AskingPrice = nil
				return r
			},
			statusCode: http.StatusBadRequest,
			errCode:    rest.ErrorCode(errcodes.ValidationError),
		},
		{
			name: "unknown asset type",
			request: func() rest.CreateDealRequest {
				r := validDealRequest()
				r.AssetType = "boat"
				return r
			},
			statusCode: http.StatusBadRequest,
			errCode:    rest.ErrorCode(errcodes.InvalidAssetType),
		},
		{
			name: "no address and no city",
			request: func() rest.CreateDealRequest {
				r := validDealRequest()
				r.Address, r.City = "", ""
				return r
			},
			statusCode: http.StatusBadRequest,
			errCode:    rest.ErrorCode(errcodes.ValidationError),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			api := newTestAPI(t, newServiceStub())

			var (
				created rest.Deal
				apiErr  rest.Error
			)
			resp, err := api.Post(ctx, "/v1/deals", nil, tc.request(), &created, &apiErr)
			rq.NoError(err)
			rq.Equal(tc.statusCode, resp.StatusCode)

			if tc.errCode != "" {
				rq.Equal(tc.errCode, apiErr.Code)
				rq.NotEmpty(apiErr.SupportID)
				return
			}

			rq.Equal("d1", created.ID)
			rq.Equal("NEW", created.Status)
			rq.Equal(3, *created.Attributes.Beds)
		})
	}
}

func TestDealServer_Lifecycle(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	stub := newServiceStub()
	api := newTestAPI(t, stub)

	_, err := api.Post(ctx, "/v1/deals", nil, validDealRequest(), nil, nil)
	rq.NoError(err)

	var processed rest.ProcessResult
	resp, err := api.Post(ctx, "/v1/deals/d1/process", nil, struct{}{}, &processed, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("b1", *processed.MatchedBuyerID)
	rq.Len(processed.Blocked, 1)

	var apiErr rest.Error
	resp, err = api.Post(ctx, "/v1/deals/d1/transition", nil, rest.TransitionRequest{Status: "CLOSED"}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusConflict, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidTransition), apiErr.Code)
	rq.Contains(apiErr.Message, "SCORED -> CLOSED")

	var moved rest.Deal
	resp, err = api.Post(ctx, "/v1/deals/d1/transition", nil, rest.TransitionRequest{Status: "contacted"}, &moved, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("CONTACTED", moved.Status)

	resp, err = api.Post(ctx, "/v1/deals/d1/transition", nil, rest.TransitionRequest{Status: "follow up"}, &moved, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("NEGOTIATING", moved.Status)
	rq.Equal(value.StatusNegotiating, stub.transition.To)

	resp, err = api.Post(ctx, "/v1/deals/d1/transition", nil, rest.TransitionRequest{Status: "PENDING"}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidStatus), apiErr.Code)

	var fetched rest.Deal
	resp, err = api.Get(ctx, "/v1/deals/d1", nil, &fetched, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("NEGOTIATING", fetched.Status)

	resp, err = api.Get(ctx, "/v1/deals/nope", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.DealNotFound), apiErr.Code)
}

func TestDealServer_List(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	stub := newServiceStub()
	api := newTestAPI(t, stub)

	_, err := api.Post(ctx, "/v1/deals", nil, validDealRequest(), nil, nil)
	rq.NoError(err)

	var list rest.DealList
	resp, err := api.Get(ctx, "/v1/deals?status=new,scored&limit=10", nil, &list, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(list.Items, 1)
	rq.Equal([]value.Status{value.StatusNew, value.StatusScored}, stub.lastList)
	rq.Equal(10, stub.lastLimit)

	resp, err = api.Get(ctx, "/v1/deals", nil, &list, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(value.AllStatuses, stub.lastList)
	rq.Equal(defaultListLimit, stub.lastLimit)

	var apiErr rest.Error
	resp, err = api.Get(ctx, "/v1/deals?limit=0", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestDealServer_CallsAndFollowUps(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	stub := newServiceStub()
	api := newTestAPI(t, stub)

	var apiErr rest.Error
	resp, err := api.PostJSON(ctx, "/v1/deals/d1/calls", nil, `{"motivation":7}`, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)

	var call rest.SellerCall
	resp, err = api.PostJSON(ctx, "/v1/deals/d1/calls", nil, `{"motivation":4,"asking_price":150000,"notes":"divorce"}`, &call, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.Equal(4, *stub.call.Motivation)
	rq.Equal("d1", call.DealID)

	due := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	var f rest.FollowUp
	resp, err = api.Post(ctx, "/v1/deals/d1/followups", nil, rest.FollowUpRequest{DueAt: due, Note: "call back"}, &f, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.True(due.Equal(f.DueAt))

	resp, err = api.PostJSON(ctx, "/v1/deals/d1/followups", nil, `{"note":"no date"}`, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, err = api.Post(ctx, "/v1/followups/f1/complete", nil, struct{}{}, &f, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.True(f.Completed)

	resp, err = api.Post(ctx, "/v1/followups/f9/complete", nil, struct{}{}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestBuyerServer(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newTestAPI(t, newServiceStub())

	var buyer rest.Buyer
	resp, err := api.Post(ctx, "/v1/buyers", nil, rest.CreateBuyerRequest{Name: "Acme", BudgetCeiling: 250000}, &buyer, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.Equal("free", buyer.Tier)
	rq.Equal("any", buyer.AssetType)

	var apiErr rest.Error
	resp, err = api.Post(ctx, "/v1/buyers", nil, rest.CreateBuyerRequest{Name: "Acme", Tier: "platinum"}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidBuyerTier), apiErr.Code)

	var eligibility rest.Eligibility
	resp, err = api.Get(ctx, "/v1/buyers/b1/eligibility", nil, &eligibility, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.False(eligibility.Eligible)
	rq.Equal("Tier 'free' monthly match limit reached (3/3)", eligibility.Reason)

	resp, err = api.Get(ctx, "/v1/buyers/b9/eligibility", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestServer_UnknownRoute(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newTestAPI(t, newServiceStub())

	var apiErr rest.Error
	resp, err := api.Get(ctx, "/v1/nope", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.NotFound), apiErr.Code)
}
