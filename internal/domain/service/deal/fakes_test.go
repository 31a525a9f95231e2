package deal_test

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"dealflow/internal/domain"
	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
	"dealflow/pkg/errcodes"
)

type memStore struct {
	mu        sync.Mutex
	deals     map[string]entity.Deal
	buyers    map[string]entity.Buyer
	followUps map[string]entity.FollowUp
	calls     []entity.SellerCall
	txCount   int
}

func newMemStore() *memStore {
	return &memStore{
		deals:     make(map[string]entity.Deal),
		buyers:    make(map[string]entity.Buyer),
		followUps: make(map[string]entity.FollowUp),
	}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.txCount++
	m.mu.Unlock()

	return fn(ctx)
}

type dealRepo struct{ *memStore }

func (r dealRepo) Create(_ context.Context, d *entity.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deals[d.ID] = *d
	return nil
}

func (r dealRepo) GetByID(_ context.Context, id string) (*entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deals[id]
	if !ok {
		return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
	}
	return &d, nil
}

func (r dealRepo) GetForUpdate(ctx context.Context, id string) (*entity.Deal, error) {
	return r.GetByID(ctx, id)
}

func (r dealRepo) Update(_ context.Context, d *entity.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deals[d.ID]; !ok {
		return domain.NewError(errcodes.DealNotFound, "deal not found")
	}
	r.deals[d.ID] = *d
	return nil
}

func (r dealRepo) ListByStatus(_ context.Context, statuses []value.Status, limit int) ([]entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Deal
	for _, d := range r.deals {
		if slices.Contains(statuses, d.Status) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type buyerRepo struct{ *memStore }

func (r buyerRepo) Create(_ context.Context, b *entity.Buyer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buyers[b.ID] = *b
	return nil
}

func (r buyerRepo) GetByID(_ context.Context, id string) (*entity.Buyer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buyers[id]
	if !ok {
		return nil, domain.NewError(errcodes.BuyerNotFound, "buyer not found")
	}
	return &b, nil
}

func (r buyerRepo) ListActive(context.Context) ([]entity.Buyer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Buyer
	for _, b := range r.buyers {
		if b.Active {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r buyerRepo) ResetMonth(_ context.Context, id string, month time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.buyers[id]
	if b.CounterResetAt.Before(month) {
		b.MonthlyMatchCount = 0
		b.CounterResetAt = month
		r.buyers[id] = b
	}
	return nil
}

func (r buyerRepo) Consume(_ context.Context, id string, limit int, month time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buyers[id]
	if !ok {
		return false, domain.NewError(errcodes.BuyerNotFound, "buyer not found")
	}
	if b.CounterResetAt.Before(month) {
		b.MonthlyMatchCount = 0
		b.CounterResetAt = month
	}
	if limit > 0 && b.MonthlyMatchCount >= limit {
		return false, nil
	}
	b.MonthlyMatchCount++
	r.buyers[id] = b
	return true, nil
}

type followUpRepo struct{ *memStore }

func (r followUpRepo) Create(_ context.Context, f *entity.FollowUp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.followUps[f.ID] = *f
	return nil
}

func (r followUpRepo) Complete(_ context.Context, id string, at time.Time) (*entity.FollowUp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.followUps[id]
	if !ok {
		return nil, domain.NewError(errcodes.FollowUpNotFound, "follow-up not found")
	}
	f.Completed = true
	f.CompletedAt = &at
	r.followUps[id] = f
	return &f, nil
}

func (r followUpRepo) ListOpenByDeal(_ context.Context, dealID string) ([]entity.FollowUp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.FollowUp
	for _, f := range r.followUps {
		if f.DealID == dealID && !f.Completed {
			out = append(out, f)
		}
	}
	return out, nil
}

type callRepo struct{ *memStore }

func (r callRepo) Create(_ context.Context, c *entity.SellerCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, *c)
	return nil
}

func (r callRepo) LatestByDeal(_ context.Context, dealID string) (*entity.SellerCall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.SellerCall
	for i := range r.calls {
		c := r.calls[i]
		if c.DealID == dealID && (latest == nil || c.CalledAt.After(latest.CalledAt)) {
			latest = &c
		}
	}
	return latest, nil
}

type staticComps struct {
	snap *value.CompsSnapshot
	err  error
}

func (s staticComps) GetComps(context.Context, value.CompsQuery) (*value.CompsSnapshot, error) {
	return s.snap, s.err
}

var errProviderDown = errors.New("provider down") //nolint:gochecknoglobals

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e entity.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}
