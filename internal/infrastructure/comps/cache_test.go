package comps

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"dealflow/internal/domain/value"
)

type countingProvider struct {
	calls    atomic.Int32
	snapshot *value.CompsSnapshot
	err      error
}

func (p *countingProvider) GetComps(context.Context, value.CompsQuery) (*value.CompsSnapshot, error) {
	p.calls.Add(1)
	return p.snapshot, p.err
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestCache_GetComps(t *testing.T) {
	ctx := context.Background()
	query := value.CompsQuery{Address: "12  Elm St", City: "Tampa", State: "FL"}
	snapshot := &value.CompsSnapshot{Prices: []float64{1, 2, 3}, Count: 3}

	t.Run("local hit skips provider", func(t *testing.T) {
		rq := require.New(t)
		provider := &countingProvider{snapshot: snapshot}
		c := NewCache(provider, time.Minute)

		for range 3 {
			got, err := c.GetComps(ctx, query)
			rq.NoError(err)
			rq.Equal(snapshot.Prices, got.Prices)
		}

		rq.Equal(int32(1), provider.calls.Load())
	})

	t.Run("cosmetic address differences share an entry", func(t *testing.T) {
		rq := require.New(t)
		provider := &countingProvider{snapshot: snapshot}
		c := NewCache(provider, time.Minute)

		_, err := c.GetComps(ctx, query)
		rq.NoError(err)
		_, err = c.GetComps(ctx, value.CompsQuery{Address: "12 elm st", City: " tampa", State: "fl"})
		rq.NoError(err)

		rq.Equal(int32(1), provider.calls.Load())
	})

	t.Run("redis shared between replicas", func(t *testing.T) {
		rq := require.New(t)
		mr, client := newRedis(t)
		provider := &countingProvider{snapshot: snapshot}

		first := NewCache(provider, time.Minute).WithRedis(client)
		second := NewCache(provider, time.Minute).WithRedis(client)

		_, err := first.GetComps(ctx, query)
		rq.NoError(err)

		got, err := second.GetComps(ctx, query)
		rq.NoError(err)
		rq.Equal(3, got.Count)
		rq.Equal(int32(1), provider.calls.Load())

		rq.Len(mr.Keys(), 1)
		rq.Equal(time.Minute, mr.TTL(mr.Keys()[0]))
	})

	t.Run("errors are not cached", func(t *testing.T) {
		rq := require.New(t)
		_, client := newRedis(t)
		provider := &countingProvider{err: errors.New("boom")}
		c := NewCache(provider, time.Minute).WithRedis(client)

		_, err := c.GetComps(ctx, query)
		rq.Error(err)
		_, err = c.GetComps(ctx, query)
		rq.Error(err)

		rq.Equal(int32(2), provider.calls.Load())
	})

	t.Run("redis outage falls through to provider", func(t *testing.T) {
		rq := require.New(t)
		mr, client := newRedis(t)
		mr.Close()

		provider := &countingProvider{snapshot: snapshot}
		got, err := NewCache(provider, time.Minute).WithRedis(client).GetComps(ctx, query)
		rq.NoError(err)
		rq.Equal(3, got.Count)
	})
}
