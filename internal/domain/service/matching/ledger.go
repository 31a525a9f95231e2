package matching

import (
	"context"
	"sync"
	"time"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
)

// QuotaLedger consumes one match from a buyer's monthly quota.
//
// Consume must be a single compare-and-increment: if the stored counter
// belongs to an earlier month it restarts at one, otherwise it is
// incremented only while below limit (zero limit means unlimited). It
// reports false when the quota was already used up. Reading the counter,
// checking it in Go and writing it back is not safe: two workers can both
// pass the check before either writes.
type QuotaLedger interface {
	Consume(ctx context.Context, buyerID string, limit int, month time.Time) (bool, error)
}

type ledgerEntry struct {
	count   int
	resetAt time.Time
}

// MemoryLedger is a QuotaLedger for a single process.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[string]*ledgerEntry
}

func NewMemoryLedger(buyers ...entity.Buyer) *MemoryLedger {
	l := &MemoryLedger{entries: make(map[string]*ledgerEntry, len(buyers))}
	for _, b := range buyers {
		l.entries[b.ID] = &ledgerEntry{count: b.MonthlyMatchCount, resetAt: b.CounterResetAt}
	}
	return l
}

func (l *MemoryLedger) Consume(_ context.Context, buyerID string, limit int, month time.Time) (bool, error) {
	month = value.MonthStart(month)

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[buyerID]
	if !ok {
		e = &ledgerEntry{}
		l.entries[buyerID] = e
	}

	if e.resetAt.Before(month) {
		e.count = 0
		e.resetAt = month
	}

	if limit > 0 && e.count >= limit {
		return false, nil
	}

	e.count++

	return true, nil
}

// Count returns the stored counter for buyerID.
func (l *MemoryLedger) Count(buyerID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[buyerID]; ok {
		return e.count
	}
	return 0
}
