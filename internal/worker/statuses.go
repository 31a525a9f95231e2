package worker

import (
	"slices"

	"dealflow/internal/domain/value"
)

// DefaultStatuses are the non-terminal states the loop keeps re-scoring.
func DefaultStatuses() []value.Status {
	return []value.Status{
		value.StatusNew,
		value.StatusScored,
		value.StatusContacted,
		value.StatusNegotiating,
		value.StatusOfferSent,
		value.StatusUnderContract,
		value.StatusBlasted,
		value.StatusAssigned,
	}
}

// AddStatus adds a status to the polled set if it is not there yet.
func (w *DealProcessor) AddStatus(s value.Status) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !slices.Contains(w.statuses, s) {
		w.statuses = append(w.statuses, s)
	}
}

func (w *DealProcessor) RemoveStatus(s value.Status) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.statuses = slices.DeleteFunc(w.statuses, func(existing value.Status) bool {
		return existing == s
	})
}

// SetStatuses replaces the polled set. An empty list restores the default.
func (w *DealProcessor) SetStatuses(statuses []value.Status) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(statuses) == 0 {
		w.statuses = DefaultStatuses()
		return
	}

	w.statuses = slices.Clone(statuses)
}

// Statuses returns a copy of the polled set.
func (w *DealProcessor) Statuses() []value.Status {
	w.mu.Lock()
	defer w.mu.Unlock()

	return slices.Clone(w.statuses)
}
