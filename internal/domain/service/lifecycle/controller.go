package lifecycle

import (
	"fmt"
	"slices"
	"time"

	"git.appkode.ru/pub/go/failure"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
	"dealflow/pkg/errcodes"
)

// InvalidTransitionError is returned when a move is not in the table.
type InvalidTransitionError struct {
	From value.Status
	To   value.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) ErrorCode() failure.ErrorCode {
	return errcodes.InvalidTransition
}

// Controller owns Deal.Status. It does no I/O; callers persist the deal.
type Controller struct{}

func NewController() *Controller {
	return &Controller{}
}

// Allowed lists the states reachable from from in one step.
func (c *Controller) Allowed(from value.Status) []value.Status {
	return slices.Clone(transitions[from])
}

func (c *Controller) CanTransition(from, to value.Status) bool {
	return from == to || slices.Contains(transitions[from], to)
}

// Transition moves deal to the target state. Moving to the current state
// succeeds without touching the deal. A rejected move leaves it unchanged.
func (c *Controller) Transition(deal *entity.Deal, to value.Status, now time.Time) error {
	from := deal.Status
	if from == to {
		return nil
	}

	if !slices.Contains(transitions[from], to) {
		return &InvalidTransitionError{From: from, To: to}
	}

	deal.Status = to
	deal.UpdatedAt = now

	switch to {
	case value.StatusContacted:
		deal.LastContactedAt = &now
	case value.StatusClosed:
		if deal.AssignmentFee != nil && deal.ActualProfit == nil {
			profit := *deal.AssignmentFee
			deal.ActualProfit = &profit
		}
	}

	return nil
}
