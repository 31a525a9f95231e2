package contextx

import (
	"context"
	"fmt"
)

// OperatorID identifies the human operator behind a manual action
// (status change, follow-up completion).
type OperatorID string

type contextKeyOperatorID struct{}

func (o OperatorID) String() string {
	return string(o)
}

func WithOperatorID(ctx context.Context, operatorID OperatorID) context.Context {
	return context.WithValue(ctx, contextKeyOperatorID{}, operatorID)
}

func OperatorIDFromContext(ctx context.Context) (OperatorID, error) {
	operatorID, ok := ctx.Value(contextKeyOperatorID{}).(OperatorID)
	if !ok {
		return "", fmt.Errorf("operator id: %w", ErrNoValue)
	}

	return operatorID, nil
}
