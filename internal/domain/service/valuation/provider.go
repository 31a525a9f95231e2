package valuation

import (
	"context"

	"dealflow/internal/domain/value"
)

// CompsProvider returns comparable sales for a subject asset. Errors are
// treated by callers as "no comparables".
type CompsProvider interface {
	GetComps(ctx context.Context, q value.CompsQuery) (*value.CompsSnapshot, error)
}
