package contextx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"dealflow/pkg/contextx"
)

func TestOperatorID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	var testOperatorIDEmpty contextx.OperatorID

	testOperatorIDNotEmpty := contextx.OperatorID("ops-anna")

	operatorID, err := contextx.OperatorIDFromContext(ctx)
	rq.Equal(testOperatorIDEmpty, operatorID)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "operator id: no value in context")

	ctx = contextx.WithOperatorID(ctx, testOperatorIDNotEmpty)

	operatorID, err = contextx.OperatorIDFromContext(ctx)
	rq.Equal(testOperatorIDNotEmpty, operatorID)
	rq.NoError(err)
}
