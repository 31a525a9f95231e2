package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dealflow/internal/domain/value"
)

func TestParseStatus(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		raw      string
		expected value.Status
		wantErr  bool
	}{
		{raw: "NEW", expected: value.StatusNew},
		{raw: "scored", expected: value.StatusScored},
		{raw: " offer sent ", expected: value.StatusOfferSent},
		{raw: "under-contract", expected: value.StatusUnderContract},
		{raw: "FOLLOW_UP", expected: value.StatusNegotiating},
		{raw: "green", expected: value.StatusScored},
		{raw: "Sold", expected: value.StatusClosed},
		{raw: "archived", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(*testing.T) {
			s, err := value.ParseStatus(tc.raw)
			if tc.wantErr {
				rq.Error(err)
				return
			}

			rq.NoError(err)
			rq.Equal(tc.expected, s)
		})
	}
}
