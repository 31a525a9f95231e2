package notifier

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
)

func TestFormatEvent(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		event    entity.Event
		contains []string
	}{
		{
			name: "matched",
			event: entity.Event{
				Type: entity.EventMatched, DealID: "d1", Address: "12 Elm St", City: "Tampa",
				BuyerName: "Acme <Homes>", ProfitFlag: value.FlagGreen, Spread: lo.ToPtr(75000.0), Score: 80, At: at,
			},
			contains: []string{"🟢", "Deal matched", "12 Elm St, Tampa", "Acme &lt;Homes&gt;", "$75000", "<code>d1</code>"},
		},
		{
			name: "status changed",
			event: entity.Event{
				Type: entity.EventStatusChanged, DealID: "d2", City: "Tampa",
				From: value.StatusScored, To: value.StatusContacted, ProfitFlag: value.FlagRed, At: at,
			},
			contains: []string{"🔴", "SCORED → CONTACTED", "Tampa"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			text := FormatEvent(tc.event)
			for _, s := range tc.contains {
				rq.Contains(text, s)
			}
		})
	}
}
