package handler

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
)

func TestParseStatusArgs(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		statuses []value.Status
		invalid  []string
	}{
		{
			name:     "canonical and legacy",
			args:     []string{"new", "GREEN", "followup"},
			statuses: []value.Status{value.StatusNew, value.StatusScored, value.StatusNegotiating},
		},
		{
			name:     "duplicates collapse",
			args:     []string{"SCORED", "evaluated"},
			statuses: []value.Status{value.StatusScored},
		},
		{
			name:     "terminal and unknown are rejected",
			args:     []string{"CLOSED", "bogus", "CONTACTED"},
			statuses: []value.Status{value.StatusContacted},
			invalid:  []string{"CLOSED", "bogus"},
		},
		{
			name: "empty",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			statuses, invalid := ParseStatusArgs(tc.args)
			rq.Equal(tc.statuses, statuses)
			rq.Equal(tc.invalid, invalid)
		})
	}
}

func TestSortByPriority(t *testing.T) {
	deals := []entity.Deal{
		{ID: "c", PriorityScore: 10},
		{ID: "b", PriorityScore: 80},
		{ID: "a", PriorityScore: 10},
		{ID: "d", PriorityScore: -999},
	}

	SortByPriority(deals)

	require.Equal(t, []string{"b", "a", "c", "d"}, lo.Map(deals, func(d entity.Deal, _ int) string { return d.ID }))
}

func TestDealCard(t *testing.T) {
	rq := require.New(t)

	card := DealCard(&entity.Deal{
		ID:             "d1",
		Address:        "12 Elm <St>",
		Status:         value.StatusScored,
		AskingPrice:    lo.ToPtr(180000.0),
		ARV:            lo.ToPtr(300000.0),
		ProfitFlag:     value.FlagGreen,
		PriorityScore:  55,
		PriorityReason: "GREEN(+40);STATUS(+15)",
		ValuationNote:  "",
	})

	rq.Contains(card, "🟢 <b>12 Elm &lt;St&gt;</b>")
	rq.Contains(card, "<b>Asking:</b> $180000")
	rq.Contains(card, "<b>Spread:</b> —")
	rq.Contains(card, "GREEN(+40);STATUS(+15)")
}
