package priority_test

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"dealflow/internal/domain/service/priority"
	"dealflow/internal/domain/value"
)

func TestProperty_ScoreIsPure(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	w := priority.DefaultWeights()

	properties.Property("identical inputs give identical score and reason", prop.ForAll(
		func(status value.Status, motivation, overdue, daysAgo int) bool {
			in := priority.Input{Status: status, Now: now}
			if motivation > 0 {
				in.Motivation = &motivation
			}
			for i := range overdue {
				in.OpenFollowUps = append(in.OpenFollowUps, now.Add(-time.Duration(i+1)*time.Hour))
			}
			if daysAgo >= 0 {
				last := now.Add(-time.Duration(daysAgo) * 24 * time.Hour)
				in.LastContactedAt = &last
			}

			first := priority.Score(in, w)
			second := priority.Score(in, w)

			return first == second
		},
		gen.OneConstOf(
			value.StatusNew, value.StatusScored, value.StatusContacted, value.StatusNegotiating,
			value.StatusOfferSent, value.StatusUnderContract, value.StatusBlasted,
			value.StatusAssigned, value.StatusClosed, value.StatusDead,
		),
		gen.IntRange(0, 5),
		gen.IntRange(0, 10),
		gen.IntRange(-1, 30),
	))

	properties.TestingRun(t)
}
