package priority

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
)

const hoursPerDay = 24

// Input is the snapshot one score is computed from.
type Input struct {
	Status          value.Status
	Flag            value.ProfitFlag
	Motivation      *int
	OpenFollowUps   []time.Time
	LastContactedAt *time.Time
	Now             time.Time
}

// NewInput collects the scoring snapshot for a deal.
func NewInput(deal entity.Deal, lastCall *entity.SellerCall, followUps []entity.FollowUp, now time.Time) Input {
	in := Input{
		Status:          deal.Status,
		Flag:            deal.ProfitFlag,
		LastContactedAt: deal.LastContactedAt,
		Now:             now,
	}

	if lastCall != nil {
		in.Motivation = lastCall.Motivation
	}

	in.OpenFollowUps = lo.FilterMap(followUps, func(f entity.FollowUp, _ int) (time.Time, bool) {
		return f.DueAt, !f.Completed
	})

	return in
}

type Result struct {
	Score          float64
	Reason         string
	WeightsVersion string
}

// Score ranks a deal for operator attention. The reason lists every rule
// that fired with its points, in evaluation order.
func Score(in Input, w Weights) Result {
	if in.Status == value.StatusDead {
		return Result{Score: w.Dead, Reason: "DEAD", WeightsVersion: w.Version}
	}

	var (
		score float64
		rules []string
	)

	add := func(rule string, points float64) {
		score += points
		rules = append(rules, fmt.Sprintf("%s(%s)", rule, signed(points)))
	}

	if in.Status == value.StatusScored && in.Flag == value.FlagGreen {
		add("GREEN", w.Green)
	} else {
		add(in.Status.String(), w.base(in.Status))
	}

	if in.Motivation != nil {
		add("motivation="+strconv.Itoa(*in.Motivation), float64(*in.Motivation)*w.MotivationMultiplier)
	}

	if due := countDue(in.OpenFollowUps, in.Now); due > 0 {
		add("followups_due="+strconv.Itoa(due), w.FollowUpBase+w.FollowUpPerItem*float64(min(due, w.FollowUpCap)))
	}

	switch days := daysSince(in.LastContactedAt, in.Now); {
	case in.LastContactedAt == nil:
		add("never_contacted", w.NeverContacted)
	case days >= w.StaleDays:
		add("contacted_"+strconv.Itoa(days)+"d_ago", w.StaleContact)
	case days >= w.WarmDays:
		add("contacted_"+strconv.Itoa(days)+"d_ago", w.WarmContact)
	}

	if in.Status == value.StatusOfferSent {
		add("hot_offer", w.HotOffer)
	}

	return Result{
		Score:          score,
		Reason:         strings.Join(rules, ";"),
		WeightsVersion: w.Version,
	}
}

// countDue counts open follow-ups due today or earlier, in now's location.
func countDue(dueDates []time.Time, now time.Time) int {
	y, m, d := now.Date()
	tomorrow := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())

	return lo.CountBy(dueDates, func(due time.Time) bool {
		return due.Before(tomorrow)
	})
}

func daysSince(t *time.Time, now time.Time) int {
	if t == nil {
		return 0
	}
	return int(now.Sub(*t).Hours() / hoursPerDay)
}

func signed(points float64) string {
	s := strconv.FormatFloat(points, 'f', -1, 64)
	if points >= 0 {
		return "+" + s
	}
	return s
}
