package value

import (
	"fmt"
	"strings"
)

// Status is the single canonical lifecycle state of a deal.
type Status string

const (
	StatusNew           Status = "NEW"
	StatusScored        Status = "SCORED"
	StatusContacted     Status = "CONTACTED"
	StatusNegotiating   Status = "NEGOTIATING"
	StatusOfferSent     Status = "OFFER_SENT"
	StatusUnderContract Status = "UNDER_CONTRACT"
	StatusBlasted       Status = "BLASTED"
	StatusAssigned      Status = "ASSIGNED"
	StatusClosed        Status = "CLOSED"
	StatusDead          Status = "DEAD"
)

// AllStatuses lists the states in lifecycle order.
var AllStatuses = []Status{ //nolint:gochecknoglobals
	StatusNew,
	StatusScored,
	StatusContacted,
	StatusNegotiating,
	StatusOfferSent,
	StatusUnderContract,
	StatusBlasted,
	StatusAssigned,
	StatusClosed,
	StatusDead,
}

// legacyStatuses maps vocabularies found in older lead exports onto the
// canonical enum.
var legacyStatuses = map[string]Status{ //nolint:gochecknoglobals
	"GREEN":          StatusScored,
	"ORANGE":         StatusScored,
	"RED":            StatusScored,
	"EVALUATED":      StatusScored,
	"FOLLOW_UP":      StatusNegotiating,
	"FOLLOWUP":       StatusNegotiating,
	"IN_NEGOTIATION": StatusNegotiating,
	"OFFER":          StatusOfferSent,
	"CONTRACTED":     StatusUnderContract,
	"BLAST":          StatusBlasted,
	"SOLD":           StatusClosed,
	"LOST":           StatusDead,
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusDead
}

func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus accepts the canonical names in any case, with spaces or
// dashes, and the legacy aliases.
func ParseStatus(raw string) (Status, error) {
	norm := strings.ToUpper(strings.TrimSpace(raw))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)

	if s := Status(norm); s.Valid() {
		return s, nil
	}

	if s, ok := legacyStatuses[norm]; ok {
		return s, nil
	}

	return "", fmt.Errorf("unknown status %q", raw)
}
