package lifecycle

import "dealflow/internal/domain/value"

// transitions is the single adjacency table of legal moves. DEAD is added
// for every non-terminal state in init.
var transitions = map[value.Status][]value.Status{ //nolint:gochecknoglobals
	value.StatusNew:           {value.StatusScored},
	value.StatusScored:        {value.StatusContacted},
	value.StatusContacted:     {value.StatusNegotiating},
	value.StatusNegotiating:   {value.StatusOfferSent},
	value.StatusOfferSent:     {value.StatusUnderContract},
	value.StatusUnderContract: {value.StatusBlasted, value.StatusClosed},
	value.StatusBlasted:       {value.StatusAssigned},
	value.StatusAssigned:      {value.StatusClosed},
	value.StatusClosed:        nil,
	value.StatusDead:          nil,
}

func init() { //nolint:gochecknoinits
	for from, next := range transitions {
		if !from.IsTerminal() {
			transitions[from] = append(next, value.StatusDead)
		}
	}
}
