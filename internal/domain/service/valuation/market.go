package valuation

import "strings"

type markets struct {
	cities map[string]struct{}
	states map[string]struct{}
}

func newMarkets(entries []string) markets {
	m := markets{
		cities: make(map[string]struct{}),
		states: make(map[string]struct{}),
	}

	for _, e := range entries {
		city, state, ok := strings.Cut(e, ",")
		if !ok {
			m.states[normalize(e)] = struct{}{}
			continue
		}
		m.cities[normalize(city)+","+normalize(state)] = struct{}{}
	}

	return m
}

func (m markets) empty() bool {
	return len(m.cities) == 0 && len(m.states) == 0
}

func (m markets) supports(city, state string) bool {
	if m.empty() {
		return true
	}

	if _, ok := m.states[normalize(state)]; ok {
		return true
	}

	_, ok := m.cities[normalize(city)+","+normalize(state)]
	return ok
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
