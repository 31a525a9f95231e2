package value

import (
	"fmt"
	"strings"
)

// Tier is the buyer monetization tier that bounds monthly matches.
type Tier string

const (
	TierFree  Tier = "free"
	TierPro   Tier = "pro"
	TierElite Tier = "elite"
)

func (t Tier) String() string {
	return string(t)
}

func ParseTier(raw string) (Tier, error) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(raw))); t {
	case TierFree, TierPro, TierElite:
		return t, nil
	default:
		return "", fmt.Errorf("unknown tier %q", raw)
	}
}
