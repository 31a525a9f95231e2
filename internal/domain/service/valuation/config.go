package valuation

// Band adds Bump when a numeric attribute falls in [From, To). A zero To
// means unbounded above.
type Band struct {
	From int
	To   int
	Bump float64
}

func (b Band) contains(v int) bool {
	if v < b.From {
		return false
	}
	return b.To == 0 || v < b.To
}

type Config struct {
	// Markets are "City,ST" or "ST" entries. Empty means every market.
	Markets []string

	BaselineRepair float64
	MinRepair      float64
	MaxRepair      float64
	// AgeBands are matched against the year built, SizeBands against sqft.
	// The first matching band of each list applies.
	AgeBands       []Band
	SizeBands      []Band
	DistressBump   float64
	DistressWords  []string

	DiscountRate float64
	MinComps     int
	MaxARVRatio  float64
	MaxARV       float64

	GreenSpread     float64
	GreenConfidence int
	OrangeSpread    float64
}

func DefaultConfig() Config {
	return Config{
		Markets:        nil,
		BaselineRepair: 15000,
		MinRepair:      5000,
		MaxRepair:      150000,
		AgeBands: []Band{
			{From: 0, To: 1970, Bump: 20000},
			{From: 1970, To: 1990, Bump: 12000},
			{From: 1990, To: 2006, Bump: 6000},
		},
		SizeBands: []Band{
			{From: 3001, Bump: 20000},
			{From: 2001, To: 3001, Bump: 12000},
			{From: 1501, To: 2001, Bump: 6000},
		},
		DistressBump: 7500,
		DistressWords: []string{
			"fire",
			"water damage",
			"mold",
			"foundation",
			"roof",
			"as-is",
			"vacant",
			"foreclosure",
			"probate",
			"tenant-occupied",
		},
		DiscountRate:    0.70,
		MinComps:        3,
		MaxARVRatio:     2.5,
		MaxARV:          1_500_000,
		GreenSpread:     30000,
		GreenConfidence: 60,
		OrangeSpread:    15000,
	}
}
