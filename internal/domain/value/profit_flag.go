package value

type ProfitFlag string

const (
	FlagGreen  ProfitFlag = "green"
	FlagOrange ProfitFlag = "orange"
	FlagRed    ProfitFlag = "red"
)

func (f ProfitFlag) String() string {
	return string(f)
}

// Matchable reports whether a deal carrying this flag may be offered to buyers.
func (f ProfitFlag) Matchable() bool {
	return f == FlagGreen || f == FlagOrange
}
