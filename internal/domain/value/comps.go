package value

// CompsQuery describes the subject asset to a comparables provider.
type CompsQuery struct {
	Address string
	City    string
	State   string
	Zip     string
	Beds    *int
	Baths   *float64
	Sqft    *int
}

// CompsSnapshot is what a comparables provider returned for one query.
// Providers either list individual sale prices or only an aggregate.
type CompsSnapshot struct {
	Prices  []float64 `json:"prices,omitempty"`
	Count   int       `json:"count"`
	Median  *float64  `json:"median,omitempty"`
	Average *float64  `json:"avg,omitempty"`
}
