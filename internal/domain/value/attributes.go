package value

// PropertyAttributes are the physical facts used for repair estimation and
// comparable lookups. Every field is optional.
type PropertyAttributes struct {
	Beds      *int     `json:"beds,omitempty"`
	Baths     *float64 `json:"baths,omitempty"`
	Sqft      *int     `json:"sqft,omitempty"`
	YearBuilt *int     `json:"year_built,omitempty"`
}

func (a PropertyAttributes) HasBedsAndBaths() bool {
	return a.Beds != nil && a.Baths != nil
}

func (a PropertyAttributes) HasSqft() bool {
	return a.Sqft != nil && *a.Sqft > 0
}
