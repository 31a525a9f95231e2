package valuation

// Spread is the canonical margin stored on a deal: what is left of the
// after repair value once repairs and the asking price are paid.
func Spread(arv, repairs, price float64) float64 {
	return arv - repairs - price
}

// MAO is the maximum allowable offer at the given investor discount.
func MAO(arv, repairs, discountRate float64) float64 {
	return arv*discountRate - repairs
}

// OfferSpread is the disposition margin between the MAO and a negotiated
// offer plus the assignment fee target. It is never stored as the deal
// spread; use it only when pricing an offer.
func OfferSpread(mao, offerPrice, feeTarget float64) float64 {
	return mao - offerPrice + feeTarget
}
