// Package fare provides fare estimation for commute legs without a
// provider-supplied fare.
package fare

// DefaultRatePerKm is the fallback jeepney/bus rate in PHP per kilometer.
const DefaultRatePerKm = 10.0

// Estimate computes a fare from a travel distance and a per-kilometer rate.
// A zero distance yields a zero fare. Negative distances are a caller bug;
// they are clamped to 0 rather than rejected so a bad upstream distance
// never produces a negative fare.
func Estimate(distanceMeters, ratePerKm float64) float64 {
	if distanceMeters <= 0 {
		return 0
	}
	return ratePerKm * (distanceMeters / 1000)
}

// Rates holds the fare rates applied when the directions provider supplies
// no fare for a route.
type Rates struct {
	// RatePerKm is the estimate rate in Currency units per kilometer.
	RatePerKm float64

	// Currency is the ISO 4217 currency code attached to estimates.
	Currency string
}

// DefaultRates returns the Metro Manila defaults.
func DefaultRates() Rates {
	return Rates{
		RatePerKm: DefaultRatePerKm,
		Currency:  "PHP",
	}
}

// Estimate computes a fare for the given distance using this rate card.
func (r Rates) Estimate(distanceMeters float64) float64 {
	return Estimate(distanceMeters, r.RatePerKm)
}
