package fare

import "testing"

func TestEstimate(t *testing.T) {
	tests := []struct {
		name           string
		distanceMeters float64
		ratePerKm      float64
		want           float64
	}{
		{name: "zero distance", distanceMeters: 0, ratePerKm: 10, want: 0},
		{name: "five kilometers", distanceMeters: 5000, ratePerKm: 10, want: 50},
		{name: "sub-kilometer", distanceMeters: 500, ratePerKm: 10, want: 5},
		{name: "fractional rate", distanceMeters: 12340, ratePerKm: 2.5, want: 30.85},
		{name: "negative distance clamped", distanceMeters: -1200, ratePerKm: 10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.distanceMeters, tt.ratePerKm)
			if got != tt.want {
				t.Errorf("Estimate(%v, %v) = %v, want %v", tt.distanceMeters, tt.ratePerKm, got, tt.want)
			}
		})
	}
}

func TestRates_Estimate(t *testing.T) {
	rates := DefaultRates()
	if rates.Currency != "PHP" {
		t.Errorf("expected PHP currency, got %q", rates.Currency)
	}
	if got := rates.Estimate(5000); got != 50 {
		t.Errorf("default rates: Estimate(5000) = %v, want 50", got)
	}
}
