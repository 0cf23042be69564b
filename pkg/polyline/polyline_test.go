package polyline

import (
	"errors"
	"math"
	"testing"
)

func TestDecode_ValidPolyline(t *testing.T) {
	tests := []struct {
		name     string
		encoded  string
		expected []Coordinate
	}{
		{
			name:    "single point",
			encoded: "_p~iF~ps|U",
			expected: []Coordinate{
				{Lat: 38.5, Lng: -120.2},
			},
		},
		{
			name:    "two points",
			encoded: "_p~iF~ps|U_ulLnnqC",
			expected: []Coordinate{
				{Lat: 38.5, Lng: -120.2},
				{Lat: 40.7, Lng: -120.95},
			},
		},
		{
			name:    "three points - Google example",
			encoded: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
			expected: []Coordinate{
				{Lat: 38.5, Lng: -120.2},
				{Lat: 40.7, Lng: -120.95},
				{Lat: 43.252, Lng: -126.453},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Decode(tt.encoded)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d coordinates, got %d", len(tt.expected), len(result))
			}

			for i, coord := range result {
				if !coordsEqual(coord, tt.expected[i], 0.001) {
					t.Errorf("coordinate %d: expected %+v, got %+v", i, tt.expected[i], coord)
				}
			}
		})
	}
}

func TestDecode_EmptyString(t *testing.T) {
	result := Decode("")
	if result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		// Last chunk has the continuation bit set but the string ends.
		{name: "truncated continuation", encoded: "_p~iF~"},
		// 0x1f is below the polyline alphabet (min byte is '?' = 63).
		{name: "out of alphabet byte", encoded: "_p~iF\x1f"},
		{name: "dangling latitude", encoded: "_p~iF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(tt.encoded); got != nil {
				t.Errorf("Decode(%q) = %v, want nil", tt.encoded, got)
			}

			_, err := DecodeStrict(tt.encoded)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("DecodeStrict(%q) error = %v, want ErrMalformed", tt.encoded, err)
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		coords []Coordinate
	}{
		{
			name: "single point",
			coords: []Coordinate{
				{Lat: 38.5, Lng: -120.2},
			},
		},
		{
			name: "three points",
			coords: []Coordinate{
				{Lat: 38.5, Lng: -120.2},
				{Lat: 40.7, Lng: -120.95},
				{Lat: 43.252, Lng: -126.453},
			},
		},
		{
			name: "Manila City Hall to Quezon City Hall",
			coords: []Coordinate{
				{Lat: 14.5995, Lng: 120.9842},
				{Lat: 14.6760, Lng: 121.0437},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := Encode(tt.coords)
			if encoded == "" {
				t.Fatal("expected non-empty encoded string")
			}

			decoded, err := DecodeStrict(encoded)
			if err != nil {
				t.Fatalf("round-trip decode failed: %v", err)
			}
			if len(decoded) != len(tt.coords) {
				t.Fatalf("round-trip: expected %d coordinates, got %d", len(tt.coords), len(decoded))
			}

			for i, coord := range decoded {
				if !coordsEqual(coord, tt.coords[i], 0.00001) {
					t.Errorf("round-trip coordinate %d: expected %+v, got %+v", i, tt.coords[i], coord)
				}
			}
		})
	}
}

func TestEncode_EmptyCoordinates(t *testing.T) {
	if result := Encode(nil); result != "" {
		t.Errorf("expected empty string for nil coordinates, got %q", result)
	}
	if result := Encode([]Coordinate{}); result != "" {
		t.Errorf("expected empty string for empty coordinates, got %q", result)
	}
}

func TestLength_ValidRoute(t *testing.T) {
	tests := []struct {
		name           string
		coords         []Coordinate
		expectedMeters float64
		tolerance      float64
	}{
		{
			name:           "empty",
			coords:         nil,
			expectedMeters: 0,
			tolerance:      0,
		},
		{
			name:           "single point",
			coords:         []Coordinate{{Lat: 14.6, Lng: 121.0}},
			expectedMeters: 0,
			tolerance:      0,
		},
		{
			name: "Manila to Quezon City - roughly 10.7km",
			coords: []Coordinate{
				{Lat: 14.5995, Lng: 120.9842},
				{Lat: 14.6760, Lng: 121.0437},
			},
			expectedMeters: 10700,
			tolerance:      500,
		},
		{
			name: "1 degree latitude at equator - roughly 111km",
			coords: []Coordinate{
				{Lat: 0.0, Lng: 0.0},
				{Lat: 1.0, Lng: 0.0},
			},
			expectedMeters: 111000,
			tolerance:      1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Length(tt.coords)
			diff := math.Abs(result - tt.expectedMeters)
			if diff > tt.tolerance {
				t.Errorf("expected ~%.0fm (±%.0f), got %.0fm", tt.expectedMeters, tt.tolerance, result)
			}
		})
	}
}

// coordsEqual checks if two coordinates are equal within a tolerance.
func coordsEqual(a, b Coordinate, tolerance float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tolerance && math.Abs(a.Lng-b.Lng) <= tolerance
}

func BenchmarkDecode(b *testing.B) {
	encoded := "_p~iF~ps|U_ulLnnqC_mqNvxq`@"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Decode(encoded)
	}
}
