// Package polyline decodes and encodes Google's polyline algorithm format.
// The algorithm is documented at: https://developers.google.com/maps/documentation/utilities/polylinealgorithm
package polyline

import (
	"errors"
	"math"
)

// Coordinate represents a geographic point with latitude and longitude.
type Coordinate struct {
	Lat float64
	Lng float64
}

// ErrMalformed indicates the encoded string is truncated or contains bytes
// outside the polyline alphabet.
var ErrMalformed = errors.New("malformed polyline")

// Decode decodes a polyline-encoded string into a slice of coordinates.
// Malformed input yields a nil slice; rendering callers treat that as
// "no line for this route" rather than an error, so a single bad polyline
// in a route set never aborts the others. Use DecodeStrict when the caller
// wants to know why decoding failed.
func Decode(encoded string) []Coordinate {
	coords, err := DecodeStrict(encoded)
	if err != nil {
		return nil
	}
	return coords
}

// DecodeStrict decodes a polyline-encoded string, returning ErrMalformed on
// truncated sequences or out-of-alphabet bytes. Precision is 5 decimal
// places, the standard Google format.
func DecodeStrict(encoded string) ([]Coordinate, error) {
	if encoded == "" {
		return nil, nil
	}

	var coords []Coordinate
	index := 0
	lat := 0
	lng := 0

	for index < len(encoded) {
		latDelta, newIndex, err := decodeValue(encoded, index)
		if err != nil {
			return nil, err
		}
		index = newIndex
		lat += latDelta

		lngDelta, newIndex, err := decodeValue(encoded, index)
		if err != nil {
			return nil, err
		}
		index = newIndex
		lng += lngDelta

		coords = append(coords, Coordinate{
			Lat: float64(lat) / 1e5,
			Lng: float64(lng) / 1e5,
		})
	}

	return coords, nil
}

// decodeValue decodes a single delta value from the polyline at the given
// index. Returns the decoded delta and the new index position.
func decodeValue(encoded string, index int) (int, int, error) {
	if index >= len(encoded) {
		return 0, index, ErrMalformed
	}

	shift := 0
	result := 0

	for {
		if index >= len(encoded) {
			// A chunk with the continuation bit set ran off the end.
			return 0, index, ErrMalformed
		}
		b := int(encoded[index]) - 63
		if b < 0 {
			return 0, index, ErrMalformed
		}
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index, nil
	}
	return result >> 1, index, nil
}

// Encode encodes a slice of coordinates into a polyline-encoded string.
func Encode(coords []Coordinate) string {
	if len(coords) == 0 {
		return ""
	}

	encoded := make([]byte, 0, len(coords)*4)
	prevLat := 0
	prevLng := 0

	for _, coord := range coords {
		lat := int(math.Round(coord.Lat * 1e5))
		lng := int(math.Round(coord.Lng * 1e5))

		encoded = encodeValue(encoded, lat-prevLat)
		encoded = encodeValue(encoded, lng-prevLng)

		prevLat = lat
		prevLng = lng
	}

	return string(encoded)
}

// encodeValue encodes a single integer value using the polyline algorithm.
func encodeValue(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	buf = append(buf, byte(value)+63)

	return buf
}

// Length calculates the total length of a polyline in meters using the
// haversine formula.
func Length(coords []Coordinate) float64 {
	if len(coords) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(coords); i++ {
		total += haversineDistance(coords[i-1], coords[i])
	}
	return total
}

const earthRadiusMeters = 6371000

func haversineDistance(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLng := math.Sin(dLng / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLng*sinDLng
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
