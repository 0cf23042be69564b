// Package places resolves free text, place ids, and coordinates into
// locations usable as trip endpoints.
package places

import (
	"context"
	"errors"
	"fmt"
)

// Predefined errors for place resolution.
var (
	// ErrNoResults is returned when the query is empty or the upstream
	// returns no predictions.
	ErrNoResults = errors.New("no matching places found")
)

// Resolution error codes. The UI currently renders both as a generic
// alert, but the distinction is kept for messaging.
const (
	// CodeNotFound means the upstream answered but knows no such place.
	CodeNotFound = "not_found"

	// CodeTransport means the upstream could not be reached or answered
	// with a provider-side failure.
	CodeTransport = "transport"
)

// PinnedLocationName is the display name given to locations picked
// directly off the map rather than from a search result.
const PinnedLocationName = "Pinned Location"

// Location is a fully resolved place.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
}

// Prediction is one autocomplete candidate.
type Prediction struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// Resolver is the interface for place data providers.
type Resolver interface {
	// Autocomplete returns ordered predictions for a partial query.
	Autocomplete(ctx context.Context, input string) ([]Prediction, error)

	// Resolve looks up the full location for a place id.
	Resolve(ctx context.Context, placeID string) (*Location, error)

	// ReverseGeocode resolves a coordinate into an addressed location.
	ReverseGeocode(ctx context.Context, lat, lng float64) (*Location, error)

	// Name returns the provider name for logging and error context.
	Name() string
}

// ResolutionError describes a failed place lookup.
type ResolutionError struct {
	// Provider is the resolver that failed.
	Provider string

	// Code is CodeNotFound or CodeTransport.
	Code string

	// Message is a human-readable description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s): %v", e.Provider, e.Message, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Code)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether the error is a not-found resolution failure.
func IsNotFound(err error) bool {
	var resErr *ResolutionError
	return errors.As(err, &resErr) && resErr.Code == CodeNotFound
}
