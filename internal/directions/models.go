// Package directions provides multi-modal commute route retrieval and
// normalization.
package directions

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for directions operations.
var (
	// ErrNoRoutesFound indicates the provider returned zero usable routes.
	ErrNoRoutesFound = errors.New("no routes found between the given points")
	// ErrProviderUnavailable indicates the directions provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("directions provider unavailable")
	// ErrRateLimitExceeded indicates the API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidCoordinates indicates the provided coordinates are invalid or out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider defines the interface for directions providers.
type Provider interface {
	// Directions retrieves the raw multi-route payload for one
	// origin/destination pair. Route order in the payload is the provider's
	// ranking and must be preserved by callers.
	Directions(ctx context.Context, req Request) (*Payload, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// LatLng is a geographic point.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Request is the request for computing commute routes.
type Request struct {
	Origin      LatLng
	Destination LatLng
	// Alternatives asks the provider for alternative routes in addition to
	// its default route.
	Alternatives bool
}

// Payload is the raw multi-route directions payload as returned by the
// provider, before normalization. Status is the provider's status string;
// anything other than StatusOK means no usable routes.
type Payload struct {
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	Routes       []RawRoute `json:"routes"`
}

// Provider status strings.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

// RawRoute is one candidate route in the raw payload.
type RawRoute struct {
	Summary          string       `json:"summary"`
	OverviewPolyline RawPolyline  `json:"overview_polyline"`
	Fare             *RawFare     `json:"fare,omitempty"`
	Legs             []RawLeg     `json:"legs"`
}

// RawPolyline wraps the provider's encoded overview polyline.
type RawPolyline struct {
	Points string `json:"points"`
}

// RawFare is a provider fare hint, either route-level or per transit step.
type RawFare struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
	Text     string  `json:"text,omitempty"`
}

// RawLeg is one continuous segment of the journey.
type RawLeg struct {
	Duration RawText      `json:"duration"`
	Distance RawDistance  `json:"distance"`
	Steps    []RawStep    `json:"steps"`
}

// RawText is a provider value with a human-readable rendering.
type RawText struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// RawDistance is a provider distance with meters and human-readable text.
type RawDistance struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"` // meters
}

// RawStep is the smallest described unit of a route.
type RawStep struct {
	HTMLInstructions string             `json:"html_instructions"`
	TravelMode       string             `json:"travel_mode"`
	Duration         RawText            `json:"duration"`
	Distance         RawDistance        `json:"distance"`
	TransitDetails   *RawTransitDetails `json:"transit_details,omitempty"`
	Fare             *RawFare           `json:"fare,omitempty"`
}

// Travel modes in the raw payload.
const (
	TravelModeTransit = "TRANSIT"
	TravelModeWalking = "WALKING"
)

// RawTransitDetails carries transit-specific step data.
type RawTransitDetails struct {
	DepartureStop RawStop `json:"departure_stop"`
	ArrivalStop   RawStop `json:"arrival_stop"`
	Line          RawLine `json:"line"`
	NumStops      int     `json:"num_stops"`
}

// RawStop is a transit stop with an optional location.
type RawStop struct {
	Name     string  `json:"name"`
	Location *LatLng `json:"location,omitempty"`
}

// RawLine identifies a transit line and its vehicle.
type RawLine struct {
	Name      string     `json:"name"`
	ShortName string     `json:"short_name"`
	Vehicle   RawVehicle `json:"vehicle"`
}

// RawVehicle describes the vehicle serving a transit line.
type RawVehicle struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// StepDetail carries transit-specific detail for a step. It is present only
// for transit steps; walking steps have no detail.
type StepDetail struct {
	Line     string   `json:"line"`
	Vehicle  string   `json:"vehicle"`
	Fare     *float64 `json:"fare,omitempty"`
	Duration string   `json:"duration,omitempty"`
	// From is the boarding coordinate. Nil when the provider omits it, in
	// which case no marker is rendered for this step.
	From *LatLng `json:"from,omitempty"`
}

// Step is one instruction line of a route, in journey traversal order.
type Step struct {
	Instruction string      `json:"instruction"`
	Details     *StepDetail `json:"details,omitempty"`
}

// Route is one normalized commute route alternative.
type Route struct {
	Summary  string  `json:"summary"`
	Duration string  `json:"duration"`
	Fare     float64 `json:"fare"`
	Currency string  `json:"currency"`
	// Polyline is the provider's encoded overview polyline, kept encoded.
	// Decoding is deferred to render time so routes the user never selects
	// are never decoded.
	Polyline       string  `json:"polyline"`
	DistanceMeters float64 `json:"distanceMeters"`
	Steps          []Step  `json:"steps"`
	// Color is the rank color for drawing this route's line, assigned from a
	// capped palette by position in the route set.
	Color string `json:"color"`
}

// RouteSet is the ranked list of alternative routes for one
// origin/destination query. Order is the provider's ranking; index 0 is the
// provider's default route. Non-empty on success.
type RouteSet []Route

// Result is a normalized route set with fetch metadata.
type Result struct {
	Routes    RouteSet
	Provider  string
	FetchedAt time.Time
}

// Error provides detailed error information from the directions provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request can be retried.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}
