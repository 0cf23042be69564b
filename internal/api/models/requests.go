// Package models provides request and response models for the SakayMap API.
package models

import (
	"github.com/sakaymap/sakaymap/internal/places"
)

// ComputeRoutesRequest is the body for POST /v1/routes:compute.
type ComputeRoutesRequest struct {
	Origin      Point `json:"origin"`
	Destination Point `json:"destination"`
}

// Point represents a geographic coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks the request fields.
func (r *ComputeRoutesRequest) Validate() []FieldError {
	var errs []FieldError
	errs = append(errs, validatePoint("origin", r.Origin)...)
	errs = append(errs, validatePoint("destination", r.Destination)...)
	return errs
}

func validatePoint(field string, p Point) []FieldError {
	var errs []FieldError
	if p.Lat < -90 || p.Lat > 90 {
		errs = append(errs, FieldError{Field: field + ".lat", Message: "latitude must be between -90 and 90", Code: "out_of_range"})
	}
	if p.Lng < -180 || p.Lng > 180 {
		errs = append(errs, FieldError{Field: field + ".lng", Message: "longitude must be between -180 and 180", Code: "out_of_range"})
	}
	return errs
}

// TripRoutesRequest is the body for POST /v1/trip/routes. Origin and
// destination are resolved locations rather than bare coordinates so the
// trip state can echo place names back to the client.
type TripRoutesRequest struct {
	Origin      *places.Location `json:"origin"`
	Destination *places.Location `json:"destination"`
}

// Validate checks the request fields.
func (r *TripRoutesRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Origin == nil {
		errs = append(errs, FieldError{Field: "origin", Message: "origin is required", Code: "required"})
	}
	if r.Destination == nil {
		errs = append(errs, FieldError{Field: "destination", Message: "destination is required", Code: "required"})
	}
	return errs
}

// ModalDragRequest is the body for POST /v1/trip/modal/drag.
type ModalDragRequest struct {
	// Modal names the sheet being dragged, "list" or "detail".
	Modal string `json:"modal"`

	// Delta is the drag distance in pixels. Positive values grow the
	// sheet, negative values shrink it.
	Delta float64 `json:"delta"`

	// ViewportHeight optionally updates the viewport before the drag is
	// applied. Zero leaves the current viewport unchanged.
	ViewportHeight float64 `json:"viewport_height,omitempty"`
}

// Validate checks the request fields.
func (r *ModalDragRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Modal != "list" && r.Modal != "detail" {
		errs = append(errs, FieldError{Field: "modal", Message: "modal must be \"list\" or \"detail\"", Code: "invalid"})
	}
	return errs
}

// ModalDragResponse reports the sheet height after a drag.
type ModalDragResponse struct {
	Modal     string  `json:"modal"`
	Height    float64 `json:"height"`
	MinHeight float64 `json:"min_height"`
	MaxHeight float64 `json:"max_height"`
}

// AutocompleteResponse wraps place predictions.
type AutocompleteResponse struct {
	Predictions []places.Prediction `json:"predictions"`
}

// MessageResponse is a minimal acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
