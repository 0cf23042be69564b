// Package trip coordinates a user's route selection flow: fetching
// candidate routes, stepping between the list and detail views, and
// clamping the draggable modals that present them.
package trip

import (
	"errors"

	"github.com/sakaymap/sakaymap/internal/directions"
)

// Predefined errors for trip operations.
var (
	// ErrMissingEndpoints is returned when a fetch is attempted without
	// both an origin and a destination.
	ErrMissingEndpoints = errors.New("origin and destination are required")

	// ErrIndexOutOfRange is returned when a route selection index is not
	// within the current route set.
	ErrIndexOutOfRange = errors.New("route index out of range")

	// ErrSuperseded is returned to a fetch whose result was discarded
	// because a newer fetch (or a close) happened while it was in flight.
	ErrSuperseded = errors.New("route fetch superseded")
)

// Phase is the visible stage of the selection flow.
type Phase string

// Selection phases. Exactly one is active at a time; a route set exists
// only in the list and detail phases, and a selected index only in detail.
const (
	PhaseIdle        Phase = "idle"
	PhaseListShown   Phase = "list_shown"
	PhaseDetailShown Phase = "detail_shown"
)

// SelectionState is the current stage of the route selection flow.
// It is mutated only by the owning Controller.
type SelectionState struct {
	Phase Phase `json:"phase"`

	// Routes is the candidate route set. Nil while idle.
	Routes directions.RouteSet `json:"routes,omitempty"`

	// SelectedIndex is the chosen route. -1 outside the detail phase.
	SelectedIndex int `json:"selected_index"`
}

// idleState is the canonical empty state.
func idleState() SelectionState {
	return SelectionState{Phase: PhaseIdle, SelectedIndex: -1}
}

// Selected returns the selected route, or nil outside the detail phase.
func (s SelectionState) Selected() *directions.Route {
	if s.Phase != PhaseDetailShown || s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Routes) {
		return nil
	}
	return &s.Routes[s.SelectedIndex]
}
