package trip

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sakaymap/sakaymap/internal/directions"
	"github.com/sakaymap/sakaymap/internal/places"
)

// RoutesFetcher is the slice of the directions service the controller needs.
type RoutesFetcher interface {
	GetRoutes(ctx context.Context, req directions.Request) (*directions.Result, error)
}

// Controller owns one user's SelectionState and is the only writer to it.
//
// Fetches carry a monotonically increasing sequence number taken under the
// state lock. A fetch whose sequence is no longer current when its result
// arrives discards that result and reports ErrSuperseded, so overlapping
// fetches can never overwrite newer state. Closing bumps the sequence too,
// which also invalidates any fetch still in flight.
type Controller struct {
	fetcher RoutesFetcher
	logger  zerolog.Logger

	mu    sync.Mutex
	state SelectionState
	seq   uint64
}

// NewController creates a controller in the idle state.
func NewController(fetcher RoutesFetcher, logger zerolog.Logger) *Controller {
	return &Controller{
		fetcher: fetcher,
		logger:  logger,
		state:   idleState(),
	}
}

// FetchRoutes fetches candidate routes between two resolved endpoints and
// transitions to the list phase. Both endpoints are required.
func (c *Controller) FetchRoutes(ctx context.Context, origin, destination *places.Location) (SelectionState, error) {
	if origin == nil || destination == nil {
		return c.State(), ErrMissingEndpoints
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	result, err := c.fetcher.GetRoutes(ctx, directions.Request{
		Origin:       directions.LatLng{Lat: origin.Lat, Lng: origin.Lng},
		Destination:  directions.LatLng{Lat: destination.Lat, Lng: destination.Lng},
		Alternatives: true,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.logger.Debug().
			Uint64("seq", seq).
			Uint64("current_seq", c.seq).
			Msg("discarding superseded route fetch")
		return c.state, ErrSuperseded
	}

	if err != nil {
		return c.state, err
	}

	c.state = SelectionState{
		Phase:         PhaseListShown,
		Routes:        result.Routes,
		SelectedIndex: -1,
	}

	c.logger.Debug().
		Int("route_count", len(result.Routes)).
		Str("provider", result.Provider).
		Msg("route list shown")

	return c.state, nil
}

// SelectRoute transitions to the detail phase for the route at index i.
// An index outside the current route set fails with ErrIndexOutOfRange
// and leaves the state untouched.
func (c *Controller) SelectRoute(i int) (SelectionState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.state.Routes) {
		return c.state, ErrIndexOutOfRange
	}

	c.state.Phase = PhaseDetailShown
	c.state.SelectedIndex = i
	return c.state, nil
}

// Close returns to the idle state from any phase. Idempotent. The route
// set is dereferenced, not destroyed, so callers holding it keep it valid.
func (c *Controller) Close() SelectionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.state = idleState()
	return c.state
}

// State returns a snapshot of the current selection state.
func (c *Controller) State() SelectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
