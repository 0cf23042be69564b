package places

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// autocompleter is the slice of Service the typeahead needs.
type autocompleter interface {
	Autocomplete(ctx context.Context, input string) ([]Prediction, error)
}

// TypeaheadConfig holds configuration for a typeahead session.
type TypeaheadConfig struct {
	// Service performs the autocomplete lookups.
	Service autocompleter

	// Debounce is the quiet period after the last keystroke before a
	// lookup is issued (default: 300ms).
	Debounce time.Duration

	// OnResults receives predictions for the query that produced them.
	OnResults func(query string, predictions []Prediction)

	// OnError receives lookup failures. ErrNoResults is reported as an
	// empty OnResults call instead.
	OnError func(query string, err error)

	// Logger for session operations.
	Logger zerolog.Logger
}

// Typeahead debounces a stream of input edits into autocomplete lookups.
//
// A response is delivered only while the input text still equals the query
// that produced it; responses for superseded queries are discarded, so
// out-of-order upstream completions can never show stale suggestions.
type Typeahead struct {
	service   autocompleter
	debounce  time.Duration
	onResults func(string, []Prediction)
	onError   func(string, error)
	logger    zerolog.Logger

	mu      sync.Mutex
	current string
	timer   *time.Timer
	closed  bool
}

// NewTypeahead creates a new typeahead session.
func NewTypeahead(cfg TypeaheadConfig) *Typeahead {
	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = 300 * time.Millisecond
	}

	onResults := cfg.OnResults
	if onResults == nil {
		onResults = func(string, []Prediction) {}
	}
	onError := cfg.OnError
	if onError == nil {
		onError = func(string, error) {}
	}

	return &Typeahead{
		service:   cfg.Service,
		debounce:  debounce,
		onResults: onResults,
		onError:   onError,
		logger:    cfg.Logger,
	}
}

// SetInput records the latest input text and schedules a debounced lookup.
// An empty input clears suggestions immediately without an upstream call.
func (t *Typeahead) SetInput(ctx context.Context, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	t.current = text
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}

	if text == "" {
		t.onResults("", nil)
		return
	}

	query := text
	t.timer = time.AfterFunc(t.debounce, func() {
		t.lookup(ctx, query)
	})
}

// Current returns the input text as last set.
func (t *Typeahead) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Close stops the session. Pending lookups are abandoned.
func (t *Typeahead) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Typeahead) lookup(ctx context.Context, query string) {
	predictions, err := t.service.Autocomplete(ctx, query)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.current != query {
		// Input moved on while the lookup was in flight.
		t.logger.Debug().Str("query", query).Msg("discarding stale autocomplete response")
		return
	}

	if err != nil {
		if errors.Is(err, ErrNoResults) {
			t.onResults(query, nil)
			return
		}
		t.onError(query, err)
		return
	}

	t.onResults(query, predictions)
}
