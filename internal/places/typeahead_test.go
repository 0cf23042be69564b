package places

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gateResolver blocks each Autocomplete call until released.
type gateResolver struct {
	mu      sync.Mutex
	started chan string
	release map[string]chan struct{}
	results map[string][]Prediction
}

func newGateResolver() *gateResolver {
	return &gateResolver{
		started: make(chan string, 10),
		release: make(map[string]chan struct{}),
		results: make(map[string][]Prediction),
	}
}

func (g *gateResolver) expect(query string, predictions []Prediction) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	gate := make(chan struct{})
	g.release[query] = gate
	g.results[query] = predictions
	return gate
}

func (g *gateResolver) Autocomplete(_ context.Context, input string) ([]Prediction, error) {
	g.mu.Lock()
	gate := g.release[input]
	result := g.results[input]
	g.mu.Unlock()

	g.started <- input
	if gate != nil {
		<-gate
	}
	return result, nil
}

type recordedResult struct {
	query       string
	predictions []Prediction
}

func collectResults() (chan recordedResult, func(string, []Prediction)) {
	ch := make(chan recordedResult, 10)
	return ch, func(query string, predictions []Prediction) {
		ch <- recordedResult{query: query, predictions: predictions}
	}
}

func TestTypeahead_DebouncedLookup(t *testing.T) {
	resolver := newGateResolver()
	gate := resolver.expect("manila", []Prediction{{PlaceID: "p1", Description: "Manila City Hall"}})
	close(gate)

	results, onResults := collectResults()
	ta := NewTypeahead(TypeaheadConfig{
		Service:   resolver,
		Debounce:  10 * time.Millisecond,
		OnResults: onResults,
		Logger:    zerolog.Nop(),
	})
	defer ta.Close()

	ta.SetInput(context.Background(), "manila")

	select {
	case got := <-results:
		assert.Equal(t, "manila", got.query)
		require.Len(t, got.predictions, 1)
		assert.Equal(t, "p1", got.predictions[0].PlaceID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for predictions")
	}
}

func TestTypeahead_RapidEditsCollapseToOneLookup(t *testing.T) {
	resolver := newGateResolver()
	close(resolver.expect("manila", nil))

	results, onResults := collectResults()
	ta := NewTypeahead(TypeaheadConfig{
		Service:   resolver,
		Debounce:  30 * time.Millisecond,
		OnResults: onResults,
		Logger:    zerolog.Nop(),
	})
	defer ta.Close()

	// Keystrokes inside the debounce window.
	for _, text := range []string{"m", "ma", "man", "manila"} {
		ta.SetInput(context.Background(), text)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case query := <-resolver.started:
		assert.Equal(t, "manila", query, "only the settled input reaches the provider")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for lookup")
	}

	select {
	case extra := <-resolver.started:
		t.Fatalf("unexpected extra lookup for %q", extra)
	case <-time.After(100 * time.Millisecond):
	}

	<-results
}

func TestTypeahead_StaleResponseDiscarded(t *testing.T) {
	resolver := newGateResolver()
	firstGate := resolver.expect("man", []Prediction{{PlaceID: "stale"}})
	close(resolver.expect("manila", []Prediction{{PlaceID: "fresh"}}))

	results, onResults := collectResults()
	ta := NewTypeahead(TypeaheadConfig{
		Service:   resolver,
		Debounce:  time.Millisecond,
		OnResults: onResults,
		Logger:    zerolog.Nop(),
	})
	defer ta.Close()

	ta.SetInput(context.Background(), "man")

	// Wait for the first lookup to be in flight, then type more.
	require.Equal(t, "man", <-resolver.started)
	ta.SetInput(context.Background(), "manila")
	require.Equal(t, "manila", <-resolver.started)

	// Second response lands first.
	got := <-results
	assert.Equal(t, "manila", got.query)
	assert.Equal(t, "fresh", got.predictions[0].PlaceID)

	// First response resolves last and must be dropped.
	close(firstGate)

	select {
	case unexpected := <-results:
		t.Fatalf("stale response delivered: %+v", unexpected)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTypeahead_EmptyInputClearsWithoutLookup(t *testing.T) {
	resolver := newGateResolver()

	results, onResults := collectResults()
	ta := NewTypeahead(TypeaheadConfig{
		Service:   resolver,
		Debounce:  time.Millisecond,
		OnResults: onResults,
		Logger:    zerolog.Nop(),
	})
	defer ta.Close()

	ta.SetInput(context.Background(), "")

	got := <-results
	assert.Equal(t, "", got.query)
	assert.Nil(t, got.predictions)

	select {
	case query := <-resolver.started:
		t.Fatalf("unexpected lookup for %q", query)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTypeahead_CloseStopsPendingLookup(t *testing.T) {
	resolver := newGateResolver()
	close(resolver.expect("manila", nil))

	results, onResults := collectResults()
	ta := NewTypeahead(TypeaheadConfig{
		Service:   resolver,
		Debounce:  50 * time.Millisecond,
		OnResults: onResults,
		Logger:    zerolog.Nop(),
	})

	ta.SetInput(context.Background(), "manila")
	ta.Close()

	select {
	case query := <-resolver.started:
		t.Fatalf("lookup ran after close: %q", query)
	case <-time.After(150 * time.Millisecond):
	}

	select {
	case got := <-results:
		t.Fatalf("results delivered after close: %+v", got)
	default:
	}
}

func TestTypeahead_Current(t *testing.T) {
	ta := NewTypeahead(TypeaheadConfig{
		Service: newGateResolver(),
		Logger:  zerolog.Nop(),
	})
	defer ta.Close()

	assert.Equal(t, "", ta.Current())
	ta.SetInput(context.Background(), "quezon")
	assert.Equal(t, "quezon", ta.Current())
}
