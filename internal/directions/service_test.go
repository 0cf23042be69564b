package directions

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakaymap/sakaymap/internal/fare"
)

type mockProvider struct {
	calls   atomic.Int32
	payload *Payload
	err     error
}

func (m *mockProvider) Directions(_ context.Context, _ Request) (*Payload, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

func (m *mockProvider) Name() string { return "mock" }

func twoRoutePayload() *Payload {
	return okPayload(
		RawRoute{
			Summary: "EDSA",
			Fare:    &RawFare{Currency: "PHP", Value: 45},
			Legs: []RawLeg{{
				Duration: RawText{Text: "52 mins"},
				Distance: RawDistance{Value: 10700},
			}},
		},
		RawRoute{
			Summary: "Quezon Ave",
			Legs: []RawLeg{{
				Duration: RawText{Text: "1 hour 5 mins"},
				Distance: RawDistance{Value: 12400},
			}},
		},
	)
}

func manilaRequest() Request {
	return Request{
		Origin:       LatLng{Lat: 14.5995, Lng: 120.9842},
		Destination:  LatLng{Lat: 14.6760, Lng: 121.0437},
		Alternatives: true,
	}
}

func newTestService(provider Provider, opts ...func(*ServiceConfig)) *Service {
	cfg := ServiceConfig{
		Provider: provider,
		Rates:    fare.DefaultRates(),
		Logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewService(cfg)
}

func TestService_GetRoutes(t *testing.T) {
	provider := &mockProvider{payload: twoRoutePayload()}
	svc := newTestService(provider)

	result, err := svc.GetRoutes(context.Background(), manilaRequest())
	require.NoError(t, err)
	require.Len(t, result.Routes, 2)

	assert.Equal(t, "EDSA", result.Routes[0].Summary)
	assert.Equal(t, 45.0, result.Routes[0].Fare)
	assert.Equal(t, "#00DF82", result.Routes[0].Color)
	assert.Equal(t, "Quezon Ave", result.Routes[1].Summary)
	assert.InDelta(t, 124.0, result.Routes[1].Fare, 1e-9, "12.4 km at 10/km")
	assert.Equal(t, "mock", result.Provider)
	assert.False(t, result.FetchedAt.IsZero())
}

func TestService_GetRoutes_CacheHit(t *testing.T) {
	provider := &mockProvider{payload: twoRoutePayload()}
	svc := newTestService(provider)

	first, err := svc.GetRoutes(context.Background(), manilaRequest())
	require.NoError(t, err)
	second, err := svc.GetRoutes(context.Background(), manilaRequest())
	require.NoError(t, err)

	assert.Same(t, first, second, "second call should be served from cache")
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestService_GetRoutes_NearbyPointsShareCache(t *testing.T) {
	provider := &mockProvider{payload: twoRoutePayload()}
	svc := newTestService(provider)

	req := manilaRequest()
	_, err := svc.GetRoutes(context.Background(), req)
	require.NoError(t, err)

	// ~10m away, same grid cell.
	req.Origin.Lat += 0.0001
	_, err = svc.GetRoutes(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestService_GetRoutes_DistinctEndpointsMiss(t *testing.T) {
	provider := &mockProvider{payload: twoRoutePayload()}
	svc := newTestService(provider)

	_, err := svc.GetRoutes(context.Background(), manilaRequest())
	require.NoError(t, err)

	other := manilaRequest()
	other.Destination = LatLng{Lat: 14.5547, Lng: 121.0244}
	_, err = svc.GetRoutes(context.Background(), other)
	require.NoError(t, err)

	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestService_GetRoutes_StaleIfError(t *testing.T) {
	provider := &mockProvider{payload: twoRoutePayload()}
	svc := newTestService(provider, func(cfg *ServiceConfig) {
		cfg.CacheTTL = time.Nanosecond
		cfg.StaleIfErrorTTL = time.Hour
	})

	first, err := svc.GetRoutes(context.Background(), manilaRequest())
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	provider.err = ErrProviderUnavailable

	second, err := svc.GetRoutes(context.Background(), manilaRequest())
	require.NoError(t, err, "stale routes beat a provider error")
	assert.Same(t, first, second)
}

func TestService_GetRoutes_ErrorWithoutCache(t *testing.T) {
	provider := &mockProvider{err: ErrProviderUnavailable}
	svc := newTestService(provider)

	_, err := svc.GetRoutes(context.Background(), manilaRequest())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestService_GetRoutes_NoRoutes(t *testing.T) {
	provider := &mockProvider{payload: &Payload{Status: StatusZeroResults}}
	svc := newTestService(provider)

	_, err := svc.GetRoutes(context.Background(), manilaRequest())
	assert.ErrorIs(t, err, ErrNoRoutesFound)
}

func TestService_GetRoutes_InvalidCoordinates(t *testing.T) {
	provider := &mockProvider{payload: twoRoutePayload()}
	svc := newTestService(provider)

	tests := []struct {
		name     string
		req      Request
		wantCode string
	}{
		{
			name: "origin out of range",
			req: Request{
				Origin:      LatLng{Lat: 91, Lng: 120.98},
				Destination: LatLng{Lat: 14.67, Lng: 121.04},
			},
			wantCode: "INVALID_ORIGIN",
		},
		{
			name: "destination out of range",
			req: Request{
				Origin:      LatLng{Lat: 14.59, Lng: 120.98},
				Destination: LatLng{Lat: 14.67, Lng: 181},
			},
			wantCode: "INVALID_DESTINATION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetRoutes(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCoordinates)

			var provErr *Error
			require.ErrorAs(t, err, &provErr)
			assert.Equal(t, tt.wantCode, provErr.Code)
			assert.Equal(t, int32(0), provider.calls.Load(), "provider is never called with bad coordinates")
		})
	}
}

func TestService_InvalidateCache(t *testing.T) {
	provider := &mockProvider{payload: twoRoutePayload()}
	svc := newTestService(provider)

	_, err := svc.GetRoutes(context.Background(), manilaRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Stats().TotalEntries)

	svc.InvalidateCache()
	assert.Equal(t, 0, svc.Stats().TotalEntries)

	_, err = svc.GetRoutes(context.Background(), manilaRequest())
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestService_Stats(t *testing.T) {
	provider := &mockProvider{payload: twoRoutePayload()}
	svc := newTestService(provider)

	stats := svc.Stats()
	assert.Equal(t, 0, stats.TotalEntries)
	assert.Equal(t, "mock", stats.Provider)

	_, err := svc.GetRoutes(context.Background(), manilaRequest())
	require.NoError(t, err)

	stats = svc.Stats()
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 1, stats.FreshEntries)
}
