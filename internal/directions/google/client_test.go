package google_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakaymap/sakaymap/internal/directions"
	"github.com/sakaymap/sakaymap/internal/directions/google"
)

const transitResponse = `{
	"status": "OK",
	"routes": [
		{
			"summary": "EDSA",
			"overview_polyline": {"points": "_p~iF~ps|U_ulLnnqC"},
			"fare": {"currency": "PHP", "value": 45, "text": "PHP45.00"},
			"legs": [
				{
					"duration": {"text": "52 mins", "value": 3120},
					"distance": {"text": "10.7 km", "value": 10700},
					"steps": [
						{
							"html_instructions": "Walk to Taft Avenue Station",
							"travel_mode": "WALKING",
							"duration": {"text": "6 mins", "value": 360},
							"distance": {"text": "450 m", "value": 450}
						},
						{
							"html_instructions": "Train towards North Avenue",
							"travel_mode": "TRANSIT",
							"duration": {"text": "40 mins", "value": 2400},
							"distance": {"text": "10.2 km", "value": 10250},
							"transit_details": {
								"departure_stop": {"name": "Taft Avenue", "location": {"lat": 14.5378, "lng": 121.0014}},
								"arrival_stop": {"name": "North Avenue", "location": {"lat": 14.6523, "lng": 121.0321}},
								"line": {"name": "MRT Line 3", "short_name": "MRT-3", "vehicle": {"name": "Train", "type": "SUBWAY"}},
								"num_stops": 12
							}
						}
					]
				}
			]
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*google.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := google.NewClient(google.ClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	return client, server
}

func TestClient_Directions(t *testing.T) {
	var gotQuery map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
		gotQuery = map[string]string{
			"origin":       r.URL.Query().Get("origin"),
			"destination":  r.URL.Query().Get("destination"),
			"mode":         r.URL.Query().Get("mode"),
			"alternatives": r.URL.Query().Get("alternatives"),
			"key":          r.URL.Query().Get("key"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(transitResponse))
	})

	payload, err := client.Directions(context.Background(), directions.Request{
		Origin:       directions.LatLng{Lat: 14.5995, Lng: 120.9842},
		Destination:  directions.LatLng{Lat: 14.6760, Lng: 121.0437},
		Alternatives: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "transit", gotQuery["mode"])
	assert.Equal(t, "true", gotQuery["alternatives"])
	assert.Equal(t, "test-key", gotQuery["key"])
	assert.Equal(t, "14.599500,120.984200", gotQuery["origin"])
	assert.Equal(t, "14.676000,121.043700", gotQuery["destination"])

	require.Len(t, payload.Routes, 1)
	route := payload.Routes[0]
	assert.Equal(t, "EDSA", route.Summary)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC", route.OverviewPolyline.Points)
	require.NotNil(t, route.Fare)
	assert.Equal(t, 45.0, route.Fare.Value)

	require.Len(t, route.Legs, 1)
	require.Len(t, route.Legs[0].Steps, 2)
	transit := route.Legs[0].Steps[1]
	require.NotNil(t, transit.TransitDetails)
	assert.Equal(t, "MRT-3", transit.TransitDetails.Line.ShortName)
	assert.Equal(t, "SUBWAY", transit.TransitDetails.Line.Vehicle.Type)
	require.NotNil(t, transit.TransitDetails.DepartureStop.Location)
	assert.InDelta(t, 14.5378, transit.TransitDetails.DepartureStop.Location.Lat, 0.0001)
}

func TestClient_Directions_ZeroResultsPassesThrough(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "routes": []}`))
	})

	payload, err := client.Directions(context.Background(), directions.Request{
		Origin:      directions.LatLng{Lat: 14.5995, Lng: 120.9842},
		Destination: directions.LatLng{Lat: 14.6760, Lng: 121.0437},
	})
	require.NoError(t, err)
	assert.Equal(t, directions.StatusZeroResults, payload.Status)
	assert.Empty(t, payload.Routes)
}

func TestClient_Directions_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantErr    error
		wantCode   string
	}{
		{
			name:     "over query limit",
			body:     `{"status": "OVER_QUERY_LIMIT"}`,
			wantErr:  directions.ErrRateLimitExceeded,
			wantCode: "OVER_QUERY_LIMIT",
		},
		{
			name:     "not found",
			body:     `{"status": "NOT_FOUND"}`,
			wantErr:  directions.ErrInvalidCoordinates,
			wantCode: "NOT_FOUND",
		},
		{
			name:     "request denied",
			body:     `{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid"}`,
			wantErr:  directions.ErrProviderUnavailable,
			wantCode: "REQUEST_DENIED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Directions(context.Background(), directions.Request{
				Origin:      directions.LatLng{Lat: 14.5995, Lng: 120.9842},
				Destination: directions.LatLng{Lat: 14.6760, Lng: 121.0437},
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var provErr *directions.Error
			require.True(t, errors.As(err, &provErr))
			assert.Equal(t, tt.wantCode, provErr.Code)
			assert.Equal(t, google.ProviderName, provErr.Provider)
		})
	}
}

func TestClient_Directions_HTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Directions(context.Background(), directions.Request{
		Origin:      directions.LatLng{Lat: 14.5995, Lng: 120.9842},
		Destination: directions.LatLng{Lat: 14.6760, Lng: 121.0437},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, directions.ErrRateLimitExceeded)
}

func TestClient_Directions_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close()

	client := google.NewClient(google.ClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: &http.Client{},
	})

	_, err := client.Directions(context.Background(), directions.Request{
		Origin:      directions.LatLng{Lat: 14.5995, Lng: 120.9842},
		Destination: directions.LatLng{Lat: 14.6760, Lng: 121.0437},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, directions.ErrProviderUnavailable)
}

func TestClient_Name(t *testing.T) {
	client := google.NewClient(google.ClientConfig{APIKey: "k"})
	assert.Equal(t, "google-directions", client.Name())
}
