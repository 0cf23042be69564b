// Package google adapts the Google Maps Platform web services to the
// places.Resolver interface.
package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"

	"github.com/sakaymap/sakaymap/internal/places"
)

// ProviderName identifies this places provider.
const ProviderName = "google-places"

// Metro Manila search bias defaults.
const (
	DefaultBiasLat          = 14.5995
	DefaultBiasLng          = 120.9842
	DefaultBiasRadiusMeters = 50000
)

// ClientConfig holds configuration for the Google places client.
type ClientConfig struct {
	// APIKey is the Google Maps API key (required unless MapsClient is set).
	APIKey string

	// MapsClient overrides the underlying client (used in tests).
	MapsClient *maps.Client

	// BiasLat and BiasLng center the autocomplete bias circle.
	// Defaults to Manila City Hall.
	BiasLat float64
	BiasLng float64

	// BiasRadiusMeters is the bias circle radius (default: 50km).
	BiasRadiusMeters uint

	// Language for descriptions and addresses (default: "en").
	Language string

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client resolves places through the Google Maps Platform.
type Client struct {
	maps     *maps.Client
	biasLat  float64
	biasLng  float64
	radius   uint
	language string
	logger   zerolog.Logger
}

// NewClient creates a new Google places client.
func NewClient(cfg ClientConfig) (*Client, error) {
	mc := cfg.MapsClient
	if mc == nil {
		var err error
		mc, err = maps.NewClient(maps.WithAPIKey(cfg.APIKey))
		if err != nil {
			return nil, fmt.Errorf("creating maps client: %w", err)
		}
	}

	biasLat := cfg.BiasLat
	biasLng := cfg.BiasLng
	if biasLat == 0 && biasLng == 0 {
		biasLat = DefaultBiasLat
		biasLng = DefaultBiasLng
	}

	radius := cfg.BiasRadiusMeters
	if radius == 0 {
		radius = DefaultBiasRadiusMeters
	}

	language := cfg.Language
	if language == "" {
		language = "en"
	}

	return &Client{
		maps:     mc,
		biasLat:  biasLat,
		biasLng:  biasLng,
		radius:   radius,
		language: language,
		logger:   cfg.Logger,
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Autocomplete returns ordered predictions biased to the configured area.
// Predictions without a place id are dropped.
func (c *Client) Autocomplete(ctx context.Context, input string) ([]places.Prediction, error) {
	resp, err := c.maps.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input:    input,
		Location: &maps.LatLng{Lat: c.biasLat, Lng: c.biasLng},
		Radius:   c.radius,
		Language: c.language,
	})
	if err != nil {
		return nil, c.wrapError("autocomplete failed", err)
	}

	predictions := make([]places.Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		if p.PlaceID == "" {
			continue
		}
		predictions = append(predictions, places.Prediction{
			PlaceID:     p.PlaceID,
			Description: p.Description,
		})
	}

	c.logger.Debug().
		Str("input", input).
		Int("predictions", len(predictions)).
		Msg("autocomplete results")

	return predictions, nil
}

// Resolve looks up the full location for a place id.
func (c *Client) Resolve(ctx context.Context, placeID string) (*places.Location, error) {
	result, err := c.maps.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID:  placeID,
		Language: c.language,
	})
	if err != nil {
		return nil, c.wrapError("place details failed", err)
	}

	loc := result.Geometry.Location
	if loc.Lat == 0 && loc.Lng == 0 && result.FormattedAddress == "" {
		return nil, &places.ResolutionError{
			Provider: ProviderName,
			Code:     places.CodeNotFound,
			Message:  "place has no geometry",
		}
	}

	return &places.Location{
		Lat:     loc.Lat,
		Lng:     loc.Lng,
		Name:    result.Name,
		Address: result.FormattedAddress,
	}, nil
}

// ReverseGeocode resolves a coordinate into the nearest addressed location.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*places.Location, error) {
	results, err := c.maps.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: lat, Lng: lng},
		Language: c.language,
	})
	if err != nil {
		return nil, c.wrapError("reverse geocode failed", err)
	}

	if len(results) == 0 {
		return nil, &places.ResolutionError{
			Provider: ProviderName,
			Code:     places.CodeNotFound,
			Message:  "no address at coordinate",
		}
	}

	return &places.Location{
		Lat:     lat,
		Lng:     lng,
		Address: results[0].FormattedAddress,
	}, nil
}

// wrapError classifies an upstream error as not-found or transport.
// The maps library folds non-OK statuses into the error string.
func (c *Client) wrapError(message string, err error) *places.ResolutionError {
	code := places.CodeTransport
	msg := err.Error()
	if strings.Contains(msg, "NOT_FOUND") || strings.Contains(msg, "INVALID_REQUEST") {
		code = places.CodeNotFound
	}

	c.logger.Warn().Err(err).Str("code", code).Msg(message)

	return &places.ResolutionError{
		Provider: ProviderName,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}
