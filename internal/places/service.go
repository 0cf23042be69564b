package places

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the places service.
type ServiceConfig struct {
	// Resolver is the place data provider.
	Resolver Resolver

	// MaxPredictions caps autocomplete results (default: 5).
	MaxPredictions int

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service applies the endpoint-picking rules on top of a Resolver.
type Service struct {
	resolver       Resolver
	maxPredictions int
	logger         zerolog.Logger
}

// NewService creates a new places service.
func NewService(cfg ServiceConfig) *Service {
	maxPredictions := cfg.MaxPredictions
	if maxPredictions == 0 {
		maxPredictions = 5
	}

	return &Service{
		resolver:       cfg.Resolver,
		maxPredictions: maxPredictions,
		logger:         cfg.Logger,
	}
}

// Autocomplete returns ordered predictions for a partial query.
// An empty query returns ErrNoResults without an upstream call.
// Predictions without a place id are dropped.
func (s *Service) Autocomplete(ctx context.Context, input string) ([]Prediction, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrNoResults
	}

	raw, err := s.resolver.Autocomplete(ctx, input)
	if err != nil {
		return nil, err
	}

	predictions := make([]Prediction, 0, len(raw))
	for _, p := range raw {
		if p.PlaceID == "" {
			continue
		}
		predictions = append(predictions, p)
		if len(predictions) == s.maxPredictions {
			break
		}
	}

	if len(predictions) == 0 {
		return nil, ErrNoResults
	}

	return predictions, nil
}

// Resolve looks up the full location for a place id.
func (s *Service) Resolve(ctx context.Context, placeID string) (*Location, error) {
	loc, err := s.resolver.Resolve(ctx, placeID)
	if err != nil {
		s.logger.Warn().Err(err).Str("place_id", placeID).Msg("place resolution failed")
		return nil, err
	}
	return loc, nil
}

// ReverseGeocode resolves a coordinate into an addressed location.
// Locations without a display name are named as map pins.
func (s *Service) ReverseGeocode(ctx context.Context, lat, lng float64) (*Location, error) {
	loc, err := s.resolver.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lng", lng).
			Msg("reverse geocode failed")
		return nil, err
	}

	if loc.Name == "" {
		loc.Name = PinnedLocationName
	}
	return loc, nil
}

// ProviderName returns the name of the underlying resolver.
func (s *Service) ProviderName() string {
	return s.resolver.Name()
}
