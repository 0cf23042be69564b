package directions

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sakaymap/sakaymap/internal/fare"
)

// ServiceConfig holds configuration for the directions service.
type ServiceConfig struct {
	// Provider is the directions data provider.
	Provider Provider

	// Rates are the fare rates applied when the provider supplies no fare.
	Rates fare.Rates

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache normalized route sets (default: 2 minutes).
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.001 ~ 110m).
	// Endpoints within the same grid cell share cached routes.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale routes on provider errors (default: 10 minutes).
	StaleIfErrorTTL time.Duration

	// CleanupInterval is how often to clean up expired entries (default: 5 minutes).
	CleanupInterval time.Duration
}

// Service fetches and normalizes commute routes, with caching.
type Service struct {
	provider        Provider
	rates           fare.Rates
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration
	cleanupInterval time.Duration

	mu          sync.RWMutex
	cache       map[string]*cachedResult
	lastCleanup time.Time
}

type cachedResult struct {
	result    *Result
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new directions service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 2 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.001 // ~110m at the equator
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 10 * time.Minute
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval == 0 {
		cleanupInterval = 5 * time.Minute
	}

	rates := cfg.Rates
	if rates.RatePerKm == 0 {
		rates = fare.DefaultRates()
	}

	return &Service{
		provider:        cfg.Provider,
		rates:           rates,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		cleanupInterval: cleanupInterval,
		cache:           make(map[string]*cachedResult),
	}
}

// GetRoutes returns the normalized route set between two points.
// Uses cached data if available and not expired.
func (s *Service) GetRoutes(ctx context.Context, req Request) (*Result, error) {
	if err := validateCoordinates(req.Origin); err != nil {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      ErrInvalidCoordinates,
		}
	}
	if err := validateCoordinates(req.Destination); err != nil {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      ErrInvalidCoordinates,
		}
	}

	cacheKey := s.cacheKey(req)

	s.mu.RLock()
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.logger.Debug().
			Str("cache_key", cacheKey).
			Msg("cache hit for routes")
		return cached.result, nil
	}
	s.mu.RUnlock()

	return s.fetchRoutes(ctx, req, cacheKey)
}

// fetchRoutes fetches the raw payload, normalizes it, and updates the cache.
func (s *Service) fetchRoutes(ctx context.Context, req Request, cacheKey string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache (prevents thundering herd)
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.logger.Debug().
			Str("cache_key", cacheKey).
			Msg("cache hit after double-check")
		return cached.result, nil
	}

	s.logger.Debug().
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lng", req.Origin.Lng).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lng", req.Destination.Lng).
		Str("provider", s.provider.Name()).
		Msg("fetching routes from provider")

	payload, err := s.provider.Directions(ctx, req)
	if err == nil {
		var routes RouteSet
		routes, err = Normalize(payload, s.rates)
		if err == nil {
			now := time.Now()
			result := &Result{
				Routes:    routes,
				Provider:  s.provider.Name(),
				FetchedAt: now,
			}
			s.cache[cacheKey] = &cachedResult{
				result:    result,
				fetchedAt: now,
				expiresAt: now.Add(s.cacheTTL),
			}

			s.logger.Debug().
				Str("cache_key", cacheKey).
				Int("route_count", len(routes)).
				Msg("cached normalized routes")

			s.cleanupIfNeeded()
			return result, nil
		}
	}

	s.logger.Error().Err(err).
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lng", req.Origin.Lng).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lng", req.Destination.Lng).
		Msg("failed to fetch routes")

	// Stale-if-error: a recently expired route set beats an error page.
	if cached, ok := s.cache[cacheKey]; ok {
		if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			s.logger.Warn().
				Time("fetched_at", cached.fetchedAt).
				Str("cache_key", cacheKey).
				Msg("serving stale routes due to provider error")
			return cached.result, nil
		}
	}

	return nil, err
}

// cacheKey generates a cache key for a directions request.
// Uses grid-based quantization for both origin and destination.
func (s *Service) cacheKey(req Request) string {
	gridOriginLat := math.Floor(req.Origin.Lat/s.cacheGridSize) * s.cacheGridSize
	gridOriginLng := math.Floor(req.Origin.Lng/s.cacheGridSize) * s.cacheGridSize
	gridDestLat := math.Floor(req.Destination.Lat/s.cacheGridSize) * s.cacheGridSize
	gridDestLng := math.Floor(req.Destination.Lng/s.cacheGridSize) * s.cacheGridSize

	return fmt.Sprintf("%.3f,%.3f:%.3f,%.3f",
		gridOriginLat, gridOriginLng,
		gridDestLat, gridDestLng,
	)
}

// cleanupIfNeeded removes expired entries if the cleanup interval has passed.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	s.lastCleanup = now
	expired := 0

	for key, cached := range s.cache {
		// Remove entries that are past the stale-if-error window
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.cache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired route cache entries")
	}
}

// InvalidateCache clears all cached route sets.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedResult)
}

// CacheStats contains cache statistics.
type CacheStats struct {
	TotalEntries int
	FreshEntries int
	StaleEntries int
	Provider     string
}

// Stats returns cache statistics.
func (s *Service) Stats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	fresh := 0
	stale := 0

	for _, c := range s.cache {
		if now.Before(c.expiresAt) {
			fresh++
		} else if now.Before(c.fetchedAt.Add(s.staleIfErrorTTL)) {
			stale++
		}
	}

	return CacheStats{
		TotalEntries: len(s.cache),
		FreshEntries: fresh,
		StaleEntries: stale,
		Provider:     s.provider.Name(),
	}
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// validateCoordinates checks if coordinates are within valid ranges.
func validateCoordinates(c LatLng) error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", c.Lng)
	}
	return nil
}
