// Package google provides a Google Directions API client for transit routes.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/sakaymap/sakaymap/internal/directions"
	"github.com/sakaymap/sakaymap/internal/provider/resilience"
)

const (
	// ProviderName identifies this directions provider.
	ProviderName = "google-directions"

	// DefaultBaseURL is the Google Maps API base URL.
	DefaultBaseURL = "https://maps.googleapis.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Google Directions client.
type ClientConfig struct {
	// APIKey is the Google Maps API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the Google API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Language is the instruction language (optional, defaults to "en").
	Language string

	// Region biases results to a region code (optional, defaults to "ph").
	Region string

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Directions API client requesting transit routes.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	region     string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new Google Directions client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	language := cfg.Language
	if language == "" {
		language = "en"
	}

	region := cfg.Region
	if region == "" {
		region = "ph"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		language:   language,
		region:     region,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Directions retrieves the raw transit directions payload between two points.
func (c *Client) Directions(ctx context.Context, req directions.Request) (*directions.Payload, error) {
	params := url.Values{}
	params.Set("origin", formatLatLng(req.Origin))
	params.Set("destination", formatLatLng(req.Destination))
	params.Set("mode", "transit")
	params.Set("language", c.language)
	params.Set("region", c.region)
	params.Set("key", c.apiKey)
	if req.Alternatives {
		params.Set("alternatives", "true")
	}

	reqURL := fmt.Sprintf("%s/maps/api/directions/json?%s", c.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lng", req.Origin.Lng).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lng", req.Destination.Lng).
		Bool("alternatives", req.Alternatives).
		Msg("requesting transit directions")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &directions.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach directions provider",
			Err:      directions.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleHTTPError(resp.StatusCode)
	}

	var payload directions.Payload
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if err := c.handleStatus(&payload); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("status", payload.Status).
		Int("route_count", len(payload.Routes)).
		Msg("received directions payload")

	return &payload, nil
}

// handleStatus maps non-routable payload statuses to domain errors.
// OK and ZERO_RESULTS payloads pass through; the normalizer owns the
// zero-route case.
func (c *Client) handleStatus(p *directions.Payload) error {
	switch p.Status {
	case directions.StatusOK, directions.StatusZeroResults:
		return nil
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return &directions.Error{
			Provider: ProviderName,
			Code:     p.Status,
			Message:  "API rate limit exceeded, please try again later",
			Err:      directions.ErrRateLimitExceeded,
		}
	case "NOT_FOUND", "INVALID_REQUEST":
		return &directions.Error{
			Provider: ProviderName,
			Code:     p.Status,
			Message:  nonEmpty(p.ErrorMessage, "origin or destination could not be geocoded"),
			Err:      directions.ErrInvalidCoordinates,
		}
	default:
		// REQUEST_DENIED, UNKNOWN_ERROR and anything unrecognized.
		return &directions.Error{
			Provider: ProviderName,
			Code:     p.Status,
			Message:  nonEmpty(p.ErrorMessage, "directions provider returned status "+p.Status),
			Err:      directions.ErrProviderUnavailable,
		}
	}
}

// handleHTTPError maps transport-level failures to domain errors.
func (c *Client) handleHTTPError(statusCode int) error {
	if statusCode == http.StatusTooManyRequests {
		return &directions.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "API rate limit exceeded, please try again later",
			Err:      directions.ErrRateLimitExceeded,
		}
	}
	return &directions.Error{
		Provider: ProviderName,
		Code:     fmt.Sprintf("HTTP_%d", statusCode),
		Message:  fmt.Sprintf("directions provider returned status %d", statusCode),
		Err:      directions.ErrProviderUnavailable,
	}
}

func formatLatLng(p directions.LatLng) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
