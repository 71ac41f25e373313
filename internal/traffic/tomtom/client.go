// Package tomtom provides a client for the TomTom-backed traffic
// routing API.
package tomtom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartmove/smartmove/internal/geo"
	"github.com/smartmove/smartmove/internal/provider/resilience"
	"github.com/smartmove/smartmove/internal/traffic"
	"github.com/smartmove/smartmove/pkg/polyline"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "tomtom"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 5 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the traffic routing client.
type ClientConfig struct {
	// BaseURL is the traffic service base URL (required).
	BaseURL string

	// APIKey authenticates against the traffic service (optional).
	APIKey string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 5s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches route estimates from the traffic service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
	registry   *resilience.Registry
	logger     zerolog.Logger
}

// NewClient creates a new traffic routing client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		clientCfg.Registry = cfg.Registry
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		registry:   cfg.Registry,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// routeResponse is the wire shape of the traffic service response.
type routeResponse struct {
	DurationMinutes     *float64 `json:"durationMinutes"`
	DistanceKm          float64  `json:"distanceKm"`
	TrafficDelayMinutes float64  `json:"trafficDelayMinutes"`
	RiskLevel           string   `json:"riskLevel"`
	Geometry            string   `json:"geometry"` // encoded polyline, precision 5
}

// GetRoute retrieves a route estimate for the trip.
func (c *Client) GetRoute(ctx context.Context, req traffic.RouteRequest) (*traffic.RouteEstimate, error) {
	endpoint := fmt.Sprintf("%s/api/traffic/route?origin=%s&destination=%s&mode=%s",
		c.baseURL,
		url.QueryEscape(req.Origin),
		url.QueryEscape(req.Destination),
		url.QueryEscape(string(req.Mode)),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", c.apiKey)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("origin", req.Origin).
		Str("destination", req.Destination).
		Str("mode", string(req.Mode)).
		Msg("requesting route from traffic service")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &traffic.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach traffic service",
			Err:      traffic.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode)
	}

	var route routeResponse
	if err := json.Unmarshal(body, &route); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if route.DurationMinutes == nil {
		return nil, &traffic.Error{
			Provider: ProviderName,
			Code:     "INCOMPLETE",
			Message:  "traffic service response has no duration",
			Err:      traffic.ErrIncompleteRoute,
		}
	}

	estimate := &traffic.RouteEstimate{
		DistanceKm:          route.DistanceKm,
		DurationMinutes:     *route.DurationMinutes,
		TrafficDelayMinutes: route.TrafficDelayMinutes,
		RiskLevel:           parseRiskLevel(route.RiskLevel),
		Geometry:            decodeGeometry(route.Geometry),
		Source:              ProviderName,
	}

	c.logger.Debug().
		Float64("duration_min", estimate.DurationMinutes).
		Float64("distance_km", estimate.DistanceKm).
		Int("geometry_points", len(estimate.Geometry)).
		Msg("received route from traffic service")

	return estimate, nil
}

// handleErrorResponse maps traffic service error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int) error {
	switch {
	case statusCode == http.StatusNotFound:
		return &traffic.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no route found between the given locations",
			Err:      traffic.ErrNoRouteFound,
		}
	case statusCode >= 500:
		return &traffic.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("SERVER_%d", statusCode),
			Message:  "traffic service is temporarily unavailable",
			Err:      traffic.ErrProviderUnavailable,
		}
	default:
		return &traffic.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  fmt.Sprintf("traffic service returned status %d", statusCode),
			Err:      traffic.ErrProviderUnavailable,
		}
	}
}

// decodeGeometry decodes an encoded polyline into coordinate pairs.
func decodeGeometry(encoded string) []geo.Coordinate {
	if encoded == "" {
		return nil
	}
	points := polyline.Decode(encoded)
	coords := make([]geo.Coordinate, 0, len(points))
	for _, p := range points {
		coords = append(coords, geo.Coordinate{Lat: p.Lat, Lon: p.Lon})
	}
	return coords
}

func parseRiskLevel(s string) traffic.RiskLevel {
	switch traffic.RiskLevel(s) {
	case traffic.RiskMedium:
		return traffic.RiskMedium
	case traffic.RiskHigh:
		return traffic.RiskHigh
	default:
		return traffic.RiskLow
	}
}
