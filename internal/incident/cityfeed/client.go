// Package cityfeed provides a client for the municipal traffic
// incident feed.
package cityfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartmove/smartmove/internal/incident"
	"github.com/smartmove/smartmove/internal/provider/resilience"
)

// ProviderName identifies this incident provider.
const ProviderName = "cityfeed"

// ClientConfig holds configuration for the incident feed client.
type ClientConfig struct {
	// BaseURL is the incident feed base URL (required).
	BaseURL string

	// APIKey authenticates against the feed (optional).
	APIKey string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches active incidents from the municipal feed.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new incident feed client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Registry = cfg.Registry
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// incidentRecord is the wire shape of a feed entry.
type incidentRecord struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ReportedAt  string `json:"reportedAt"`
}

// GetActiveIncidents fetches the current list of active incidents.
func (c *Client) GetActiveIncidents(ctx context.Context) ([]incident.Incident, error) {
	url := fmt.Sprintf("%s/api/incidents/active", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var records []incidentRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	incidents := make([]incident.Incident, 0, len(records))
	for _, r := range records {
		reportedAt, _ := time.Parse(time.RFC3339, r.ReportedAt)
		incidents = append(incidents, incident.Incident{
			ID:          r.ID,
			Type:        r.Type,
			Severity:    r.Severity,
			Location:    r.Location,
			Description: r.Description,
			ReportedAt:  reportedAt,
		})
	}

	c.logger.Debug().
		Int("count", len(incidents)).
		Msg("fetched active incidents")

	return incidents, nil
}
