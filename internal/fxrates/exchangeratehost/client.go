// Package exchangeratehost fetches exchange rates from the exchangerate.host API.
package exchangeratehost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripfolio/tripfolio/internal/fxrates"
	"github.com/tripfolio/tripfolio/internal/provider/resilience"
)

const (
	// ProviderName identifies this exchange rate provider.
	ProviderName = "exchangerate-host"

	// DefaultBaseURL is the exchangerate.host API base URL.
	DefaultBaseURL = "https://api.exchangerate.host"
)

// ClientConfig holds configuration for the exchangerate.host client.
type ClientConfig struct {
	// APIKey is the exchangerate.host access key (required for hosted plans).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Registry tracks this provider's health (optional).
	// If nil, uses resilience.GlobalRegistry.
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an exchangerate.host API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	registry   *resilience.Registry
	logger     zerolog.Logger
}

// NewClient creates a new exchangerate.host client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	registry := cfg.Registry
	if registry == nil {
		registry = resilience.GlobalRegistry
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		rcfg := resilience.DefaultClientConfig(ProviderName)
		rcfg.Registry = registry
		httpClient = resilience.NewClient(rcfg)
	} else {
		registry.Register(ProviderName, httpClient)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		registry:   registry,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetRates fetches the latest rate table for a base currency.
func (c *Client) GetRates(ctx context.Context, base string) (*fxrates.RateTable, error) {
	table, err := c.fetchLatest(ctx, base)
	if err != nil {
		c.registry.RecordFailure(ProviderName, err)
		return nil, err
	}
	c.registry.RecordSuccess(ProviderName)
	return table, nil
}

func (c *Client) fetchLatest(ctx context.Context, base string) (*fxrates.RateTable, error) {
	url := fmt.Sprintf("%s/latest?base=%s&access_key=%s", c.baseURL, base, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if !body.Success {
		return nil, fmt.Errorf("provider error: %s", body.Error.Info)
	}

	fetchedAt := time.Unix(body.Timestamp, 0)
	if body.Timestamp == 0 {
		fetchedAt = time.Now()
	}

	return &fxrates.RateTable{
		Base:      body.Base,
		Rates:     body.Rates,
		FetchedAt: fetchedAt,
	}, nil
}

// latestResponse is the exchangerate.host /latest payload.
type latestResponse struct {
	Success   bool               `json:"success"`
	Timestamp int64              `json:"timestamp"`
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	Error     struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}
