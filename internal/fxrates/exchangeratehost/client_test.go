package exchangeratehost_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripfolio/tripfolio/internal/fxrates/exchangeratehost"
	"github.com/tripfolio/tripfolio/internal/provider/resilience"
)

func TestClient_GetRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		assert.Equal(t, "****", r.URL.Query().Get("access_key"))

		response := map[string]interface{}{
			"success":   true,
			"timestamp": time.Now().Unix(),
			"base":      "USD",
			"rates": map[string]float64{
				"EUR": 0.92,
				"JPY": 148.3,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	registry := resilience.NewRegistry()
	client := exchangeratehost.NewClient(exchangeratehost.ClientConfig{
		APIKey:     "****",
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
		Registry:   registry,
	})

	table, err := client.GetRates(context.Background(), "USD")
	require.NoError(t, err)
	require.NotNil(t, table)

	assert.Equal(t, "USD", table.Base)
	assert.Equal(t, 0.92, table.Rates["EUR"])
	assert.Equal(t, 148.3, table.Rates["JPY"])
	assert.False(t, table.FetchedAt.IsZero())
}

func TestClient_GetRates_RegistersAndRecordsHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"base":    "USD",
			"rates":   map[string]float64{"EUR": 0.92},
		})
	}))
	defer server.Close()

	registry := resilience.NewRegistry()
	client := exchangeratehost.NewClient(exchangeratehost.ClientConfig{
		APIKey:     "****",
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig(exchangeratehost.ProviderName)),
		Registry:   registry,
	})

	// Construction registers the provider
	assert.Equal(t, 1, registry.ProviderCount())
	health := registry.GetHealth(exchangeratehost.ProviderName)
	require.NotNil(t, health)
	assert.Nil(t, health.LastSuccessAt)

	_, err := client.GetRates(context.Background(), "USD")
	require.NoError(t, err)

	health = registry.GetHealth(exchangeratehost.ProviderName)
	require.NotNil(t, health)
	require.NotNil(t, health.LastSuccessAt)
	assert.True(t, health.IsHealthy())
}

func TestClient_GetRates_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error": map[string]interface{}{
				"code": 104,
				"info": "quota exceeded",
			},
		})
	}))
	defer server.Close()

	registry := resilience.NewRegistry()
	client := exchangeratehost.NewClient(exchangeratehost.ClientConfig{
		APIKey:     "****",
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig(exchangeratehost.ProviderName)),
		Registry:   registry,
	})

	_, err := client.GetRates(context.Background(), "USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	health := registry.GetHealth(exchangeratehost.ProviderName)
	require.NotNil(t, health)
	require.NotNil(t, health.LastFailureAt)
	assert.Contains(t, health.LastError, "quota exceeded")
}

func TestClient_Name(t *testing.T) {
	client := exchangeratehost.NewClient(exchangeratehost.ClientConfig{
		Registry: resilience.NewRegistry(),
	})

	assert.Equal(t, exchangeratehost.ProviderName, client.Name())
}
