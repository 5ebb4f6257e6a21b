// Package worker provides background job processing for Tripfolio.
package worker

import (
	"time"
)

// RefreshConfig holds configuration for the exchange rate refresh job.
type RefreshConfig struct {
	// Bases are the base currencies to refresh rate tables for.
	// If empty, uses DefaultRefreshBases.
	Bases []string

	// Concurrency is the number of concurrent refresh operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each refresh operation.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Bases:       DefaultRefreshBases(),
		Concurrency: 3,
		Timeout:     30 * time.Second,
	}
}

// DefaultRefreshBases returns the base currencies agencies price trips in.
func DefaultRefreshBases() []string {
	return []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD"}
}

// TotalBases returns the number of rate tables to refresh.
func (c RefreshConfig) TotalBases() int {
	return len(c.Bases)
}
