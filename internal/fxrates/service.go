package fxrates

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Provider defines the interface for exchange rate providers.
type Provider interface {
	// GetRates fetches the latest rate table for a base currency.
	GetRates(ctx context.Context, base string) (*RateTable, error)

	// Name returns the provider name for logging.
	Name() string
}

// MetricsRecorder records provider call and cache metrics.
// Satisfied by middleware.ProviderMetrics.
type MetricsRecorder interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
	RecordCacheHit(provider, operation string)
	RecordCacheMiss(provider, operation string)
}

// ServiceConfig holds configuration for the fx rates service.
type ServiceConfig struct {
	// Provider is the exchange rate provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// Metrics records cache and provider-call metrics (optional).
	Metrics MetricsRecorder

	// CacheTTL is how long a rate table stays fresh (default: 1 hour).
	// Display conversion tolerates slightly stale rates.
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale tables on provider errors
	// (default: 24 hours).
	StaleIfErrorTTL time.Duration
}

// Service provides cached exchange rates and cent-amount conversion.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	metrics         MetricsRecorder
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration

	mu     sync.RWMutex
	tables map[string]*cachedTable
}

type cachedTable struct {
	table     *RateTable
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new fx rates service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 24 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		metrics:         cfg.Metrics,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		tables:          make(map[string]*cachedTable),
	}
}

// GetRates returns the rate table for a base currency.
// Uses cached data if available and not expired.
func (s *Service) GetRates(ctx context.Context, base string) (*RateTable, error) {
	base = strings.ToUpper(base)

	s.mu.RLock()
	if cached, ok := s.tables[base]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.recordCacheHit("get-rates")
		return cached.table, nil
	}
	s.mu.RUnlock()

	s.recordCacheMiss("get-rates")
	return s.fetchRates(ctx, base)
}

// Refresh forces a provider fetch for a base currency, replacing the cached
// table. Used by the background refresh worker.
func (s *Service) Refresh(ctx context.Context, base string) error {
	base = strings.ToUpper(base)

	start := time.Now()
	table, err := s.provider.GetRates(ctx, base)
	s.recordRequest("refresh", time.Since(start), err)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.tables[base] = &cachedTable{
		table:     table,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}
	return nil
}

// ConvertCents converts an integer cent amount between currencies, rounding
// half away from zero. Same-currency conversions are exact.
func (s *Service) ConvertCents(ctx context.Context, amountCents int64, from, to string) (int64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return amountCents, nil
	}

	table, err := s.GetRates(ctx, from)
	if err != nil {
		return 0, err
	}

	rate, err := table.Rate(to)
	if err != nil {
		return 0, err
	}

	return int64(math.Round(float64(amountCents) * rate)), nil
}

// fetchRates fetches a table from the provider and updates the cache.
func (s *Service) fetchRates(ctx context.Context, base string) (*RateTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.tables[base]; ok && time.Now().Before(cached.expiresAt) {
		return cached.table, nil
	}

	s.logger.Debug().
		Str("base", base).
		Str("provider", s.provider.Name()).
		Msg("fetching exchange rates from provider")

	start := time.Now()
	table, err := s.provider.GetRates(ctx, base)
	s.recordRequest("get-rates", time.Since(start), err)
	if err != nil {
		s.logger.Error().Err(err).
			Str("base", base).
			Msg("failed to fetch exchange rates")

		// Check for stale data
		if cached, ok := s.tables[base]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale exchange rates due to provider error")
				return cached.table, nil
			}
		}

		return nil, ErrProviderUnavailable
	}

	now := time.Now()
	s.tables[base] = &cachedTable{
		table:     table,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	return table, nil
}

func (s *Service) recordCacheHit(operation string) {
	if s.metrics != nil {
		s.metrics.RecordCacheHit(s.provider.Name(), operation)
	}
}

func (s *Service) recordCacheMiss(operation string) {
	if s.metrics != nil {
		s.metrics.RecordCacheMiss(s.provider.Name(), operation)
	}
}

func (s *Service) recordRequest(operation string, duration time.Duration, err error) {
	if s.metrics != nil {
		s.metrics.RecordRequest(s.provider.Name(), operation, duration, err)
	}
}
