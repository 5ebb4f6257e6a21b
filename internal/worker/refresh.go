package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripfolio/tripfolio/internal/fxrates"
)

// RefreshJob handles exchange rate cache refresh operations.
type RefreshJob struct {
	config RefreshConfig
	logger zerolog.Logger

	fxService *fxrates.Service

	// Metrics
	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns         int64
	SuccessfulRefresh int64
	FailedRefreshes   int64

	// Timings
	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
	TotalDuration       time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config    RefreshConfig
	Logger    zerolog.Logger
	FxService *fxrates.Service
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	if len(config.Bases) == 0 {
		config = DefaultRefreshConfig()
	}
	if config.Concurrency == 0 {
		config.Concurrency = 3
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &RefreshJob{
		config:    config,
		logger:    cfg.Logger,
		fxService: cfg.FxService,
		metrics:   &RefreshMetrics{},
	}
}

// RefreshResult contains the result of a refresh operation.
type RefreshResult struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalBases int
	Successful int
	Failed     int
	Errors     []RefreshError
}

// RefreshError represents an error during refresh.
type RefreshError struct {
	Base  string
	Error string
}

// Run executes the refresh job for all configured base currencies.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	startTime := time.Now()
	result := &RefreshResult{
		StartTime:  startTime,
		TotalBases: j.config.TotalBases(),
	}

	j.logger.Info().
		Int("total_bases", result.TotalBases).
		Int("concurrency", j.config.Concurrency).
		Msg("starting exchange rate refresh job")

	// Create work channels
	basesChan := make(chan string, len(j.config.Bases))
	resultsChan := make(chan baseResult, len(j.config.Bases))

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.refreshWorker(ctx, basesChan, resultsChan)
		}()
	}

	// Send bases to workers
	for _, base := range j.config.Bases {
		basesChan <- base
	}
	close(basesChan)

	// Wait for workers to complete
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Collect results
	for br := range resultsChan {
		if br.err == nil {
			result.Successful++
		} else {
			result.Failed++
			result.Errors = append(result.Errors, RefreshError{
				Base:  br.base,
				Error: br.err.Error(),
			})
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	// Update metrics
	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("exchange rate refresh job completed")

	return result
}

type baseResult struct {
	base string
	err  error
}

func (j *RefreshJob) refreshWorker(ctx context.Context, bases <-chan string, results chan<- baseResult) {
	for base := range bases {
		select {
		case <-ctx.Done():
			return
		default:
			results <- baseResult{base: base, err: j.refreshBase(ctx, base)}
		}
	}
}

func (j *RefreshJob) refreshBase(ctx context.Context, base string) error {
	refreshCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	if err := j.fxService.Refresh(refreshCtx, base); err != nil {
		j.logger.Warn().
			Str("base", base).
			Err(err).
			Msg("failed to refresh exchange rates")
		return err
	}

	return nil
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulRefresh += int64(result.Successful)
	j.metrics.FailedRefreshes += int64(result.Failed)
	j.metrics.LastRefreshAt = result.EndTime
	j.metrics.LastRefreshDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRuns:           j.metrics.TotalRuns,
		SuccessfulRefresh:   j.metrics.SuccessfulRefresh,
		FailedRefreshes:     j.metrics.FailedRefreshes,
		LastRefreshAt:       j.metrics.LastRefreshAt,
		LastRefreshDuration: j.metrics.LastRefreshDuration,
		TotalDuration:       j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":            m.TotalRuns,
		"successful_refreshes":  m.SuccessfulRefresh,
		"failed_refreshes":      m.FailedRefreshes,
		"last_refresh_at":       m.LastRefreshAt,
		"last_refresh_duration": m.LastRefreshDuration.String(),
		"total_duration":        m.TotalDuration.String(),
	}
}
