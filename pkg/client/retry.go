package client

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts per remote call
	// (including the initial request).
	MaxAttempts int

	// Backoff is the fixed wait between attempts. E-utilities asks bulk
	// clients to back off well clear of its rate window, hence the long
	// default.
	Backoff time.Duration
}

// DefaultRetryConfig returns the default retry configuration: three
// attempts with a fixed 20 second wait between them.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Backoff:     20 * time.Second,
	}
}

// retryWithBackoff executes fn until it succeeds, fails fatally, or the
// attempt cap is reached. Only transient failures (see ErrorClass) are
// retried; the attempt counter is scoped to this single call and never
// carries over. The backoff wait respects context cancellation.
func retryWithBackoff(ctx context.Context, cfg RetryConfig, endpoint string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 1 {
				log.Info().
					Str("endpoint", endpoint).
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return nil
		}

		lastErr = err

		if !retriable(err) {
			// Fatal failures abort after exactly one attempt.
			return err
		}

		if attempt >= cfg.MaxAttempts {
			break
		}

		entrezRetriesTotal.WithLabelValues(endpoint).Inc()
		entrezRetryBackoffSeconds.WithLabelValues(endpoint).Observe(cfg.Backoff.Seconds())

		log.Warn().
			Str("endpoint", endpoint).
			Int("attempt", attempt).
			Dur("backoff", cfg.Backoff).
			Err(err).
			Msg("Transient Entrez failure, retrying after backoff")

		select {
		case <-ctx.Done():
			log.Warn().
				Str("endpoint", endpoint).
				Int("attempt", attempt).
				Msg("Context cancelled during retry backoff")
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(cfg.Backoff):
		}
	}

	entrezRetryExhaustedTotal.WithLabelValues(endpoint).Inc()
	log.Error().
		Str("endpoint", endpoint).
		Int("max_attempts", cfg.MaxAttempts).
		Err(lastErr).
		Msg("Retry attempts exhausted")

	return fmt.Errorf("%w: %s failed %d times: %v", ErrRetryExhausted, endpoint, cfg.MaxAttempts, lastErr)
}
