package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/claimdeck/internal/claims"
	"github.com/five82/claimdeck/internal/state"
)

const (
	defaultPollInterval = time.Minute
	retryBase           = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that refreshes the store. It
// waits interval between successful polls and backs off exponentially from
// retryBase after failures. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, src claims.Source, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, src, logger)
			timer.Reset(nextDelay(store.Snapshot(), interval))
		}
	}()
}

func nextDelay(snap state.Snapshot, interval time.Duration) time.Duration {
	if snap.ConsecutiveFailures == 0 {
		return interval
	}
	return calculateBackoff(snap.ConsecutiveFailures-1, retryBase)
}

// calculateBackoff doubles base once per failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return min(base, maxBackoff)
	}
	delay := base
	for range failures {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

func refresh(ctx context.Context, store *state.Store, src claims.Source, logger *slog.Logger) error {
	items, err := src.FetchClaims(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		store.Update(nil, err)
		snap := store.Snapshot()
		logger.Warn("claims poll failed",
			"error", err,
			"consecutive_failures", snap.ConsecutiveFailures,
			"retry_in", nextDelay(snap, defaultPollInterval),
		)
		return err
	}
	store.Update(items, nil)
	logger.Debug("claims poll complete", "count", len(items))
	return nil
}
