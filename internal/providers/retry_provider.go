package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingProvider wraps a TeamProvider with retry/backoff behavior.
type retryingProvider struct {
	inner       TeamProvider
	logger      *slog.Logger
	name        string
	maxAttempts int
	backoffFn   backoffFunc
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingProvider(inner TeamProvider, logger *slog.Logger, name string, maxAttempts int, backoff time.Duration) TeamProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &retryingProvider{
		inner:       inner,
		logger:      logger,
		name:        name,
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (r *retryingProvider) FetchTeams(ctx context.Context) ([]teams.Team, error) {
	if r.inner == nil {
		return nil, ErrProviderUnavailable
	}
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		list, err := r.inner.FetchTeams(ctx)
		if err == nil {
			return list, nil
		}
		lastErr = err

		if attempt == r.maxAttempts {
			break
		}

		logWithProvider(ctx, r.logger, slog.LevelWarn, r.name, "provider fetch retry",
			"attempt", attempt, "max_attempts", r.maxAttempts, "err", err)

		// backoff with context awareness
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoffFn(attempt)):
		}
	}

	logWithProvider(ctx, r.logger, slog.LevelWarn, r.name, "provider fetch failed",
		"attempts", r.maxAttempts, "err", lastErr)
	return nil, lastErr
}
