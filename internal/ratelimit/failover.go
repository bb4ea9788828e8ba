package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"shareit/internal/domain"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverLimiter prefers the primary limiter and falls back to the
// secondary when the primary errors, retrying the primary periodically.
type FailoverLimiter struct {
	primary   domain.RateLimiter
	fallback  domain.RateLimiter
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverLimiter(primary, fallback domain.RateLimiter, logger *zerolog.Logger) *FailoverLimiter {
	return &FailoverLimiter{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (l *FailoverLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !l.isDown.Load() || l.shouldRetry() {
		allowed, err := l.primary.Allow(ctx, key, limit, window)
		if err == nil {
			l.isDown.Store(false)
			return allowed, nil
		}
		l.logger.Error().Err(err).Msg("primary rate limiter failed, falling back to memory")
		l.isDown.Store(true)
		l.lastCheck.Store(time.Now().UnixNano())
	}

	return l.fallback.Allow(ctx, key, limit, window)
}

func (l *FailoverLimiter) shouldRetry() bool {
	return time.Since(time.Unix(0, l.lastCheck.Load())) > recoveryInterval
}
