package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter keeps a token bucket per key in process memory. It backs
// the gateway when Redis is unreachable.
type MemoryLimiter struct {
	limiters sync.Map
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	val, ok := l.limiters.Load(key)
	if !ok {
		limiter := rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)
		val, _ = l.limiters.LoadOrStore(key, limiter)
	}
	return val.(*rate.Limiter).Allow(), nil
}
