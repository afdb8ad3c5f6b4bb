package ratelimiter

import (
	"sync"
	"time"

	"github.com/gespro/gespro-api/internal/config"
	"go.uber.org/zap"
)

// FixedWindowRateLimiter counts requests per client within a fixed time
// window. Counters reset when the window elapses.
type FixedWindowRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*windowCounter
	limit   int
	window  time.Duration
	logger  *zap.SugaredLogger
}

type windowCounter struct {
	count       int
	windowStart time.Time
}

func NewFixedWindowLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*windowCounter),
		limit:   cfg.RequestsPerTimeFrame,
		window:  cfg.TimeFrame,
		logger:  logger,
	}
}

// Allow reports whether the client may proceed. When the limit is exceeded it
// returns false along with the time remaining until the window resets.
func (rl *FixedWindowRateLimiter) Allow(clientID string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	counter, exists := rl.clients[clientID]
	if !exists || now.Sub(counter.windowStart) >= rl.window {
		rl.clients[clientID] = &windowCounter{count: 1, windowStart: now}
		return true, 0
	}

	if counter.count >= rl.limit {
		retryAfter := rl.window - now.Sub(counter.windowStart)
		rl.logger.Debugf("Rate limit exceeded for client: %s, retry after: %v", clientID, retryAfter)
		return false, retryAfter
	}

	counter.count++
	return true, 0
}
