package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/openbrick/brick-ledger/internal/adapter"
	"github.com/openbrick/brick-ledger/internal/config"
	"github.com/openbrick/brick-ledger/internal/logger"
)

// Limiter throttles inbound requests per client. Each client gets its own
// token bucket; buckets idle past the TTL are evicted on the next sweep.
type Limiter struct {
	cfg   config.RateLimitConfig
	clock adapter.Clock

	mu      sync.Mutex
	clients map[string]*clientLimiter

	lastSweep time.Time
}

// clientLimiter holds the rate limiting state for a single client
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter creates a per-client limiter. A zero RequestsPerSecond
// returns a limiter that admits everything.
func NewLimiter(cfg config.RateLimitConfig, clock adapter.Clock) *Limiter {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.ClientTTL <= 0 {
		cfg.ClientTTL = 10 * time.Minute
	}

	l := &Limiter{
		cfg:       cfg,
		clock:     clock,
		clients:   make(map[string]*clientLimiter),
		lastSweep: clock.Now(),
	}

	if cfg.RequestsPerSecond > 0 {
		logger.Info("Rate limiter initialized",
			zap.Float64("requests_per_second", cfg.RequestsPerSecond),
			zap.Int("burst", cfg.Burst),
			zap.Duration("client_ttl", cfg.ClientTTL),
		)
	}
	return l
}

// Allow reports whether the client identified by key may proceed.
func (l *Limiter) Allow(key string) bool {
	if l.cfg.RequestsPerSecond <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if now.Sub(l.lastSweep) > l.cfg.ClientTTL {
		l.sweep(now)
	}

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst),
		}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.Allow()
}

// sweep drops clients not seen within the TTL. Caller holds the lock.
func (l *Limiter) sweep(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.cfg.ClientTTL {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// Middleware returns a gin handler that rejects over-limit clients with
// 429. Clients are keyed by source IP.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMITED",
					"message": "too many requests",
				},
			})
			return
		}
		c.Next()
	}
}
