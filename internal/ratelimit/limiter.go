// SPDX-License-Identifier: MIT

// Package ratelimit throttles outbound calls to the video hosting service.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

// ErrLimited is returned when a per-key limit rejects a call.
var ErrLimited = errors.New("upstream rate limit exceeded")

var (
	rateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vodlink",
			Name:      "upstream_ratelimit_exceeded_total",
			Help:      "Total outbound calls rejected or cancelled by rate limits",
		},
		[]string{"limit_type"},
	)
)

// Config holds rate limiting configuration
type Config struct {
	// Global limits; a Rate <= 0 disables the global limit.
	Rate  rate.Limit // requests per second
	Burst int        // max burst size

	// KeyInterval is the minimum spacing between calls for one key; 0 disables it.
	KeyInterval time.Duration

	// Cleanup interval for per-key limiters
	CleanupInterval time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Rate:            20,
		Burst:           40,
		KeyInterval:     time.Second,
		CleanupInterval: 5 * time.Minute,
	}
}

// Limiter combines a blocking global limit with a non-blocking per-key limit.
// A nil *Limiter allows everything.
type Limiter struct {
	config Config

	global *rate.Limiter
	perKey map[string]*rate.Limiter
	mu     sync.Mutex

	lastCleanup time.Time
}

// New creates a new rate limiter with the given config
func New(config Config) *Limiter {
	global := rate.NewLimiter(rate.Inf, 0)
	if config.Rate > 0 {
		burst := config.Burst
		if burst < 1 {
			burst = 1
		}
		global = rate.NewLimiter(config.Rate, burst)
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	return &Limiter{
		config:      config,
		global:      global,
		perKey:      make(map[string]*rate.Limiter),
		lastCleanup: time.Now(),
	}
}

// Wait admits one call for key. The per-key limit is checked first and fails fast
// with ErrLimited; the global limit then blocks until a slot frees up or ctx ends.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	if l == nil {
		return nil
	}

	if !l.allowKey(key) {
		rateLimitExceeded.WithLabelValues("per_key").Inc()
		return fmt.Errorf("%w for %s", ErrLimited, key)
	}

	if err := l.global.Wait(ctx); err != nil {
		rateLimitExceeded.WithLabelValues("global").Inc()
		return fmt.Errorf("wait for upstream slot: %w", err)
	}
	return nil
}

// allowKey reports whether key may be called now.
func (l *Limiter) allowKey(key string) bool {
	if l.config.KeyInterval <= 0 || key == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeCleanupLocked()

	limiter, exists := l.perKey[key]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(l.config.KeyInterval), 1)
		l.perKey[key] = limiter
	}
	return limiter.Allow()
}

// maybeCleanupLocked drops every per-key limiter once the cleanup interval has passed.
func (l *Limiter) maybeCleanupLocked() {
	if time.Since(l.lastCleanup) < l.config.CleanupInterval {
		return
	}
	l.perKey = make(map[string]*rate.Limiter)
	l.lastCleanup = time.Now()
}

// Keys returns the number of tracked per-key limiters.
func (l *Limiter) Keys() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.perKey)
}
