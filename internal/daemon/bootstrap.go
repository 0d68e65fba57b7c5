// SPDX-License-Identifier: MIT

// Package daemon wires configuration into a running vodlink service.
package daemon

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ManuGH/vodlink/internal/api"
	"github.com/ManuGH/vodlink/internal/cache"
	"github.com/ManuGH/vodlink/internal/config"
	"github.com/ManuGH/vodlink/internal/health"
	"github.com/ManuGH/vodlink/internal/log"
	"github.com/ManuGH/vodlink/internal/ratelimit"
	"github.com/ManuGH/vodlink/internal/resilience"
	"github.com/ManuGH/vodlink/internal/telemetry"
	"github.com/ManuGH/vodlink/internal/video"
)

// VideoSettings projects the helper settings out of cfg.
func VideoSettings(cfg config.AppConfig) video.Settings {
	urls := make(map[string]string, len(cfg.CDN.URLs))
	for k, v := range cfg.CDN.URLs {
		urls[k] = v
	}
	return video.Settings{
		ImageAPI:       cfg.YouTube.ImageAPI,
		DefaultLogoURL: cfg.Poster.DefaultLogoURL,
		CDNURLs:        urls,
	}
}

// NewBreaker builds the circuit breaker guarding the video hosting service.
func NewBreaker(cfg config.AppConfig) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker("hosting_service", cfg.Refresh.BreakerThreshold, cfg.Refresh.BreakerReset)
}

// NewLimiter builds the outbound limiter for media lookups.
func NewLimiter(cfg config.AppConfig) *ratelimit.Limiter {
	lc := ratelimit.DefaultConfig()
	lc.Rate = rate.Limit(cfg.Refresh.UpstreamRPS)
	lc.Burst = cfg.Refresh.UpstreamBurst
	lc.KeyInterval = cfg.Refresh.MediaInterval
	return ratelimit.New(lc)
}

// NewRefresher builds the signed-URL refresher for cfg on top of store. A nil breaker
// is replaced by one built from cfg.
func NewRefresher(cfg config.AppConfig, store cache.Store, breaker *resilience.CircuitBreaker) *video.Refresher {
	if breaker == nil {
		breaker = NewBreaker(cfg)
	}
	return video.NewRefresher(video.RefresherConfig{
		Host:        cfg.JWPlayer.Host,
		Secret:      cfg.JWPlayer.Secret,
		Timeout:     cfg.JWPlayer.Timeout,
		CacheMargin: cfg.Refresh.CacheMargin,
		Cache:       store,
		Breaker:     breaker,
		Limiter:     NewLimiter(cfg),
	})
}

// Bootstrap validates cfg and builds every long-lived component. Resources acquired
// here are released by the returned App's manager on shutdown.
func Bootstrap(ctx context.Context, cfg config.AppConfig, version string) (*App, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	logger := log.WithComponent("daemon")

	tp, err := telemetry.NewProvider(ctx, cfg.Telemetry, version)
	if err != nil {
		logger.Warn().Err(err).Msg("Telemetry initialization failed, continuing without tracing")
		tp = nil
	}

	store, err := cache.New(ctx, cfg.Cache, log.WithComponent("cache"))
	if err != nil {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("init cache: %w", err)
	}

	tracing := ""
	if cfg.Telemetry.Enabled && tp != nil {
		tracing = cfg.Telemetry.ServiceName
	}

	breaker := NewBreaker(cfg)
	hm := health.NewManager(version)
	hm.RegisterChecker(health.NewBreakerChecker("hosting_service", breaker))
	if hc, ok := store.(healthChecker); ok {
		hm.RegisterChecker(health.NewFuncChecker("cache", true, hc.HealthCheck))
	}

	srv := api.New(api.Config{
		ListenAddr:     cfg.API.ListenAddr,
		Token:          cfg.API.Token,
		RateLimit:      cfg.API.RateLimit,
		TracingService: tracing,
		Version:        version,
		Health:         hm,
	}, VideoSettings(cfg), NewRefresher(cfg, store, breaker))

	mgr, err := NewManager(srv, cfg.API.ShutdownTimeout, logger)
	if err != nil {
		_ = store.Close()
		_ = tp.Shutdown(context.WithoutCancel(ctx))
		return nil, err
	}
	// LIFO: the cache closes before the tracer flushes.
	mgr.RegisterShutdownHook("telemetry", tp.Shutdown)
	mgr.RegisterShutdownHook("cache", func(context.Context) error { return store.Close() })

	logger.Info().
		Str("version", version).
		Str("listen", cfg.API.ListenAddr).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("tracing", tracing != "").
		Int("cdn_countries", len(cfg.CDN.URLs)).
		Msg("vodlink bootstrapped")

	return NewApp(logger, mgr, store, cfg.Cache.CleanupInterval), nil
}

// healthChecker is implemented by stores that depend on a remote backend.
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}
