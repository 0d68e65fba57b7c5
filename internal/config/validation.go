// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	pnet "github.com/ManuGH/vodlink/internal/platform/net"
	"github.com/ManuGH/vodlink/internal/validate"
)

// Validate checks business rules on a loaded AppConfig. Every problem is reported
// in one error wrapping ErrInvalidConfig and a validate.ValidationError.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.OneOf("log_level", strings.ToLower(cfg.LogLevel), validate.LogLevels())

	if _, ok := pnet.ParseDirectHTTPURL(cfg.JWPlayer.Host); !ok {
		v.AddError("jwplayer.host", "must be an http(s) URL without credentials or fragment", cfg.JWPlayer.Host)
	}
	v.DurationRange("jwplayer.timeout", cfg.JWPlayer.Timeout, 100*time.Millisecond, 2*time.Minute)

	v.Contains("youtube.image_api", cfg.YouTube.ImageAPI, "{youtube_id}")
	v.URL("poster.default_logo_url", cfg.Poster.DefaultLogoURL, []string{"http", "https"})

	countries := make([]string, 0, len(cfg.CDN.URLs))
	for c := range cfg.CDN.URLs {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	for _, c := range countries {
		field := fmt.Sprintf("cdn.urls.%s", c)
		if len(c) != 2 {
			v.AddError(field, "country code must have two letters", c)
		}
		v.URL(field, cfg.CDN.URLs[c], []string{"http", "https"})
	}

	v.DurationRange("refresh.cache_margin", cfg.Refresh.CacheMargin, 0, time.Hour)
	v.Range("refresh.breaker_threshold", cfg.Refresh.BreakerThreshold, 1, 100)
	v.DurationRange("refresh.breaker_reset", cfg.Refresh.BreakerReset, time.Second, time.Hour)
	v.Range("refresh.upstream_rps", cfg.Refresh.UpstreamRPS, 0, 10000)
	if cfg.Refresh.UpstreamRPS > 0 {
		v.Range("refresh.upstream_burst", cfg.Refresh.UpstreamBurst, 1, 10000)
	}
	v.DurationRange("refresh.media_interval", cfg.Refresh.MediaInterval, 0, time.Hour)

	v.OneOf("cache.backend", cfg.Cache.Backend, []string{"memory", "redis"})
	if cfg.Cache.Backend == "redis" {
		v.NotEmpty("cache.redis_addr", cfg.Cache.RedisAddr)
	}
	v.Range("cache.redis_db", cfg.Cache.RedisDB, 0, 15)

	v.ListenAddr("api.listen_addr", cfg.API.ListenAddr)
	v.Range("api.rate_limit", cfg.API.RateLimit, 1, 100000)
	v.DurationRange("api.shutdown_timeout", cfg.API.ShutdownTimeout, time.Second, 5*time.Minute)

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.NotEmpty("telemetry.service_name", cfg.Telemetry.ServiceName)
		v.Custom("telemetry.sampling_rate", cfg.Telemetry.SamplingRate, func(value any) error {
			if r := value.(float64); r < 0 || r > 1 {
				return fmt.Errorf("must be between 0 and 1, got %g", r)
			}
			return nil
		})
	}

	if err := v.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
