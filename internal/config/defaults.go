// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

const (
	DefaultJWPlayerHost   = "https://content.jwplatform.com"
	DefaultImageAPI       = "https://img.youtube.com/vi/{youtube_id}/0.jpg"
	DefaultLogoURL        = "https://www.edx.org/sites/default/files/theme/edx-logo-header.png"
	DefaultListenAddr     = ":8088"
	DefaultCacheBackend   = "memory"
	DefaultRequestTimeout = 5 * time.Second
)

// Defaults returns a configuration populated with every default value.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel: "info",
		JWPlayer: JWPlayerConfig{
			Host:    DefaultJWPlayerHost,
			Timeout: DefaultRequestTimeout,
		},
		YouTube: YouTubeConfig{ImageAPI: DefaultImageAPI},
		Poster:  PosterConfig{DefaultLogoURL: DefaultLogoURL},
		CDN:     CDNConfig{URLs: map[string]string{}},
		Refresh: RefreshConfig{
			CacheMargin:      time.Minute,
			BreakerThreshold: 5,
			BreakerReset:     30 * time.Second,
			UpstreamRPS:      20,
			UpstreamBurst:    40,
			MediaInterval:    time.Second,
		},
		Cache: CacheConfig{
			Backend:         DefaultCacheBackend,
			CleanupInterval: time.Minute,
		},
		API: APIConfig{
			ListenAddr:      DefaultListenAddr,
			RateLimit:       600,
			ShutdownTimeout: 10 * time.Second,
		},
		Telemetry: TelemetryConfig{
			ServiceName:  "vodlink",
			Environment:  "production",
			Exporter:     "http",
			Endpoint:     "localhost:4318",
			SamplingRate: 1.0,
		},
	}
}
