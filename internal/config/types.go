// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// AppConfig is the complete runtime configuration.
type AppConfig struct {
	LogLevel  string          `yaml:"log_level"`
	JWPlayer  JWPlayerConfig  `yaml:"jwplayer"`
	YouTube   YouTubeConfig   `yaml:"youtube"`
	Poster    PosterConfig    `yaml:"poster"`
	CDN       CDNConfig       `yaml:"cdn"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Cache     CacheConfig     `yaml:"cache"`
	API       APIConfig       `yaml:"api"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// JWPlayerConfig points at the video hosting service that re-signs expired media URLs.
type JWPlayerConfig struct {
	Host    string        `yaml:"host"`
	Secret  string        `yaml:"secret"`
	Timeout time.Duration `yaml:"timeout"`
}

// YouTubeConfig holds the thumbnail template; "{youtube_id}" is substituted.
type YouTubeConfig struct {
	ImageAPI string `yaml:"image_api"`
}

// PosterConfig holds the fallback poster image.
type PosterConfig struct {
	DefaultLogoURL string `yaml:"default_logo_url"`
}

// CDNConfig maps upper-case ISO country codes to mirror base URLs.
type CDNConfig struct {
	URLs map[string]string `yaml:"urls"`
}

// RefreshConfig tunes the signed-URL refresher.
type RefreshConfig struct {
	CacheMargin      time.Duration `yaml:"cache_margin"`
	BreakerThreshold int           `yaml:"breaker_threshold"`
	BreakerReset     time.Duration `yaml:"breaker_reset"`
	// UpstreamRPS caps media lookups per second; 0 disables the cap.
	UpstreamRPS   int           `yaml:"upstream_rps"`
	UpstreamBurst int           `yaml:"upstream_burst"`
	MediaInterval time.Duration `yaml:"media_interval"`
}

// CacheConfig selects where refreshed URLs are cached.
type CacheConfig struct {
	Backend         string        `yaml:"backend"` // memory|redis
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	RedisAddr       string        `yaml:"redis_addr"`
	RedisPassword   string        `yaml:"redis_password"`
	RedisDB         int           `yaml:"redis_db"`
}

// APIConfig configures the HTTP surface.
type APIConfig struct {
	ListenAddr      string        `yaml:"listen_addr"`
	Token           string        `yaml:"token"`
	RateLimit       int           `yaml:"rate_limit"` // requests per minute per IP
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ServiceName  string  `yaml:"service_name"`
	Environment  string  `yaml:"environment"`
	Exporter     string  `yaml:"exporter"` // grpc|http
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"sampling_rate"`
}
