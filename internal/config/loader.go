// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable the loader consumes.
const EnvPrefix = "VODLINK_"

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // Mechanical tracking of consumed keys
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Version returns the build version the loader was created with.
func (l *Loader) Version() string { return l.version }

// Load loads configuration with precedence: ENV > File > Defaults.
// It does not call Validate; callers decide when to enforce it.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.mergeFile(&cfg, l.configPath); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnv(&cfg)
	cfg.CDN.URLs = normalizeCountryKeys(cfg.CDN.URLs)
	return cfg, nil
}

func (l *Loader) mergeFile(cfg *AppConfig, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	return decodeStrict(data, cfg)
}

// decodeStrict decodes YAML on top of cfg, rejecting unknown fields.
func decodeStrict(data []byte, cfg *AppConfig) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func (l *Loader) mergeEnv(cfg *AppConfig) {
	cfg.LogLevel = l.envString("LOG_LEVEL", cfg.LogLevel)

	cfg.JWPlayer.Host = l.envString("JWPLAYER_HOST", cfg.JWPlayer.Host)
	cfg.JWPlayer.Secret = l.envString("JWPLAYER_SECRET", cfg.JWPlayer.Secret)
	cfg.JWPlayer.Timeout = l.envDuration("JWPLAYER_TIMEOUT", cfg.JWPlayer.Timeout)

	cfg.YouTube.ImageAPI = l.envString("YOUTUBE_IMAGE_API", cfg.YouTube.ImageAPI)
	cfg.Poster.DefaultLogoURL = l.envString("POSTER_DEFAULT_LOGO_URL", cfg.Poster.DefaultLogoURL)

	if urls, ok := l.envCountryMap("CDN_URLS"); ok {
		cfg.CDN.URLs = urls
	}

	cfg.Refresh.CacheMargin = l.envDuration("REFRESH_CACHE_MARGIN", cfg.Refresh.CacheMargin)
	cfg.Refresh.BreakerThreshold = l.envInt("REFRESH_BREAKER_THRESHOLD", cfg.Refresh.BreakerThreshold)
	cfg.Refresh.BreakerReset = l.envDuration("REFRESH_BREAKER_RESET", cfg.Refresh.BreakerReset)
	cfg.Refresh.UpstreamRPS = l.envInt("REFRESH_UPSTREAM_RPS", cfg.Refresh.UpstreamRPS)
	cfg.Refresh.UpstreamBurst = l.envInt("REFRESH_UPSTREAM_BURST", cfg.Refresh.UpstreamBurst)
	cfg.Refresh.MediaInterval = l.envDuration("REFRESH_MEDIA_INTERVAL", cfg.Refresh.MediaInterval)

	cfg.Cache.Backend = l.envString("CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.CleanupInterval = l.envDuration("CACHE_CLEANUP_INTERVAL", cfg.Cache.CleanupInterval)
	cfg.Cache.RedisAddr = l.envString("REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.RedisPassword = l.envString("REDIS_PASSWORD", cfg.Cache.RedisPassword)
	cfg.Cache.RedisDB = l.envInt("REDIS_DB", cfg.Cache.RedisDB)

	cfg.API.ListenAddr = l.envString("API_LISTEN_ADDR", cfg.API.ListenAddr)
	cfg.API.Token = l.envString("API_TOKEN", cfg.API.Token)
	cfg.API.RateLimit = l.envInt("API_RATE_LIMIT", cfg.API.RateLimit)
	cfg.API.ShutdownTimeout = l.envDuration("API_SHUTDOWN_TIMEOUT", cfg.API.ShutdownTimeout)

	cfg.Telemetry.Enabled = l.envBool("TELEMETRY_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.ServiceName = l.envString("TELEMETRY_SERVICE_NAME", cfg.Telemetry.ServiceName)
	cfg.Telemetry.Environment = l.envString("TELEMETRY_ENVIRONMENT", cfg.Telemetry.Environment)
	cfg.Telemetry.Exporter = l.envString("TELEMETRY_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString("TELEMETRY_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat("TELEMETRY_SAMPLING_RATE", cfg.Telemetry.SamplingRate)
}

// Wrapper methods for mechanical tracking of consumed keys

func (l *Loader) track(key string) string {
	full := EnvPrefix + key
	l.ConsumedEnvKeys[full] = struct{}{}
	return full
}

func (l *Loader) envString(key, defaultVal string) string {
	return ParseString(l.track(key), defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	return ParseBool(l.track(key), defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	return ParseInt(l.track(key), defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	return ParseDuration(l.track(key), defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	return ParseFloat(l.track(key), defaultVal)
}

func (l *Loader) envCountryMap(key string) (map[string]string, bool) {
	return ParseCountryMap(l.track(key))
}

func normalizeCountryKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return out
}
