// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAreValid(t *testing.T) {
	cfg, err := NewLoader("", "test").Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	require.NoError(t, Validate(cfg))
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
jwplayer:
  secret: file-secret
  timeout: 2s
cdn:
  urls:
    cn: https://mirror.example.cn/edx
refresh:
  cache_margin: 90s
`)
	cfg, err := NewLoader(path, "test").Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "file-secret", cfg.JWPlayer.Secret)
	assert.Equal(t, 2*time.Second, cfg.JWPlayer.Timeout)
	assert.Equal(t, DefaultJWPlayerHost, cfg.JWPlayer.Host)
	assert.Equal(t, map[string]string{"CN": "https://mirror.example.cn/edx"}, cfg.CDN.URLs)
	assert.Equal(t, 90*time.Second, cfg.Refresh.CacheMargin)
	require.NoError(t, Validate(cfg))
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	path := writeConfig(t, "jwplayer:\n  sekret: typo\n")
	_, err := NewLoader(path, "test").Load()
	require.ErrorIs(t, err, ErrUnknownConfigField)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := NewLoader(writeConfig(t, "\n"), "test").Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml"), "test").Load()
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "jwplayer:\n  secret: file-secret\ncache:\n  backend: memory\n")
	t.Setenv("VODLINK_JWPLAYER_SECRET", "env-secret")
	t.Setenv("VODLINK_CDN_URLS", "cn=https://mirror.example.cn, RU=https://mirror.example.ru/v ,broken")
	t.Setenv("VODLINK_CACHE_BACKEND", "redis")
	t.Setenv("VODLINK_REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("VODLINK_API_RATE_LIMIT", "not-a-number")
	t.Setenv("VODLINK_TELEMETRY_SAMPLING_RATE", "0.25")

	l := NewLoader(path, "v9")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "v9", l.Version())
	assert.Equal(t, "env-secret", cfg.JWPlayer.Secret)
	assert.Equal(t, map[string]string{
		"CN": "https://mirror.example.cn",
		"RU": "https://mirror.example.ru/v",
	}, cfg.CDN.URLs)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "127.0.0.1:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, Defaults().API.RateLimit, cfg.API.RateLimit)
	assert.InDelta(t, 0.25, cfg.Telemetry.SamplingRate, 1e-9)
	assert.Contains(t, l.ConsumedEnvKeys, "VODLINK_JWPLAYER_SECRET")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "loud"
	cfg.JWPlayer.Host = "ftp://content.example.com"
	cfg.YouTube.ImageAPI = "https://img.youtube.com/vi/0.jpg"
	cfg.CDN.URLs = map[string]string{"CHN": "https://mirror.example.cn", "RU": "not a url"}
	cfg.Cache.Backend = "redis"
	cfg.API.ListenAddr = "8088"
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.SamplingRate = 2
	cfg.Refresh.UpstreamRPS = 5
	cfg.Refresh.UpstreamBurst = 0

	err := Validate(cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
	for _, field := range []string{
		"log_level",
		"jwplayer.host",
		"youtube.image_api",
		"cdn.urls.CHN",
		"cdn.urls.RU",
		"cache.redis_addr",
		"api.listen_addr",
		"refresh.upstream_burst",
		"telemetry.sampling_rate",
	} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestRedacted(t *testing.T) {
	cfg := Defaults()
	cfg.JWPlayer.Secret = "jw-secret"
	cfg.Cache.RedisPassword = "redis-pass"
	cfg.API.Token = "api-token"
	cfg.CDN.URLs = map[string]string{"CN": "https://mirror.example.cn"}

	red := cfg.Redacted()
	assert.Equal(t, maskedValue, red.JWPlayer.Secret)
	assert.Equal(t, maskedValue, red.Cache.RedisPassword)
	assert.Equal(t, maskedValue, red.API.Token)
	assert.Equal(t, "jw-secret", cfg.JWPlayer.Secret)

	red.CDN.URLs["RU"] = "https://mirror.example.ru"
	assert.NotContains(t, cfg.CDN.URLs, "RU")

	out, err := cfg.MarshalRedactedYAML()
	require.NoError(t, err)
	for _, secret := range []string{"jw-secret", "redis-pass", "api-token"} {
		assert.False(t, strings.Contains(string(out), secret), secret)
	}

	var back AppConfig
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, cfg.JWPlayer.Timeout, back.JWPlayer.Timeout)
	assert.Equal(t, cfg.CDN.URLs, back.CDN.URLs)
}

func TestParseCountryMap_Unset(t *testing.T) {
	_, ok := ParseCountryMap("VODLINK_TEST_UNSET_COUNTRY_MAP")
	assert.False(t, ok)
}
