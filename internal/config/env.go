// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/vodlink/internal/log"
	"github.com/rs/zerolog"
)

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, kw := range []string{"token", "password", "secret"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ParseString reads a string from environment variable or returns default value.
// It logs the source (environment or default) for observability.
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	switch {
	case !exists:
		return defaultValue
	case value == "":
		logger.Debug().
			Str("key", key).
			Str("source", "default").
			Msg("using default value (environment variable is empty)")
		return defaultValue
	case isSensitiveKey(key):
		// For sensitive vars, just log that it was set
		logger.Debug().
			Str("key", key).
			Str("source", "environment").
			Bool("sensitive", true).
			Msg("using environment variable")
	default:
		logger.Debug().
			Str("key", key).
			Str("value", value).
			Str("source", "environment").
			Msg("using environment variable")
	}
	return value
}

// ParseInt reads an integer from environment variable or returns default value.
// It validates the input and falls back to default on parse errors.
func ParseInt(key string, defaultValue int) int {
	v, ok := lookupNonEmpty(key)
	if !ok {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		warnInvalid(key, v, err)
		return defaultValue
	}
	return i
}

// ParseBool reads a boolean from environment variable or returns default value.
func ParseBool(key string, defaultValue bool) bool {
	v, ok := lookupNonEmpty(key)
	if !ok {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		warnInvalid(key, v, err)
		return defaultValue
	}
	return b
}

// ParseDuration reads a Go duration string from environment variable or returns default value.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	v, ok := lookupNonEmpty(key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		warnInvalid(key, v, err)
		return defaultValue
	}
	return d
}

// ParseFloat reads a float from environment variable or returns default value.
func ParseFloat(key string, defaultValue float64) float64 {
	v, ok := lookupNonEmpty(key)
	if !ok {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		warnInvalid(key, v, err)
		return defaultValue
	}
	return f
}

// ParseCountryMap reads "CN=https://a,RU=https://b" into a map keyed by upper-case country code.
// Returns nil, false when the variable is unset or empty.
func ParseCountryMap(key string) (map[string]string, bool) {
	v, ok := lookupNonEmpty(key)
	if !ok {
		return nil, false
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(v, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		country, base, found := strings.Cut(pair, "=")
		if !found {
			warnInvalid(key, pair, nil)
			continue
		}
		out[strings.ToUpper(strings.TrimSpace(country))] = strings.TrimSpace(base)
	}
	return out, true
}

func lookupNonEmpty(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func warnInvalid(key, value string, err error) {
	logger := log.WithComponent("config")
	ev := logger.Warn().Str("key", key)
	if !isSensitiveKey(key) {
		ev = ev.Str("value", value)
	}
	ev.AnErr("error", err).Msg("invalid environment value, using default")
}
