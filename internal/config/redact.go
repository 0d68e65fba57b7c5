// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"maps"

	"gopkg.in/yaml.v3"
)

const maskedValue = "***"

// Redacted returns a copy of cfg with every secret replaced by a mask.
func (cfg AppConfig) Redacted() AppConfig {
	out := cfg
	out.CDN.URLs = maps.Clone(cfg.CDN.URLs)
	if out.JWPlayer.Secret != "" {
		out.JWPlayer.Secret = maskedValue
	}
	if out.Cache.RedisPassword != "" {
		out.Cache.RedisPassword = maskedValue
	}
	if out.API.Token != "" {
		out.API.Token = maskedValue
	}
	return out
}

// MarshalRedactedYAML renders the effective configuration without secrets.
func (cfg AppConfig) MarshalRedactedYAML() ([]byte, error) {
	return yaml.Marshal(cfg.Redacted())
}
