// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/ManuGH/vodlink/internal/config"
	"github.com/rs/zerolog"
)

// Closer is a Store that owns resources.
type Closer interface {
	Store
	io.Closer
}

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.CacheConfig, logger zerolog.Logger) (Closer, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(cfg.CleanupInterval), nil
	case "redis":
		return NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}
