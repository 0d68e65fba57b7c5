// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/vodlink/internal/cache"
)

// App owns the long-lived runtime lifecycle and delegates server management to Manager.
type App struct {
	logger        zerolog.Logger
	manager       Manager
	store         cache.Store
	statsInterval time.Duration
}

// NewApp creates a new App orchestrator. A positive statsInterval periodically logs
// cache statistics.
func NewApp(logger zerolog.Logger, manager Manager, store cache.Store, statsInterval time.Duration) *App {
	return &App{
		logger:        logger,
		manager:       manager,
		store:         store,
		statsInterval: statsInterval,
	}
}

// Run blocks until ctx is cancelled or the server fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, gctx := errgroup.WithContext(ctx)

	if a.store != nil && a.statsInterval > 0 {
		g.Go(func() error {
			a.reportCacheStats(gctx)
			return nil
		})
	}

	g.Go(func() error {
		return a.manager.Start(gctx)
	})

	return g.Wait()
}

func (a *App) reportCacheStats(ctx context.Context) {
	ticker := time.NewTicker(a.statsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := a.store.Stats()
			a.logger.Debug().
				Str("event", "cache.stats").
				Int64("hits", st.Hits).
				Int64("misses", st.Misses).
				Int64("sets", st.Sets).
				Int64("evictions", st.Evictions).
				Int("size", st.CurrentSize).
				Msg("refresh cache statistics")
		}
	}
}
