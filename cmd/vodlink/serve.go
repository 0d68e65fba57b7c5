// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ManuGH/vodlink/internal/daemon"
	xglog "github.com/ManuGH/vodlink/internal/log"
	"github.com/ManuGH/vodlink/internal/version"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.API.ListenAddr = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := daemon.Bootstrap(ctx, cfg, version.Version)
			if err != nil {
				return err
			}

			logger := xglog.WithComponent("daemon")
			logger.Info().
				Str("event", "daemon.start").
				Str("commit", version.Commit).
				Str("build_date", version.Date).
				Msg("starting vodlink")

			return app.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "override api.listen_addr")
	return cmd
}

// commandContext returns cmd's context, falling back to Background for direct calls.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
