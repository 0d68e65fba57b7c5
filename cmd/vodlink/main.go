// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// vodlink prepares playback URLs and poster metadata for web video players.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ManuGH/vodlink/internal/config"
	xglog "github.com/ManuGH/vodlink/internal/log"
	"github.com/ManuGH/vodlink/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// rootOptions holds persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "vodlink",
		Short: "Playback URL and poster helpers for web video players",
		Long: `vodlink rewrites media URLs to regional CDN mirrors, re-signs expired
hosting-service URLs, builds poster metadata and encodes legacy YouTube speed maps.

Run "vodlink serve" for the HTTP API or use the one-shot subcommands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (YAML)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "load VODLINK_* variables from a dotenv file; set variables win")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newCDNCmd(opts),
		newRefreshCmd(opts),
		newQueryCmd(),
		newSpeedsCmd(),
		newPosterCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

// loadConfig loads configuration with precedence ENV > file > defaults and
// configures the global logger from it. Logs go to stderr so command output stays clean.
func (o *rootOptions) loadConfig() (config.AppConfig, error) {
	xglog.Configure(xglog.Config{
		Level:   "warn",
		Output:  os.Stderr,
		Service: "vodlink",
		Version: version.Version,
	})

	if path := strings.TrimSpace(o.envFile); path != "" {
		if err := godotenv.Load(path); err != nil {
			return config.AppConfig{}, fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	cfg, err := config.NewLoader(strings.TrimSpace(o.configPath), version.Version).Load()
	if err != nil {
		return cfg, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	xglog.Reconfigure(xglog.Config{
		Level:   cfg.LogLevel,
		Output:  os.Stderr,
		Service: "vodlink",
		Version: version.Version,
	})
	return cfg, nil
}
