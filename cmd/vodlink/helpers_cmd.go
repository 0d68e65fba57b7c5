// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuGH/vodlink/internal/cache"
	"github.com/ManuGH/vodlink/internal/daemon"
	"github.com/ManuGH/vodlink/internal/video"
)

func newCDNCmd(opts *rootOptions) *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:   "cdn [base-url] <url>",
		Short: "Rewrite a media URL onto a CDN mirror",
		Long: `Rewrite a media URL onto a CDN mirror. The mirror is either given as the
first argument or resolved from cdn.urls with --country. The original URL is printed
when no rewrite applies.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var base, original string
			if len(args) == 2 {
				base, original = args[0], args[1]
			} else {
				if country == "" {
					return fmt.Errorf("either a base URL argument or --country is required")
				}
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				base, original = video.CDNBaseURL(cfg.CDN.URLs, country), args[0]
			}

			out := original
			if rewritten, ok := video.RewriteCDN(base, original); ok {
				out = rewritten
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "ISO country code looked up in cdn.urls")
	return cmd
}

func newRefreshCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <media-id> <url>",
		Short: "Re-sign an expired hosting-service URL",
		Long: `Re-sign an expired hosting-service URL using jwplayer.host and jwplayer.secret.
The original URL is printed when it has not expired or the service declines.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			r := daemon.NewRefresher(cfg, cache.NopStore{}, nil)
			refreshed, err := r.Rewrite(commandContext(cmd), args[0], args[1])
			if err != nil {
				return err
			}
			out := args[1]
			if refreshed != "" {
				out = refreshed
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <url> <name> <value>",
		Short: "Set a query parameter on a URL",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := video.SetQueryParameter(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func newSpeedsCmd() *cobra.Command {
	var ids video.SpeedIDs

	cmd := &cobra.Command{
		Use:   "speeds",
		Short: "Encode YouTube ids per speed into the legacy speed-map string",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), video.CreateYouTubeString(ids))
			return err
		},
	}
	cmd.Flags().StringVar(&ids.Speed075, video.Speed075, "", "YouTube id at 0.75x")
	cmd.Flags().StringVar(&ids.Speed100, video.Speed100, "", "YouTube id at 1.00x")
	cmd.Flags().StringVar(&ids.Speed125, video.Speed125, "", "YouTube id at 1.25x")
	cmd.Flags().StringVar(&ids.Speed150, video.Speed150, "", "YouTube id at 1.50x")
	return cmd
}

func newPosterCmd(opts *rootOptions) *cobra.Command {
	var meta video.Meta

	cmd := &cobra.Command{
		Use:   "poster",
		Short: "Print poster metadata for a bumper video as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(daemon.VideoSettings(cfg).Poster(meta))
		},
	}
	cmd.Flags().BoolVar(&meta.Bumper, "bumper", true, "bumper enabled")
	cmd.Flags().StringVar(&meta.Streams, "streams", "", `YouTube speed map, e.g. "1.00:abc,1.50:def"`)
	return cmd
}
