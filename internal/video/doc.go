// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package video prepares playback URLs and poster metadata for the web player.
//
// Every helper signals "keep the original value" with an empty result instead of an
// error, so callers can fall back without branching on error types:
//
//   - RewriteCDN points a canonical URL at a regional mirror.
//   - Refresher.Rewrite re-signs expired hosting-service URLs.
//   - Settings.Poster builds poster metadata for bumper videos.
//   - CreateYouTubeString and ParseYouTubeStreams handle the legacy speed map.
//   - SetQueryParameter and FormatXMLExceptionMessage are small formatting helpers.
package video
