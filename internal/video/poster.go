// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import (
	"strings"

	"github.com/ManuGH/vodlink/internal/metrics"
)

// Poster types.
const (
	PosterYouTube = "youtube"
	PosterHTML5   = "html5"
)

// YouTubeIDPlaceholder is substituted in Settings.ImageAPI.
const YouTubeIDPlaceholder = "{youtube_id}"

// Poster is the image shown before a bumper video starts.
type Poster struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// BumperVideo is the view of a video that poster building needs.
type BumperVideo interface {
	BumperEnabled() bool
	// YouTubeStreams returns the encoded speed map, e.g. "1.00:abc,1.50:def".
	YouTubeStreams() string
}

// Meta is a plain BumperVideo.
type Meta struct {
	Bumper  bool   `json:"bumper_enabled"`
	Streams string `json:"youtube_streams"`
}

func (v Meta) BumperEnabled() bool    { return v.Bumper }
func (v Meta) YouTubeStreams() string { return v.Streams }

// Poster builds poster metadata for v, or returns nil when the bumper is disabled.
// A 1.00x YouTube id selects the YouTube thumbnail; otherwise the default logo is used.
func (s Settings) Poster(v BumperVideo) *Poster {
	if v == nil || !v.BumperEnabled() {
		metrics.RecordPoster("none")
		return nil
	}

	if id := ParseYouTubeStreams(v.YouTubeStreams()).Speed100; id != "" {
		metrics.RecordPoster(PosterYouTube)
		return &Poster{
			URL:  strings.ReplaceAll(s.ImageAPI, YouTubeIDPlaceholder, id),
			Type: PosterYouTube,
		}
	}

	metrics.RecordPoster(PosterHTML5)
	return &Poster{URL: s.DefaultLogoURL, Type: PosterHTML5}
}
