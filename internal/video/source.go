// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

// Source is one rendition listed by the hosting service.
type Source struct {
	File   string `json:"file"`
	Type   string `json:"type,omitempty"`
	Label  string `json:"label,omitempty"`
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
}

type playlistItem struct {
	MediaID string   `json:"mediaid,omitempty"`
	Sources []Source `json:"sources"`
}

// mediaResponse is the subset of the media lookup response vodlink reads.
type mediaResponse struct {
	Playlist []playlistItem `json:"playlist"`
}

// BestSource picks the widest source that declares a width and a file. Sources without
// a width (adaptive manifests, audio) are ignored. Ties go to the lexically greater file.
func BestSource(sources []Source) (Source, bool) {
	var (
		best  Source
		found bool
	)
	for _, s := range sources {
		if s.Width == nil || s.File == "" {
			continue
		}
		if !found || *s.Width > *best.Width || (*s.Width == *best.Width && s.File > best.File) {
			best = s
			found = true
		}
	}
	return best, found
}

func (m *mediaResponse) firstSources() []Source {
	if m == nil || len(m.Playlist) == 0 {
		return nil
	}
	return m.Playlist[0].Sources
}
