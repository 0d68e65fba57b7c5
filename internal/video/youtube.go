// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import "strings"

// Playback speeds in legacy speed-map order.
const (
	Speed075 = "0.75"
	Speed100 = "1.00"
	Speed125 = "1.25"
	Speed150 = "1.50"
)

// SpeedIDs holds one YouTube id per playback speed. Empty ids mean "not available".
type SpeedIDs struct {
	Speed075 string `json:"0.75,omitempty"`
	Speed100 string `json:"1.00,omitempty"`
	Speed125 string `json:"1.25,omitempty"`
	Speed150 string `json:"1.50,omitempty"`
}

func (s SpeedIDs) pairs() [4][2]string {
	return [4][2]string{
		{Speed075, s.Speed075},
		{Speed100, s.Speed100},
		{Speed125, s.Speed125},
		{Speed150, s.Speed150},
	}
}

// CreateYouTubeString serialises ids as "0.75:id,1.00:id,..." in fixed speed order,
// skipping speeds without an id. It is the legacy XML course format.
func CreateYouTubeString(ids SpeedIDs) string {
	parts := make([]string, 0, 4)
	for _, p := range ids.pairs() {
		if p[1] != "" {
			parts = append(parts, p[0]+":"+p[1])
		}
	}
	return strings.Join(parts, ",")
}

// ParseYouTubeStreams is the inverse of CreateYouTubeString. Whitespace around entries
// is ignored, as are unknown speeds and entries without an id. Speeds written without
// the trailing zero ("1.0", "1.5") are accepted.
func ParseYouTubeStreams(s string) SpeedIDs {
	var ids SpeedIDs
	for _, entry := range strings.Split(s, ",") {
		speed, id, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok {
			continue
		}
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		switch normalizeSpeed(strings.TrimSpace(speed)) {
		case Speed075:
			ids.Speed075 = id
		case Speed100:
			ids.Speed100 = id
		case Speed125:
			ids.Speed125 = id
		case Speed150:
			ids.Speed150 = id
		}
	}
	return ids
}

func normalizeSpeed(speed string) string {
	switch speed {
	case "1", "1.0":
		return Speed100
	case "1.5":
		return Speed150
	}
	return speed
}
