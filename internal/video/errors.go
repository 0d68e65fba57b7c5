// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPlayableSource means the hosting service answered but listed no source with a width.
	ErrNoPlayableSource = errors.New("no playable source in media response")
	// ErrMissingHost means the refresher has no hosting-service base URL.
	ErrMissingHost = errors.New("hosting service host missing")
)

// StatusError reports a non-success response from the hosting service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hosting service returned status %d", e.Code)
}

// FormatXMLExceptionMessage builds the diagnostic reported when a block attribute
// cannot be parsed.
func FormatXMLExceptionMessage(location any, key, value string) string {
	return fmt.Sprintf("Block-location:%v, Key:%s, Value:%s", location, key, value)
}
