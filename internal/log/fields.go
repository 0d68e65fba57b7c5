// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldMediaID   = "media_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldOutcome   = "outcome"

	// URL fields
	FieldURL     = "url"
	FieldBaseURL = "base_url"
	FieldHost    = "host"
	FieldPath    = "path"
	FieldCountry = "country"

	// Upstream fields
	FieldStatus   = "status"
	FieldWidth    = "width"
	FieldExpires  = "expires_at"
	FieldDuration = "duration_ms"
)
