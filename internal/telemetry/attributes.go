// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	MediaIDKey        = "media.id"
	MediaOutcomeKey   = "media.outcome"
	MediaWidthKey     = "media.width"
	UpstreamHostKey   = "upstream.host"
	UpstreamStatusKey = "upstream.status_code"
	ErrorTypeKey      = "error.type"
)

// MediaAttributes creates refresh span attributes. Empty values are omitted.
func MediaAttributes(mediaID, host string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if mediaID != "" {
		attrs = append(attrs, attribute.String(MediaIDKey, mediaID))
	}
	if host != "" {
		attrs = append(attrs, attribute.String(UpstreamHostKey, host))
	}
	return attrs
}

// OutcomeAttributes records how a refresh ended.
func OutcomeAttributes(outcome string, status, width int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(MediaOutcomeKey, outcome)}
	if status != 0 {
		attrs = append(attrs, attribute.Int(UpstreamStatusKey, status))
	}
	if width != 0 {
		attrs = append(attrs, attribute.Int(MediaWidthKey, width))
	}
	return attrs
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ErrorTypeKey, errorType),
	}
}
