// SPDX-License-Identifier: MIT

// Package audit provides structured audit logging for security-sensitive operations.
// It follows the WHO/WHAT/WHEN pattern for compliance and forensics.
package audit

import (
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/vodlink/internal/log"
)

// EventType represents the type of audit event.
type EventType string

const (
	// Authentication events
	EventAuthFailure EventType = "auth.failure"
	EventAuthMissing EventType = "auth.missing"

	// API access events
	EventAPIRateLimit EventType = "api.ratelimit"

	// Signed URL events
	EventURLResigned    EventType = "media.resigned"
	EventURLResignError EventType = "media.resign.error"
)

// Event represents a structured audit event.
type Event struct {
	Timestamp  time.Time         `json:"timestamp"`
	Type       EventType         `json:"type"`
	Actor      string            `json:"actor"`             // WHO: client IP or "system"
	Action     string            `json:"action"`            // WHAT: human-readable action description
	Resource   string            `json:"resource"`          // Resource affected (endpoint or media id)
	Result     string            `json:"result"`            // success, failure, denied
	RemoteAddr string            `json:"remote_addr"`       // Client IP address
	UserAgent  string            `json:"user_agent"`        // Client user agent
	RequestID  string            `json:"request_id"`        // Correlation ID
	Details    map[string]string `json:"details,omitempty"` // Additional context
}

// Logger provides audit logging functionality. A nil *Logger discards events.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a new audit logger with a dedicated "audit" component.
func NewLogger() *Logger {
	return NewLoggerWith(log.WithComponent("audit"))
}

// NewLoggerWith tags base as the audit stream.
func NewLoggerWith(base zerolog.Logger) *Logger {
	return &Logger{
		logger: base.With().Str("log_type", "audit").Logger(),
	}
}

// Log writes an audit event to the audit log.
func (l *Logger) Log(event Event) {
	if l == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	logEvent := l.logger.Info().
		Time("timestamp", event.Timestamp).
		Str("event_type", string(event.Type)).
		Str("actor", event.Actor).
		Str("action", event.Action).
		Str("resource", event.Resource).
		Str("result", event.Result)

	if event.RemoteAddr != "" {
		logEvent.Str("remote_addr", event.RemoteAddr)
	}
	if event.UserAgent != "" {
		logEvent.Str("user_agent", event.UserAgent)
	}
	if event.RequestID != "" {
		logEvent.Str(log.FieldRequestID, event.RequestID)
	}

	// Add details as flattened fields
	for key, value := range event.Details {
		logEvent.Str(key, value)
	}

	logEvent.Msg("audit event")
}

// LogRequest fills the request metadata of event from r and logs it.
func (l *Logger) LogRequest(r *http.Request, event Event) {
	if l == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = log.RequestIDFromContext(r.Context())
	}
	if event.RemoteAddr == "" {
		event.RemoteAddr = clientIP(r)
	}
	if event.UserAgent == "" {
		event.UserAgent = r.UserAgent()
	}
	if event.Actor == "" {
		event.Actor = event.RemoteAddr
	}
	l.Log(event)
}

// AuthFailure logs a request carrying a wrong API token.
func (l *Logger) AuthFailure(r *http.Request, reason string) {
	l.LogRequest(r, Event{
		Type:     EventAuthFailure,
		Action:   "authentication failed",
		Resource: r.URL.Path,
		Result:   "failure",
		Details: map[string]string{
			"reason": reason,
		},
	})
}

// AuthMissing logs a request without authentication.
func (l *Logger) AuthMissing(r *http.Request) {
	l.LogRequest(r, Event{
		Type:     EventAuthMissing,
		Action:   "accessed endpoint without authentication",
		Resource: r.URL.Path,
		Result:   "denied",
	})
}

// RateLimitExceeded logs rate limit violations.
func (l *Logger) RateLimitExceeded(r *http.Request) {
	l.LogRequest(r, Event{
		Type:     EventAPIRateLimit,
		Action:   "rate limit exceeded",
		Resource: r.URL.Path,
		Result:   "denied",
	})
}

// URLResigned logs that a freshly signed playback URL was handed out for mediaID.
// The URL itself is never logged.
func (l *Logger) URLResigned(r *http.Request, mediaID string) {
	l.LogRequest(r, Event{
		Type:     EventURLResigned,
		Action:   "issued signed playback url",
		Resource: mediaID,
		Result:   "success",
	})
}

// URLResignError logs a failed attempt to re-sign mediaID.
func (l *Logger) URLResignError(r *http.Request, mediaID, reason string) {
	l.LogRequest(r, Event{
		Type:     EventURLResignError,
		Action:   "signed playback url refresh failed",
		Resource: mediaID,
		Result:   "failure",
		Details: map[string]string{
			"error": reason,
		},
	})
}

// clientIP strips the port from r.RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
