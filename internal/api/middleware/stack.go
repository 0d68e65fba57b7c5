// SPDX-License-Identifier: MIT

// Package middleware holds the HTTP ingress middleware shared by every vodlink route.
package middleware

import (
	"github.com/go-chi/chi/v5"
)

// StackConfig configures the canonical ingress middleware stack.
type StackConfig struct {
	// Observability
	EnableMetrics  bool
	TracingService string // empty disables tracing
}

// NewRouter constructs a chi router with the canonical middleware stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the canonical middleware stack to r. Rate limiting and token
// checks are route-group specific and applied by the caller.
func ApplyStack(r chi.Router, cfg StackConfig) {
	// 1. RequestID first so a recovered panic can be correlated
	r.Use(RequestID)
	// 2. Recoverer
	r.Use(Recoverer)
	// 3. Metrics
	if cfg.EnableMetrics {
		r.Use(Metrics())
	}
	// 4. Tracing
	if cfg.TracingService != "" {
		r.Use(OTelHTTP(cfg.TracingService))
	}
}
