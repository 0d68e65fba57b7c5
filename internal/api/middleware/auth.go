// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/vodlink/internal/audit"
	"github.com/ManuGH/vodlink/internal/auth"
	"github.com/ManuGH/vodlink/internal/log"
)

// RequireToken rejects requests that do not carry expected as a Bearer or
// X-API-Token credential. An empty expected token disables the check. Rejections
// are recorded on auditor, which may be nil.
func RequireToken(expected string, auditor *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if expected == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.AuthorizeRequest(r, expected) {
				if auth.ExtractToken(r) == "" {
					auditor.AuthMissing(r)
				} else {
					auditor.AuthFailure(r, "token mismatch")
				}

				logger := log.WithComponentFromContext(r.Context(), "auth")
				logger.Warn().
					Str(log.FieldEvent, "auth.denied").
					Str(log.FieldPath, r.URL.Path).
					Msg("rejected request without valid API token")

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", `Bearer realm="vodlink"`)
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":     "unauthorized",
					"detail":    "missing or invalid API token",
					"requestId": log.RequestIDFromContext(r.Context()),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
