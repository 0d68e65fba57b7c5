// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/vodlink/internal/log"
)

// Error codes returned in the "error" field.
const (
	codeBadRequest  = "bad_request"
	codeUpstream    = "upstream_failure"
	codeUnavailable = "upstream_unavailable"
	codeRateLimited = "upstream_rate_limited"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem writes the error envelope, correlating it with the request id.
func writeProblem(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	writeJSON(w, status, errorBody{
		Error:     code,
		Detail:    detail,
		RequestID: log.RequestIDFromContext(r.Context()),
	})
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, detail string) {
	writeProblem(w, r, http.StatusBadRequest, codeBadRequest, detail)
}
