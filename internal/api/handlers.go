// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ManuGH/vodlink/internal/log"
	"github.com/ManuGH/vodlink/internal/ratelimit"
	"github.com/ManuGH/vodlink/internal/resilience"
	"github.com/ManuGH/vodlink/internal/video"
)

// rewriteResponse reports the URL a player should use. URL is the original when
// Rewritten is false.
type rewriteResponse struct {
	URL       string `json:"url"`
	Rewritten bool   `json:"rewritten"`
}

// handleCDN rewrites ?url= to the mirror given by ?base= or, failing that, ?country=.
func (s *Server) handleCDN(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	original := q.Get("url")
	if original == "" {
		writeBadRequest(w, r, "url is required")
		return
	}

	base := q.Get("base")
	if base == "" {
		base = video.CDNBaseURL(s.settings.CDNURLs, q.Get("country"))
	}

	resp := rewriteResponse{URL: original}
	if rewritten, ok := video.RewriteCDN(base, original); ok {
		resp = rewriteResponse{URL: rewritten, Rewritten: true}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mediaID, original := q.Get("media_id"), q.Get("url")
	if mediaID == "" || original == "" {
		writeBadRequest(w, r, "media_id and url are required")
		return
	}

	resp := rewriteResponse{URL: original}
	if s.refresher == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	refreshed, err := s.refresher.Rewrite(r.Context(), mediaID, original)
	if err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Warn().
			Err(err).
			Str(log.FieldMediaID, mediaID).
			Msg("signed url refresh failed")
		s.audit.URLResignError(r, mediaID, err.Error())

		// Upstream error text stays in the logs; clients get a fixed detail per code.
		status, code, detail := http.StatusBadGateway, codeUpstream, "hosting service lookup failed"
		switch {
		case errors.Is(err, resilience.ErrCircuitOpen):
			status, code, detail = http.StatusServiceUnavailable, codeUnavailable, "hosting service temporarily unavailable"
		case errors.Is(err, ratelimit.ErrLimited):
			status, code, detail = http.StatusTooManyRequests, codeRateLimited, "media lookups are being throttled"
		}
		writeProblem(w, r, status, code, detail)
		return
	}
	if refreshed != "" {
		s.audit.URLResigned(r, mediaID)
		resp = rewriteResponse{URL: refreshed, Rewritten: true}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePoster(w http.ResponseWriter, r *http.Request) {
	var meta video.Meta
	if !decodeJSON(w, r, &meta) {
		return
	}
	poster := s.settings.Poster(meta)
	if poster == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, poster)
}

func (s *Server) handleYouTubeString(w http.ResponseWriter, r *http.Request) {
	var ids video.SpeedIDs
	if !decodeJSON(w, r, &ids) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"value": video.CreateYouTubeString(ids)})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw, name := q.Get("url"), q.Get("name")
	if raw == "" || name == "" {
		writeBadRequest(w, r, "url and name are required")
		return
	}
	out, err := video.SetQueryParameter(raw, name, q.Get("value"))
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": out})
}

// decodeJSON decodes a bounded JSON body into v, rejecting unknown fields. It writes
// the 400 response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeBadRequest(w, r, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
