// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/vodlink/internal/api/middleware"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

func (s *Server) routes() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics:  true,
		TracingService: s.cfg.TracingService,
	})

	r.Get("/healthz", s.cfg.Health.ServeHealth)
	r.Get("/readyz", s.cfg.Health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.APIRateLimit(s.cfg.RateLimit, s.audit))
		r.Use(middleware.RequireToken(s.cfg.Token, s.audit))

		r.Get("/cdn", s.handleCDN)
		r.Get("/refresh", s.handleRefresh)
		r.Post("/poster", s.handlePoster)
		r.Post("/youtube-string", s.handleYouTubeString)
		r.Get("/query", s.handleQuery)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, "not_found", "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed")
	})
	return r
}
