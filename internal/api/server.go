// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api exposes the playback URL helpers over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/vodlink/internal/audit"
	"github.com/ManuGH/vodlink/internal/health"
	"github.com/ManuGH/vodlink/internal/log"
	"github.com/ManuGH/vodlink/internal/video"
)

// Refresher re-signs expired media URLs; *video.Refresher implements it.
type Refresher interface {
	Rewrite(ctx context.Context, mediaID, originalURL string) (string, error)
}

// Config configures the HTTP surface.
type Config struct {
	ListenAddr string
	// Token, when set, is required on every /api route.
	Token string
	// RateLimit is requests per minute per client IP on /api routes; 0 disables it.
	RateLimit int
	// TracingService names server spans; empty disables HTTP tracing.
	TracingService string
	Version        string
	// Health backs /healthz and /readyz; nil means no component checks.
	Health *health.Manager
}

// Server serves the vodlink API.
type Server struct {
	cfg       Config
	settings  video.Settings
	refresher Refresher
	audit     *audit.Logger
	logger    zerolog.Logger
	handler   http.Handler

	mu      sync.Mutex
	httpSrv *http.Server
}

// New builds a Server. refresher may be nil, in which case /api/v1/refresh never rewrites.
func New(cfg Config, settings video.Settings, refresher Refresher) *Server {
	if cfg.Health == nil {
		cfg.Health = health.NewManager(cfg.Version)
	}
	s := &Server{
		cfg:       cfg,
		settings:  settings,
		refresher: refresher,
		audit:     audit.NewLogger(),
		logger:    log.WithComponent("api"),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler { return s.handler }

// Start listens on cfg.ListenAddr and serves until Shutdown. It returns nil after
// a graceful shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ln)
}

// Serve serves on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()

	s.logger.Info().
		Str(log.FieldEvent, "api.listening").
		Str("addr", ln.Addr().String()).
		Msg("API server listening (HTTP)")

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("API server (HTTP): %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server. Calling it before Start is a no-op.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpSrv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info().Str(log.FieldEvent, "api.shutdown").Msg("shutting down API server")
	return srv.Shutdown(ctx)
}
