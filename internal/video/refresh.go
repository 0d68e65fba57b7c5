// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/ManuGH/vodlink/internal/auth"
	"github.com/ManuGH/vodlink/internal/cache"
	xglog "github.com/ManuGH/vodlink/internal/log"
	"github.com/ManuGH/vodlink/internal/metrics"
	"github.com/ManuGH/vodlink/internal/platform/httpx"
	"github.com/ManuGH/vodlink/internal/ratelimit"
	"github.com/ManuGH/vodlink/internal/resilience"
	"github.com/ManuGH/vodlink/internal/telemetry"
)

const (
	maxResponseBody = 1 << 20
	maxErrorBody    = 4 << 10
	defaultTimeout  = 5 * time.Second
	cacheKeyPrefix  = "refresh:"
)

// RefresherConfig configures a Refresher. Zero values select defaults.
type RefresherConfig struct {
	// Host is the hosting service base URL, e.g. https://content.jwplatform.com.
	Host string
	// Secret signs media lookup tokens.
	Secret string
	// Timeout bounds each shared lookup; it also configures the default client.
	Timeout time.Duration
	// CacheMargin is subtracted from the token lifetime when caching results.
	CacheMargin time.Duration

	Client  *http.Client
	Cache   cache.Store
	Breaker *resilience.CircuitBreaker
	// Limiter throttles lookups; nil means unlimited.
	Limiter *ratelimit.Limiter
	Now     func() time.Time
}

// Refresher re-signs expired hosting-service URLs.
type Refresher struct {
	host     string
	hostName string
	secret   []byte
	margin   time.Duration
	timeout  time.Duration
	client   *http.Client
	store    cache.Store
	breaker  *resilience.CircuitBreaker
	limiter  *ratelimit.Limiter
	now      func() time.Time
	group    singleflight.Group
	tracer   trace.Tracer
}

// NewRefresher builds a Refresher from cfg.
func NewRefresher(cfg RefresherConfig) *Refresher {
	r := &Refresher{
		host:    strings.TrimRight(strings.TrimSpace(cfg.Host), "/"),
		secret:  []byte(cfg.Secret),
		margin:  cfg.CacheMargin,
		timeout: cfg.Timeout,
		client:  cfg.Client,
		store:   cfg.Cache,
		breaker: cfg.Breaker,
		limiter: cfg.Limiter,
		now:     cfg.Now,
		tracer:  telemetry.Tracer("github.com/ManuGH/vodlink/internal/video"),
	}
	if u, err := url.Parse(r.host); err == nil {
		r.hostName = u.Host
	}
	if r.timeout <= 0 {
		r.timeout = defaultTimeout
	}
	if r.client == nil {
		r.client = httpx.NewClient(r.timeout)
	}
	if r.store == nil {
		r.store = cache.NopStore{}
	}
	if r.breaker == nil {
		r.breaker = resilience.NewCircuitBreaker("hosting_service", 5, 30*time.Second)
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Rewrite returns a freshly signed playback URL for mediaID when originalURL has expired.
//
// An empty result with a nil error means "keep originalURL": an input was empty, the
// URL has not expired yet, or the hosting service answered with a non-200 status.
// A URL whose expiration cannot be read is treated as expired.
// Errors report transport, decoding, signing, rate-limit or circuit-breaker failures; callers
// should fall back to originalURL on any error too.
func (r *Refresher) Rewrite(ctx context.Context, mediaID, originalURL string) (string, error) {
	if mediaID == "" || originalURL == "" {
		metrics.RecordRefresh(metrics.OutcomeSkipped)
		return "", nil
	}

	if exp, ok := ExpiryFromURL(originalURL); ok && exp-r.now().Unix() > 0 {
		metrics.RecordRefresh(metrics.OutcomeFresh)
		return "", nil
	}

	if cached, ok := r.store.Get(ctx, cacheKeyPrefix+mediaID); ok {
		metrics.RecordRefresh(metrics.OutcomeCacheHit)
		return cached, nil
	}

	// The lookup is shared by every caller waiting on mediaID, so it runs detached
	// from any single caller's cancellation and is bounded by the refresher timeout.
	ch := r.group.DoChan(mediaID, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		return r.refresh(lookupCtx, mediaID)
	})
	select {
	case <-ctx.Done():
		metrics.RecordRefresh(metrics.OutcomeCanceled)
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (r *Refresher) refresh(ctx context.Context, mediaID string) (string, error) {
	ctx, span := r.tracer.Start(ctx, "video.refresh",
		trace.WithAttributes(telemetry.MediaAttributes(mediaID, r.hostName)...))
	defer span.End()

	logger := xglog.WithComponentFromContext(ctx, "video").With().
		Str(xglog.FieldMediaID, mediaID).
		Str(xglog.FieldHost, r.hostName).
		Logger()

	fail := func(outcome string, err error) (string, error) {
		metrics.RecordRefresh(outcome)
		span.SetAttributes(telemetry.OutcomeAttributes(outcome, 0, 0)...)
		span.SetAttributes(telemetry.ErrorAttributes(outcome)...)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return "", err
	}

	if r.host == "" {
		return fail(metrics.OutcomeError, ErrMissingHost)
	}

	if err := r.limiter.Wait(ctx, mediaID); err != nil {
		return fail(metrics.OutcomeRateLimited, err)
	}

	now := r.now()
	token, claims, err := auth.SignMediaToken(r.secret, mediaID, now)
	if err != nil {
		return fail(metrics.OutcomeError, fmt.Errorf("sign media token: %w", err))
	}

	resp, status, err := r.lookup(ctx, claims.Resource, token)
	switch {
	case status != 0 && status != http.StatusOK:
		logger.Warn().
			Int(xglog.FieldStatus, status).
			Str(xglog.FieldPath, claims.Resource).
			Msg("hosting service rejected media lookup, keeping original url")
		metrics.RecordRefresh(metrics.OutcomeUpstreamStatus)
		span.SetAttributes(telemetry.OutcomeAttributes(metrics.OutcomeUpstreamStatus, status, 0)...)
		return "", nil
	case errors.Is(err, resilience.ErrCircuitOpen):
		return fail(metrics.OutcomeCircuitOpen, err)
	case err != nil:
		logger.Warn().Err(err).Msg("media lookup failed")
		return fail(metrics.OutcomeError, fmt.Errorf("media lookup %s: %w", mediaID, err))
	}

	best, ok := BestSource(resp.firstSources())
	if !ok {
		return fail(metrics.OutcomeNoSource, ErrNoPlayableSource)
	}

	if ttl := time.Unix(claims.Exp, 0).Sub(now) - r.margin; ttl > 0 {
		r.store.Set(ctx, cacheKeyPrefix+mediaID, best.File, ttl)
	}

	logger.Debug().
		Int(xglog.FieldWidth, *best.Width).
		Str(xglog.FieldURL, xglog.RedactURL(best.File)).
		Int64(xglog.FieldExpires, claims.Exp).
		Msg("refreshed signed media url")
	metrics.RecordRefresh(metrics.OutcomeRewritten)
	span.SetAttributes(telemetry.OutcomeAttributes(metrics.OutcomeRewritten, status, *best.Width)...)
	return best.File, nil
}

// lookup performs the media lookup through the circuit breaker. status is zero when
// no response was received. Only 5xx responses and transport or decode errors count
// as breaker failures.
func (r *Refresher) lookup(ctx context.Context, resource, token string) (*mediaResponse, int, error) {
	endpoint := r.host + resource + "?token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", redactTransportError(err))
	}
	req.Header.Set("Accept", "application/json")

	var (
		out    mediaResponse
		status int
	)
	start := time.Now()
	err = r.breaker.Execute(func() error {
		resp, err := r.client.Do(req)
		if err != nil {
			err = redactTransportError(err)
			if errors.Is(err, context.Canceled) {
				return resilience.Ignore(err)
			}
			return err
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		if status != http.StatusOK {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
			if status >= http.StatusInternalServerError {
				return &StatusError{Code: status}
			}
			return nil
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&out); err != nil {
			return fmt.Errorf("decode media response: %w", err)
		}
		return nil
	})

	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		metrics.ObserveUpstreamRequest(label, time.Since(start))
	}
	return &out, status, err
}

// redactTransportError strips the query, which carries the signed token, from the URL
// that net/http embeds in its errors.
func redactTransportError(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	return &url.Error{Op: ue.Op, URL: xglog.RedactURL(ue.URL), Err: ue.Err}
}
