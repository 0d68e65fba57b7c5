// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/vodlink/internal/health"
	"github.com/ManuGH/vodlink/internal/ratelimit"
	"github.com/ManuGH/vodlink/internal/resilience"
	"github.com/ManuGH/vodlink/internal/video"
)

type fakeRefresher struct {
	url string
	err error
}

func (f fakeRefresher) Rewrite(context.Context, string, string) (string, error) {
	return f.url, f.err
}

func testSettings() video.Settings {
	return video.Settings{
		ImageAPI:       "https://img.youtube.com/vi/{youtube_id}/0.jpg",
		DefaultLogoURL: "https://www.edx.org/sites/default/files/theme/edx-logo-header.png",
		CDNURLs:        map[string]string{"CN": "https://mirror.example.cn/edx"},
	}
}

func newTestServer(t *testing.T, cfg Config, refresher Refresher) http.Handler {
	t.Helper()
	return New(cfg, testSettings(), refresher).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, Config{Version: "v1.2.3"}, nil)
	w := do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[health.HealthResponse](t, w)
	assert.Equal(t, health.StatusHealthy, body.Status)
	assert.Equal(t, "v1.2.3", body.Version)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestReadyz(t *testing.T) {
	h := newTestServer(t, Config{}, nil)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/readyz", "").Code)

	hm := health.NewManager("test")
	hm.RegisterChecker(health.NewFuncChecker("cache", true, func(context.Context) error { return errors.New("redis down") }))
	h = newTestServer(t, Config{Health: hm}, nil)
	w := do(t, h, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode[health.ReadinessResponse](t, w)
	assert.False(t, body.Ready)
	assert.Equal(t, "redis down", body.Checks["cache"].Error)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, Config{}, nil)
	_ = do(t, h, http.MethodGet, "/healthz", "")
	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vodlink_http_request_duration_seconds")
}

func TestCDN(t *testing.T) {
	h := newTestServer(t, Config{}, nil)
	original := "https://cdn.example.com/VIDEO101/001.mp4"

	w := do(t, h, http.MethodGet, "/api/v1/cdn?country=cn&url="+url.QueryEscape(original), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, rewriteResponse{URL: "https://mirror.example.cn/edx/VIDEO101/001.mp4", Rewritten: true},
		decode[rewriteResponse](t, w))

	w = do(t, h, http.MethodGet, "/api/v1/cdn?base="+url.QueryEscape("http://10.1.2.3/m")+"&url="+url.QueryEscape(original), "")
	assert.Equal(t, "http://10.1.2.3/m/VIDEO101/001.mp4", decode[rewriteResponse](t, w).URL)

	w = do(t, h, http.MethodGet, "/api/v1/cdn?country=DE&url="+url.QueryEscape(original), "")
	assert.Equal(t, rewriteResponse{URL: original}, decode[rewriteResponse](t, w))

	w = do(t, h, http.MethodGet, "/api/v1/cdn", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, codeBadRequest, decode[errorBody](t, w).Error)
}

func TestRefresh(t *testing.T) {
	expired := url.QueryEscape("https://cdn.example.com/v.mp4?exp=1")

	h := newTestServer(t, Config{}, fakeRefresher{url: "https://cdn.example.com/new.mp4"})
	w := do(t, h, http.MethodGet, "/api/v1/refresh?media_id=abc&url="+expired, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, rewriteResponse{URL: "https://cdn.example.com/new.mp4", Rewritten: true},
		decode[rewriteResponse](t, w))

	h = newTestServer(t, Config{}, fakeRefresher{})
	w = do(t, h, http.MethodGet, "/api/v1/refresh?media_id=abc&url="+expired, "")
	assert.Equal(t, rewriteResponse{URL: "https://cdn.example.com/v.mp4?exp=1"}, decode[rewriteResponse](t, w))

	h = newTestServer(t, Config{}, fakeRefresher{err: fmt.Errorf("media lookup: %w", errors.New("dial tcp: refused"))})
	w = do(t, h, http.MethodGet, "/api/v1/refresh?media_id=abc&url="+expired, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, codeUpstream, body.Error)
	assert.NotContains(t, body.Detail, "dial tcp")

	h = newTestServer(t, Config{}, fakeRefresher{err: resilience.ErrCircuitOpen})
	w = do(t, h, http.MethodGet, "/api/v1/refresh?media_id=abc&url="+expired, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	h = newTestServer(t, Config{}, fakeRefresher{err: fmt.Errorf("%w for abc", ratelimit.ErrLimited)})
	w = do(t, h, http.MethodGet, "/api/v1/refresh?media_id=abc&url="+expired, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, codeRateLimited, decode[errorBody](t, w).Error)

	w = do(t, h, http.MethodGet, "/api/v1/refresh?url="+expired, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPoster(t *testing.T) {
	h := newTestServer(t, Config{}, nil)

	w := do(t, h, http.MethodPost, "/api/v1/poster", `{"bumper_enabled":true,"youtube_streams":"1.00:abc"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"url":"https://img.youtube.com/vi/abc/0.jpg","type":"youtube"}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/v1/poster", `{"bumper_enabled":false}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/poster", `{"bumper":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestYouTubeString(t *testing.T) {
	h := newTestServer(t, Config{}, nil)
	w := do(t, h, http.MethodPost, "/api/v1/youtube-string", `{"1.00":"OEoXaMPEzfM","1.50":"rABDYkeK0x8"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1.00:OEoXaMPEzfM,1.50:rABDYkeK0x8", decode[map[string]string](t, w)["value"])
}

func TestQuery(t *testing.T) {
	h := newTestServer(t, Config{}, nil)

	w := do(t, h, http.MethodGet, "/api/v1/query?name=x&value=2&url="+url.QueryEscape("http://example.com/p?x=1"), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://example.com/p?x=2", decode[map[string]string](t, w)["url"])

	w = do(t, h, http.MethodGet, "/api/v1/query?name=x&value=2&url="+url.QueryEscape("http://[::1"), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenAndRateLimit(t *testing.T) {
	h := newTestServer(t, Config{Token: "s3cret", RateLimit: 2}, nil)

	w := do(t, h, http.MethodGet, "/api/v1/query?name=a&value=b&url=http://example.com", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/query?name=a&value=b&url=http://example.com", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The unauthorised attempt above consumed one slot too.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestNotFound(t *testing.T) {
	h := newTestServer(t, Config{}, nil)
	w := do(t, h, http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode[errorBody](t, w).Error)
}

func TestServer_StartShutdown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(Config{}, testSettings(), nil)
	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	base := "http://" + ln.Addr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	require.NoError(t, <-done)
	http.DefaultClient.CloseIdleConnections()
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	s := New(Config{}, testSettings(), nil)
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestRefresh_UnreachableHostDoesNotLeakToken(t *testing.T) {
	refresher := video.NewRefresher(video.RefresherConfig{
		Host:    "http://127.0.0.1:1",
		Secret:  "jw-secret",
		Timeout: 2 * time.Second,
	})
	h := newTestServer(t, Config{}, refresher)

	expired := url.QueryEscape("https://cdn.example.com/v.mp4?exp=1")
	w := do(t, h, http.MethodGet, "/api/v1/refresh?media_id=AbC123xy&url="+expired, "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "token=")
	assert.NotContains(t, w.Body.String(), "127.0.0.1:1")
}
