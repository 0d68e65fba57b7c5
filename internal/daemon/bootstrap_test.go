// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/vodlink/internal/config"
)

func TestVideoSettings(t *testing.T) {
	cfg := config.Defaults()
	cfg.CDN.URLs = map[string]string{"CN": "https://mirror.example.cn/edx"}

	s := VideoSettings(cfg)
	assert.Equal(t, config.DefaultImageAPI, s.ImageAPI)
	assert.Equal(t, config.DefaultLogoURL, s.DefaultLogoURL)
	assert.Equal(t, cfg.CDN.URLs, s.CDNURLs)

	s.CDNURLs["RU"] = "https://mirror.example.ru"
	assert.NotContains(t, cfg.CDN.URLs, "RU")
}

func TestBootstrap_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Cache.Backend = "memcached"
	_, err := Bootstrap(context.Background(), cfg, "test")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func startApp(t *testing.T, cfg config.AppConfig) (base string, stop func()) {
	t.Helper()
	app, err := Bootstrap(context.Background(), cfg, "test")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	base = "http://" + cfg.API.ListenAddr
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	return base, func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("app did not stop")
		}
		http.DefaultClient.CloseIdleConnections()
	}
}

func TestBootstrap_ServesUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := config.Defaults()
	cfg.API.ListenAddr = reserveListenAddr(t)
	cfg.API.ShutdownTimeout = 2 * time.Second
	cfg.CDN.URLs = map[string]string{"CN": "https://mirror.example.cn/edx"}

	base, stop := startApp(t, cfg)

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/cdn?country=CN&url=%s",
		base, url.QueryEscape("https://cdn.example.com/VIDEO101/001.mp4")))
	require.NoError(t, err)
	var body struct {
		URL       string `json:"url"`
		Rewritten bool   `json:"rewritten"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	_ = resp.Body.Close()
	assert.True(t, body.Rewritten)
	assert.Equal(t, "https://mirror.example.cn/edx/VIDEO101/001.mp4", body.URL)

	stop()
}

func TestBootstrap_RedisReadiness(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Defaults()
	cfg.API.ListenAddr = reserveListenAddr(t)
	cfg.API.ShutdownTimeout = 2 * time.Second
	cfg.Cache.Backend = "redis"
	cfg.Cache.RedisAddr = mr.Addr()

	base, stop := startApp(t, cfg)
	defer stop()

	status := func() int {
		resp, err := http.Get(base + "/readyz")
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}
	assert.Equal(t, http.StatusOK, status())

	mr.Close()
	assert.Equal(t, http.StatusServiceUnavailable, status())
}
