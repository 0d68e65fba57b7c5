// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics exposes Prometheus collectors for playback URL preparation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by the rewrite counters.
const (
	OutcomeRewritten      = "rewritten"
	OutcomeSkipped        = "skipped"
	OutcomeInvalid        = "invalid"
	OutcomeFresh          = "fresh"
	OutcomeCacheHit       = "cache_hit"
	OutcomeUpstreamStatus = "upstream_status"
	OutcomeNoSource       = "no_source"
	OutcomeCircuitOpen    = "circuit_open"
	OutcomeRateLimited    = "rate_limited"
	OutcomeCanceled       = "canceled"
	OutcomeError          = "error"
)

var (
	cdnRewriteTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vodlink_cdn_rewrite_total",
		Help: "CDN URL rewrite attempts by outcome",
	}, []string{"outcome"}) // outcome=rewritten|skipped|invalid

	signedURLRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vodlink_signed_url_refresh_total",
		Help: "Signed URL refresh decisions by outcome",
	}, []string{"outcome"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vodlink_upstream_request_duration_seconds",
		Help:    "Latency of media lookup requests to the hosting service",
		Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"status"})

	posterBuildTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vodlink_poster_build_total",
		Help: "Poster metadata builds by poster type",
	}, []string{"type"}) // type=youtube|html5|none
)

// RecordCDNRewrite counts one CDN rewrite decision.
func RecordCDNRewrite(outcome string) {
	cdnRewriteTotal.WithLabelValues(outcome).Inc()
}

// RecordRefresh counts one signed URL refresh decision.
func RecordRefresh(outcome string) {
	signedURLRefreshTotal.WithLabelValues(outcome).Inc()
}

// ObserveUpstreamRequest records the latency of a media lookup; status is the HTTP
// status code as text, or "error" when no response arrived.
func ObserveUpstreamRequest(status string, d time.Duration) {
	upstreamRequestDuration.WithLabelValues(status).Observe(d.Seconds())
}

// RecordPoster counts one poster build.
func RecordPoster(kind string) {
	posterBuildTotal.WithLabelValues(kind).Inc()
}
