// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import (
	"net/url"
	"strings"

	xglog "github.com/ManuGH/vodlink/internal/log"
	"github.com/ManuGH/vodlink/internal/metrics"
	pnet "github.com/ManuGH/vodlink/internal/platform/net"
)

// RewriteCDN returns originalURL's path re-rooted under baseURL, for example
// https://mirror.example.cn/edx + https://cdn.example.com/VIDEO101/001.mp4 gives
// https://mirror.example.cn/edx/VIDEO101/001.mp4.
//
// The join is purely syntactic; the mirror is never contacted. The second result is
// false when either input is empty or the joined URL is not a valid URL, in which case
// the caller keeps the original URL.
func RewriteCDN(baseURL, originalURL string) (string, bool) {
	if baseURL == "" || originalURL == "" {
		metrics.RecordCDNRewrite(metrics.OutcomeSkipped)
		return "", false
	}

	u, err := url.Parse(originalURL)
	if err != nil {
		return rejectCDNRewrite(originalURL, err)
	}

	rewritten := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(u.Path, "/")
	if err := pnet.ValidateURL(rewritten); err != nil {
		return rejectCDNRewrite(rewritten, err)
	}

	metrics.RecordCDNRewrite(metrics.OutcomeRewritten)
	return rewritten, true
}

func rejectCDNRewrite(candidate string, err error) (string, bool) {
	logger := xglog.WithComponent("video")
	logger.Warn().
		Err(err).
		Str(xglog.FieldURL, candidate).
		Msg("invalid CDN rewrite URL encountered")
	metrics.RecordCDNRewrite(metrics.OutcomeInvalid)
	return "", false
}

// CDNBaseURL looks up the mirror for a country code; lookups are case-insensitive.
func CDNBaseURL(table map[string]string, countryCode string) string {
	if len(table) == 0 || countryCode == "" {
		return ""
	}
	return table[strings.ToUpper(strings.TrimSpace(countryCode))]
}
