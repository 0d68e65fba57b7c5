// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import (
	"net/url"
	"strconv"
	"strings"
)

// ExpiryParam is the query parameter carrying a signed URL's expiration epoch.
const ExpiryParam = "exp"

// ExpiryFromURL extracts the expiration epoch (seconds) from a signed URL.
// The exp parameter wins; otherwise the first query parameter's value is used, which
// is where older signed URLs put it. ok is false when no integer can be found.
func ExpiryFromURL(rawURL string) (exp int64, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return 0, false
	}

	if q, err := url.ParseQuery(u.RawQuery); err == nil && q.Has(ExpiryParam) {
		return parseEpoch(q.Get(ExpiryParam))
	}

	first, _, _ := strings.Cut(u.RawQuery, "&")
	_, value, found := strings.Cut(first, "=")
	if !found {
		return 0, false
	}
	return parseEpoch(value)
}

func parseEpoch(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
