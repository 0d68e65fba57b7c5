// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import (
	"fmt"
	"net/url"
	"strings"
)

// SetQueryParameter returns rawURL with name set to value. The first pair named name
// is replaced in place and later ones are dropped; without one, the pair is appended.
// Scheme, host, path, fragment and every other pair are kept byte-for-byte, including
// pairs net/url would reject such as "a=1;b=2" or "bad=%zz".
func SetQueryParameter(rawURL, name, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	pair := url.QueryEscape(name) + "=" + url.QueryEscape(value)
	var (
		pairs    []string
		replaced bool
	)
	if u.RawQuery != "" {
		for _, p := range strings.Split(u.RawQuery, "&") {
			if queryKey(p) != name {
				pairs = append(pairs, p)
				continue
			}
			if !replaced {
				pairs = append(pairs, pair)
				replaced = true
			}
		}
	}
	if !replaced {
		pairs = append(pairs, pair)
	}
	u.RawQuery = strings.Join(pairs, "&")
	return u.String(), nil
}

// queryKey returns the unescaped key of one raw query pair, or the raw key when it
// does not unescape.
func queryKey(pair string) string {
	key, _, _ := strings.Cut(pair, "=")
	if k, err := url.QueryUnescape(key); err == nil {
		return k
	}
	return key
}
