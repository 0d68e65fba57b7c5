// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

// Settings carries the configuration the stateless helpers need.
type Settings struct {
	// ImageAPI is the thumbnail URL template containing YouTubeIDPlaceholder.
	ImageAPI string
	// DefaultLogoURL is the poster used when no YouTube id is available.
	DefaultLogoURL string
	// CDNURLs maps upper-case country codes to mirror base URLs.
	CDNURLs map[string]string
}

// RewriteForCountry rewrites originalURL to the mirror configured for countryCode.
// The second result is false when no mirror is configured or the rewrite is invalid.
func (s Settings) RewriteForCountry(countryCode, originalURL string) (string, bool) {
	return RewriteCDN(CDNBaseURL(s.CDNURLs, countryCode), originalURL)
}
