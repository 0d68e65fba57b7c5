// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package net

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"https domain", "https://mirror.example.cn/edx/VIDEO101/001.mp4", true},
		{"http with port", "http://cdn.example.com:8080/a.mp4", true},
		{"ftp", "ftp://files.example.org/v.mp4", true},
		{"localhost", "http://localhost/video.mp4", true},
		{"ipv4", "http://10.0.0.1/video.mp4", true},
		{"ipv6", "http://[2001:db8::1]/video.mp4", true},
		{"idn", "https://bücher.example/video.mp4", true},
		{"punycode tld", "https://example.xn--p1ai/v.mp4", true},
		{"userinfo", "https://user:pw@cdn.example.com/a", true},
		{"empty", "", false},
		{"no scheme", "mirror.example.cn/edx/a.mp4", false},
		{"bad scheme", "javascript://example.com/a", false},
		{"no host", "https:///a.mp4", false},
		{"no tld", "https://intranet/a.mp4", false},
		{"numeric tld", "https://example.123/a.mp4", false},
		{"whitespace", "https://cdn.example.com/a b.mp4", false},
		{"bad port", "https://cdn.example.com:99999/a.mp4", false},
		{"label hyphen", "https://-bad.example.com/a", false},
		{"bare ipv6", "http://2001:db8::1/a", false},
		{"too long", "https://cdn.example.com/" + strings.Repeat("a", MaxURLLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.raw)
			if tt.valid && err != nil {
				t.Fatalf("ValidateURL(%q) = %v, want nil", tt.raw, err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatalf("ValidateURL(%q) = nil, want error", tt.raw)
				}
				if !errors.Is(err, ErrInvalidURL) {
					t.Fatalf("ValidateURL(%q) error %v does not wrap ErrInvalidURL", tt.raw, err)
				}
			}
		})
	}
}

func TestNormalizeDomain(t *testing.T) {
	got, err := NormalizeDomain("CDN.Example.COM.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "cdn.example.com" {
		t.Fatalf("got %q, want cdn.example.com", got)
	}

	got, err = NormalizeDomain("bücher.example")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "xn--bcher-kva.example" {
		t.Fatalf("got %q, want punycode form", got)
	}

	if _, err := NormalizeDomain(""); err == nil {
		t.Fatal("expected error for empty host")
	}
}

func TestParseDirectHTTPURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://content.jwplatform.com", true},
		{"  http://cdn.example.com/x  ", true},
		{"ftp://cdn.example.com", false},
		{"https://user:pw@cdn.example.com", false},
		{"https://cdn.example.com/#frag", false},
		{"https://", false},
	}
	for _, tt := range tests {
		_, ok := ParseDirectHTTPURL(tt.in)
		if ok != tt.want {
			t.Errorf("ParseDirectHTTPURL(%q) = %v, want %v", tt.in, ok, tt.want)
		}
	}
}
