// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconfigure_WritesServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	Reconfigure(Config{Level: "debug", Output: &buf, Service: "vodlink-test", Version: "v0.0.1"})
	t.Cleanup(func() { Reconfigure(Config{}) })

	l := WithComponent("video")
	l.Info().Str(FieldMediaID, "abc").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "vodlink-test", entry["service"])
	assert.Equal(t, "v0.0.1", entry["version"])
	assert.Equal(t, "video", entry["component"])
	assert.Equal(t, "abc", entry["media_id"])
	assert.Equal(t, "hello", entry["message"])
}

func TestWithContext_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	Reconfigure(Config{Output: &buf})
	t.Cleanup(func() { Reconfigure(Config{}) })

	ctx := ContextWithRequestID(context.Background(), "req-1")
	l := WithComponentFromContext(ctx, "api")
	l.Info().Msg("x")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	//nolint:staticcheck // nil context is part of the contract
	assert.Empty(t, RequestIDFromContext(nil))
}

func TestRedactURL(t *testing.T) {
	cases := map[string]string{
		"https://user:pw@cdn.example.com/v2/media/abc?token=secret#frag": "https://cdn.example.com/v2/media/abc",
		"https://cdn.example.com/a.mp4":                                  "https://cdn.example.com/a.mp4",
		"://bad":                                                         "invalid-url-redacted",
	}
	for in, want := range cases {
		assert.Equal(t, want, RedactURL(in), in)
	}
}
