// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ManuGH/vodlink/internal/version"
)

func TestValidateCLI(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name       string
		args       []string
		wantExit   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "valid minimal config",
			args:       []string{"-f", write("valid.yaml", "jwplayer:\n  secret: s\ncdn:\n  urls:\n    CN: https://mirror.example.cn\n")},
			wantExit:   0,
			wantStdout: "is valid",
		},
		{
			name:       "invalid unknown key",
			args:       []string{"--file", write("unknown.yaml", "jwplayer:\n  sekret: s\n")},
			wantExit:   1,
			wantStderr: "Configuration error",
		},
		{
			name:       "invalid type mismatch",
			args:       []string{"-f", write("type.yaml", "api:\n  rate_limit: lots\n")},
			wantExit:   1,
			wantStderr: "Configuration error",
		},
		{
			name:       "business rule violation",
			args:       []string{"-f", write("rules.yaml", "cache:\n  backend: redis\n")},
			wantExit:   1,
			wantStderr: "cache.redis_addr",
		},
		{
			name:       "missing file flag",
			args:       nil,
			wantExit:   2,
			wantStderr: "--file is required",
		},
		{
			name:       "version",
			args:       []string{"-version"},
			wantExit:   0,
			wantStdout: version.Version,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			if code != tt.wantExit {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", code, tt.wantExit, stderr.String())
			}
			if tt.wantStdout != "" && !bytes.Contains(stdout.Bytes(), []byte(tt.wantStdout)) {
				t.Errorf("stdout %q does not contain %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !bytes.Contains(stderr.Bytes(), []byte(tt.wantStderr)) {
				t.Errorf("stderr %q does not contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}
