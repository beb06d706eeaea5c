package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
server: https://cora.example.com
storage_dir: /tmp/cora-test
timeout: 5s
log:
  level: debug
  format: json
  output: stdout
device:
  timezone: Asia/Manila
  share_location: true
  latitude: 14.6
  longitude: 121.0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server != "https://cora.example.com" {
		t.Errorf("server = %q", cfg.Server)
	}
	if cfg.StorageDir != "/tmp/cora-test" {
		t.Errorf("storage_dir = %q", cfg.StorageDir)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if !cfg.Device.ShareLocation || cfg.Device.Latitude == nil || *cfg.Device.Latitude != 14.6 {
		t.Errorf("device = %+v", cfg.Device)
	}
	if cfg.Device.GeolocationTimeout != 10*time.Second {
		t.Errorf("expected default geolocation timeout, got %v", cfg.Device.GeolocationTimeout)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "server: http://from-file:8000\n")
	t.Setenv("CORA_SERVER", "http://from-env:9000")
	t.Setenv("CORA_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server != "http://from-env:9000" {
		t.Errorf("expected env server, got %q", cfg.Server)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("expected env log level, got %q", cfg.Log.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		errContains string
	}{
		{
			name:        "bad log level",
			body:        "log:\n  level: loud\n",
			errContains: "invalid log level",
		},
		{
			name:        "latitude without longitude",
			body:        "device:\n  latitude: 1.5\n",
			errContains: "must be set together",
		},
		{
			name:        "bad scheme",
			body:        "server: ftp://example.com\n",
			errContains: "unsupported server scheme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %v, want it to contain %q", err, tt.errContains)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}
