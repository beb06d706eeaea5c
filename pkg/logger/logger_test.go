package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lvyanru/coractl/internal/cli/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLevel(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetup_FileOutput(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "coractl.log")
	closeFn, err := Setup(config.LogConfig{Level: "info", Format: "json", Output: "file", FilePath: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	slog.Info("hello", "k", "v")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("expected json log line, got %s", data)
	}
}

func TestSetup_Invalid(t *testing.T) {
	if _, err := Setup(config.LogConfig{Level: "info", Output: "file"}); err == nil {
		t.Error("expected error for file output without path")
	}
	if _, err := Setup(config.LogConfig{Level: "info", Output: "stderr", Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestContextLogger(t *testing.T) {
	l := slog.New(slog.NewTextHandler(os.Stdout, nil)).With("request_id", "r1")
	ctx := WithContext(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("expected logger from context")
	}
	if FromContext(context.Background()) != slog.Default() {
		t.Error("expected default logger")
	}
}
