package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

func TestHertzSlogAdapter_Levels(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	a := NewHertzSlogAdapter(base)

	a.Infof("connected to %s", "server")
	if buf.Len() != 0 {
		t.Fatalf("info should be demoted below the handler level, got %q", buf.String())
	}

	a.Warn("slow response")
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "component=hertz") {
		t.Errorf("unexpected warn output %q", buf.String())
	}

	buf.Reset()
	a.SetLevel(hlog.LevelError)
	a.Warn("suppressed")
	if buf.Len() != 0 {
		t.Errorf("warn should be dropped after SetLevel(error), got %q", buf.String())
	}
	a.Fatalf("boom %d", 1)
	if !strings.Contains(buf.String(), "level=ERROR") || !strings.Contains(buf.String(), "boom 1") {
		t.Errorf("unexpected fatal output %q", buf.String())
	}
}
