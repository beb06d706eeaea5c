package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// HertzSlogAdapter routes hertz client logs into slog. Hertz info and
// notice output is noise for a CLI, so both land at debug.
type HertzSlogAdapter struct {
	logger *slog.Logger
	min    atomic.Int32
}

var _ hlog.FullLogger = (*HertzSlogAdapter)(nil)

// NewHertzSlogAdapter wraps logger with a "component=hertz" attribute.
func NewHertzSlogAdapter(logger *slog.Logger) *HertzSlogAdapter {
	a := &HertzSlogAdapter{logger: logger.With("component", "hertz")}
	a.min.Store(int32(hlog.LevelTrace))
	return a
}

func (h *HertzSlogAdapter) emit(ctx context.Context, lvl hlog.Level, msg string) {
	if int32(lvl) < h.min.Load() {
		return
	}
	h.logger.Log(ctx, toSlogLevel(lvl), msg)
}

func toSlogLevel(lvl hlog.Level) slog.Level {
	switch {
	case lvl <= hlog.LevelNotice:
		return slog.LevelDebug
	case lvl == hlog.LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func (h *HertzSlogAdapter) Trace(v ...interface{}) {
	h.emit(context.Background(), hlog.LevelTrace, fmt.Sprint(v...))
}
func (h *HertzSlogAdapter) Debug(v ...interface{}) {
	h.emit(context.Background(), hlog.LevelDebug, fmt.Sprint(v...))
}
func (h *HertzSlogAdapter) Info(v ...interface{}) {
	h.emit(context.Background(), hlog.LevelInfo, fmt.Sprint(v...))
}
func (h *HertzSlogAdapter) Notice(v ...interface{}) {
	h.emit(context.Background(), hlog.LevelNotice, fmt.Sprint(v...))
}
func (h *HertzSlogAdapter) Warn(v ...interface{}) {
	h.emit(context.Background(), hlog.LevelWarn, fmt.Sprint(v...))
}
func (h *HertzSlogAdapter) Error(v ...interface{}) {
	h.emit(context.Background(), hlog.LevelError, fmt.Sprint(v...))
}

// Fatal is logged at error level; the CLI decides whether to exit.
func (h *HertzSlogAdapter) Fatal(v ...interface{}) {
	h.emit(context.Background(), hlog.LevelFatal, fmt.Sprint(v...))
}

func (h *HertzSlogAdapter) Tracef(format string, v ...interface{}) {
	h.emit(context.Background(), hlog.LevelTrace, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Debugf(format string, v ...interface{}) {
	h.emit(context.Background(), hlog.LevelDebug, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Infof(format string, v ...interface{}) {
	h.emit(context.Background(), hlog.LevelInfo, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Noticef(format string, v ...interface{}) {
	h.emit(context.Background(), hlog.LevelNotice, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Warnf(format string, v ...interface{}) {
	h.emit(context.Background(), hlog.LevelWarn, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Errorf(format string, v ...interface{}) {
	h.emit(context.Background(), hlog.LevelError, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Fatalf(format string, v ...interface{}) {
	h.emit(context.Background(), hlog.LevelFatal, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxTracef(ctx context.Context, format string, v ...interface{}) {
	h.emit(ctx, hlog.LevelTrace, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxDebugf(ctx context.Context, format string, v ...interface{}) {
	h.emit(ctx, hlog.LevelDebug, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxInfof(ctx context.Context, format string, v ...interface{}) {
	h.emit(ctx, hlog.LevelInfo, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxNoticef(ctx context.Context, format string, v ...interface{}) {
	h.emit(ctx, hlog.LevelNotice, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxWarnf(ctx context.Context, format string, v ...interface{}) {
	h.emit(ctx, hlog.LevelWarn, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxErrorf(ctx context.Context, format string, v ...interface{}) {
	h.emit(ctx, hlog.LevelError, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxFatalf(ctx context.Context, format string, v ...interface{}) {
	h.emit(ctx, hlog.LevelFatal, fmt.Sprintf(format, v...))
}

// SetLevel drops hertz messages below level.
func (h *HertzSlogAdapter) SetLevel(level hlog.Level) {
	h.min.Store(int32(level))
}

// SetOutput is a no-op; output follows the slog handler.
func (h *HertzSlogAdapter) SetOutput(io.Writer) {}
