// Package obs contains observability utilities such as logging and metrics.
package obs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the global structured logger used by the simulator.
//
// Logger is exported to allow other packages to use it for logging. The
// variable itself is never reassigned; InitLogger swaps the handler behind
// it, so it is safe to log while another goroutine reconfigures it.
var Logger = slog.New(root)

var root = newSwapHandler(slog.NewJSONHandler(io.Discard, nil))

// InitLogger initializes the global Logger with a JSON handler at the given level.
//
// Unknown levels fall back to info.
func InitLogger(level string) {
	InitLoggerTo(os.Stdout, level)
}

// InitLoggerTo is InitLogger with an explicit destination.
func InitLoggerTo(w io.Writer, level string) {
	root.set(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// swapHandler forwards to a handler that can be replaced at any time.
// Loggers derived with With or WithGroup bind the handler current at that
// point.
type swapHandler struct {
	h atomic.Pointer[slog.Handler]
}

func newSwapHandler(h slog.Handler) *swapHandler {
	s := &swapHandler{}
	s.set(h)
	return s
}

func (s *swapHandler) set(h slog.Handler) { s.h.Store(&h) }

func (s *swapHandler) load() slog.Handler { return *s.h.Load() }

func (s *swapHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.load().Enabled(ctx, level)
}

func (s *swapHandler) Handle(ctx context.Context, r slog.Record) error {
	return s.load().Handle(ctx, r)
}

func (s *swapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return s.load().WithAttrs(attrs)
}

func (s *swapHandler) WithGroup(name string) slog.Handler {
	return s.load().WithGroup(name)
}
