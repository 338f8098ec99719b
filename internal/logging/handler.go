package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// SwappableHandler is a slog.Handler whose underlying handler can be
// replaced atomically at runtime. Loggers built on it keep working
// across the bootstrap-to-full transition without being rebuilt.
type SwappableHandler struct {
	handler atomic.Pointer[slog.Handler]
}

// NewSwappableHandler creates a handler delegating to initial.
func NewSwappableHandler(initial slog.Handler) *SwappableHandler {
	h := &SwappableHandler{}
	h.handler.Store(&initial)
	return h
}

// Swap atomically replaces the underlying handler. Safe to call while
// logging is in progress.
func (h *SwappableHandler) Swap(next slog.Handler) {
	h.handler.Store(&next)
}

// current returns the current underlying handler.
func (h *SwappableHandler) current() slog.Handler {
	return *h.handler.Load()
}

// Enabled reports whether the handler handles records at the given level.
func (h *SwappableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.current().Enabled(ctx, level)
}

// Handle handles the Record.
func (h *SwappableHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.current().Handle(ctx, r)
}

// WithAttrs returns a new SwappableHandler whose underlying handler
// carries the given attributes.
func (h *SwappableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewSwappableHandler(h.current().WithAttrs(attrs))
}

// WithGroup returns a new SwappableHandler whose underlying handler
// carries the given group.
func (h *SwappableHandler) WithGroup(name string) slog.Handler {
	return NewSwappableHandler(h.current().WithGroup(name))
}
