package logging

import (
	"context"
	"errors"
	"log/slog"
)

// stopper is implemented by handlers that buffer records, such as DBHandler.
type stopper interface {
	Stop()
}

// MultiHandler fans out log records to multiple slog.Handlers. A failing
// handler does not keep the record from the others.
type MultiHandler struct {
	handlers []slog.Handler
	// stoppers is shared with every handler derived through WithAttrs or
	// WithGroup so Stop reaches the original buffering handlers.
	stoppers []stopper
}

func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	m := &MultiHandler{handlers: handlers}
	for _, h := range handlers {
		if s, ok := h.(stopper); ok {
			m.stoppers = append(m.stoppers, s)
		}
	}
	return m
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = fn(h)
	}
	return &MultiHandler{handlers: handlers, stoppers: m.stoppers}
}

// Stop flushes and stops every buffering handler. Call it once logging is no
// longer needed, after the server has shut down.
func (m *MultiHandler) Stop() {
	for _, s := range m.stoppers {
		s.Stop()
	}
}
