package logging

import (
	"context"
	"errors"
	"log/slog"
)

// tee writes each record to the console sink and the log file sink. Either
// may be nil. A sink that fails does not stop the other one, and Handle
// reports every failure.
type tee struct {
	console slog.Handler
	file    slog.Handler
}

func (t *tee) sinks() []slog.Handler {
	out := make([]slog.Handler, 0, 2)
	if t.console != nil {
		out = append(out, t.console)
	}
	if t.file != nil {
		out = append(out, t.file)
	}
	return out
}

func (t *tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.sinks() {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t.sinks() {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t *tee) WithGroup(name string) slog.Handler {
	if name == "" {
		return t
	}
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t *tee) derive(fn func(slog.Handler) slog.Handler) *tee {
	out := &tee{}
	if t.console != nil {
		out.console = fn(t.console)
	}
	if t.file != nil {
		out.file = fn(t.file)
	}
	return out
}
