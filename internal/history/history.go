// Package history implements the bounded undo/redo log.
package history

import (
	"context"
	"log/slog"

	"github.com/conecourse/editor/pkg/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/conecourse/editor/internal/history"

// DefaultCapacity is the number of undo entries kept before the oldest is
// evicted.
const DefaultCapacity = 50

// Target is what commands are replayed against.
type Target interface {
	// Restore re-inserts a cone under its original id.
	Restore(c core.Cone) error
	// Remove deletes a cone by id.
	Remove(id uint64) (core.Cone, bool)
	// Replace overwrites the state of a live cone.
	Replace(c core.Cone) error
}

// Listener is told whether undo and redo are currently possible.
type Listener func(canUndo, canRedo bool)

// Option configures a History.
type Option func(*History)

// WithCapacity bounds the undo stack. Values below 1 keep the default.
func WithCapacity(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.capacity = n
		}
	}
}

// WithLogger sets the logger used for replay warnings.
func WithLogger(l *slog.Logger) Option {
	return func(h *History) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithListener registers a callback run after every stack change.
func WithListener(fn Listener) Option {
	return func(h *History) {
		h.listener = fn
	}
}

// History keeps two stacks of commands. It is not safe for concurrent use.
type History struct {
	target    Target
	capacity  int
	undo      []Command
	redo      []Command
	replaying bool
	logger    *slog.Logger
	listener  Listener

	// OTEL metrics
	recorded metric.Int64Counter
	undone   metric.Int64Counter
	redone   metric.Int64Counter
	stale    metric.Int64Counter
}

// New creates a History that replays commands against target.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(target Target, opts ...Option) *History {
	h := &History{
		target:   target,
		capacity: DefaultCapacity,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.initMetrics()
	return h
}

func (h *History) initMetrics() {
	m := otel.Meter(instrumentationName)
	var err error
	if h.recorded, err = m.Int64Counter("history.recorded",
		metric.WithDescription("Commands recorded")); err != nil {
		h.logger.Warn("failed to create history.recorded counter", "error", err)
	}
	if h.undone, err = m.Int64Counter("history.undone",
		metric.WithDescription("Commands undone")); err != nil {
		h.logger.Warn("failed to create history.undone counter", "error", err)
	}
	if h.redone, err = m.Int64Counter("history.redone",
		metric.WithDescription("Commands redone")); err != nil {
		h.logger.Warn("failed to create history.redone counter", "error", err)
	}
	if h.stale, err = m.Int64Counter("history.stale",
		metric.WithDescription("Changes skipped because their cone no longer resolves")); err != nil {
		h.logger.Warn("failed to create history.stale counter", "error", err)
	}
}

func count(c metric.Int64Counter, kind Kind) {
	if c == nil {
		return
	}
	c.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", kind.String())))
}

// Record pushes cmd onto the undo stack and empties the redo stack.
// It is ignored while a command is being replayed, and for empty commands.
func (h *History) Record(cmd Command) bool {
	if h.replaying {
		return false
	}
	if len(cmd.Changes) == 0 {
		return false
	}
	if len(h.undo) >= h.capacity {
		h.undo = h.undo[len(h.undo)-h.capacity+1:]
	}
	h.undo = append(h.undo, cmd)
	h.redo = nil
	count(h.recorded, cmd.Kind)
	h.notify()
	return true
}

// Undo reverses the most recent command. It reports whether anything was undone.
func (h *History) Undo() bool {
	if len(h.undo) == 0 {
		return false
	}
	if h.target == nil {
		h.logger.Warn("undo skipped: no target to replay against")
		return false
	}
	cmd := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	h.replay(cmd, true)

	h.redo = append(h.redo, cmd)
	count(h.undone, cmd.Kind)
	h.notify()
	return true
}

// Redo re-applies the most recently undone command.
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}
	if h.target == nil {
		h.logger.Warn("redo skipped: no target to replay against")
		return false
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	h.replay(cmd, false)

	h.undo = append(h.undo, cmd)
	count(h.redone, cmd.Kind)
	h.notify()
	return true
}

// replay applies every change of cmd. Changes whose cone cannot be resolved
// are logged and skipped; the rest of the batch still applies.
func (h *History) replay(cmd Command, reverse bool) {
	h.replaying = true
	defer func() { h.replaying = false }()

	eff := cmd.Kind.effect()
	create := eff == effectCreate && !reverse || eff == effectDestroy && reverse

	// Recreate in path order, destroy in reverse path order.
	if eff == effectUpdate || create {
		for _, ch := range cmd.Changes {
			h.apply(cmd.Kind, ch, eff, create, reverse)
		}
		return
	}
	for i := len(cmd.Changes) - 1; i >= 0; i-- {
		h.apply(cmd.Kind, cmd.Changes[i], eff, create, reverse)
	}
}

func (h *History) apply(kind Kind, ch Change, eff effect, create, reverse bool) {
	var err error
	switch {
	case eff == effectUpdate:
		state := ch.After
		if reverse {
			state = ch.Before
		}
		err = h.target.Replace(state)
	case create:
		state := ch.After
		if eff == effectDestroy {
			state = ch.Before
		}
		err = h.target.Restore(state)
	default:
		if _, ok := h.target.Remove(ch.ID()); !ok {
			h.skip(kind, ch.ID(), reverse, "cone not found")
		}
		return
	}
	if err != nil {
		h.skip(kind, ch.ID(), reverse, err.Error())
	}
}

func (h *History) skip(kind Kind, id uint64, reverse bool, reason string) {
	op := "redo"
	if reverse {
		op = "undo"
	}
	h.logger.Warn("skipping stale history entry", "op", op, "kind", kind.String(), "cone", id, "reason", reason)
	count(h.stale, kind)
}

// Clear empties both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
	h.notify()
}

// Replaying reports whether a command is currently being replayed.
func (h *History) Replaying() bool {
	return h.replaying
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// UndoLen returns the undo stack depth.
func (h *History) UndoLen() int {
	return len(h.undo)
}

// RedoLen returns the redo stack depth.
func (h *History) RedoLen() int {
	return len(h.redo)
}

// Peek returns the command Undo would reverse.
func (h *History) Peek() (Command, bool) {
	if len(h.undo) == 0 {
		return Command{}, false
	}
	return h.undo[len(h.undo)-1], true
}

func (h *History) notify() {
	if h.listener != nil {
		h.listener(h.CanUndo(), h.CanRedo())
	}
}
