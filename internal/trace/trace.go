// Package trace provides the observability layer for the interpreters.
//
// Both the concrete interpreter and the abstract fixpoint engine emit step
// and worklist events through a Tracer. The Nop tracer keeps the hot path
// free when tracing is disabled; StreamTracer writes text lines immediately
// to an output. Tracers travel through context.Context.
package trace

import (
	"fmt"
	"io"
	"sync"
)

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff Level = iota
	// LevelStep traces statement dispatches and control transfers.
	LevelStep
	// LevelDebug traces everything, including binding writes and worklist churn.
	LevelDebug
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelStep:
		return "step"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "off", "OFF":
		return LevelOff, nil
	case "step", "STEP":
		return LevelStep, nil
	case "debug", "DEBUG":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|step|debug)", s)
	}
}

// Tracer is the interface for emitting trace events.
type Tracer interface {
	// Eventf records one event at the given level. Must be goroutine-safe.
	Eventf(level Level, format string, args ...any)

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// nopTracer is a no-op implementation for zero overhead when tracing is disabled.
type nopTracer struct{}

func (nopTracer) Eventf(Level, string, ...any) {}
func (nopTracer) Level() Level                 { return LevelOff }
func (nopTracer) Enabled() bool                { return false }

// Nop is the package-level singleton nop tracer.
var Nop Tracer = nopTracer{}

// StreamTracer writes events immediately to an io.Writer, one line each.
type StreamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

// NewStreamTracer creates a tracer writing to w at the given level.
func NewStreamTracer(w io.Writer, level Level) *StreamTracer {
	return &StreamTracer{w: w, level: level}
}

// Eventf writes one event line. Write errors are ignored: tracing must never
// disrupt interpretation.
func (t *StreamTracer) Eventf(level Level, format string, args ...any) {
	if level > t.level || level == LevelOff {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintf(t.w, format+"\n", args...)
}

// Level returns the configured level.
func (t *StreamTracer) Level() Level { return t.level }

// Enabled reports whether any events will be emitted.
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
