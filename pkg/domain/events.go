package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart     EventType = "run_start"
	EventRunEnd       EventType = "run_end"
	EventCompileError EventType = "compile_error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// RunEvent describes the start or end of an execution run.
// Counters are only populated on EventRunEnd.
type RunEvent struct {
	EventBase
	EOFPolicy   EOFPolicy     `json:"eof_policy"`
	Steps       uint64        `json:"steps,omitempty"`
	OutputBytes uint64        `json:"output_bytes,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
	Err         error         `json:"-"`
}

// CompileEvent describes a structuring failure.
type CompileEvent struct {
	EventBase
	Err *BracketMismatchError `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart     func(context.Context, *RunEvent)
	OnRunEnd       func(context.Context, *RunEvent)
	OnCompileError func(context.Context, *CompileEvent)
}
