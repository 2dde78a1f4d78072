package brainloop

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/brainloop/internal/compiler"
	"github.com/aretw0/brainloop/internal/runtime"
	"github.com/aretw0/brainloop/pkg/domain"
)

// cancelCheckInterval is how many steps pass between polls of ctx.Done.
const cancelCheckInterval = 4096

// Engine is the high-level entry point for the brainloop library.
// It wraps the compiler and the runtime and provides a simplified API for consumers.
// An Engine holds configuration only; every Run gets its own tape, so an Engine
// is safe for concurrent use.
type Engine struct {
	parser    *compiler.Parser
	tapeSize  int
	eof       domain.EOFPolicy
	stepLimit uint64
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Result reports what a run did.
type Result struct {
	Steps       uint64 `json:"steps"`
	OutputBytes uint64 `json:"output_bytes"`
	Pointer     int    `json:"pointer"`
	Cell        uint8  `json:"cell"`
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEOFPolicy sets what an input command does once the input is exhausted
// (default: domain.EOFLeaveUnchanged).
func WithEOFPolicy(p domain.EOFPolicy) Option {
	return func(e *Engine) {
		e.eof = p
	}
}

// WithTapeSize sets the number of cells (default: 256). The pointer wraps modulo n.
func WithTapeSize(n int) Option {
	return func(e *Engine) {
		e.tapeSize = n
	}
}

// WithStepLimit aborts runs with domain.ErrStepLimitExceeded after n steps.
// Zero means unlimited.
func WithStepLimit(n uint64) Option {
	return func(e *Engine) {
		e.stepLimit = n
	}
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		parser:   compiler.NewParser(),
		tapeSize: runtime.DefaultTapeSize,
		eof:      domain.EOFLeaveUnchanged,
	}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.tapeSize < 1 {
		return nil, fmt.Errorf("tape size must be at least 1, got %d", eng.tapeSize)
	}
	if _, err := domain.ParseEOFPolicy(string(eng.eof)); err != nil {
		return nil, err
	}
	if eng.eof == "" {
		eng.eof = domain.EOFLeaveUnchanged
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	return eng, nil
}

// Compile lexes and structures source into a Program.
// Malformed nesting is reported as a *domain.BracketMismatchError.
func (e *Engine) Compile(ctx context.Context, source string) (*domain.Program, error) {
	prog, err := e.parser.Parse(source)
	if err != nil {
		var mm *domain.BracketMismatchError
		if errors.As(err, &mm) && e.hooks.OnCompileError != nil {
			e.hooks.OnCompileError(ctx, &domain.CompileEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCompileError},
				Err:       mm,
			})
		}
		e.logger.Debug("compile failed", "error", err)
		return nil, err
	}
	return prog, nil
}

// Run executes prog reading input bytes from in and writing output bytes to out.
// A nil in behaves as an empty input. Output is buffered and flushed before every
// input read and at the end of the run, including failed runs.
// The Result is returned even when err is non-nil.
func (e *Engine) Run(ctx context.Context, prog *domain.Program, in io.Reader, out io.Writer) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return &Result{}, err
	}
	if in == nil {
		in = bytes.NewReader(nil)
	}
	if out == nil {
		out = io.Discard
	}

	sink := bufio.NewWriter(out)
	source := runtime.NewFlushingSource(runtime.NewSource(in), sink)

	rt := runtime.NewEngine(
		runtime.WithTapeSize(e.tapeSize),
		runtime.WithEOFPolicy(e.eof),
		runtime.WithStepObserver(e.observer(ctx)),
	)
	state := rt.NewState(source, sink)

	start := time.Now()
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventRunStart},
			EOFPolicy: e.eof,
		})
	}
	e.logger.Debug("run_start", "eof_policy", e.eof, "tape_size", e.tapeSize)

	err := rt.Run(prog, state)
	if flushErr := sink.Flush(); flushErr != nil && err == nil {
		err = &domain.IOError{Op: "write", Err: flushErr}
	}

	res := &Result{
		Steps:       state.Steps,
		OutputBytes: state.Output,
		Pointer:     state.Tape.Pointer(),
		Cell:        state.Tape.Get(),
	}

	if e.hooks.OnRunEnd != nil {
		e.hooks.OnRunEnd(ctx, &domain.RunEvent{
			EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunEnd},
			EOFPolicy:   e.eof,
			Steps:       res.Steps,
			OutputBytes: res.OutputBytes,
			Duration:    time.Since(start),
			Err:         err,
		})
	}
	if err != nil {
		e.logger.Debug("run_end", "steps", res.Steps, "output_bytes", res.OutputBytes, "error", err)
		return res, err
	}
	e.logger.Debug("run_end", "steps", res.Steps, "output_bytes", res.OutputBytes)
	return res, nil
}

// Execute compiles source and runs it.
func (e *Engine) Execute(ctx context.Context, source string, in io.Reader, out io.Writer) (*Result, error) {
	prog, err := e.Compile(ctx, source)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, prog, in, out)
}

// EOFPolicy returns the configured end-of-input policy.
func (e *Engine) EOFPolicy() domain.EOFPolicy {
	return e.eof
}

// TapeSize returns the configured number of cells.
func (e *Engine) TapeSize() int {
	return e.tapeSize
}

// StepLimit returns the configured step budget (0 = unlimited).
func (e *Engine) StepLimit() uint64 {
	return e.stepLimit
}

func (e *Engine) observer(ctx context.Context) runtime.StepObserver {
	done := ctx.Done()
	return func(steps uint64) error {
		if e.stepLimit > 0 && steps > e.stepLimit {
			return fmt.Errorf("%w: %d", domain.ErrStepLimitExceeded, e.stepLimit)
		}
		if done != nil && steps%cancelCheckInterval == 0 {
			select {
			case <-done:
				return ctx.Err()
			default:
			}
		}
		return nil
	}
}
