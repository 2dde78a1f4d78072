package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/brainloop"
	"github.com/aretw0/brainloop/pkg/domain"
	"github.com/aretw0/brainloop/pkg/ports"
)

// Runner wires a compiled program to host byte streams and runs it to completion.
// It is the piece the CLI uses around stdin/stdout.
type Runner struct {
	// Input is the program's input stream. Defaults to os.Stdin.
	Input io.Reader

	// Output is the program's output stream. Defaults to os.Stdout.
	Output io.Writer

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// NewRunner creates a new Runner with default Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run compiles source with interp and executes it. Reads observe ctx, so a
// cancelled run stops at the next input command even while the engine is not
// polling. A run interrupted by ctx returns ctx.Err().
func (r *Runner) Run(ctx context.Context, interp ports.Interpreter, source string) (*brainloop.Result, error) {
	prog, err := interp.Compile(ctx, source)
	if err != nil {
		return nil, err
	}
	return r.RunProgram(ctx, interp, prog)
}

// RunProgram executes an already compiled program.
func (r *Runner) RunProgram(ctx context.Context, interp ports.Interpreter, prog *domain.Program) (*brainloop.Result, error) {
	in := NewInterruptibleReader(r.Input, ctx.Done())

	stats := prog.Stats()
	r.Logger.Debug("program loaded", "commands", stats.Leaves, "loops", stats.Loops, "max_depth", stats.MaxDepth)

	res, err := interp.Run(ctx, prog, in, r.Output)
	if errors.Is(err, ErrInterrupted) && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		return res, fmt.Errorf("run failed: %w", err)
	}

	r.Logger.Debug("program finished", "steps", res.Steps, "output_bytes", res.OutputBytes)
	return res, nil
}
