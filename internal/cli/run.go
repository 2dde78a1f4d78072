package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/brainloop/internal/config"
	"github.com/aretw0/brainloop/internal/presentation/tui"
	"github.com/aretw0/brainloop/pkg/domain"
	"github.com/aretw0/brainloop/pkg/runner"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Path   string
	Stored string // name of a program in the configured store, instead of Path
	Config config.Config
	Debug  bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o *RunOptions) defaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// Run executes a program file with stdin as its input and stdout as its output.
// Compile errors and runtime failures are reported on Stderr and returned as ErrReported.
func Run(ctx context.Context, opts RunOptions) error {
	opts.defaults()

	logger, err := createLogger(opts.Config, opts.Debug)
	if err != nil {
		return err
	}
	engine, err := createEngine(opts.Config, logger, opts.Debug)
	if err != nil {
		return err
	}

	name, source, err := loadProgram(ctx, opts)
	if err != nil {
		return err
	}

	prog, err := engine.Compile(ctx, source)
	if err != nil {
		tui.PrintDiagnostic(opts.Stderr, name, source, err)
		return ErrReported
	}

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithInput(opts.Stdin),
		runner.WithOutput(opts.Stdout),
	)
	_, err = r.RunProgram(ctx, engine, prog)
	switch {
	case err == nil:
		return nil
	case isInterrupted(err):
		printSystemMessage(opts.Stderr, "Interrupted%s.", interruptedBy(ctx))
		return ErrReported
	case errors.Is(err, domain.ErrStepLimitExceeded):
		tui.PrintDiagnostic(opts.Stderr, name, source, fmt.Errorf("%w (raise --step-limit or set 0 for unlimited)", err))
		return ErrReported
	}
	tui.PrintDiagnostic(opts.Stderr, name, source, err)
	return ErrReported
}

func loadProgram(ctx context.Context, opts RunOptions) (string, string, error) {
	if opts.Stored == "" {
		src, err := readSource(opts.Path)
		return opts.Path, src, err
	}

	store, closeStore, err := createStore(opts.Config.Store)
	if err != nil {
		return "", "", err
	}
	defer closeStore()

	src, err := store.Load(ctx, opts.Stored)
	if err != nil {
		return "", "", fmt.Errorf("failed to load %q: %w", opts.Stored, err)
	}
	return opts.Stored, src, nil
}
