package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/brainloop/internal/config"
	"github.com/aretw0/brainloop/internal/logging"
	"github.com/aretw0/brainloop/internal/presentation/graph"
	"github.com/aretw0/brainloop/internal/presentation/tui"
	"github.com/aretw0/brainloop/pkg/domain"
)

// compileFile reads and compiles path, printing a diagnostic on failure.
func compileFile(ctx context.Context, cfg config.Config, path string, stderr io.Writer) (*domain.Program, error) {
	source, err := readSource(path)
	if err != nil {
		return nil, err
	}
	engine, err := createEngine(cfg, logging.NewNop(), false)
	if err != nil {
		return nil, err
	}
	prog, err := engine.Compile(ctx, source)
	if err != nil {
		tui.PrintDiagnostic(stderr, path, source, err)
		return nil, ErrReported
	}
	return prog, nil
}

// Check verifies bracket nesting and prints a one-line summary.
func Check(ctx context.Context, cfg config.Config, path string, stdout, stderr io.Writer) error {
	prog, err := compileFile(ctx, cfg, path, stderr)
	if err != nil {
		return err
	}
	st := prog.Stats()
	fmt.Fprintf(stdout, "%s: ok (%d commands, %d loops, max depth %d)\n", path, st.Leaves, st.Loops, st.MaxDepth)
	return nil
}

// Graph prints the program's control flow as a Mermaid diagram.
func Graph(ctx context.Context, cfg config.Config, path string, stdout, stderr io.Writer) error {
	prog, err := compileFile(ctx, cfg, path, stderr)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, graph.GenerateMermaid(prog))
	return nil
}

// Explain renders a markdown report of the program. Styling is applied only
// when stdout is a terminal.
func Explain(ctx context.Context, cfg config.Config, path string, stdout, stderr io.Writer) error {
	prog, err := compileFile(ctx, cfg, path, stderr)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	report := tui.BuildReport(name, prog)

	render, err := reportRenderer(stdout)
	if err != nil {
		return err
	}
	out, err := render(report)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	fmt.Fprint(stdout, out)
	return nil
}

func reportRenderer(w io.Writer) (func(string) (string, error), error) {
	if f, ok := w.(*os.File); ok && tui.IsTerminal(f) {
		return tui.NewRenderer(tui.Width(f, 80))
	}
	return tui.NewPlainRenderer()
}
