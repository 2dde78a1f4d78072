package ports

import (
	"context"
	"io"

	"github.com/aretw0/brainloop"
	"github.com/aretw0/brainloop/pkg/domain"
)

// Interpreter is the view of the engine used by adapters (HTTP, MCP, CLI).
// *brainloop.Engine satisfies it.
type Interpreter interface {
	// Compile lexes and structures source, failing with *domain.BracketMismatchError.
	Compile(ctx context.Context, source string) (*domain.Program, error)

	// Run executes a compiled program against the given byte streams.
	Run(ctx context.Context, prog *domain.Program, in io.Reader, out io.Writer) (*brainloop.Result, error)
}

var _ Interpreter = (*brainloop.Engine)(nil)
