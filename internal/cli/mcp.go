package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aretw0/brainloop"
	"github.com/aretw0/brainloop/internal/config"
	"github.com/aretw0/brainloop/pkg/adapters/mcp"
	"github.com/aretw0/brainloop/pkg/ports"
)

// MCPOptions configures the MCP server.
type MCPOptions struct {
	Config    config.Config
	Debug     bool
	Transport string // stdio | sse
	Port      int
}

// newMCPServer wires the engine factory and the configured store into an MCP server.
func newMCPServer(opts MCPOptions, logger *slog.Logger) (*mcp.Server, func() error, error) {
	base, err := engineOptions(opts.Config, logger, opts.Debug)
	if err != nil {
		return nil, nil, err
	}
	factory := func(extra ...brainloop.Option) (ports.Interpreter, error) {
		all := append(append([]brainloop.Option{}, base...), extra...)
		return brainloop.New(all...)
	}

	store, closeStore, err := createStore(opts.Config.Store)
	if err != nil {
		return nil, nil, err
	}

	srv, err := mcp.NewServer(factory, store)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	return srv, closeStore, nil
}

// ServeMCP runs the MCP server on the selected transport.
// Logs always go to Stderr so they never corrupt JSON-RPC on Stdout.
func ServeMCP(ctx context.Context, opts MCPOptions) error {
	logger, err := createLogger(opts.Config, opts.Debug)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	log.SetOutput(os.Stderr)

	srv, closeStore, err := newMCPServer(opts, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	switch opts.Transport {
	case "", "stdio":
		logger.Info("Starting brainloop MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		logger.Info("Starting brainloop MCP Server (SSE)", "port", opts.Port)
		if err := srv.ServeSSE(ctx, opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP Server stopped gracefully")
		return nil
	}
	return fmt.Errorf("unknown transport %q (supported: stdio, sse)", opts.Transport)
}
