package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/brainloop"
	"github.com/aretw0/brainloop/pkg/domain"
	"github.com/aretw0/brainloop/pkg/ports"
	"github.com/aretw0/brainloop/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// ProgramsURI is the resource listing stored program names.
const ProgramsURI = "brainloop://programs"

// EngineFactory builds an interpreter from the server's base configuration
// plus per-call overrides.
type EngineFactory func(opts ...brainloop.Option) (ports.Interpreter, error)

// RunArgs are the arguments of run_program and run_stored_program.
type RunArgs struct {
	Source    string `mapstructure:"source"`
	Name      string `mapstructure:"name"`
	Input     string `mapstructure:"input"`
	EOF       string `mapstructure:"eof"`
	StepLimit uint64 `mapstructure:"step_limit"`
}

// RunResponse is the structured result of a run.
type RunResponse struct {
	Output       string `json:"output" jsonschema_description:"Program output decoded as text"`
	OutputBase64 string `json:"output_base64" jsonschema_description:"Raw program output bytes"`
	Steps        uint64 `json:"steps" jsonschema_description:"Executed steps"`
	Error        string `json:"error,omitempty" jsonschema_description:"Runtime failure, output up to the failure is still reported"`
}

// CheckResponse is the structured result of check_program.
type CheckResponse struct {
	Valid     bool                `json:"valid"`
	Stats     domain.ProgramStats `json:"stats"`
	Canonical string              `json:"canonical,omitempty"`
	Error     string              `json:"error,omitempty"`
	Kind      string              `json:"kind,omitempty"`
	Position  int                 `json:"position,omitempty"`
	Line      int                 `json:"line,omitempty"`
	Column    int                 `json:"column,omitempty"`
}

// ListResponse is the structured result of list_programs.
type ListResponse struct {
	Programs []string `json:"programs"`
}

// Server wraps the brainloop Engine and exposes it as an MCP Server.
type Server struct {
	factory    EngineFactory
	engine     ports.Interpreter
	store      ports.ProgramStore
	runTimeout time.Duration
	mcpServer  *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithRunTimeout overrides runner.DefaultRunTimeout for tool runs.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.runTimeout = d
	}
}

// NewServer creates a new MCP Server instance. store may be nil, in which case
// the stored-program tools are not registered.
func NewServer(factory EngineFactory, store ports.ProgramStore, opts ...Option) (*Server, error) {
	eng, err := factory()
	if err != nil {
		return nil, err
	}
	s := &Server{
		factory:    factory,
		engine:     eng,
		store:      store,
		runTimeout: runner.DefaultRunTimeout,
		mcpServer:  server.NewMCPServer("brainloop-mcp", strings.TrimSpace(brainloop.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	eofEnum := mcp.Enum(string(domain.EOFLeaveUnchanged), string(domain.EOFSetZero), string(domain.EOFFail))

	// TOOL: run_program
	s.mcpServer.AddTool(mcp.NewTool("run_program",
		mcp.WithDescription("Compile and run a program, returning everything it printed."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Program source. Characters other than the eight commands are comments.")),
		mcp.WithString("input", mcp.Description("Bytes available to the input command")),
		mcp.WithString("eof", eofEnum, mcp.Description("Behavior of the input command once input is exhausted")),
		mcp.WithNumber("step_limit", mcp.Description("Abort after this many steps (cannot exceed the server limit; 0 keeps it)")),
		mcp.WithOutputSchema[RunResponse](),
	), mcp.NewStructuredToolHandler(s.handleRunProgram))

	// TOOL: check_program
	s.mcpServer.AddTool(mcp.NewTool("check_program",
		mcp.WithDescription("Verify bracket nesting and report program statistics without running it."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Program source")),
		mcp.WithOutputSchema[CheckResponse](),
	), mcp.NewStructuredToolHandler(s.handleCheckProgram))

	if s.store == nil {
		return
	}

	// TOOL: list_programs
	s.mcpServer.AddTool(mcp.NewTool("list_programs",
		mcp.WithDescription("List the names of stored programs."),
		mcp.WithOutputSchema[ListResponse](),
	), mcp.NewStructuredToolHandler(s.handleListPrograms))

	// TOOL: run_stored_program
	s.mcpServer.AddTool(mcp.NewTool("run_stored_program",
		mcp.WithDescription("Run a stored program by name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Stored program name")),
		mcp.WithString("input", mcp.Description("Bytes available to the input command")),
		mcp.WithString("eof", eofEnum, mcp.Description("Behavior of the input command once input is exhausted")),
		mcp.WithNumber("step_limit", mcp.Description("Abort after this many steps (cannot exceed the server limit; 0 keeps it)")),
		mcp.WithOutputSchema[RunResponse](),
	), mcp.NewStructuredToolHandler(s.handleRunStoredProgram))
}

func (s *Server) registerResources() {
	if s.store == nil {
		return
	}
	s.mcpServer.AddResource(mcp.NewResource(ProgramsURI, "Stored Programs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list programs: %w", err)
		}
		jsonBytes, _ := json.Marshal(ListResponse{Programs: names})

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ProgramsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// Handler methods for structured tools

func (s *Server) handleRunProgram(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	ra, err := decodeArgs(args)
	if err != nil {
		return RunResponse{}, err
	}
	return s.run(ctx, ra.Source, ra)
}

func (s *Server) handleRunStoredProgram(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	ra, err := decodeArgs(args)
	if err != nil {
		return RunResponse{}, err
	}
	src, err := s.store.Load(ctx, ra.Name)
	if err != nil {
		return RunResponse{}, fmt.Errorf("load %q: %w", ra.Name, err)
	}
	return s.run(ctx, src, ra)
}

func (s *Server) handleCheckProgram(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CheckResponse, error) {
	ra, err := decodeArgs(args)
	if err != nil {
		return CheckResponse{}, err
	}
	if err := runner.CheckRequest(ra.Source, ""); err != nil {
		return CheckResponse{}, err
	}

	prog, err := s.engine.Compile(ctx, ra.Source)
	var mm *domain.BracketMismatchError
	switch {
	case errors.As(err, &mm):
		return CheckResponse{
			Error:    mm.Error(),
			Kind:     string(mm.Kind),
			Position: mm.Position,
			Line:     mm.Line,
			Column:   mm.Column,
		}, nil
	case err != nil:
		return CheckResponse{}, err
	}
	return CheckResponse{Valid: true, Stats: prog.Stats(), Canonical: prog.String()}, nil
}

func (s *Server) handleListPrograms(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ListResponse, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		return ListResponse{}, err
	}
	if names == nil {
		names = []string{}
	}
	return ListResponse{Programs: names}, nil
}

func (s *Server) run(ctx context.Context, source string, args RunArgs) (RunResponse, error) {
	if err := runner.CheckRequest(source, args.Input); err != nil {
		slog.Warn("MCP Run: request rejected", "error", err)
		return RunResponse{}, err
	}

	eng, err := s.interpreterFor(args)
	if err != nil {
		return RunResponse{}, err
	}
	prog, err := eng.Compile(ctx, source)
	if err != nil {
		return RunResponse{}, fmt.Errorf("compile failed: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	var out bytes.Buffer
	res, runErr := eng.Run(runCtx, prog, strings.NewReader(args.Input), &out)

	resp := RunResponse{
		Output:       out.String(),
		OutputBase64: base64.StdEncoding.EncodeToString(out.Bytes()),
	}
	if res != nil {
		resp.Steps = res.Steps
	}
	switch {
	case runErr == nil:
	case ctx.Err() != nil:
		return RunResponse{}, runErr
	case errors.Is(runErr, context.DeadlineExceeded):
		resp.Error = fmt.Sprintf("run timed out after %s", s.runTimeout)
	default:
		resp.Error = runErr.Error()
	}
	return resp, nil
}

func (s *Server) interpreterFor(args RunArgs) (ports.Interpreter, error) {
	var opts []brainloop.Option
	if args.EOF != "" {
		p, err := domain.ParseEOFPolicy(args.EOF)
		if err != nil {
			return nil, err
		}
		opts = append(opts, brainloop.WithEOFPolicy(p))
	}
	if limit := s.stepLimitFor(args.StepLimit); limit > 0 {
		opts = append(opts, brainloop.WithStepLimit(limit))
	}
	if len(opts) == 0 {
		return s.engine, nil
	}
	return s.factory(opts...)
}

// stepLimitFor lets a client lower the configured step budget but never raise it.
// It returns 0 when the base engine keeps its own limit.
func (s *Server) stepLimitFor(requested uint64) uint64 {
	if requested == 0 {
		return 0
	}
	limited, ok := s.engine.(interface{ StepLimit() uint64 })
	if !ok {
		return requested
	}
	if base := limited.StepLimit(); base > 0 && base <= requested {
		return 0
	}
	return requested
}

// decodeArgs converts loosely typed tool arguments (numbers arrive as float64).
func decodeArgs(args map[string]interface{}) (RunArgs, error) {
	var ra RunArgs
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &ra,
	})
	if err != nil {
		return ra, err
	}
	if err := dec.Decode(args); err != nil {
		return ra, fmt.Errorf("invalid arguments: %w", err)
	}
	return ra, nil
}
