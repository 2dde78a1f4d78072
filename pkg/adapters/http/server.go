package http

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
	"github.com/go-chi/chi/v5"
)

// DefaultRunTimeout bounds a single program run triggered over HTTP.
const DefaultRunTimeout = runner.DefaultRunTimeout

// Server exposes an Interpreter and a ProgramStore over JSON/HTTP.
type Server struct {
	Engine     ports.Interpreter
	Store      ports.ProgramStore
	RunTimeout time.Duration
	Metrics    http.Handler
	Logger     *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithRunTimeout overrides DefaultRunTimeout.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.RunTimeout = d
	}
}

// WithMetricsHandler mounts h (typically promhttp) at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine and store.
func NewHandler(engine ports.Interpreter, store ports.ProgramStore, opts ...Option) http.Handler {
	s := &Server{
		Engine:     engine,
		Store:      store,
		RunTimeout: DefaultRunTimeout,
		Logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/run", s.Run)
	r.Post("/check", s.Check)

	r.Route("/programs", func(r chi.Router) {
		r.Get("/", s.ListPrograms)
		r.Put("/{name}", s.PutProgram)
		r.Get("/{name}", s.GetProgram)
		r.Delete("/{name}", s.DeleteProgram)
		r.Post("/{name}/run", s.RunProgram)
	})

	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RunRequest is the body of POST /run. InputBase64, when set, takes precedence over Input.
type RunRequest struct {
	Source      string `json:"source"`
	Input       string `json:"input,omitempty"`
	InputBase64 string `json:"input_base64,omitempty"`
}

// RunResponse carries the program output both as text and as raw bytes.
type RunResponse struct {
	Output       string `json:"output"`
	OutputBase64 string `json:"output_base64"`
	Steps        uint64 `json:"steps"`
	Error        string `json:"error,omitempty"`
}

// CheckResponse is returned by POST /check for a well-formed program.
type CheckResponse struct {
	Valid     bool                `json:"valid"`
	Stats     domain.ProgramStats `json:"stats"`
	Canonical string              `json:"canonical"`
}

// ErrorResponse describes a rejected request. Kind and location are set for bracket mismatches.
type ErrorResponse struct {
	Error    string `json:"error"`
	Kind     string `json:"kind,omitempty"`
	Position *int   `json:"position,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// ProgramRequest is the body of PUT /programs/{name}.
type ProgramRequest struct {
	Source string `json:"source"`
}

// ProgramResponse is returned by GET /programs/{name}.
type ProgramResponse struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// Run handles the POST /run request.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, statusFor(err), err)
		s.Logger.Warn("Run: Invalid request body", "error", err)
		return
	}
	input, err := decodeInput(body.Input, body.InputBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.execute(w, r, body.Source, input)
}

// Check handles the POST /check request.
func (s *Server) Check(w http.ResponseWriter, r *http.Request) {
	var body ProgramRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if err := runner.CheckRequest(body.Source, ""); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	prog, err := s.Engine.Compile(r.Context(), body.Source)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, CheckResponse{Valid: true, Stats: prog.Stats(), Canonical: prog.String()})
}

// ListPrograms handles the GET /programs request.
func (s *Server) ListPrograms(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		s.Logger.Error("ListPrograms failed", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"programs": names})
}

// PutProgram handles the PUT /programs/{name} request. Malformed programs are not stored.
func (s *Server) PutProgram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body ProgramRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if err := runner.CheckRequest(body.Source, ""); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	if _, err := s.Engine.Compile(r.Context(), body.Source); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	if err := s.Store.Save(r.Context(), name, body.Source); err != nil {
		writeError(w, statusFor(err), err)
		if statusFor(err) == http.StatusInternalServerError {
			s.Logger.Error("PutProgram failed", "name", name, "error", err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProgram handles the GET /programs/{name} request.
func (s *Server) GetProgram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	src, err := s.Store.Load(r.Context(), name)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ProgramResponse{Name: name, Source: src})
}

// DeleteProgram handles the DELETE /programs/{name} request.
func (s *Server) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunProgram handles the POST /programs/{name}/run request.
func (s *Server) RunProgram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body RunRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &body); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
	}
	input, err := decodeInput(body.Input, body.InputBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	src, err := s.Store.Load(r.Context(), name)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.execute(w, r, src, input)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "brainloop-http",
		"version": strings.TrimSpace(brainloop.Version),
	})
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, source string, input []byte) {
	if err := runner.CheckRequest(source, string(input)); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	prog, err := s.Engine.Compile(r.Context(), source)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.RunTimeout)
	defer cancel()

	var out bytes.Buffer
	res, runErr := s.Engine.Run(ctx, prog, bytes.NewReader(input), &out)

	resp := RunResponse{
		Output:       out.String(),
		OutputBase64: base64.StdEncoding.EncodeToString(out.Bytes()),
	}
	if res != nil {
		resp.Steps = res.Steps
	}
	if runErr != nil {
		resp.Error = runErr.Error()
		s.Logger.Info("Run: program failed", "error", runErr, "steps", resp.Steps)
		writeJSON(w, statusFor(runErr), resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

var (
	errBadBody      = errors.New("invalid request body")
	errBodyTooLarge = errors.New("request body too large")
)

// decodeBody reads at most runner.MaxBodySize bytes of JSON into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, runner.MaxBodySize())
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit=%d", errBodyTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

func decodeInput(text, b64 string) ([]byte, error) {
	if b64 == "" {
		return []byte(text), nil
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("invalid input_base64: %w", err)
	}
	return data, nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var mm *domain.BracketMismatchError
	var ioErr *domain.IOError
	switch {
	case errors.As(err, &mm):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrProgramNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidProgramName), errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case errors.Is(err, runner.ErrSourceTooLarge), errors.Is(err, runner.ErrInputTooLarge), errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrStepLimitExceeded), errors.As(err, &ioErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var mm *domain.BracketMismatchError
	if errors.As(err, &mm) {
		pos := mm.Position
		resp.Kind = string(mm.Kind)
		resp.Position = &pos
		resp.Line = mm.Line
		resp.Column = mm.Column
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
