package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aretw0/brainloop"
	"github.com/aretw0/brainloop/internal/config"
	httpadapter "github.com/aretw0/brainloop/pkg/adapters/http"
	"github.com/aretw0/brainloop/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Config config.Config
	Debug  bool
	Addr   string // overrides Config.HTTP.Addr when set
	Stdout io.Writer
}

// NewServerHandler builds the HTTP handler with metrics wired into the engine.
// It is split from Serve so the wiring can be exercised without a listener.
func NewServerHandler(opts ServeOptions, reg *prometheus.Registry) (http.Handler, func() error, error) {
	logger, err := createLogger(opts.Config, opts.Debug)
	if err != nil {
		return nil, nil, err
	}

	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, nil, err
	}

	engine, err := createEngine(opts.Config, logger, opts.Debug, metrics.Hooks())
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := createStore(opts.Config.Store)
	if err != nil {
		return nil, nil, err
	}

	handler := httpadapter.NewHandler(engine, store,
		httpadapter.WithLogger(logger),
		httpadapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)
	return handler, closeStore, nil
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, opts ServeOptions) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	addr := opts.Addr
	if addr == "" {
		addr = opts.Config.HTTP.Addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler, closeStore, err := NewServerHandler(opts, reg)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(opts.Stdout, "brainloop %s listening on %s", strings.TrimSpace(brainloop.Version), addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		printSystemMessage(opts.Stdout, "Server stopped gracefully")
		return nil
	}
}
