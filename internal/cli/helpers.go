package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/brainloop/internal/config"
)

// ErrReported marks a failure whose diagnostic was already written to the
// user. Callers should exit non-zero without printing it again.
var ErrReported = errors.New("error already reported")

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// LoadConfig reads the config file. explicit is true when the user named the
// file with --config, in which case it must exist.
func LoadConfig(path string, explicit bool) (config.Config, error) {
	if path == "" {
		path = config.DefaultFile
	}
	return config.Load(path, explicit)
}

// printSystemMessage prints a standardized system message to w.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

// interruptedBy names the signal that cancelled ctx, if ctx is a SignalContext.
func interruptedBy(ctx context.Context) string {
	sc, ok := ctx.(*SignalContext)
	if !ok {
		return ""
	}
	if sig := sc.Signal(); sig != nil {
		return " by " + sig.String()
	}
	return ""
}

// readSource loads a program file. Stdin is reserved for the program's input.
func readSource(path string) (string, error) {
	if path == "" || path == "-" {
		return "", fmt.Errorf("a program file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read program: %w", err)
	}
	return string(data), nil
}
