package observability

import (
	"context"
	"errors"

	"github.com/aretw0/brainloop/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes used as the "outcome" label.
const (
	OutcomeOK         = "ok"
	OutcomeIOError    = "io_error"
	OutcomeStepLimit  = "step_limit"
	OutcomeCanceled   = "canceled"
	OutcomeOtherError = "error"
)

// Metrics holds the Prometheus collectors fed by engine lifecycle hooks.
type Metrics struct {
	runs          *prometheus.CounterVec
	compileErrors *prometheus.CounterVec
	steps         prometheus.Counter
	outputBytes   prometheus.Counter
	duration      prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brainloop_runs_total",
				Help: "Total number of program runs by outcome",
			},
			[]string{"outcome"},
		),
		compileErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brainloop_compile_errors_total",
				Help: "Total number of programs rejected for bracket mismatch",
			},
			[]string{"kind"},
		),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brainloop_steps_total",
			Help: "Total number of executed steps across all runs",
		}),
		outputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brainloop_output_bytes_total",
			Help: "Total number of bytes written by programs",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "brainloop_run_duration_seconds",
			Help:    "Duration of program runs",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}

	for _, c := range []prometheus.Collector{m.runs, m.compileErrors, m.steps, m.outputBytes, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			m.runs.WithLabelValues(Outcome(e.Err)).Inc()
			m.steps.Add(float64(e.Steps))
			m.outputBytes.Add(float64(e.OutputBytes))
			m.duration.Observe(e.Duration.Seconds())
		},
		OnCompileError: func(_ context.Context, e *domain.CompileEvent) {
			m.compileErrors.WithLabelValues(string(e.Err.Kind)).Inc()
		},
	}
}

// Outcome classifies a run error into a metric label.
func Outcome(err error) string {
	var ioErr *domain.IOError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrStepLimitExceeded):
		return OutcomeStepLimit
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case errors.As(err, &ioErr):
		return OutcomeIOError
	}
	return OutcomeOtherError
}
