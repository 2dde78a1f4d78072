package runtime

import (
	"io"

	"github.com/aretw0/brainloop/pkg/domain"
)

// StepObserver is called once per executed step: each Leaf, and each entry
// into a Loop body. Returning an error aborts the run with that error.
// The core never cancels on its own; hosts use this to enforce budgets.
type StepObserver func(steps uint64) error

// Engine walks program trees against a fresh ExecutionState per run.
type Engine struct {
	tapeSize int
	eof      domain.EOFPolicy
	observer StepObserver
}

// EngineOption configures the runtime Engine.
type EngineOption func(*Engine)

// WithTapeSize sets the tape length. The pointer wraps modulo this length.
func WithTapeSize(n int) EngineOption {
	return func(e *Engine) {
		e.tapeSize = n
	}
}

// WithEOFPolicy sets the behaviour of input once the source is exhausted.
func WithEOFPolicy(p domain.EOFPolicy) EngineOption {
	return func(e *Engine) {
		e.eof = p
	}
}

// WithStepObserver installs a per-step callback.
func WithStepObserver(obs StepObserver) EngineOption {
	return func(e *Engine) {
		e.observer = obs
	}
}

// NewEngine creates a runtime engine. Defaults: 256 cells, leave-unchanged on EOF.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		tapeSize: DefaultTapeSize,
		eof:      domain.EOFLeaveUnchanged,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewState allocates the per-run state for the given streams.
func (e *Engine) NewState(in io.ByteReader, out io.ByteWriter) *ExecutionState {
	return &ExecutionState{
		Tape: NewTape(e.tapeSize),
		In:   in,
		Out:  out,
		EOF:  e.eof,
	}
}

// frame is a position inside one node sequence. While a Loop body runs, the
// enclosing frame keeps pointing at the Loop so it is re-tested on return.
type frame struct {
	nodes []domain.Node
	pc    int
}

// Run executes prog to completion against state. The only errors are
// *domain.IOError from the streams and whatever the StepObserver returns.
// Nesting is handled with an explicit frame stack, not native recursion.
func (e *Engine) Run(prog *domain.Program, state *ExecutionState) error {
	stack := make([]frame, 1, 16)
	stack[0] = frame{nodes: prog.Nodes}
	tape := state.Tape

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.pc >= len(top.nodes) {
			stack = stack[:len(stack)-1]
			continue
		}

		switch n := top.nodes[top.pc].(type) {
		case domain.Loop:
			if tape.Get() == 0 {
				top.pc++
				continue
			}
			if err := e.step(state); err != nil {
				return err
			}
			stack = append(stack, frame{nodes: n.Body})

		case domain.Leaf:
			top.pc++
			if err := e.step(state); err != nil {
				return err
			}
			switch n.Cmd {
			case domain.CmdMoveLeft:
				tape.Left()
			case domain.CmdMoveRight:
				tape.Right()
			case domain.CmdIncrement:
				tape.Inc()
			case domain.CmdDecrement:
				tape.Dec()
			case domain.CmdOutput:
				if err := state.output(); err != nil {
					return err
				}
			case domain.CmdInput:
				if err := state.input(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (e *Engine) step(state *ExecutionState) error {
	state.Steps++
	if e.observer != nil {
		return e.observer(state.Steps)
	}
	return nil
}
