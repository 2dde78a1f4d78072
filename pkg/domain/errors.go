package domain

import (
	"errors"
	"fmt"
)

// ErrUnexpectedClose is matched by a BracketMismatchError for a loop-end with no open loop.
var ErrUnexpectedClose = errors.New("unexpected loop close")

// ErrUnclosedOpen is matched by a BracketMismatchError for a loop-start that is never closed.
var ErrUnclosedOpen = errors.New("unclosed loop open")

// ErrInputExhausted is returned under EOFFail when an input command finds no more bytes.
var ErrInputExhausted = errors.New("input exhausted")

// ErrStepLimitExceeded is returned when a run exceeds the configured step budget.
var ErrStepLimitExceeded = errors.New("step limit exceeded")

// ErrProgramNotFound is returned when a program name cannot be found in the store.
var ErrProgramNotFound = errors.New("program not found")

// ErrInvalidProgramName is returned when a program name cannot be used as a store key.
var ErrInvalidProgramName = errors.New("invalid program name")

// MismatchKind distinguishes the two ways bracket nesting can be malformed.
type MismatchKind string

const (
	MismatchUnexpectedClose MismatchKind = "unexpected_close"
	MismatchUnclosedOpen    MismatchKind = "unclosed_open"
)

// BracketMismatchError reports malformed bracket nesting found while structuring.
// Position is the index in the command sequence (comments excluded) of the
// offending bracket: the stray loop-end, or the first loop-start left open.
// Depth is the nesting depth still open at end of input (zero for UnexpectedClose).
// Offset, Line and Column locate the bracket in the source text when it is known;
// Line and Column are 1-based and zero otherwise.
type BracketMismatchError struct {
	Kind     MismatchKind
	Position int
	Depth    int
	Offset   int
	Line     int
	Column   int
}

func (e *BracketMismatchError) Error() string {
	switch e.Kind {
	case MismatchUnexpectedClose:
		return fmt.Sprintf("bracket mismatch: unexpected ']' at position %d", e.Position)
	case MismatchUnclosedOpen:
		return fmt.Sprintf("bracket mismatch: unclosed '[' at position %d (depth %d)", e.Position, e.Depth)
	}
	return fmt.Sprintf("bracket mismatch at position %d", e.Position)
}

// Is lets errors.Is match the sentinel for the mismatch kind.
func (e *BracketMismatchError) Is(target error) bool {
	switch e.Kind {
	case MismatchUnexpectedClose:
		return target == ErrUnexpectedClose
	case MismatchUnclosedOpen:
		return target == ErrUnclosedOpen
	}
	return false
}

// IOError wraps a failure of the input source or output sink during a run.
type IOError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
