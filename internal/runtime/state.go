package runtime

import (
	"errors"
	"io"

	"github.com/aretw0/brainloop/pkg/domain"
)

// ExecutionState is owned by a single run: the tape, its pointer and the two
// byte streams. It is created at run start and discarded at run end.
type ExecutionState struct {
	Tape   *Tape
	In     io.ByteReader
	Out    io.ByteWriter
	EOF    domain.EOFPolicy
	Steps  uint64
	Output uint64
}

func (s *ExecutionState) input() error {
	b, err := s.In.ReadByte()
	if err == nil {
		s.Tape.Set(b)
		return nil
	}
	var ioErr *domain.IOError
	if errors.As(err, &ioErr) {
		return err
	}
	if err != io.EOF {
		return &domain.IOError{Op: "read", Err: err}
	}

	switch s.EOF {
	case domain.EOFSetZero:
		s.Tape.Set(0)
	case domain.EOFFail:
		return &domain.IOError{Op: "read", Err: domain.ErrInputExhausted}
	}
	return nil
}

func (s *ExecutionState) output() error {
	if err := s.Out.WriteByte(s.Tape.Get()); err != nil {
		return &domain.IOError{Op: "write", Err: err}
	}
	s.Output++
	return nil
}
