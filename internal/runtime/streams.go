package runtime

import (
	"bufio"
	"io"

	"github.com/aretw0/brainloop/pkg/domain"
)

// NewSource adapts r to a byte source, buffering it unless it already reads bytes.
func NewSource(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// Flusher is implemented by buffered sinks.
type Flusher interface {
	Flush() error
}

// flushingSource flushes pending output before each read so that prompts
// written by the program are visible before it blocks on input.
type flushingSource struct {
	src io.ByteReader
	out Flusher
}

// NewFlushingSource wraps src so that out is flushed before every read.
func NewFlushingSource(src io.ByteReader, out Flusher) io.ByteReader {
	return &flushingSource{src: src, out: out}
}

func (f *flushingSource) ReadByte() (byte, error) {
	if err := f.out.Flush(); err != nil {
		return 0, &domain.IOError{Op: "write", Err: err}
	}
	return f.src.ReadByte()
}
