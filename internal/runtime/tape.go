package runtime

// DefaultTapeSize is 2^W cells for the uint8 cell width, so every pointer
// value of the cell type is a valid index.
const DefaultTapeSize = 256

// Tape is a fixed-length ring of uint8 cells addressed by a single pointer.
// Cell arithmetic wraps modulo 256 and the pointer wraps modulo the tape length.
type Tape struct {
	cells []uint8
	ptr   int
}

// NewTape allocates a zeroed tape of the given length.
// A non-positive size falls back to DefaultTapeSize.
func NewTape(size int) *Tape {
	if size <= 0 {
		size = DefaultTapeSize
	}
	return &Tape{cells: make([]uint8, size)}
}

// Len returns the number of cells.
func (t *Tape) Len() int { return len(t.cells) }

// Pointer returns the current pointer, always in [0, Len()).
func (t *Tape) Pointer() int { return t.ptr }

// Left moves the pointer one cell left, wrapping from 0 to the last cell.
func (t *Tape) Left() {
	if t.ptr == 0 {
		t.ptr = len(t.cells) - 1
		return
	}
	t.ptr--
}

// Right moves the pointer one cell right, wrapping from the last cell to 0.
func (t *Tape) Right() {
	t.ptr++
	if t.ptr == len(t.cells) {
		t.ptr = 0
	}
}

// Inc adds one to the current cell, wrapping 255 to 0.
func (t *Tape) Inc() { t.cells[t.ptr]++ }

// Dec subtracts one from the current cell, wrapping 0 to 255.
func (t *Tape) Dec() { t.cells[t.ptr]-- }

// Get returns the current cell.
func (t *Tape) Get() uint8 { return t.cells[t.ptr] }

// Set stores v in the current cell.
func (t *Tape) Set(v uint8) { t.cells[t.ptr] = v }

// Cell returns the value at index i modulo the tape length.
func (t *Tape) Cell(i int) uint8 {
	n := len(t.cells)
	return t.cells[((i%n)+n)%n]
}
