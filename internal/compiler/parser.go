package compiler

import (
	"errors"
	"unicode/utf8"

	"github.com/aretw0/brainloop/pkg/domain"
)

// Parser is responsible for converting raw source text into a Program.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse lexes and structures src. A bracket mismatch is returned as a
// *domain.BracketMismatchError located in the source text.
func (p *Parser) Parse(src string) (*domain.Program, error) {
	tokens := Tokenize(src)
	cmds := make([]domain.Command, len(tokens))
	for i, t := range tokens {
		cmds[i] = t.Cmd
	}

	prog, err := Structure(cmds)
	if err != nil {
		var mm *domain.BracketMismatchError
		if errors.As(err, &mm) && mm.Position < len(tokens) {
			mm.Offset = tokens[mm.Position].Offset
			mm.Line, mm.Column = lineColumn(src, mm.Offset)
		}
		return nil, err
	}
	return prog, nil
}

// lineColumn converts a byte offset into a 1-based line and rune column.
func lineColumn(src string, offset int) (int, int) {
	line, col := 1, 1
	for i := 0; i < offset && i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		i += size
	}
	return line, col
}
