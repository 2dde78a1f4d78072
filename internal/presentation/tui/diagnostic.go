package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/brainloop/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintDiagnostic writes err to w. Bracket mismatches are shown with the
// offending source line and a caret under the bracket.
func PrintDiagnostic(w io.Writer, file, source string, err error) {
	out := termenv.NewOutput(w)
	label := out.String("error:").Foreground(out.Color("#ef4444")).Bold()

	var mm *domain.BracketMismatchError
	if !errors.As(err, &mm) || mm.Line == 0 {
		fmt.Fprintf(w, "%s %v\n", label, err)
		return
	}

	fmt.Fprintf(w, "%s %s:%d:%d: %v\n", label, file, mm.Line, mm.Column, err)

	lines := strings.Split(source, "\n")
	if mm.Line > len(lines) {
		return
	}
	line := strings.TrimRight(lines[mm.Line-1], "\r")
	gutter := fmt.Sprintf("%4d | ", mm.Line)
	fmt.Fprintf(w, "%s%s\n", out.String(gutter).Faint(), line)

	caret := strings.Repeat(" ", len(gutter)+runePrefixWidth(line, mm.Column-1)) + "^"
	fmt.Fprintln(w, out.String(caret).Foreground(out.Color("#ef4444")))
}

// runePrefixWidth returns the number of runes of line before column n+1.
func runePrefixWidth(line string, n int) int {
	count := 0
	for range line {
		if count == n {
			break
		}
		count++
	}
	return count
}
