package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the brainloop banner to w, coloured for the terminal profile of w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{" _               _       _                   ", "#818cf8"},
		{"| |__  _ __ __ _(_)_ __ | | ___   ___  _ __  ", "#a78bfa"},
		{"| '_ \\| '__/ _` | | '_ \\| |/ _ \\ / _ \\| '_ \\ ", "#c084fc"},
		{"| |_) | | | (_| | | | | | | (_) | (_) | |_) |", "#e879f9"},
		{"|_.__/|_|  \\__,_|_|_| |_|_|\\___/ \\___/| .__/ ", "#f472b6"},
		{"                                      |_|    ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
