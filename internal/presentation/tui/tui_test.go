package tui_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/aretw0/brainloop/internal/compiler"
	"github.com/aretw0/brainloop/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport(t *testing.T) {
	prog, err := compiler.NewParser().Parse("echo: ,[.,] and done+")
	require.NoError(t, err)

	report := tui.BuildReport("echo.b", prog)
	assert.Contains(t, report, "# echo.b")
	assert.Contains(t, report, "| Commands | 4 |")
	assert.Contains(t, report, "| Loops | 1 |")
	assert.Contains(t, report, "```\n,[.,]+\n```")
	assert.Contains(t, report, "- `,`\n- **loop** while cell ≠ 0\n  - `.,`\n- `+`\n")
}

func TestBuildReport_EmptyBodies(t *testing.T) {
	prog, err := compiler.NewParser().Parse("[]")
	require.NoError(t, err)
	assert.Contains(t, tui.BuildReport("x", prog), "  - _empty body_")

	empty, err := compiler.NewParser().Parse("just words")
	require.NoError(t, err)
	assert.Contains(t, tui.BuildReport("x", empty), "_empty program_")
}

func TestPlainRenderer(t *testing.T) {
	render, err := tui.NewPlainRenderer()
	require.NoError(t, err)

	out, err := render("# Title\n\nbody text\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body text")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrintDiagnostic(t *testing.T) {
	source := "+++\n  ]x"
	_, err := compiler.NewParser().Parse(source)
	require.Error(t, err)

	var buf bytes.Buffer
	tui.PrintDiagnostic(&buf, "prog.b", source, err)

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "prog.b:2:3:")
	assert.Contains(t, lines[1], "   2 |   ]x")
	assert.Equal(t, strings.Repeat(" ", len("   2 | ")+2)+"^", lines[2])
}

func TestPrintDiagnostic_PlainError(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintDiagnostic(&buf, "prog.b", "", errors.New("read: broken"))
	assert.Contains(t, buf.String(), "error: read: broken")
}

func TestBannerAndTerminal(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "0.1.0\n")
	assert.Contains(t, buf.String(), "v0.1.0")

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, tui.IsTerminal(f))
	assert.Equal(t, 80, tui.Width(f, 80))
}
