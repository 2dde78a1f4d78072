package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/brainloop/pkg/domain"
)

// BuildReport describes a program as markdown: shape statistics, the canonical
// source and an outline of its loop structure.
func BuildReport(name string, prog *domain.Program) string {
	st := prog.Stats()

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", name)

	sb.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Commands | %d |\n", st.Leaves)
	fmt.Fprintf(&sb, "| Loops | %d |\n", st.Loops)
	fmt.Fprintf(&sb, "| Max nesting | %d |\n\n", st.MaxDepth)

	sb.WriteString("## Source\n\n```\n")
	sb.WriteString(prog.String())
	sb.WriteString("\n```\n\n")

	sb.WriteString("## Structure\n\n")
	if len(prog.Nodes) == 0 {
		sb.WriteString("_empty program_\n")
		return sb.String()
	}
	outline(&sb, prog.Nodes, 0)
	return sb.String()
}

func outline(sb *strings.Builder, nodes []domain.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for i := 0; i < len(nodes); {
		switch n := nodes[i].(type) {
		case domain.Leaf:
			var run strings.Builder
			for ; i < len(nodes); i++ {
				leaf, ok := nodes[i].(domain.Leaf)
				if !ok {
					break
				}
				run.WriteByte(leaf.Cmd.Symbol())
			}
			fmt.Fprintf(sb, "%s- `%s`\n", indent, run.String())
		case domain.Loop:
			i++
			fmt.Fprintf(sb, "%s- **loop** while cell ≠ 0\n", indent)
			if len(n.Body) == 0 {
				fmt.Fprintf(sb, "%s  - _empty body_\n", indent)
				continue
			}
			outline(sb, n.Body, depth+1)
		}
	}
}
