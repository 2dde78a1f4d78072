package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/brainloop/pkg/domain"
)

// maxLabel caps the number of command characters shown in a block label.
const maxLabel = 24

// GenerateMermaid produces a Mermaid flowchart of a program tree.
// It applies semantic styling:
// - Entry/Exit: ((Circle))
// - Straight-line run of commands: [Rectangle]
// - Loop test on the current cell: {Rhombus}
// Loop bodies leave the rhombus on the "≠ 0" edge and return to it; the
// "= 0" edge continues with the next node of the enclosing block.
func GenerateMermaid(prog *domain.Program) string {
	b := &builder{}
	b.sb.WriteString("graph TD\n")
	b.sb.WriteString("    start((\"start\"))\n")

	last, label := b.emit(prog.Nodes, "start", "")

	b.sb.WriteString("    finish((\"end\"))\n")
	b.edge(last, "finish", label)

	b.sb.WriteString("\n    classDef loop fill:#fff3e0,stroke:#e65100,color:#000;\n")
	for _, id := range b.loops {
		fmt.Fprintf(&b.sb, "    class %s loop;\n", id)
	}
	return b.sb.String()
}

type builder struct {
	sb    strings.Builder
	next  int
	loops []string
}

func (b *builder) id(prefix string) string {
	b.next++
	return fmt.Sprintf("%s%d", prefix, b.next)
}

func (b *builder) edge(from, to, label string) {
	if label == "" {
		fmt.Fprintf(&b.sb, "    %s --> %s\n", from, to)
		return
	}
	fmt.Fprintf(&b.sb, "    %s -- \"%s\" --> %s\n", from, label, to)
}

// emit writes nodes after prev and returns the last node written together with
// the label its outgoing edge must carry.
func (b *builder) emit(nodes []domain.Node, prev, label string) (string, string) {
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
			id := b.id("b")
			fmt.Fprintf(&b.sb, "    %s[\"%s\"]\n", id, escapeLabel(run.String()))
			b.edge(prev, id, label)
			prev, label = id, ""

		case domain.Loop:
			i++
			id := b.id("l")
			b.loops = append(b.loops, id)
			fmt.Fprintf(&b.sb, "    %s{\"cell ≠ 0 ?\"}\n", id)
			b.edge(prev, id, label)

			bodyLast, bodyLabel := b.emit(n.Body, id, "≠ 0")
			b.edge(bodyLast, id, bodyLabel)
			prev, label = id, "= 0"
		}
	}
	return prev, label
}

// escapeLabel truncates long runs and escapes characters Mermaid treats as markup.
func escapeLabel(s string) string {
	if len(s) > maxLabel {
		s = fmt.Sprintf("%s… (%d)", s[:maxLabel], len(s))
	}
	r := strings.NewReplacer("<", "#lt;", ">", "#gt;", "\"", "#quot;")
	return r.Replace(s)
}
