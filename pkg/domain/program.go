package domain

import "strings"

// Program is the root of a structured program: an implicit, unbracketed block.
// It is immutable once built.
type Program struct {
	Nodes []Node
}

// ProgramStats summarises the shape of a program tree.
type ProgramStats struct {
	Leaves   int `json:"leaves"`
	Loops    int `json:"loops"`
	MaxDepth int `json:"max_depth"`
}

// Stats walks the tree and counts its nodes.
func (p *Program) Stats() ProgramStats {
	var st ProgramStats
	var walk func(nodes []Node, depth int)
	walk = func(nodes []Node, depth int) {
		if depth > st.MaxDepth {
			st.MaxDepth = depth
		}
		for _, n := range nodes {
			switch n := n.(type) {
			case Leaf:
				st.Leaves++
			case Loop:
				st.Loops++
				walk(n.Body, depth+1)
			}
		}
	}
	walk(p.Nodes, 0)
	return st
}

// Flatten returns the leaf commands in source order, brackets omitted.
func (p *Program) Flatten() []Command {
	var out []Command
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			switch n := n.(type) {
			case Leaf:
				out = append(out, n.Cmd)
			case Loop:
				walk(n.Body)
			}
		}
	}
	walk(p.Nodes)
	return out
}

// String renders the canonical source of the program: commands only, no comments.
func (p *Program) String() string {
	var sb strings.Builder
	writeNodes(&sb, p.Nodes)
	return sb.String()
}

func writeNodes(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case Leaf:
			sb.WriteByte(n.Cmd.Symbol())
		case Loop:
			sb.WriteByte('[')
			writeNodes(sb, n.Body)
			sb.WriteByte(']')
		}
	}
}
