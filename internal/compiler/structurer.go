package compiler

import "github.com/aretw0/brainloop/pkg/domain"

// openLoop is a loop whose closing bracket has not been seen yet.
type openLoop struct {
	position int
	parent   []domain.Node
}

// Structure turns a flat command sequence into a program tree, one Loop per
// matched bracket pair. It fails with a *domain.BracketMismatchError when the
// brackets do not nest.
//
// A single pass keeps the enclosing node lists on a stack, so cost is linear
// in the number of commands whatever the nesting depth.
func Structure(cmds []domain.Command) (*domain.Program, error) {
	var open []openLoop
	nodes := make([]domain.Node, 0, len(cmds))

	for i, cmd := range cmds {
		switch cmd {
		case domain.CmdLoopStart:
			open = append(open, openLoop{position: i, parent: nodes})
			nodes = nil
		case domain.CmdLoopEnd:
			if len(open) == 0 {
				return nil, &domain.BracketMismatchError{
					Kind:     domain.MismatchUnexpectedClose,
					Position: i,
				}
			}
			top := open[len(open)-1]
			open = open[:len(open)-1]
			body := nodes
			if body == nil {
				body = []domain.Node{}
			}
			nodes = append(top.parent, domain.Loop{Body: body})
		default:
			nodes = append(nodes, domain.Leaf{Cmd: cmd})
		}
	}

	if len(open) != 0 {
		return nil, &domain.BracketMismatchError{
			Kind:     domain.MismatchUnclosedOpen,
			Position: open[0].position,
			Depth:    len(open),
		}
	}
	return &domain.Program{Nodes: nodes}, nil
}
