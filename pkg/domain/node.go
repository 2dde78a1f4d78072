package domain

// Node is an element of a program tree: either a Leaf or a Loop.
type Node interface {
	node()
}

// Leaf holds a single non-loop command.
type Leaf struct {
	Cmd Command
}

// Loop holds the body enclosed by one matched bracket pair, brackets excluded.
type Loop struct {
	Body []Node
}

func (Leaf) node() {}
func (Loop) node() {}
