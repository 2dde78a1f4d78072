package domain

// Command is one of the eight recognised source instructions.
type Command uint8

const (
	CmdMoveLeft Command = iota + 1
	CmdMoveRight
	CmdIncrement
	CmdDecrement
	CmdOutput
	CmdInput
	CmdLoopStart
	CmdLoopEnd
)

var commandSymbols = map[Command]byte{
	CmdMoveLeft:  '<',
	CmdMoveRight: '>',
	CmdIncrement: '+',
	CmdDecrement: '-',
	CmdOutput:    '.',
	CmdInput:     ',',
	CmdLoopStart: '[',
	CmdLoopEnd:   ']',
}

var commandNames = map[Command]string{
	CmdMoveLeft:  "move-left",
	CmdMoveRight: "move-right",
	CmdIncrement: "increment",
	CmdDecrement: "decrement",
	CmdOutput:    "output",
	CmdInput:     "input",
	CmdLoopStart: "loop-start",
	CmdLoopEnd:   "loop-end",
}

// CommandFor maps a source character to its command.
// The boolean is false for any character outside the command table.
func CommandFor(c rune) (Command, bool) {
	switch c {
	case '<':
		return CmdMoveLeft, true
	case '>':
		return CmdMoveRight, true
	case '+':
		return CmdIncrement, true
	case '-':
		return CmdDecrement, true
	case '.':
		return CmdOutput, true
	case ',':
		return CmdInput, true
	case '[':
		return CmdLoopStart, true
	case ']':
		return CmdLoopEnd, true
	}
	return 0, false
}

// Symbol returns the source character for the command, or 0 if unknown.
func (c Command) Symbol() byte {
	return commandSymbols[c]
}

// IsBlock reports whether the command opens or closes a loop block.
func (c Command) IsBlock() bool {
	return c == CmdLoopStart || c == CmdLoopEnd
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}
