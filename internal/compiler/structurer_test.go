package compiler_test

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/brainloop/internal/compiler"
	"github.com/aretw0/brainloop/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructure_Shapes(t *testing.T) {
	t.Run("flat", func(t *testing.T) {
		prog, err := compiler.Structure(compiler.Lex("+>-"))
		require.NoError(t, err)
		assert.Equal(t, []domain.Node{
			domain.Leaf{Cmd: domain.CmdIncrement},
			domain.Leaf{Cmd: domain.CmdMoveRight},
			domain.Leaf{Cmd: domain.CmdDecrement},
		}, prog.Nodes)
	})

	t.Run("empty loop", func(t *testing.T) {
		prog, err := compiler.Structure(compiler.Lex("[]"))
		require.NoError(t, err)
		require.Len(t, prog.Nodes, 1)
		loop, ok := prog.Nodes[0].(domain.Loop)
		require.True(t, ok)
		assert.Empty(t, loop.Body)
	})

	t.Run("nested and sibling loops", func(t *testing.T) {
		prog, err := compiler.Structure(compiler.Lex("+[>[-]<][.]"))
		require.NoError(t, err)
		assert.Equal(t, []domain.Node{
			domain.Leaf{Cmd: domain.CmdIncrement},
			domain.Loop{Body: []domain.Node{
				domain.Leaf{Cmd: domain.CmdMoveRight},
				domain.Loop{Body: []domain.Node{domain.Leaf{Cmd: domain.CmdDecrement}}},
				domain.Leaf{Cmd: domain.CmdMoveLeft},
			}},
			domain.Loop{Body: []domain.Node{domain.Leaf{Cmd: domain.CmdOutput}}},
		}, prog.Nodes)
	})

	t.Run("deep nesting", func(t *testing.T) {
		prog, err := compiler.Structure(compiler.Lex("[[[[[[[[+]]]]]]]]"))
		require.NoError(t, err)
		assert.Equal(t, 8, prog.Stats().MaxDepth)
		assert.Equal(t, "[[[[[[[[+]]]]]]]]", prog.String())
	})
}

func TestStructure_Mismatch(t *testing.T) {
	tests := []struct {
		src      string
		sentinel error
		position int
		depth    int
	}{
		{"]", domain.ErrUnexpectedClose, 0, 0},
		{"[", domain.ErrUnclosedOpen, 0, 1},
		{"+]", domain.ErrUnexpectedClose, 1, 0},
		{"[]]", domain.ErrUnexpectedClose, 2, 0},
		{"[[]", domain.ErrUnclosedOpen, 0, 1},
		{"[][", domain.ErrUnclosedOpen, 2, 1},
		{"+[[", domain.ErrUnclosedOpen, 1, 2},
		{"][", domain.ErrUnexpectedClose, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := compiler.Structure(compiler.Lex(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var mm *domain.BracketMismatchError
			require.ErrorAs(t, err, &mm)
			assert.Equal(t, tt.position, mm.Position)
			assert.Equal(t, tt.depth, mm.Depth)
		})
	}
}

// randomBalanced builds a bracket-balanced command sequence.
func randomBalanced(rng *rand.Rand, n int) []domain.Command {
	plain := []domain.Command{
		domain.CmdMoveLeft, domain.CmdMoveRight, domain.CmdIncrement,
		domain.CmdDecrement, domain.CmdOutput, domain.CmdInput,
	}
	var out []domain.Command
	open := 0
	for i := 0; i < n; i++ {
		switch r := rng.IntN(10); {
		case r == 0:
			out = append(out, domain.CmdLoopStart)
			open++
		case r == 1 && open > 0:
			out = append(out, domain.CmdLoopEnd)
			open--
		default:
			out = append(out, plain[rng.IntN(len(plain))])
		}
	}
	for ; open > 0; open-- {
		out = append(out, domain.CmdLoopEnd)
	}
	return out
}

func TestStructure_BalancedPreservesLeafOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	for i := 0; i < 200; i++ {
		cmds := randomBalanced(rng, rng.IntN(120))

		prog, err := compiler.Structure(cmds)
		require.NoError(t, err)

		var want []domain.Command
		opens := 0
		for _, c := range cmds {
			if c == domain.CmdLoopStart {
				opens++
			}
			if !c.IsBlock() {
				want = append(want, c)
			}
		}
		assert.Equal(t, want, prog.Flatten())
		assert.Equal(t, opens, prog.Stats().Loops)
	}
}

func TestStructure_UnmatchedBracketsAlwaysFail(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 0))
	for i := 0; i < 100; i++ {
		cmds := randomBalanced(rng, 40)

		extraClose := append(append([]domain.Command{}, cmds...), domain.CmdLoopEnd)
		_, err := compiler.Structure(extraClose)
		var mm *domain.BracketMismatchError
		require.ErrorAs(t, err, &mm)
		assert.Equal(t, domain.MismatchUnexpectedClose, mm.Kind)
		assert.Equal(t, len(cmds), mm.Position)

		extraOpen := append([]domain.Command{domain.CmdLoopStart}, cmds...)
		_, err = compiler.Structure(extraOpen)
		assert.ErrorIs(t, err, domain.ErrUnclosedOpen)
	}
}

func TestStructure_DeepNestingIsLinear(t *testing.T) {
	const depth = 32 * 1024
	src := strings.Repeat("[", depth) + strings.Repeat("]", depth)

	start := time.Now()
	prog, err := compiler.NewParser().Parse(src)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, depth, prog.Stats().MaxDepth)
	assert.Less(t, elapsed, time.Second, "a 64KB source must structure in one pass")

	_, err = compiler.NewParser().Parse(src + "]")
	var mm *domain.BracketMismatchError
	require.ErrorAs(t, err, &mm)
	assert.Equal(t, 2*depth, mm.Position)
}
