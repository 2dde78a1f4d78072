package runner_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/brainloop"
	"github.com/aretw0/brainloop/pkg/domain"
	"github.com/aretw0/brainloop/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	eng, err := brainloop.New(brainloop.WithEOFPolicy(domain.EOFSetZero))
	require.NoError(t, err)

	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithInput(strings.NewReader("abc")),
		runner.WithOutput(&out),
	)

	res, err := r.Run(context.Background(), eng, ",[.,]")
	require.NoError(t, err)
	assert.Equal(t, "abc", out.String())
	assert.Equal(t, uint64(3), res.OutputBytes)
}

func TestRunner_CompileError(t *testing.T) {
	eng, err := brainloop.New()
	require.NoError(t, err)

	_, err = runner.NewRunner().Run(context.Background(), eng, "[[]")
	assert.ErrorIs(t, err, domain.ErrUnclosedOpen)
}

func TestRunner_CancelledBeforeRead(t *testing.T) {
	eng, err := brainloop.New()
	require.NoError(t, err)
	prog, err := eng.Compile(context.Background(), ",.")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	r := runner.NewRunner(
		runner.WithInput(cancellingReader{cancel: cancel}),
		runner.WithOutput(&bytes.Buffer{}),
	)

	_, err = r.RunProgram(ctx, eng, prog)
	assert.ErrorIs(t, err, context.Canceled)
}

// cancellingReader cancels the run while "blocked" in Read.
type cancellingReader struct{ cancel context.CancelFunc }

func (c cancellingReader) Read(p []byte) (int, error) {
	c.cancel()
	p[0] = 'x'
	return 1, nil
}
