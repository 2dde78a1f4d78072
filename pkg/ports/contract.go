package ports

import (
	"context"
	"testing"

	"github.com/aretw0/brainloop/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunProgramStoreContract runs a suite of tests to verify that a ProgramStore
// implementation adheres to the defined interface contract. The store must be empty.
func RunProgramStoreContract(t *testing.T, store ProgramStore) {
	ctx := context.Background()

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "hello", "+++."))

		src, err := store.Load(ctx, "hello")
		require.NoError(t, err)
		assert.Equal(t, "+++.", src)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "hello", ",[.,]"))

		src, err := store.Load(ctx, "hello")
		require.NoError(t, err)
		assert.Equal(t, ",[.,]", src)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrProgramNotFound)
	})

	t.Run("Invalid Name", func(t *testing.T) {
		err := store.Save(ctx, "../escape", "+")
		assert.ErrorIs(t, err, domain.ErrInvalidProgramName)

		_, err = store.Load(ctx, "")
		assert.ErrorIs(t, err, domain.ErrInvalidProgramName)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "b-prog", "-"))
		require.NoError(t, store.Save(ctx, "a.prog", "+"))

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.prog", "b-prog", "hello"}, names)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "hello"))

		_, err := store.Load(ctx, "hello")
		assert.ErrorIs(t, err, domain.ErrProgramNotFound)

		require.NoError(t, store.Delete(ctx, "hello"), "deleting twice is not an error")

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.prog", "b-prog"}, names)
	})
}
