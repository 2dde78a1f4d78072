package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/brainloop/pkg/adapters/file"
	"github.com/aretw0/brainloop/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	ports.RunProgramStoreContract(t, file.New(t.TempDir()))
}

func TestStore_ListMissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "does-not-exist"))
	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStore_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "cat", ",[.,]"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-cat-123"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.b"), 0755))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat"}, names)

	data, err := os.ReadFile(filepath.Join(dir, "cat"+file.Extension))
	require.NoError(t, err)
	assert.Equal(t, ",[.,]", string(data))
}

func TestNew_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".brainloop", "programs"), file.New("").BasePath)
}
