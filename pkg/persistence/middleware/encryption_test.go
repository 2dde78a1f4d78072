package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/brainloop/pkg/adapters/memory"
	"github.com/aretw0/brainloop/pkg/persistence/middleware"
	"github.com/aretw0/brainloop/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func wrap(t *testing.T, cfg middleware.EncryptionConfig, next ports.ProgramStore) ports.ProgramStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return mw(next)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunProgramStoreContract(t, wrap(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}, memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := wrap(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}, underlying)
	ctx := context.Background()

	src := "++++++++[>++++++++<-]>+. secret"
	require.NoError(t, secure.Save(ctx, "p", src))

	raw, err := underlying.Load(ctx, "p")
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret")

	got, err := secure.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	require.NoError(t, wrap(t, middleware.EncryptionConfig{ActiveKey: oldKey}, underlying).Save(ctx, "p", "+."))

	rotated := wrap(t, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}}, underlying)
	got, err := rotated.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "+.", got)

	withoutOld := wrap(t, middleware.EncryptionConfig{ActiveKey: newKey}, underlying)
	_, err = withoutOld.Load(ctx, "p")
	assert.ErrorContains(t, err, "decryption failed")
}

func TestEncryptionMiddleware_RejectsPlainSource(t *testing.T) {
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(context.Background(), "p", "+."))

	_, err := wrap(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}, underlying).Load(context.Background(), "p")
	assert.ErrorIs(t, err, middleware.ErrNotEncrypted)
}

func TestNewEncryptionMiddleware_KeyLength(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.Error(t, err)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t), FallbackKeys: [][]byte{{1}}})
	assert.Error(t, err)
}
