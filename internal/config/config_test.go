package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/brainloop/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	assert.Error(t, err)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
eof: set-zero
step_limit: 100000
store:
  kind: redis
  redis:
    addr: cache:6379
    ttl: 1h
`)
	cfg, err := config.Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "set-zero", cfg.EOF)
	assert.Equal(t, uint64(100000), cfg.StepLimit)
	assert.Equal(t, 256, cfg.TapeSize, "unset keys keep their defaults")
	assert.Equal(t, "redis", cfg.Store.Kind)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad eof":    "eof: sometimes\n",
		"bad tape":   "tape_size: 0\n",
		"bad store":  "store:\n  kind: s3\n",
		"bad syntax": "eof: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body), true)
			assert.Error(t, err)
		})
	}
}
