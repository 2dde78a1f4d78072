package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/brainloop/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "brainloop.yaml"

// Config is the on-disk configuration of the brainloop CLI and servers.
type Config struct {
	EOF       string      `yaml:"eof"`
	TapeSize  int         `yaml:"tape_size"`
	StepLimit uint64      `yaml:"step_limit"`
	LogLevel  string      `yaml:"log_level"`
	Store     StoreConfig `yaml:"store"`
	HTTP      HTTPConfig  `yaml:"http"`
}

// StoreConfig selects the ProgramStore backend.
type StoreConfig struct {
	Kind  string      `yaml:"kind"` // memory | file | redis
	Path  string      `yaml:"path"`
	Redis RedisConfig `yaml:"redis"`

	// EncryptionKey (base64, 32 bytes) seals stored sources with AES-GCM when set.
	EncryptionKey string `yaml:"encryption_key"`
	// FallbackKeys are older keys still accepted for reading.
	FallbackKeys []string `yaml:"fallback_keys"`
}

// RedisConfig configures the Redis ProgramStore.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		EOF:      string(domain.EOFLeaveUnchanged),
		TapeSize: 256,
		LogLevel: "warn",
		Store: StoreConfig{
			Kind: "memory",
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		HTTP: HTTPConfig{Addr: ":8080"},
	}
}

// Load reads path over the defaults. A missing file is not an error
// unless required is true.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that cannot be caught by the YAML decoder.
func (c Config) Validate() error {
	if _, err := domain.ParseEOFPolicy(c.EOF); err != nil {
		return err
	}
	if c.TapeSize < 1 {
		return fmt.Errorf("tape_size must be at least 1, got %d", c.TapeSize)
	}
	switch c.Store.Kind {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	return nil
}
