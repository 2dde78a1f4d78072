package cli

import (
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/aretw0/brainloop"
	"github.com/aretw0/brainloop/internal/config"
	"github.com/aretw0/brainloop/internal/logging"
	"github.com/aretw0/brainloop/pkg/adapters/file"
	"github.com/aretw0/brainloop/pkg/adapters/memory"
	"github.com/aretw0/brainloop/pkg/adapters/redis"
	"github.com/aretw0/brainloop/pkg/domain"
	"github.com/aretw0/brainloop/pkg/observability"
	"github.com/aretw0/brainloop/pkg/persistence/middleware"
	"github.com/aretw0/brainloop/pkg/ports"
)

// createLogger configures the application logger.
// In debug mode it logs everything to Stderr, keeping Stdout for program output.
func createLogger(cfg config.Config, debug bool) (*slog.Logger, error) {
	if debug {
		return logging.New(slog.LevelDebug), nil
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// engineOptions translates cfg into engine options. Extra hooks are combined
// with the debug hooks when debug is set.
func engineOptions(cfg config.Config, logger *slog.Logger, debug bool, hooks ...domain.LifecycleHooks) ([]brainloop.Option, error) {
	eof, err := domain.ParseEOFPolicy(cfg.EOF)
	if err != nil {
		return nil, err
	}

	opts := []brainloop.Option{
		brainloop.WithLogger(logger),
		brainloop.WithEOFPolicy(eof),
		brainloop.WithTapeSize(cfg.TapeSize),
		brainloop.WithStepLimit(cfg.StepLimit),
	}

	if debug {
		hooks = append(hooks, observability.LoggingHooks(logger))
	}
	if len(hooks) > 0 {
		opts = append(opts, brainloop.WithLifecycleHooks(observability.CombineHooks(hooks...)))
	}
	return opts, nil
}

// createEngine initializes a brainloop engine with standard CLI conventions.
func createEngine(cfg config.Config, logger *slog.Logger, debug bool, hooks ...domain.LifecycleHooks) (*brainloop.Engine, error) {
	opts, err := engineOptions(cfg, logger, debug, hooks...)
	if err != nil {
		return nil, err
	}
	engine, err := brainloop.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// createStore builds the ProgramStore selected by cfg.Kind, sealed with
// AES-GCM when an encryption key is configured.
// The returned close function releases backend connections.
func createStore(cfg config.StoreConfig) (ports.ProgramStore, func() error, error) {
	store, closeStore, err := createBackend(cfg)
	if err != nil || cfg.EncryptionKey == "" {
		return store, closeStore, err
	}

	mw, err := encryptionMiddleware(cfg)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	return mw(store), closeStore, nil
}

func encryptionMiddleware(cfg config.StoreConfig) (middleware.Middleware, error) {
	active, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid store encryption_key: %w", err)
	}
	enc := middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range cfg.FallbackKeys {
		key, err := base64.StdEncoding.DecodeString(k)
		if err != nil {
			return nil, fmt.Errorf("invalid store fallback_keys[%d]: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	return middleware.NewEncryptionMiddleware(enc)
}

func createBackend(cfg config.StoreConfig) (ports.ProgramStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Kind {
	case "", "memory":
		return memory.NewStore(), noop, nil
	case "file":
		return file.New(cfg.Path), noop, nil
	case "redis":
		var opts []redis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
}
