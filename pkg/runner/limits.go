package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultRunTimeout bounds a single program run submitted over HTTP or MCP.
const DefaultRunTimeout = 10 * time.Second

var (
	// DefaultMaxSourceSize is 64KB.
	DefaultMaxSourceSize = 64 * 1024
	// DefaultMaxInputSize is 64KB.
	DefaultMaxInputSize = 64 * 1024

	// EnvMaxSourceSize overrides DefaultMaxSourceSize.
	EnvMaxSourceSize = "BRAINLOOP_MAX_SOURCE_SIZE"
	// EnvMaxInputSize overrides DefaultMaxInputSize.
	EnvMaxInputSize = "BRAINLOOP_MAX_INPUT_SIZE"
)

var (
	ErrSourceTooLarge = errors.New("source exceeds maximum allowed size")
	ErrInputTooLarge  = errors.New("input exceeds maximum allowed size")
)

// CheckRequest enforces the size limits applied to remotely submitted programs
// (HTTP and MCP). Oversized payloads are rejected, never truncated.
func CheckRequest(source, input string) error {
	if limit := sizeFromEnv(EnvMaxSourceSize, DefaultMaxSourceSize); len(source) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrSourceTooLarge, len(source), limit)
	}
	if limit := sizeFromEnv(EnvMaxInputSize, DefaultMaxInputSize); len(input) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	return nil
}

// MaxBodySize bounds a JSON request body carrying a source and an input.
// JSON escapes expand a byte to at most six characters.
func MaxBodySize() int64 {
	source := sizeFromEnv(EnvMaxSourceSize, DefaultMaxSourceSize)
	input := sizeFromEnv(EnvMaxInputSize, DefaultMaxInputSize)
	return int64(6*(source+input)) + 4096
}

func sizeFromEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return fallback
}
