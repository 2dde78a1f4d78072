package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/brainloop/pkg/domain"
)

// Extension is the suffix of program files managed by the Store.
const Extension = ".b"

// Store implements ports.ProgramStore using the local filesystem.
// Each program is one source file in BasePath.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".brainloop/programs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".brainloop", "programs")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.BasePath, name+Extension)
}

// Save writes the program atomically: temp file, fsync, rename.
func (s *Store) Save(ctx context.Context, name, source string) error {
	if err := domain.ValidateProgramName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure program directory: %w", err)
	}

	// Same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, ".tmp-"+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.WriteString(source); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Windows refuses to rename over an existing file.
	destPath := s.path(name)
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing program for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads the program source from disk.
func (s *Store) Load(ctx context.Context, name string) (string, error) {
	if err := domain.ValidateProgramName(name); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrProgramNotFound
		}
		return "", fmt.Errorf("failed to read program file: %w", err)
	}
	return string(data), nil
}

// Delete removes the program file.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := domain.ValidateProgramName(name); err != nil {
		return err
	}

	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete program file: %w", err)
	}
	return nil
}

// List returns all program names found in BasePath.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || strings.HasPrefix(fileName, ".") || filepath.Ext(fileName) != Extension {
			continue
		}
		names = append(names, strings.TrimSuffix(fileName, Extension))
	}
	sort.Strings(names)
	return names, nil
}
