package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/brainloop/pkg/domain"
)

// Store implements ports.ProgramStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

// Save stores the program source in memory.
func (s *Store) Save(ctx context.Context, name, source string) error {
	if err := domain.ValidateProgramName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = source
	return nil
}

// Load retrieves the program source from memory.
func (s *Store) Load(ctx context.Context, name string) (string, error) {
	if err := domain.ValidateProgramName(name); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	src, ok := s.data[name]
	if !ok {
		return "", domain.ErrProgramNotFound
	}
	return src, nil
}

// Delete removes the program.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := domain.ValidateProgramName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns stored program names in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
