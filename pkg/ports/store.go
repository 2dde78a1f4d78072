package ports

import "context"

// ProgramStore persists named program sources so hosts can run them by name.
// Implementations must reject names that fail domain.ValidateProgramName.
type ProgramStore interface {
	// Save stores source under name, replacing any previous version.
	Save(ctx context.Context, name, source string) error

	// Load retrieves the source stored under name.
	// Returns domain.ErrProgramNotFound if the name does not exist.
	Load(ctx context.Context, name string) (string, error)

	// Delete removes the program. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored names in lexical order.
	List(ctx context.Context) ([]string, error)
}
