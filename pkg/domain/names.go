package domain

import (
	"fmt"
	"regexp"
)

var programNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]{0,127}$`)

// ValidateProgramName checks that name is usable as a store key and a file name.
func ValidateProgramName(name string) error {
	if !programNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidProgramName, name)
	}
	return nil
}
