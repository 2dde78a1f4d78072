package domain

import "fmt"

// EOFPolicy decides what an input command does once the input source is exhausted.
type EOFPolicy string

const (
	// EOFLeaveUnchanged keeps the current cell value and continues. This is the default.
	EOFLeaveUnchanged EOFPolicy = "leave-unchanged"
	// EOFSetZero stores 0 in the current cell and continues.
	EOFSetZero EOFPolicy = "set-zero"
	// EOFFail aborts the run with an IOError wrapping ErrInputExhausted.
	EOFFail EOFPolicy = "fail"
)

// ParseEOFPolicy converts a configuration string into an EOFPolicy.
// An empty string yields the default policy.
func ParseEOFPolicy(s string) (EOFPolicy, error) {
	switch EOFPolicy(s) {
	case "":
		return EOFLeaveUnchanged, nil
	case EOFLeaveUnchanged, EOFSetZero, EOFFail:
		return EOFPolicy(s), nil
	}
	return "", fmt.Errorf("unknown eof policy %q (want %s, %s or %s)", s, EOFLeaveUnchanged, EOFSetZero, EOFFail)
}
