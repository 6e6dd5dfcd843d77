package domain

import (
	"errors"
	"fmt"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure, with no infrastructure dependency. Callers classify
// with errors.Is; the wrapped message carries the actionable detail (which
// bucket, which limit, which duplicate).

var (
	// Ledger errors
	ErrDuplicateUser    = errors.New("user already has an entry in this ledger")
	ErrDuplicateMenuID  = errors.New("menu id already exists in this ledger")
	ErrCapacityExceeded = errors.New("requested count exceeds remaining capacity")
	ErrInvalidCount     = errors.New("count must be a positive integer")
	ErrIndexNotFound    = errors.New("no entry at that position")

	// Store errors
	ErrNotFound = errors.New("not found")

	// Size spec errors
	ErrInvalidSizeSpec = errors.New("invalid size spec")
	ErrDuplicateSize   = errors.New("size already present")
)

// SizeSpecError reports a size string that failed strict parsing.
type SizeSpecError struct {
	Spec string
}

func (e *SizeSpecError) Error() string {
	return fmt.Sprintf("invalid size spec %q: want \"<label>:<capacity>\" like \"S:200\" or \"34:299\"", e.Spec)
}

// Unwrap lets errors.Is match ErrInvalidSizeSpec.
func (e *SizeSpecError) Unwrap() error { return ErrInvalidSizeSpec }
