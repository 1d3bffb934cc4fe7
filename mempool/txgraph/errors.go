package txgraph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCycleDetected is returned when a transaction is reachable from
	// itself through its parents.
	ErrCycleDetected = errors.New("cycle detected in graph")

	// ErrDanglingParent is returned in strict mode when a parent id does
	// not name any transaction in the pool.
	ErrDanglingParent = errors.New("parent not found in pool")

	// ErrNotResolved is returned when aggregates are requested for a pool
	// whose chains were not resolved.
	ErrNotResolved = errors.New("pool chains are not resolved")

	// ErrAggregateOverflow is returned when a chain fee or weight does not
	// fit in 64 bits.
	ErrAggregateOverflow = errors.New("chain aggregate overflows")
)

// CycleError describes a parent cycle found during resolution.  It matches
// ErrCycleDetected with errors.Is.
type CycleError struct {
	// Path lists the ids along the cycle, starting and ending with the
	// same transaction.
	Path []string
}

// Error satisfies the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCycleDetected,
		strings.Join(e.Path, " -> "))
}

// Unwrap returns ErrCycleDetected.
func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}

// DanglingParentError describes a parent reference to a transaction that is
// not in the pool.  It matches ErrDanglingParent with errors.Is.
type DanglingParentError struct {
	ID       string
	ParentID string
}

// Error satisfies the error interface.
func (e *DanglingParentError) Error() string {
	return fmt.Sprintf("%v: %s spends %s", ErrDanglingParent, e.ID,
		e.ParentID)
}

// Unwrap returns ErrDanglingParent.
func (e *DanglingParentError) Unwrap() error {
	return ErrDanglingParent
}
