package cell

import (
	"fmt"

	"golang.org/x/xerrors"
)

// ErrPoisoned is the sentinel every poison error matches via errors.Is.
// It lets callers distinguish "this cell failed earlier" from whatever
// domain errors their own thunks produce.
var ErrPoisoned = xerrors.New("lazy: cell is poisoned")

// PoisonError is the failure stored in a Poisoned cell and returned to
// every forcer after the winning one. It wraps the original failure so
// callers can still reach the root cause with errors.Is / errors.As.
type PoisonError struct {
	// Cause is the original failure: the error the thunk returned, or a
	// synthesized error describing the panic.
	Cause error

	// PanicValue is the value the thunk panicked with, nil if the thunk
	// failed by returning an error instead.
	PanicValue any

	// Stack is the goroutine stack captured at the point the panic was
	// recovered. Nil for error returns.
	Stack []byte
}

// Error describes the poisoning, including the panic value when the
// thunk aborted by panicking.
func (e *PoisonError) Error() string {
	if e.PanicValue != nil {
		return fmt.Sprintf("lazy: cell is poisoned: thunk panicked: %v", e.PanicValue)
	}
	return fmt.Sprintf("lazy: cell is poisoned: %v", e.Cause)
}

// Unwrap exposes the original failure for errors.Is / errors.As chains.
func (e *PoisonError) Unwrap() error {
	return e.Cause
}

// Is reports a match for the ErrPoisoned sentinel.
func (e *PoisonError) Is(target error) bool {
	return target == ErrPoisoned
}
