// Package lazy provides the public API for the lazy value primitive.
//
// See doc.go for detailed documentation and examples.
package lazy

import (
	internal "github.com/kolkov/lazycell/internal/cell"
)

// State is the lifecycle tag of a cell: pending, resolved, or poisoned.
type State = internal.State

// Lifecycle tags. A cell starts StatePending and reaches exactly one of
// the two terminal tags, never leaving it again.
const (
	StatePending  = internal.StatePending
	StateResolved = internal.StateResolved
	StatePoisoned = internal.StatePoisoned
)

// ErrPoisoned is matched (via errors.Is) by every error returned from a
// cell whose thunk already failed.
var ErrPoisoned = internal.ErrPoisoned

// PoisonError carries the original failure stored in a poisoned cell,
// including the panic value and stack when the thunk panicked.
type PoisonError = internal.PoisonError

// Cell is a lazily evaluated value of type T, safe for concurrent use by
// any number of goroutines. Construct cells with New, NewErr, Resolved,
// or FromEvaluator; the zero Cell is not usable.
type Cell[T any] struct {
	inner *internal.Cell[T]
}

// New creates a cell from an infallible thunk. The thunk runs at most
// once, on the first force.
func New[T any](thunk func() T) *Cell[T] {
	return &Cell[T]{inner: internal.New(func() (T, error) {
		return thunk(), nil
	})}
}

// NewErr creates a cell from a fallible thunk. If the thunk returns an
// error the cell is poisoned: the error is remembered and the thunk is
// never retried.
func NewErr[T any](thunk func() (T, error)) *Cell[T] {
	return &Cell[T]{inner: internal.New(thunk)}
}

// Resolved creates a cell that already holds value. Forcing it never
// runs any computation.
func Resolved[T any](value T) *Cell[T] {
	return &Cell[T]{inner: internal.NewResolved(value)}
}

// Force returns the cell's value, evaluating the thunk if no evaluation
// has completed yet. Exactly one goroutine runs the thunk; concurrent
// forcers block until the result is installed, and all of them observe
// the same stored value.
//
// On a poisoned cell Force reports the recorded failure instead of
// re-running the thunk: the winning forcer gets the thunk's original
// error (or its panic, re-raised), later forcers get a *PoisonError.
//
// Forcing a cell from inside its own thunk deadlocks. There is no
// cancellation path: a thunk that never returns blocks forever.
func (c *Cell[T]) Force() (T, error) {
	return c.inner.Force()
}

// Must is the transparent accessor: it forces the cell and returns the
// value directly, panicking with the failure if the cell is or becomes
// poisoned. Use it where a plain T is expected and the thunk cannot
// fail, such as cells built with New or Resolved.
func (c *Cell[T]) Must() T {
	v, err := c.inner.Force()
	if err != nil {
		panic(err)
	}
	return v
}

// TryGet returns the value without blocking and without triggering
// evaluation; ok is true only if the cell is already resolved.
func (c *Cell[T]) TryGet() (value T, ok bool) {
	return c.inner.TryGet()
}

// State reports the cell's current lifecycle tag without blocking. A
// cell whose thunk is running still reads as StatePending.
func (c *Cell[T]) State() State {
	return c.inner.State()
}
