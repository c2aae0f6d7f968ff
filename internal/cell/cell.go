// Package cell implements the synchronization core of the lazy value
// primitive: a container that transitions from "pending" (owning a
// single-use thunk) to a terminal state ("resolved" with a value, or
// "poisoned" with the failure that prevented one) exactly once, no matter
// how many goroutines race to force it.
//
// The design is the classic double-checked pattern, the same shape the
// standard library uses for sync.Once:
//
//   - Fast path: one atomic load of the terminal flag. Once the flag is
//     set the stored value (or poison error) is immutable, so any number
//     of readers proceed with no locking at all.
//   - Slow path: acquire the transition mutex, re-check the flag (another
//     goroutine may have finished the transition while this one waited),
//     take the thunk out of the cell, run it while holding the lock, and
//     install the result before setting the flag.
//
// The terminal flag is stored only after the value and state have been
// written, and every reader checks the flag before touching them. The
// atomic store/load pair provides the release/acquire ordering that
// guarantees no goroutine ever observes a terminal tag paired with a
// partially-written value.
//
// Holding the mutex for the full thunk execution is deliberate: every
// other forcer of THIS cell must block until the result is installed, and
// unrelated cells have unrelated mutexes so they proceed independently.
package cell

import (
	"runtime/debug"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/xerrors"
)

// State is the lifecycle tag of a cell.
//
// A cell starts Pending and moves to exactly one of the terminal states,
// after which it never changes again. There is no separate "evaluating"
// tag: a cell whose thunk is currently running is still Pending, and its
// transition mutex is held for the duration.
type State uint32

const (
	// StatePending means the cell still owns its thunk and no evaluation
	// has completed. A Pending cell may have an evaluation in flight.
	StatePending State = iota

	// StateResolved means the thunk ran to completion and the cell holds
	// its value. Terminal.
	StateResolved

	// StatePoisoned means the thunk failed (returned an error or
	// panicked) and the cell holds the failure. Terminal.
	StatePoisoned
)

// String returns the tag name for debugging and test output.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StatePoisoned:
		return "poisoned"
	default:
		return "unknown"
	}
}

// Cell is a lazily evaluated value of type T.
//
// The zero value is not usable; construct cells with New or NewResolved.
// A Cell must not be copied after first use.
//
// The stored value is shared by every forcer, so T must be safe to read
// from multiple goroutines concurrently (immutable, or internally
// synchronized). That is a contract on the caller, not a runtime check.
type Cell[T any] struct {
	// terminal flips to true exactly once, after value/state/err have
	// been installed under mu. Reading it true licenses lock-free access
	// to those fields.
	terminal atomic.Bool

	// mu guards the Pending -> terminal transition. It is held for the
	// full duration of thunk execution plus result installation.
	mu sync.Mutex

	// The fields below are written only under mu while terminal is
	// false, and are immutable once terminal is true.
	state State
	thunk func() (T, error)
	value T
	err   error
}

// New creates a Pending cell owning thunk. Constant time, no
// synchronization: the cell is not shared until the caller shares it.
//
// The thunk is invoked at most once, by whichever forcer wins the
// transition race.
func New[T any](thunk func() (T, error)) *Cell[T] {
	return &Cell[T]{thunk: thunk}
}

// NewResolved creates a cell that is already Resolved with value. Forcing
// it never runs any computation.
func NewResolved[T any](value T) *Cell[T] {
	c := &Cell[T]{state: StateResolved, value: value}
	c.terminal.Store(true)
	return c
}

// Force returns the cell's value, evaluating the thunk if no evaluation
// has completed yet. Exactly one goroutine runs the thunk; all concurrent
// forcers block until the result is installed, then every forcer (the
// winner included) observes the same stored value.
//
// If the thunk returned an error, the winning forcer receives that error
// unchanged and the cell is Poisoned; every later forcer receives a
// *PoisonError wrapping the original cause. If the thunk panicked, the
// cell is Poisoned first and the panic is then re-raised with its
// original value in the winning forcer; other forcers get the poison
// error return. A poisoned cell never re-runs its thunk.
//
// Force has no cancellation or timeout path: a thunk that never returns
// blocks its forcers forever. Forcing a cell from inside its own thunk
// deadlocks on the transition mutex; this is documented, not prevented.
func (c *Cell[T]) Force() (T, error) {
	if c.terminal.Load() {
		return c.terminalResult()
	}
	return c.forceSlow()
}

// TryGet returns the resolved value without blocking and without
// triggering evaluation. The second result is true only if the cell is
// Resolved; a Pending cell (including one mid-evaluation) and a Poisoned
// cell both report false.
func (c *Cell[T]) TryGet() (T, bool) {
	if c.terminal.Load() && c.state == StateResolved {
		return c.value, true
	}
	var zero T
	return zero, false
}

// State reports the cell's current lifecycle tag. Like TryGet it never
// blocks; an in-flight evaluation still reads as StatePending.
func (c *Cell[T]) State() State {
	if c.terminal.Load() {
		return c.state
	}
	return StatePending
}

// terminalResult reads the immutable outcome of a terminal cell. Callers
// must have observed terminal == true first.
func (c *Cell[T]) terminalResult() (T, error) {
	if c.state == StatePoisoned {
		var zero T
		return zero, c.err
	}
	return c.value, nil
}

// forceSlow is the contended path: acquire the transition lock, re-check,
// and run the thunk if this goroutine won the race.
func (c *Cell[T]) forceSlow() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double check: another forcer may have completed the transition
	// while this goroutine waited for the lock.
	if c.terminal.Load() {
		return c.terminalResult()
	}

	// This goroutine is the winner. Take the thunk out of the cell so it
	// can never be invoked a second time, whatever happens below.
	thunk := c.thunk
	c.thunk = nil
	if thunk == nil {
		// Unreachable for cells built with New/NewResolved: a
		// non-terminal cell always owns its thunk.
		var zero T
		return zero, xerrors.New("lazy: pending cell has no thunk")
	}

	// If the thunk panics, poison the cell before the deferred unlock
	// releases the blocked forcers, then let the panic continue into the
	// winner's stack with its original value.
	completed := false
	defer func() {
		if completed {
			return
		}
		pe := &PoisonError{
			Cause:      xerrors.New("lazy: thunk panicked"),
			PanicValue: recoveredValue(recover()),
			Stack:      debug.Stack(),
		}
		c.installPoison(pe)
		panic(pe.PanicValue)
	}()

	value, err := thunk()
	completed = true
	if err != nil {
		c.installPoison(&PoisonError{Cause: err})
		var zero T
		return zero, err
	}

	c.value = value
	c.state = StateResolved
	c.terminal.Store(true)
	return value, nil
}

// installPoison records the failure and publishes the terminal state.
// Must be called with mu held, exactly once per cell.
func (c *Cell[T]) installPoison(pe *PoisonError) {
	c.err = pe
	c.state = StatePoisoned
	c.terminal.Store(true)
}

// recoveredValue normalizes a recover() result so a `panic(nil)` inside
// the thunk still reads as a panic rather than a clean return.
func recoveredValue(r any) any {
	if r == nil {
		return xerrors.New("lazy: thunk panicked with nil value")
	}
	return r
}
