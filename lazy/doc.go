// Package lazy provides a thread-safe lazily evaluated value: a cell that
// holds either an unevaluated computation (a thunk) or its memoized
// result, with a guarantee that the computation runs at most once even
// when many goroutines force it concurrently.
//
// # Quick Start
//
//	answer := lazy.New(func() int {
//		fmt.Println("computed!")
//		return 42
//	})
//
//	// "computed!" prints exactly once, no matter how many goroutines
//	// call Must/Force or how often.
//	v, err := answer.Force()
//	v = answer.Must()
//
// # API Overview
//
// The package provides:
//   - Construction: [New], [NewErr], [Resolved], [FromEvaluator]
//   - Forcing: [Cell.Force], [Cell.Must]
//   - Non-blocking inspection: [Cell.TryGet], [Cell.State]
//   - Failure taxonomy: [ErrPoisoned], [PoisonError]
//
// # Concurrency Semantics
//
// Any number of goroutines may force the same cell. Exactly one of them
// runs the thunk; the rest block until the result is installed, then
// every forcer reads the same stored value. The publish carries a
// release/acquire ordering guarantee: a goroutine that observes the cell
// as resolved sees every write the thunk made.
//
// Two caveats are inherited from the "blocked forcers genuinely block"
// model:
//   - there is no cancellation or timeout: a thunk that never returns
//     blocks its forcers forever;
//   - forcing a cell from inside its own thunk deadlocks.
//
// The stored value is shared by reference among all forcers, so its type
// must be safe for concurrent reads (immutable, or internally
// synchronized).
//
// # Poisoning
//
// A thunk that returns an error or panics poisons its cell: the state is
// terminal, the thunk is never retried, and the failure is remembered.
// The winning forcer receives the original failure (the error itself, or
// the re-raised panic); every later forcer receives a [*PoisonError]
// that matches errors.Is(err, [ErrPoisoned]) and unwraps to the original
// cause. See [PoisonError] for the recorded panic value and stack.
//
// # Keyed Values
//
// For a map of independently forced cells keyed by a comparable type,
// see the lazymap package.
package lazy
