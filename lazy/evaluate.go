package lazy

// Evaluator is the capability form of a thunk: any type whose Evaluate
// method produces the value. The cell invokes Evaluate at most once.
//
// Use it when the deferred computation carries state of its own and a
// closure is awkward; otherwise prefer New or NewErr.
type Evaluator[T any] interface {
	Evaluate() (T, error)
}

// Func adapts a plain function to the Evaluator interface.
type Func[T any] func() (T, error)

// Evaluate invokes the function.
func (f Func[T]) Evaluate() (T, error) {
	return f()
}

// FromEvaluator creates a cell whose thunk is e.Evaluate.
func FromEvaluator[T any](e Evaluator[T]) *Cell[T] {
	return NewErr(e.Evaluate)
}
