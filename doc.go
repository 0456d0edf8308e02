// Package iterpar provides a fork-join primitive for expressing
// iterative parallel algorithms over slices. An input slice is split
// into contiguous partitions, each partition is handed to its own
// worker goroutine, and the partial results are folded into a single
// result in partition order.
//
// Iterpar provides the following subpackages:
//
// iterpar/parallel provides the Execute primitive, together with
// maximum, minimum, all, any, count, join, filter, map, and numeric
// reductions that are all expressed in terms of Execute.
//
// iterpar/sequential provides sequential implementations of all
// functions from iterpar/parallel, for testing and debugging purposes.
//
// Workers never communicate with each other. Each worker writes
// exactly one slot of a pre-sized result slice, and the invoking
// goroutine reads these slots only after all workers have terminated,
// so results never depend on the order in which workers finish.
//
// Cancelation is expressed by way of the context package of Go's
// standard library. A canceled context is observed by workers that
// have not started yet, and by the derived operations while they
// iterate over their partition; such workers are reported together in
// a single aggregated error.
package iterpar

import "context"

type (
	// A Transform computes a partial result for one partition of the
	// input. The partition must be treated as read-only. Returning an
	// error that matches context.Canceled or context.DeadlineExceeded
	// marks the worker as canceled rather than failed.
	Transform[T, S any] func(ctx context.Context, part []T) (S, error)

	// A Reducer folds the partial results of all partitions, in
	// partition order, into a final result. It is also invoked with an
	// empty slice when the input is empty.
	Reducer[S, R any] func(parts []S) R

	// A Comparator returns a negative number when x < y, a positive
	// number when x > y, and zero otherwise, like cmp.Compare.
	Comparator[T any] func(x, y T) int

	// A Predicate reports whether an element satisfies some condition.
	Predicate[T any] func(x T) bool
)

// Reversed returns a comparator that orders elements in the opposite
// direction of c.
func (c Comparator[T]) Reversed() Comparator[T] {
	return func(x, y T) int { return c(y, x) }
}

// Negate returns a predicate that holds exactly when p does not.
func (p Predicate[T]) Negate() Predicate[T] {
	return func(x T) bool { return !p(x) }
}
