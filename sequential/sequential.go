// Package sequential provides sequential implementations of the
// functions provided by the parallel package. This is useful for
// testing and debugging.
//
// The operations other than Execute consult the context only once,
// before they start, and then return the same *parallel.CanceledError
// as their parallel counterparts. They are not interrupted while
// they run.
//
// It is not recommended to use the implementations of this package
// for any other purpose, because they are almost certainly too
// inefficient for regular sequential programs.
package sequential

import (
	"context"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/exascience/iterpar"
	"github.com/exascience/iterpar/internal"
	"github.com/exascience/iterpar/parallel"
)

// Execute receives a worker count n, a slice of items, a transform,
// and a reducer, divides the items into partitions exactly like
// parallel.Execute, invokes the transform for each partition one
// after the other, and passes the partial results to the reducer.
//
// Error values follow parallel.Execute: the left-most
// non-cancelation error is returned as a *parallel.PartitionError,
// otherwise all cancelations are returned as a
// *parallel.CanceledError.
func Execute[T, S, R any](
	ctx context.Context,
	n int,
	items []T,
	transform iterpar.Transform[T, S],
	reduce iterpar.Reducer[S, R],
) (result R, err error) {
	if n <= 0 {
		return result, parallel.ErrInvalidWorkerCount
	}
	size := len(items)
	workers := internal.ComputeNofWorkers(size, n)
	slots := make([]S, workers)
	var causes []error
	for i := range workers {
		low, high := internal.Bounds(size, workers, i)
		if ctx.Err() != nil {
			causes = append(causes, internal.Canceled(ctx))
			continue
		}
		s, terr := transform(ctx, items[low:high:high])
		switch {
		case terr == nil:
			slots[i] = s
		case internal.IsCancelation(terr):
			causes = append(causes, terr)
		default:
			return result, &parallel.PartitionError{Index: i, Low: low, High: high, Err: terr}
		}
	}
	if len(causes) > 0 {
		return result, &parallel.CanceledError{Workers: workers, Causes: causes}
	}
	return reduce(slots), nil
}

// check validates n and, when ctx is already done, reports the
// *parallel.CanceledError that parallel.Execute returns for workers
// that never start. An empty input has no workers to cancel.
func check(ctx context.Context, n, size int) error {
	if n <= 0 {
		return parallel.ErrInvalidWorkerCount
	}
	workers := internal.ComputeNofWorkers(size, n)
	if (workers == 0) || (ctx.Err() == nil) {
		return nil
	}
	causes := make([]error, workers)
	for i := range causes {
		causes[i] = internal.Canceled(ctx)
	}
	return &parallel.CanceledError{Workers: workers, Causes: causes}
}

// Maximum returns the left-most maximal element of items according
// to cmp, or parallel.ErrEmptyInput if items is empty.
func Maximum[T any](
	ctx context.Context,
	n int,
	items []T,
	cmp iterpar.Comparator[T],
) (result T, err error) {
	if err := check(ctx, n, len(items)); err != nil {
		return result, err
	}
	if len(items) == 0 {
		return result, parallel.ErrEmptyInput
	}
	result = items[0]
	for _, x := range items[1:] {
		if cmp(x, result) > 0 {
			result = x
		}
	}
	return
}

// Minimum returns the left-most minimal element of items according
// to cmp, or parallel.ErrEmptyInput if items is empty.
func Minimum[T any](
	ctx context.Context,
	n int,
	items []T,
	cmp iterpar.Comparator[T],
) (result T, err error) {
	if err := check(ctx, n, len(items)); err != nil {
		return result, err
	}
	if len(items) == 0 {
		return result, parallel.ErrEmptyInput
	}
	result = items[0]
	for _, x := range items[1:] {
		if cmp(x, result) < 0 {
			result = x
		}
	}
	return
}

// All reports whether pred holds for all items.
func All[T any](
	ctx context.Context,
	n int,
	items []T,
	pred iterpar.Predicate[T],
) (bool, error) {
	if err := check(ctx, n, len(items)); err != nil {
		return false, err
	}
	for _, x := range items {
		if !pred(x) {
			return false, nil
		}
	}
	return true, nil
}

// Any reports whether pred holds for at least one item.
func Any[T any](
	ctx context.Context,
	n int,
	items []T,
	pred iterpar.Predicate[T],
) (bool, error) {
	if err := check(ctx, n, len(items)); err != nil {
		return false, err
	}
	for _, x := range items {
		if pred(x) {
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of items for which pred holds.
func Count[T any](
	ctx context.Context,
	n int,
	items []T,
	pred iterpar.Predicate[T],
) (count int, err error) {
	if err := check(ctx, n, len(items)); err != nil {
		return 0, err
	}
	for _, x := range items {
		if pred(x) {
			count++
		}
	}
	return
}

// Join formats each item with fmt.Sprint and concatenates the
// results.
func Join[T any](
	ctx context.Context,
	n int,
	items []T,
) (string, error) {
	if err := check(ctx, n, len(items)); err != nil {
		return "", err
	}
	var b strings.Builder
	for _, x := range items {
		fmt.Fprint(&b, x)
	}
	return b.String(), nil
}

// Filter returns the items for which pred holds, in their original
// order.
func Filter[T any](
	ctx context.Context,
	n int,
	items []T,
	pred iterpar.Predicate[T],
) ([]T, error) {
	if err := check(ctx, n, len(items)); err != nil {
		return nil, err
	}
	result := []T{}
	for _, x := range items {
		if pred(x) {
			result = append(result, x)
		}
	}
	return result, nil
}

// Map returns the results of applying f to each item.
func Map[T, U any](
	ctx context.Context,
	n int,
	items []T,
	f func(T) U,
) ([]U, error) {
	if err := check(ctx, n, len(items)); err != nil {
		return nil, err
	}
	result := make([]U, 0, len(items))
	for _, x := range items {
		result = append(result, f(x))
	}
	return result, nil
}

// Reduce folds items with op, starting from identity.
func Reduce[T any](
	ctx context.Context,
	n int,
	items []T,
	identity T,
	op func(x, y T) T,
) (result T, err error) {
	if err := check(ctx, n, len(items)); err != nil {
		return result, err
	}
	result = identity
	for _, x := range items {
		result = op(result, x)
	}
	return
}

// SumFloat64 returns the sum of f.
func SumFloat64(ctx context.Context, n int, f []float64) (float64, error) {
	if err := check(ctx, n, len(f)); err != nil {
		return 0, err
	}
	return floats.Sum(f), nil
}

// MaxFloat64 returns the largest value in f, or
// parallel.ErrEmptyInput if f is empty.
func MaxFloat64(ctx context.Context, n int, f []float64) (float64, error) {
	if err := check(ctx, n, len(f)); err != nil {
		return 0, err
	}
	if len(f) == 0 {
		return 0, parallel.ErrEmptyInput
	}
	return floats.Max(f), nil
}
