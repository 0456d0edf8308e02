package parallel

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/exascience/iterpar"
	"github.com/exascience/iterpar/internal"
)

// pollInterval is the number of elements between two checks of the
// context in the per-element loops below.
const pollInterval = 1024

// each invokes f for every element of part until f returns false. It
// stops early with a cancelation error when ctx is done.
func each[T any](ctx context.Context, part []T, f func(T) bool) error {
	for i, x := range part {
		if ((i % pollInterval) == 0) && (ctx.Err() != nil) {
			return internal.Canceled(ctx)
		}
		if !f(x) {
			break
		}
	}
	return nil
}

func concat[T any](parts [][]T) []T {
	size := 0
	for _, part := range parts {
		size += len(part)
	}
	result := make([]T, 0, size)
	for _, part := range parts {
		result = append(result, part...)
	}
	return result
}

type optional[T any] struct {
	value T
	ok    bool
}

// Maximum returns the maximum of items according to cmp, computed in
// parallel by at most n workers. If there is more than one maximal
// element, Maximum returns the left-most one.
//
// Maximum returns ErrEmptyInput if items is empty.
func Maximum[T any](
	ctx context.Context,
	n int,
	items []T,
	cmp iterpar.Comparator[T],
) (result T, err error) {
	best, err := Execute(ctx, n, items,
		func(ctx context.Context, part []T) (m T, err error) {
			m = part[0]
			err = each(ctx, part[1:], func(x T) bool {
				if cmp(x, m) > 0 {
					m = x
				}
				return true
			})
			return
		},
		func(maxima []T) (result optional[T]) {
			if len(maxima) > 0 {
				result = optional[T]{slices.MaxFunc(maxima, cmp), true}
			}
			return
		},
	)
	if err != nil {
		return result, err
	}
	if !best.ok {
		return result, ErrEmptyInput
	}
	return best.value, nil
}

// Minimum returns the minimum of items according to cmp. It is
// Maximum with the reversed comparator, so it also returns the
// left-most element among several minimal ones.
//
// Minimum returns ErrEmptyInput if items is empty.
func Minimum[T any](
	ctx context.Context,
	n int,
	items []T,
	cmp iterpar.Comparator[T],
) (T, error) {
	return Maximum(ctx, n, items, cmp.Reversed())
}

// All reports whether pred holds for all items, with true for an
// empty slice. Each worker stops examining its own partition at the
// first element that does not satisfy pred.
func All[T any](
	ctx context.Context,
	n int,
	items []T,
	pred iterpar.Predicate[T],
) (bool, error) {
	return Execute(ctx, n, items,
		func(ctx context.Context, part []T) (result bool, err error) {
			result = true
			err = each(ctx, part, func(x T) bool {
				result = pred(x)
				return result
			})
			return
		},
		func(results []bool) bool {
			for _, b := range results {
				if !b {
					return false
				}
			}
			return true
		},
	)
}

// Any reports whether pred holds for at least one item, with false
// for an empty slice. It is the negation of All for the negated
// predicate.
func Any[T any](
	ctx context.Context,
	n int,
	items []T,
	pred iterpar.Predicate[T],
) (bool, error) {
	all, err := All(ctx, n, items, pred.Negate())
	if err != nil {
		return false, err
	}
	return !all, nil
}

// Count returns the number of items for which pred holds.
func Count[T any](
	ctx context.Context,
	n int,
	items []T,
	pred iterpar.Predicate[T],
) (int, error) {
	return Execute(ctx, n, items,
		func(ctx context.Context, part []T) (count int, err error) {
			err = each(ctx, part, func(x T) bool {
				if pred(x) {
					count++
				}
				return true
			})
			return
		},
		func(counts []int) (sum int) {
			for _, c := range counts {
				sum += c
			}
			return
		},
	)
}

// Join formats each item with fmt.Sprint and concatenates the
// results, without separators, in the order of items.
func Join[T any](
	ctx context.Context,
	n int,
	items []T,
) (string, error) {
	return Execute(ctx, n, items,
		func(ctx context.Context, part []T) (string, error) {
			var b strings.Builder
			err := each(ctx, part, func(x T) bool {
				fmt.Fprint(&b, x)
				return true
			})
			return b.String(), err
		},
		func(parts []string) string {
			return strings.Join(parts, "")
		},
	)
}

// Filter returns the items for which pred holds, in their original
// order. The result is an empty, non-nil slice if no item qualifies.
func Filter[T any](
	ctx context.Context,
	n int,
	items []T,
	pred iterpar.Predicate[T],
) ([]T, error) {
	return Execute(ctx, n, items,
		func(ctx context.Context, part []T) (result []T, err error) {
			err = each(ctx, part, func(x T) bool {
				if pred(x) {
					result = append(result, x)
				}
				return true
			})
			return
		},
		concat[T],
	)
}

// Map returns the results of applying f to each item, in the order of
// items. The result is an empty, non-nil slice if items is empty.
func Map[T, U any](
	ctx context.Context,
	n int,
	items []T,
	f func(T) U,
) ([]U, error) {
	return Execute(ctx, n, items,
		func(ctx context.Context, part []T) (result []U, err error) {
			result = make([]U, 0, len(part))
			err = each(ctx, part, func(x T) bool {
				result = append(result, f(x))
				return true
			})
			return
		},
		concat[U],
	)
}

// Reduce folds items with op, starting each partition and the final
// combination from identity. The op function must be associative, and
// identity must be its neutral element, because partitions are folded
// independently before their results are combined in order.
func Reduce[T any](
	ctx context.Context,
	n int,
	items []T,
	identity T,
	op func(x, y T) T,
) (T, error) {
	fold := func(xs []T) T {
		result := identity
		for _, x := range xs {
			result = op(result, x)
		}
		return result
	}
	return Execute(ctx, n, items,
		func(ctx context.Context, part []T) (result T, err error) {
			result = identity
			err = each(ctx, part, func(x T) bool {
				result = op(result, x)
				return true
			})
			return
		},
		fold,
	)
}
