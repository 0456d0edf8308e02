package parallel

import (
	"context"

	"gonum.org/v1/gonum/floats"
)

// SumFloat64 returns the sum of f, with 0 for an empty slice. Each
// partition is summed with floats.Sum, and the partial sums are added
// in partition order.
func SumFloat64(ctx context.Context, n int, f []float64) (float64, error) {
	return Execute(ctx, n, f,
		func(_ context.Context, part []float64) (float64, error) {
			return floats.Sum(part), nil
		},
		floats.Sum,
	)
}

// MaxFloat64 returns the largest value in f.
//
// MaxFloat64 returns ErrEmptyInput if f is empty.
func MaxFloat64(ctx context.Context, n int, f []float64) (float64, error) {
	result, err := Execute(ctx, n, f,
		func(_ context.Context, part []float64) (float64, error) {
			return floats.Max(part), nil
		},
		func(maxima []float64) (result optional[float64]) {
			if len(maxima) > 0 {
				result = optional[float64]{floats.Max(maxima), true}
			}
			return
		},
	)
	switch {
	case err != nil:
		return 0, err
	case !result.ok:
		return 0, ErrEmptyInput
	}
	return result.value, nil
}
