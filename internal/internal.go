package internal

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
)

// ComputeNofWorkers limits the requested number of workers n by the
// size of the input, so that no worker ever receives an empty
// partition. An empty input yields zero workers.
func ComputeNofWorkers(size, n int) int {
	switch {
	case size < 0:
		panic(fmt.Sprintf("invalid size: %v", size))
	case n <= 0:
		panic(fmt.Sprintf("invalid number of workers: %v", n))
	}
	return min(n, size)
}

// Bounds returns the half-open range [low, high) of the partition with
// the given index when size elements are divided among workers
// partitions. All partitions have size/workers elements, except the
// last one, which also receives the remainder.
func Bounds(size, workers, index int) (low, high int) {
	if (index < 0) || (index >= workers) {
		panic(fmt.Sprintf("invalid partition index: %v of %v", index, workers))
	}
	batchSize := size / workers
	low = index * batchSize
	if index == workers-1 {
		high = size
	} else {
		high = low + batchSize
	}
	return
}

// Canceled returns the error of a done context, joined with its cause
// when the context was canceled with a custom cause.
func Canceled(ctx context.Context) error {
	err := ctx.Err()
	if cause := context.Cause(ctx); (cause != nil) && (cause != err) {
		return fmt.Errorf("%w: %w", err, cause)
	}
	return err
}

// IsCancelation reports whether err stems from a canceled context or an
// expired deadline.
func IsCancelation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

type runtimeError struct{ error }

func (runtimeError) RuntimeError() {}

// WrapPanic adds stack trace information to a recovered panic.
func WrapPanic(p interface{}) interface{} {
	if p != nil {
		s := fmt.Sprintf("%v\n%s\nrethrown at", p, debug.Stack())
		if _, isError := p.(error); isError {
			r := errors.New(s)
			if _, isRuntimeError := p.(runtime.Error); isRuntimeError {
				return runtimeError{r}
			}
			return r
		}
		return s
	}
	return nil
}
