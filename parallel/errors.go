package parallel

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWorkerCount is returned when the requested number of
	// workers is not positive. No work is started in that case.
	ErrInvalidWorkerCount = errors.New("parallel: number of workers must be positive")

	// ErrEmptyInput is returned by operations that have no meaningful
	// result for an empty input, such as Maximum and Minimum.
	ErrEmptyInput = errors.New("parallel: empty input")
)

// A CanceledError reports that one or more workers were canceled
// before they could store their partial result. Causes holds the
// cancelation cause of every canceled worker, in partition order, and
// is never empty.
type CanceledError struct {
	Workers int
	Causes  []error
}

func (e *CanceledError) Error() string {
	return fmt.Sprintf("parallel: %d of %d workers canceled: %v", len(e.Causes), e.Workers, e.Causes[0])
}

// Unwrap returns all cancelation causes, so that errors.Is and
// errors.As inspect each of them.
func (e *CanceledError) Unwrap() []error {
	return e.Causes
}

// A PartitionError reports that a transform returned an error other
// than a cancelation for the partition [Low, High) of the input.
type PartitionError struct {
	Index     int
	Low, High int
	Err       error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("parallel: partition %d [%d:%d]: %v", e.Index, e.Low, e.High, e.Err)
}

func (e *PartitionError) Unwrap() error {
	return e.Err
}
