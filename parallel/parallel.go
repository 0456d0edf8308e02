// Package parallel provides a fork-join primitive and a set of
// reductions built on top of it.
//
// All functions take a context and a worker count n as their first
// parameters. The input is divided into min(n, len(items)) contiguous
// partitions, and each partition is processed by its own goroutine.
package parallel

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/exascience/iterpar"
	"github.com/exascience/iterpar/internal"
	"github.com/exascience/iterpar/internal/tracer"
)

var logger logrus.FieldLogger = discard()

func discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SetLogger replaces the logger used by this package. By default,
// nothing is logged. It must not be called concurrently with any other
// function of this package.
func SetLogger(l logrus.FieldLogger) {
	logger = l
}

// Execute receives a worker count n, a slice of items, a transform,
// and a reducer, divides the items into partitions, invokes the
// transform for each partition in parallel, and passes the partial
// results in partition order to the reducer.
//
// The number of partitions is min(n, len(items)). Each partition
// covers len(items)/partitions consecutive items, except the last
// one, which also covers the remaining items. If items is empty, no
// goroutines are started and the reducer is invoked with an empty
// slice.
//
// Each transform is invoked in its own goroutine, and Execute returns
// only when all transforms have terminated. The result of the reducer
// therefore depends only on the contents of the partitions, and never
// on the order in which the goroutines finish.
//
// A worker that observes a done context before invoking its
// transform, or whose transform returns an error that matches
// context.Canceled or context.DeadlineExceeded, is canceled. If any
// transform returns another error, Execute returns the left-most such
// error wrapped in a *PartitionError. Otherwise, if any worker was
// canceled, Execute returns a *CanceledError that holds all
// cancelation causes. In both cases the reducer is not invoked.
//
// Execute returns ErrInvalidWorkerCount if n <= 0.
//
// If one or more transforms panic, the corresponding goroutines
// recover the panics, and Execute eventually panics with the
// left-most recovered panic value.
func Execute[T, S, R any](
	ctx context.Context,
	n int,
	items []T,
	transform iterpar.Transform[T, S],
	reduce iterpar.Reducer[S, R],
) (result R, err error) {
	if n <= 0 {
		return result, ErrInvalidWorkerCount
	}
	size := len(items)
	workers := internal.ComputeNofWorkers(size, n)

	ctx, span := tracer.Start(ctx, "parallel.Execute", trace.WithAttributes(
		attribute.Int("items", size),
		attribute.Int("workers", workers),
	))
	defer span.End()

	slots := make([]S, workers)
	errs := make([]error, workers)
	panics := make([]interface{}, workers)

	logger.WithFields(logrus.Fields{
		"items":   size,
		"workers": workers,
	}).Debug("dispatching workers")

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		low, high := internal.Bounds(size, workers, i)
		go func() {
			defer func() {
				panics[i] = internal.WrapPanic(recover())
				wg.Done()
			}()
			slots[i], errs[i] = work(ctx, i, low, high, items[low:high:high], transform)
		}()
	}
	wg.Wait()

	for _, p := range panics {
		if p != nil {
			span.SetStatus(codes.Error, "worker panicked")
			panic(p)
		}
	}

	var causes []error
	for i, werr := range errs {
		switch {
		case werr == nil:
		case internal.IsCancelation(werr):
			causes = append(causes, werr)
		default:
			low, high := internal.Bounds(size, workers, i)
			err = &PartitionError{Index: i, Low: low, High: high, Err: werr}
			logger.WithError(werr).WithFields(logrus.Fields{
				"partition": i,
				"low":       low,
				"high":      high,
			}).Error("partition failed")
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return result, err
		}
	}
	if len(causes) > 0 {
		err = &CanceledError{Workers: workers, Causes: causes}
		logger.WithFields(logrus.Fields{
			"canceled": len(causes),
			"workers":  workers,
		}).Warn("workers canceled")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	return reduce(slots), nil
}

// work runs transform on a single partition, unless ctx is already
// done.
func work[T, S any](
	ctx context.Context,
	index, low, high int,
	part []T,
	transform iterpar.Transform[T, S],
) (result S, err error) {
	ctx, span := tracer.Start(ctx, "parallel.worker", trace.WithAttributes(
		attribute.Int("index", index),
		attribute.Int("low", low),
		attribute.Int("high", high),
	))
	defer span.End()

	if ctx.Err() != nil {
		err = internal.Canceled(ctx)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	s, err := transform(ctx, part)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	return s, nil
}
