package async

import (
	"context"
	"sync"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// Await waits for the future and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for the future or ctx, whichever ends first. A
// canceled wait does not affect the future itself.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout returns ErrTimeout if the future is not complete after
// timeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// Done is closed once the future has a result.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *Future[U]) complete(result U, err error) {
	f.once.Do(func() {
		f.result = result
		f.err = err
		close(f.done)
	})
}

// Go runs fn in its own goroutine, bound to ctx. When ctx ends before fn
// returns, the future completes with ctx.Err() and fn's eventual result is
// discarded. fn still receives ctx and is expected to stop on its own.
func Go[U any](ctx context.Context, fn func(context.Context) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	if err := ctx.Err(); err != nil {
		var zero U
		f.complete(zero, err)
		return f
	}

	stop := context.AfterFunc(ctx, func() {
		var zero U
		f.complete(zero, ctx.Err())
	})

	go func() {
		defer stop()
		res, err := fn(ctx)
		f.complete(res, err)
	}()

	return f
}

// Async is Go with an explicit parameter.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	return Go(ctx, func(ctx context.Context) (U, error) {
		return fn(ctx, param)
	})
}

// WaitAll waits for all futures and returns their results in order. The
// first error encountered in that order is returned after every future has
// completed.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	var firstErr error

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return results, firstErr
}

// WaitAny returns the index, result and error of the first future to
// complete.
func WaitAny[U any](futures ...*Future[U]) (int, U, error) {
	if len(futures) == 0 {
		var zero U
		return -1, zero, ErrNoFutures
	}

	cases := make(chan int, len(futures))
	for i, future := range futures {
		go func() {
			<-future.done
			cases <- i
		}()
	}

	i := <-cases
	return i, futures[i].result, futures[i].err
}
