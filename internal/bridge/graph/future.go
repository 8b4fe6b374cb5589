package graph

import (
	"context"
)

// Future is the memoized result of a build started when the future is created.
// Awaiting is cancellable, the build itself is bound to the context it was started with.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go starts fn in its own goroutine and returns its future.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		f.value, f.err = fn(ctx)
	}()

	return f
}

// Resolved returns a future already completed with err.
func Resolved[T any](value T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: value, err: err}
	close(f.done)
	return f
}

func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the outcome of a completed future, or ErrNotReady while it is still running.
func (f *Future[T]) Result() (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
		var zero T
		return zero, ErrNotReady
	}
}
