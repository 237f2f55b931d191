package async

import (
	"context"
	"sync"
)

// ExecFuture represents the result of an asynchronous operation that only
// returns an error.
type ExecFuture struct {
	err  error
	once sync.Once
	done chan struct{}
}

// Await blocks until the operation completes and returns its error.
func (f *ExecFuture) Await() error {
	<-f.done
	return f.err
}

// IsComplete reports whether the operation has completed, without blocking.
func (f *ExecFuture) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Exec runs fn asynchronously with the given parameter and returns a future
// for its error. A pre-canceled context short-circuits without starting fn.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	f := &ExecFuture{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		err := fn(ctx, param)
		f.once.Do(func() {
			f.err = err
		})
	}()

	return f
}

// ExecAll awaits every future and returns the first error encountered.
// All futures are awaited even after a failure, so no goroutine is left
// unobserved.
func ExecAll(futures ...*ExecFuture) error {
	var firstErr error
	for _, future := range futures {
		if err := future.Await(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
