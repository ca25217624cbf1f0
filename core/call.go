package core

import "context"

// Call is a not-yet-executed service operation producing a T. A Call holds
// no mutable shared state; the round trip runs when Do or Enqueue is
// invoked, so a single Call value may be executed from any goroutine.
type Call[T any] struct {
	run func(context.Context) (T, error)
}

// NewCall wraps an execution function into a deferred call handle.
func NewCall[T any](run func(context.Context) (T, error)) *Call[T] {
	return &Call[T]{run: run}
}

// FailCall wraps an argument-validation error detected before any network
// I/O. Executing the returned call surfaces the error without touching the
// transport.
func FailCall[T any](err error) *Call[T] {
	return NewCall(func(context.Context) (T, error) {
		var zero T
		return zero, err
	})
}

// Do executes the call synchronously, blocking until the round trip
// completes, and returns the typed result or the error.
func (c *Call[T]) Do(ctx context.Context) (T, error) {
	return c.run(ctx)
}

// Enqueue executes the call on its own goroutine and invokes callback
// exactly once with either the result or the error. The returned channel
// closes after the callback returns, for callers that need to join.
func (c *Call[T]) Enqueue(ctx context.Context, callback func(T, error)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err := c.run(ctx)
		if callback != nil {
			callback(result, err)
		}
	}()
	return done
}
