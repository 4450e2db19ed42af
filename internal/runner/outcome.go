package runner

import (
	"context"
	"sync"
)

// Outcome is the terminal result of one submitted unit of work.
// Exactly one of Value or Err is meaningful.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Success wraps a value
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Failure wraps an error
func Failure[T any](err error) Outcome[T] {
	return Outcome[T]{Err: err}
}

// OK reports whether the outcome is a success
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// Handle lets a submitter await or poll an outcome.
// It resolves once, after the completion callback has run.
type Handle[T any] struct {
	done    chan struct{}
	once    sync.Once
	outcome Outcome[T]
}

func newHandle[T any]() *Handle[T] {
	return &Handle[T]{done: make(chan struct{})}
}

func (h *Handle[T]) resolve(o Outcome[T]) {
	h.once.Do(func() {
		h.outcome = o
		close(h.done)
	})
}

// Done is closed when the outcome is available
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the outcome is delivered or ctx ends.
// Giving up on the wait does not cancel the work.
func (h *Handle[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.outcome.Value, h.outcome.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Outcome returns the outcome if it has been delivered
func (h *Handle[T]) Outcome() (Outcome[T], bool) {
	select {
	case <-h.done:
		return h.outcome, true
	default:
		return Outcome[T]{}, false
	}
}
