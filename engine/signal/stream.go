package signal

import (
	"context"
	"errors"
)

// Stream is an infinite, non-restartable sequence of values with a single consumer.
// Producers Emit without blocking; the consumer reads in emission order.
type Stream[T any] struct {
	q *Queue[T]
}

// NewStream creates an empty stream.
//
// Returns:
//   - *Stream[T]: the new stream
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{q: NewQueue[T]()}
}

// Emit publishes v to the stream. Emitting on a closed stream is a no-op.
//
// Parameters:
//   - v: the value to publish
func (s *Stream[T]) Emit(v T) {
	s.q.Push(v)
}

// Next blocks for the next value.
//
// Parameters:
//   - ctx: cancels the wait
//
// Returns:
//   - T: the next value
//   - error: ErrClosed when the stream has ended, or ctx.Err()
func (s *Stream[T]) Next(ctx context.Context) (T, error) {
	return s.q.Pop(ctx)
}

// Each calls fn for every value until the stream is closed or ctx is done.
// A closed stream ends the loop with a nil error.
//
// Parameters:
//   - ctx: cancels the loop
//   - fn: the callback invoked sequentially for each value
//
// Returns:
//   - error: ctx.Err() if the context ended the loop, otherwise nil
func (s *Stream[T]) Each(ctx context.Context, fn func(T)) error {
	for {
		v, err := s.q.Pop(ctx)
		if errors.Is(err, ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		fn(v)
	}
}

// Pending returns the number of values emitted but not yet consumed.
//
// Returns:
//   - int: the backlog length
func (s *Stream[T]) Pending() int {
	return s.q.Len()
}

// Close ends the stream. Values already emitted are still delivered.
func (s *Stream[T]) Close() {
	s.q.Close()
}
