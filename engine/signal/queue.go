// Package signal provides the control side's input plumbing: unbounded FIFO queues, infinite
// streams built on them, last-writer-wins cells, a debouncer and the display refresh clock.
package signal

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by blocking reads once a queue is closed and fully drained.
var ErrClosed = errors.New("signal: queue closed")

// Queue is an unbounded FIFO queue. Push never blocks and never drops; consumers wait on Ready
// (or call Pop) and take items in insertion order. Safe for any number of producers.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	ready  chan struct{}
	done   chan struct{}
	closed bool
}

// NewQueue creates an empty open queue.
//
// Returns:
//   - *Queue[T]: the new queue
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Push appends v to the queue. It returns false, discarding v, if the queue is closed.
//
// Parameters:
//   - v: the value to enqueue
//
// Returns:
//   - bool: true if v was enqueued
func (q *Queue[T]) Push(v T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return true
}

// TryPop removes and returns the oldest item without blocking.
//
// Returns:
//   - T: the oldest item, or the zero value if the queue is empty
//   - bool: true if an item was returned
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return v, true
}

// Drain removes and returns every queued item in FIFO order.
//
// Returns:
//   - []T: the queued items, nil if the queue was empty
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil
	return items
}

// Pop blocks until an item is available, the queue is closed and empty, or ctx is done.
//
// Parameters:
//   - ctx: cancels the wait
//
// Returns:
//   - T: the oldest item
//   - error: ErrClosed once the queue is closed and drained, or ctx.Err()
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	for {
		if v, ok := q.TryPop(); ok {
			return v, nil
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-q.ready:
		case <-q.done:
			if v, ok := q.TryPop(); ok {
				return v, nil
			}
			var zero T
			return zero, ErrClosed
		}
	}
}

// Ready returns a channel that receives after a Push. A receive means items may be available;
// consumers should TryPop or Drain until empty before waiting again.
//
// Returns:
//   - <-chan struct{}: the wake-up channel
func (q *Queue[T]) Ready() <-chan struct{} {
	return q.ready
}

// Done returns a channel that is closed when the queue is closed.
//
// Returns:
//   - <-chan struct{}: the close notification channel
func (q *Queue[T]) Done() <-chan struct{} {
	return q.done
}

// Len returns the number of queued items.
//
// Returns:
//   - int: the current queue length
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops the queue from accepting new items. Items already queued can still be read.
// Safe to call multiple times.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}
