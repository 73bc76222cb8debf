package signal

import "sync"

// Cell is a last-writer-wins shared value. Writers overwrite, readers sample the latest value
// without waiting.
type Cell[T any] struct {
	mu sync.RWMutex
	v  T
}

// NewCell creates a cell holding initial.
//
// Parameters:
//   - initial: the value returned by Load until the first Store
//
// Returns:
//   - *Cell[T]: the new cell
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{v: initial}
}

// Store replaces the held value.
func (c *Cell[T]) Store(v T) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

// Load returns the latest stored value.
func (c *Cell[T]) Load() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v
}
