package signal

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period applied to editor changes before a recompile is requested.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer collapses bursts of values into one trailing emission. Every Push re-arms the timer;
// only when no Push arrives for the quiet period is the latest value emitted, exactly once.
type Debouncer[T any] struct {
	mu      sync.Mutex
	clock   Clock
	quiet   time.Duration
	emit    func(T)
	timer   Timer
	pending T
	armed   bool
	gen     uint64
	stopped bool
}

// NewDebouncer creates a debouncer calling emit after each quiet period.
//
// Parameters:
//   - quiet: the suppression window; values <= 0 fall back to DefaultDebounce
//   - clock: the time source (nil uses SystemClock)
//   - emit: receives the surviving value; called without internal locks held
//
// Returns:
//   - *Debouncer[T]: the debouncer
func NewDebouncer[T any](quiet time.Duration, clock Clock, emit func(T)) *Debouncer[T] {
	if quiet <= 0 {
		quiet = DefaultDebounce
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Debouncer[T]{clock: clock, quiet: quiet, emit: emit}
}

// Push records v as the latest value and restarts the quiet period.
//
// Parameters:
//   - v: the new value, replacing any pending one
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = v
	d.armed = true
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.quiet, func() { d.fire(gen) })
}

// fire emits the pending value if no newer Push superseded generation gen.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.armed || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.pending
	var zero T
	d.pending = zero
	d.armed = false
	d.timer = nil
	d.mu.Unlock()

	d.emit(v)
}

// Stop cancels any pending emission. Later Pushes are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.armed = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
