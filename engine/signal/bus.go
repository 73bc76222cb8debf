package signal

import (
	"context"
	"time"

	"github.com/Carmen-Shannon/oxy-shaderbox/common"
)

// bus is the implementation of the Bus interface.
type bus struct {
	pointer  *Stream[common.Vec2]
	viewport *Stream[common.Resolution]
	clock    *Stream[float64]
	edits    *Stream[string]

	debouncer *Debouncer[string]

	quiet     time.Duration
	timeClock Clock
	start     time.Time
}

// Bus exposes the four independent input sources of the control side. Producers (window
// callbacks, the editor watcher) feed it through the PointerMoved/Resized/Edited methods; the
// router consumes the streams. No source blocks another.
type Bus interface {
	// PointerMoved publishes a pointer position in device pixels.
	//
	// Parameters:
	//   - x: horizontal position
	//   - y: vertical position
	PointerMoved(x, y float32)

	// Resized publishes a new viewport size in device pixels.
	//
	// Parameters:
	//   - width: new width
	//   - height: new height
	Resized(width, height int)

	// Edited publishes the full editor content. Bursts are debounced before reaching Edits.
	//
	// Parameters:
	//   - code: the complete document text
	Edited(code string)

	// Pointer returns the stream of pointer positions.
	Pointer() *Stream[common.Vec2]

	// Viewport returns the stream of viewport sizes. Its first value is the size at construction.
	Viewport() *Stream[common.Resolution]

	// Clock returns the animation clock: elapsed seconds, once per display refresh.
	Clock() *Stream[float64]

	// Edits returns the debounced editor content stream.
	Edits() *Stream[string]

	// Close stops the debouncer and ends every stream.
	Close()
}

var _ Bus = &bus{}

// NewBus creates a Bus. The viewport stream immediately carries initial; the clock stream is
// driven by ticks until ticks closes or ctx is done.
//
// Parameters:
//   - ctx: bounds the clock goroutine
//   - initial: the viewport size at startup
//   - ticks: the display refresh signal
//   - options: functional options (debounce period, clock, time origin)
//
// Returns:
//   - Bus: the running bus
func NewBus(ctx context.Context, initial common.Resolution, ticks <-chan time.Time, options ...BusBuilderOption) Bus {
	b := &bus{
		pointer:   NewStream[common.Vec2](),
		viewport:  NewStream[common.Resolution](),
		edits:     NewStream[string](),
		quiet:     DefaultDebounce,
		timeClock: SystemClock(),
	}
	for _, opt := range options {
		opt(b)
	}
	if b.start.IsZero() {
		b.start = b.timeClock.Now()
	}

	b.debouncer = NewDebouncer(b.quiet, b.timeClock, b.edits.Emit)
	b.viewport.Emit(initial)
	b.clock = AnimationClock(ctx, ticks, b.start)
	return b
}

func (b *bus) PointerMoved(x, y float32) {
	b.pointer.Emit(common.Vec2{X: x, Y: y})
}

func (b *bus) Resized(width, height int) {
	b.viewport.Emit(common.Resolution{Width: width, Height: height})
}

func (b *bus) Edited(code string) {
	b.debouncer.Push(code)
}

func (b *bus) Pointer() *Stream[common.Vec2] {
	return b.pointer
}

func (b *bus) Viewport() *Stream[common.Resolution] {
	return b.viewport
}

func (b *bus) Clock() *Stream[float64] {
	return b.clock
}

func (b *bus) Edits() *Stream[string] {
	return b.edits
}

func (b *bus) Close() {
	b.debouncer.Stop()
	b.pointer.Close()
	b.viewport.Close()
	b.edits.Close()
}
