package signal

import "time"

// BusBuilderOption is a functional option for configuring a Bus.
type BusBuilderOption func(*bus)

// WithDebounce sets the quiet period applied to editor changes.
//
// Parameters:
//   - quiet: the debounce window (values <= 0 keep DefaultDebounce)
//
// Returns:
//   - BusBuilderOption: option function to apply
func WithDebounce(quiet time.Duration) BusBuilderOption {
	return func(b *bus) {
		if quiet > 0 {
			b.quiet = quiet
		}
	}
}

// WithClock sets the time source used by the debouncer and, unless WithStart is given, the
// animation clock origin.
//
// Parameters:
//   - c: the clock
//
// Returns:
//   - BusBuilderOption: option function to apply
func WithClock(c Clock) BusBuilderOption {
	return func(b *bus) {
		if c != nil {
			b.timeClock = c
		}
	}
}

// WithStart sets the animation clock origin.
//
// Parameters:
//   - start: the time at which the animation clock reads zero
//
// Returns:
//   - BusBuilderOption: option function to apply
func WithStart(start time.Time) BusBuilderOption {
	return func(b *bus) {
		b.start = start
	}
}
