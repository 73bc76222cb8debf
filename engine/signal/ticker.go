package signal

import (
	"context"
	"time"
)

// DefaultRefreshRate is used when the display refresh rate is unknown.
const DefaultRefreshRate = 60

// RefreshInterval converts a refresh rate in Hz into a tick interval.
//
// Parameters:
//   - hz: the display refresh rate; values <= 0 use DefaultRefreshRate
//
// Returns:
//   - time.Duration: the time between refreshes
func RefreshInterval(hz int) time.Duration {
	if hz <= 0 {
		hz = DefaultRefreshRate
	}
	return time.Second / time.Duration(hz)
}

// Ticker produces one tick per display refresh until ctx is done, then closes the channel.
// Like time.Ticker it drops ticks for slow receivers instead of queueing them.
//
// Parameters:
//   - ctx: stops the ticker
//   - interval: the refresh period
//
// Returns:
//   - <-chan time.Time: the refresh signal
func Ticker(ctx context.Context, interval time.Duration) <-chan time.Time {
	out := make(chan time.Time, 1)
	go func() {
		defer close(out)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				select {
				case out <- now:
				default:
				}
			}
		}
	}()
	return out
}

// AnimationClock turns refresh ticks into elapsed seconds since start.
// The returned stream closes when ticks closes or ctx is done.
//
// Parameters:
//   - ctx: stops the clock
//   - ticks: the refresh signal
//   - start: the time origin
//
// Returns:
//   - *Stream[float64]: elapsed seconds at each refresh
func AnimationClock(ctx context.Context, ticks <-chan time.Time, start time.Time) *Stream[float64] {
	out := NewStream[float64]()
	go func() {
		defer out.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case now, ok := <-ticks:
				if !ok {
					return
				}
				out.Emit(now.Sub(start).Seconds())
			}
		}
	}()
	return out
}
