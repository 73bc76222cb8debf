package agent

import (
	"time"

	"github.com/Carmen-Shannon/oxy-shaderbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/signal"
)

// AgentBuilderOption is a functional option applied to an agent during construction via NewAgent.
type AgentBuilderOption func(*agent)

// WithRefresh sets the display refresh signal that drives the render loop. When unset, the agent
// creates its own ticker at the configured refresh rate.
//
// Parameters:
//   - refresh: one value per display refresh, carrying the refresh time
//
// Returns:
//   - AgentBuilderOption: a function that applies the refresh option to an agent
func WithRefresh(refresh <-chan time.Time) AgentBuilderOption {
	return func(a *agent) {
		a.refresh = refresh
	}
}

// WithRefreshRate sets the rate of the agent's own refresh ticker. Ignored when WithRefresh is used.
//
// Parameters:
//   - hz: refreshes per second (defaults to signal.DefaultRefreshRate if <= 0)
//
// Returns:
//   - AgentBuilderOption: a function that applies the refresh rate option to an agent
func WithRefreshRate(hz int) AgentBuilderOption {
	return func(a *agent) {
		if hz > 0 {
			a.refreshRate = hz
		}
	}
}

// WithClock sets the clock used to start frame-rate measurement windows.
//
// Parameters:
//   - c: the clock
//
// Returns:
//   - AgentBuilderOption: a function that applies the clock option to an agent
func WithClock(c signal.Clock) AgentBuilderOption {
	return func(a *agent) {
		a.clock = c
	}
}

// WithProfiler enables memory and GC statistics logging each time a frame-rate sample is taken.
//
// Parameters:
//   - p: the profiler, nil disables profiling
//
// Returns:
//   - AgentBuilderOption: a function that applies the profiler option to an agent
func WithProfiler(p *profiler.Profiler) AgentBuilderOption {
	return func(a *agent) {
		a.profiler = p
	}
}

// WithLockOSThread controls whether Run locks its goroutine to an OS thread. Native GPU APIs
// require it; it is enabled by default.
//
// Parameters:
//   - lock: false to leave the goroutine unlocked
//
// Returns:
//   - AgentBuilderOption: a function that applies the thread lock option to an agent
func WithLockOSThread(lock bool) AgentBuilderOption {
	return func(a *agent) {
		a.lockThread = lock
	}
}
