package engine

import (
	"io"
	"time"

	"github.com/Carmen-Shannon/oxy-shaderbox/common"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables per-second memory statistics alongside FPS samples.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithRefreshRate sets the display refresh rate driving the animation clock and the render loop.
// Values <= 0 keep the default (60Hz).
//
// Parameters:
//   - hz: refreshes per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRefreshRate(hz int) EngineBuilderOption {
	return func(e *engine) {
		if hz > 0 {
			e.refreshRate = hz
		}
	}
}

// WithWindow sets the preview window. Without a window the engine runs headless.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		if w != nil {
			e.window = w
		}
	}
}

// WithBackend sets the renderer backend handed to the rendering agent.
//
// Parameters:
//   - b: the backend, not yet initialized
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBackend(b renderer.Backend) EngineBuilderOption {
	return func(e *engine) {
		e.backend = b
	}
}

// WithTitle sets the base window title. Compilation status is appended to it.
//
// Parameters:
//   - title: the title text
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTitle(title string) EngineBuilderOption {
	return func(e *engine) {
		e.title = title
	}
}

// WithSize sets the viewport size used when running headless.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSize(width, height int) EngineBuilderOption {
	return func(e *engine) {
		e.size = common.Resolution{Width: width, Height: height}
	}
}

// WithShaderPath sets the fragment shader file watched for edits.
//
// Parameters:
//   - path: the shader file, created with the default program if missing
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithShaderPath(path string) EngineBuilderOption {
	return func(e *engine) {
		e.shaderPath = path
	}
}

// WithDebounce sets the quiet period after the last edit before the shader is recompiled.
//
// Parameters:
//   - quiet: the debounce period
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDebounce(quiet time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.debounce = quiet
	}
}

// WithLogFeed configures the terminal log feed.
//
// Parameters:
//   - out: where the feed is drawn
//   - capacity: entries kept (defaults to router.DefaultLogCapacity if <= 0)
//   - clearScreen: clear the terminal before each redraw
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogFeed(out io.Writer, capacity int, clearScreen bool) EngineBuilderOption {
	return func(e *engine) {
		if out != nil {
			e.logOutput = out
		}
		if capacity > 0 {
			e.logCapacity = capacity
		}
		e.clearScreen = clearScreen
	}
}
