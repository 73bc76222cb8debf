package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-shaderbox/common"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/protocol"
)

var (
	// ErrNoAdapter is returned by Init when no compatible GPU adapter can be acquired.
	ErrNoAdapter = errors.New("no compatible GPU adapter")

	// ErrNotInitialized is returned when a backend is used before Init succeeded.
	ErrNotInitialized = errors.New("renderer backend not initialized")

	// ErrUnsupportedSurface is returned by Init when the surface cannot be presented to by the backend.
	ErrUnsupportedSurface = errors.New("surface not supported by renderer backend")

	// ErrForeignPipeline is returned by Draw when the pipeline was compiled by another backend.
	ErrForeignPipeline = errors.New("pipeline was not created by this backend")
)

// BackendType identifies the GPU backend implementation.
type BackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU BackendType = iota

	// BackendTypeHeadless selects the offscreen backend. It validates shaders with the pure-Go WGSL
	// front end and accounts frames without presenting them.
	BackendTypeHeadless
)

func (t BackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeHeadless:
		return "headless"
	default:
		return fmt.Sprintf("BackendType(%d)", int(t))
	}
}

// ParseBackendType parses a backend name as written in configuration files.
//
// Parameters:
//   - s: "wgpu" or "headless", case insensitive
//
// Returns:
//   - BackendType: the parsed backend type
//   - error: an error if the name is unknown
func ParseBackendType(s string) (BackendType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wgpu", "":
		return BackendTypeWGPU, nil
	case "headless":
		return BackendTypeHeadless, nil
	default:
		return 0, fmt.Errorf("unknown backend %q", s)
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeVSync:
		return "vsync"
	case PresentModeUncapped:
		return "uncapped"
	default:
		return fmt.Sprintf("PresentMode(%d)", int(m))
	}
}

// ParsePresentMode parses a present mode name as written in configuration files.
//
// Parameters:
//   - s: "vsync" or "uncapped", case insensitive
//
// Returns:
//   - PresentMode: the parsed present mode
//   - error: an error if the name is unknown
func ParsePresentMode(s string) (PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vsync", "":
		return PresentModeVSync, nil
	case "uncapped", "immediate":
		return PresentModeUncapped, nil
	default:
		return 0, fmt.Errorf("unknown present mode %q", s)
	}
}

// Pipeline is a compiled, ready-to-draw shader program together with its bind group.
// A Pipeline is only ever produced whole; a failed compile never yields one.
type Pipeline interface {
	// Release frees the GPU objects owned by the pipeline. Safe to call more than once.
	Release()
}

// Backend is the GPU context owned by the rendering agent. All methods must be called from the
// goroutine that called Init.
type Backend interface {
	// Init acquires an adapter and device, configures the surface at its current size and allocates
	// the uniform buffer. This is the only blocking step of startup.
	//
	// Parameters:
	//   - surface: the presentable surface handed over by the control side
	//
	// Returns:
	//   - error: ErrNoAdapter if no adapter is available, or another error if setup fails
	Init(surface protocol.Surface) error

	// Configure reconfigures the surface for a new size. Pipelines and the uniform buffer are preserved.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Configure(width, height int) error

	// Compile composes the user fragment source with the fixed prefix and builds a complete pipeline.
	// Any failure, including a panic raised by the native layer, is returned as an error whose text
	// is the diagnostic with line numbers relative to source.
	//
	// Parameters:
	//   - source: the user's fragment source
	//
	// Returns:
	//   - Pipeline: the compiled pipeline, nil on error
	//   - error: the compile diagnostic, or nil on success
	Compile(source string) (Pipeline, error)

	// Draw writes the uniforms, acquires the next frame, draws a full-screen triangle with the
	// pipeline, submits and presents.
	//
	// Parameters:
	//   - p: the pipeline to draw with
	//   - u: the uniform snapshot for this frame
	//
	// Returns:
	//   - error: an error if the frame could not be drawn, the frame is then skipped
	Draw(p Pipeline, u common.UniformData) error

	// Size returns the size the surface is currently configured for.
	//
	// Returns:
	//   - common.Resolution: the configured surface size
	Size() common.Resolution

	// Release frees the uniform buffer, device, adapter, surface and instance.
	Release()
}

// OffscreenSurface is a surface with a fixed size that nothing is presented to. It is used for
// headless runs.
type OffscreenSurface struct {
	Width  int
	Height int
}

var _ protocol.Surface = OffscreenSurface{}

// Size returns the surface size in pixels.
//
// Returns:
//   - int: the width
//   - int: the height
func (s OffscreenSurface) Size() (int, int) {
	return s.Width, s.Height
}
