// Package renderer owns the GPU context of the playground: adapter and device acquisition, surface
// configuration, shader pipeline compilation and per-frame drawing.
package renderer

import (
	"fmt"
)

// rendererSettings is the configuration collected from builder options before a backend is created.
type rendererSettings struct {
	presentMode          PresentMode
	forceFallbackAdapter bool
	validate             bool
	clearColor           [4]float64
}

func defaultSettings() rendererSettings {
	return rendererSettings{
		presentMode: PresentModeVSync,
		validate:    true,
		clearColor:  [4]float64{0, 0, 0, 1},
	}
}

// NewBackend creates a new Backend of the given type. The returned backend is inert until Init is
// called on the rendering agent's goroutine.
//
// Parameters:
//   - backendType: the type of rendering backend to use (WGPU or headless)
//   - options: variadic list of RendererBuilderOption functions to configure the backend
//
// Returns:
//   - Backend: the newly created backend
//   - error: an error if the backend type is unknown
func NewBackend(backendType BackendType, options ...RendererBuilderOption) (Backend, error) {
	s := defaultSettings()
	for _, opt := range options {
		opt(&s)
	}

	switch backendType {
	case BackendTypeWGPU:
		return newWGPUBackend(s), nil
	case BackendTypeHeadless:
		return newHeadlessBackend(s), nil
	default:
		return nil, fmt.Errorf("unsupported backend type %s", backendType)
	}
}
