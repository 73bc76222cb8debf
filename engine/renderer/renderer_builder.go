package renderer

// RendererBuilderOption is a functional option applied to a backend during construction via NewBackend.
type RendererBuilderOption func(*rendererSettings)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a backend
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(s *rendererSettings) {
		s.presentMode = mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a backend
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(s *rendererSettings) {
		s.forceFallbackAdapter = force
	}
}

// WithValidation toggles running the pure-Go WGSL front end before handing source to the device.
// Enabled by default.
//
// Parameters:
//   - validate: false to skip front-end validation
//
// Returns:
//   - RendererBuilderOption: a function that applies the validation option to a backend
func WithValidation(validate bool) RendererBuilderOption {
	return func(s *rendererSettings) {
		s.validate = validate
	}
}

// WithClearColor sets the color the frame is cleared to before the full-screen triangle is drawn.
//
// Parameters:
//   - r, g, b, a: the clear color components in [0, 1]
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a backend
func WithClearColor(r, g, b, a float64) RendererBuilderOption {
	return func(s *rendererSettings) {
		s.clearColor = [4]float64{r, g, b, a}
	}
}
