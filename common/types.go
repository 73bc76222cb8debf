// package common contains common types that are used throughout the playground. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types shared by the control side and the rendering agent.
package common

import "fmt"

// Vec2 is a 2D position in device pixels.
type Vec2 struct {
	// X is the horizontal position in device pixels, increasing to the right.
	X float32
	// Y is the vertical position in device pixels, increasing downwards.
	Y float32
}

// Resolution is a viewport or surface size in device pixels.
type Resolution struct {
	// Width is the horizontal size in device pixels.
	Width int
	// Height is the vertical size in device pixels.
	Height int
}

// Valid reports whether both dimensions are strictly positive.
//
// Returns:
//   - bool: true if the resolution can be used to configure a surface
func (r Resolution) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// UniformData is the per-frame snapshot of inputs visible to the fragment shader.
// It is the only data the shader program can observe and is packed into a fixed-layout buffer
// before every draw.
type UniformData struct {
	// Time is the elapsed time in seconds, monotonic since the control side started its clock.
	Time float32
	// Resolution is the surface size in device pixels.
	Resolution Resolution
	// Mouse is the last known pointer position in device pixels, (0, 0) until the pointer moves.
	Mouse Vec2
}

// DefaultUniformData returns the uniform snapshot used before the first Uniform message arrives.
//
// Returns:
//   - UniformData: time 0, a 1x1 resolution and the pointer at the origin
func DefaultUniformData() UniformData {
	return UniformData{
		Time:       0,
		Resolution: Resolution{Width: 1, Height: 1},
		Mouse:      Vec2{},
	}
}
