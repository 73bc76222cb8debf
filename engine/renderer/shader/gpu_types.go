package shader

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-shaderbox/common"
)

// UniformsSource is the canonical WGSL definition of the Uniforms struct and its binding.
// Matches GPUUniforms layout exactly (32 bytes, uniform address space aligned).
//
//go:embed assets/uniforms.wgsl
var UniformsSource string

// VertexSource is the fixed vertex stage. It emits a full-screen triangle from vertex_index alone,
// so the pipeline needs no vertex buffers.
//
//go:embed assets/fullscreen.wgsl
var VertexSource string

// DefaultFragmentSource is the starter fragment shader used when no source file exists yet.
//
//go:embed assets/default.wgsl
var DefaultFragmentSource string

// GPUUniforms is the GPU-aligned representation of the uniform buffer.
// Matches the WGSL Uniforms struct layout exactly (see UniformsSource).
// Size: 32 bytes.
type GPUUniforms struct {
	Time       float32    // offset  0: elapsed seconds (f32)
	_pad       float32    // offset  4: padding so resolution is 8-byte aligned
	Resolution [2]float32 // offset  8: surface size in pixels (vec2<f32>)
	Mouse      [2]float32 // offset 16: pointer position in pixels (vec2<f32>)
	_pad2      [2]float32 // offset 24: padding to 32 bytes
}

// NewGPUUniforms converts a uniform snapshot into its GPU layout.
//
// Parameters:
//   - u: the uniform snapshot
//
// Returns:
//   - GPUUniforms: the GPU-aligned uniform values
func NewGPUUniforms(u common.UniformData) GPUUniforms {
	return GPUUniforms{
		Time:       u.Time,
		Resolution: [2]float32{float32(u.Resolution.Width), float32(u.Resolution.Height)},
		Mouse:      [2]float32{u.Mouse.X, u.Mouse.Y},
	}
}

// Size returns the size of the GPUUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUUniforms struct into a byte buffer suitable for GPU upload.
// The layout is eight little-endian f32 values: time, 0, width, height, mouse x, mouse y, 0, 0.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUUniforms) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.Time))
	binary.LittleEndian.PutUint32(buf[4:], 0) // _pad
	for i := range 2 {
		binary.LittleEndian.PutUint32(buf[8+i*4:], math.Float32bits(g.Resolution[i]))
	}
	for i := range 2 {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.Mouse[i]))
	}
	binary.LittleEndian.PutUint64(buf[24:], 0) // _pad2
	return buf
}

// UniformBufferSize returns the size to allocate for the uniform buffer, rounded up to the adapter's
// minimum uniform buffer offset alignment.
//
// Parameters:
//   - alignment: the adapter's MinUniformBufferOffsetAlignment
//
// Returns:
//   - uint64: the allocation size in bytes
func UniformBufferSize(alignment uint64) uint64 {
	var g GPUUniforms
	return common.AlignUp(uint64(g.Size()), alignment)
}
