package shader

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-shaderbox/common"
	"github.com/gogpu/naga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposePrefixesUniforms(t *testing.T) {
	p := Compose("@fragment\nfn fs() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }\n")

	assert.True(t, strings.HasPrefix(p.Code, "struct Uniforms"))
	assert.Contains(t, p.Code, "@group(0) @binding(0) var<uniform> u: Uniforms;")
	assert.NotContains(t, p.Code, "fn vs(", "the vertex stage is a separate module")
	assert.True(t, strings.HasSuffix(p.Code, p.Source))
	assert.Equal(t, strings.Count(Prefix(), "\n"), p.PrefixLines)

	lines := strings.Split(p.Code, "\n")
	assert.Equal(t, "@fragment", lines[p.PrefixLines], "first user line follows the prefix")
}

func TestUserLine(t *testing.T) {
	p := Program{PrefixLines: 16}

	l, ok := p.UserLine(17)
	assert.True(t, ok)
	assert.Equal(t, 1, l)

	_, ok = p.UserLine(16)
	assert.False(t, ok)
}

func TestRemap(t *testing.T) {
	p := Program{PrefixLines: 16}

	assert.Equal(t, "error at line 3: unknown identifier", p.Remap("error at line 19: unknown identifier"))
	assert.Equal(t, "shader:4:12: expected ';'", p.Remap("shader:20:12: expected ';'"))
	assert.Equal(t, "line 2 in prefix", p.Remap("line 2 in prefix"), "prefix lines are left alone")
	assert.Equal(t, "no position", p.Remap("no position"))
	assert.Equal(t, "line 24:1", p.Remap("line 40:1"), "a line is remapped once")
	assert.Equal(t, "line 19", Program{}.Remap("line 19"))
}

func TestValidateRejectsEmptySource(t *testing.T) {
	_, err := Check("   \n")
	assert.ErrorIs(t, err, ErrEmptySource)
}

func TestValidateFragmentEntryPoint(t *testing.T) {
	const body = " -> @location(0) vec4<f32> { return vec4<f32>(u.time); }\n"
	tests := []struct {
		name    string
		source  string
		missing bool
	}{
		{name: "single space", source: "@fragment fn fs()" + body},
		{name: "tab separated", source: "@fragment\nfn\tfs()" + body},
		{name: "double space", source: "@fragment fn  fs()" + body},
		{name: "split across lines", source: "@fragment\nfn\nfs()" + body},
		{name: "helper named like the vertex stage", source: "fn vs() -> f32 { return 0.5; }\n@fragment fn fs() -> @location(0) vec4<f32> { return vec4<f32>(vs()); }\n"},
		{name: "differently named entry point", source: "@fragment fn fs_main()" + body, missing: true},
		{name: "plain function named fs", source: "fn fs() -> f32 { return 1.0; }\n", missing: true},
		{name: "comment only", source: "// @fragment fn fs()\n", missing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Check(tt.source)
			if tt.missing {
				assert.ErrorIs(t, err, ErrMissingEntryPoint)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestVertexStageCompilesAlone(t *testing.T) {
	_, err := naga.Compile(VertexSource)
	assert.NoError(t, err)
}

func TestValidateDefaultShader(t *testing.T) {
	_, err := Check(DefaultFragmentSource)
	assert.NoError(t, err)
}

func TestValidateSyntaxError(t *testing.T) {
	_, err := Check("@fragment\nfn fs() -> @location(0) vec4<f32> { return vec4<f32>(1.0) }\n")
	assert.Error(t, err)
}

func TestGPUUniformsMarshal(t *testing.T) {
	g := NewGPUUniforms(common.UniformData{
		Time:       1.5,
		Resolution: common.Resolution{Width: 800, Height: 600},
		Mouse:      common.Vec2{X: 10, Y: 20},
	})
	buf := g.Marshal()
	require.Len(t, buf, 32)

	want := []float32{1.5, 0, 800, 600, 10, 20, 0, 0}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		assert.Equal(t, w, got, "float %d", i)
	}
}

func TestUniformBufferSize(t *testing.T) {
	assert.Equal(t, uint64(32), UniformBufferSize(0))
	assert.Equal(t, uint64(256), UniformBufferSize(256))
}
