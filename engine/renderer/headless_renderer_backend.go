package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shaderbox/common"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/logger"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/protocol"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/renderer/shader"
)

// headlessRendererBackendImpl compiles with the WGSL front end only and records frames instead of
// presenting them. It never fails to find an adapter.
type headlessRendererBackendImpl struct {
	initialized bool
	size        common.Resolution
	uniforms    []byte
	frames      uint64
}

var _ Backend = &headlessRendererBackendImpl{}

type headlessPipeline struct {
	released bool
}

var _ Pipeline = &headlessPipeline{}

func newHeadlessBackend(_ rendererSettings) *headlessRendererBackendImpl {
	return &headlessRendererBackendImpl{}
}

func (b *headlessRendererBackendImpl) Init(surface protocol.Surface) error {
	b.initialized = true
	b.uniforms = make([]byte, shader.UniformBufferSize(0))

	width, height := surface.Size()
	if err := b.Configure(width, height); err != nil {
		b.initialized = false
		return err
	}

	logger.With("renderer").Info("gpu initialized",
		"backend", BackendTypeHeadless.String(),
		"size", b.size.String(),
	)
	return nil
}

func (b *headlessRendererBackendImpl) Configure(width, height int) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	size := common.Resolution{Width: width, Height: height}
	if !size.Valid() {
		return fmt.Errorf("invalid surface size %s", size)
	}
	b.size = size
	return nil
}

func (b *headlessRendererBackendImpl) Size() common.Resolution {
	return b.size
}

func (b *headlessRendererBackendImpl) Compile(source string) (Pipeline, error) {
	if !b.initialized {
		return nil, ErrNotInitialized
	}
	if _, err := shader.Check(source); err != nil {
		return nil, err
	}
	return &headlessPipeline{}, nil
}

func (b *headlessRendererBackendImpl) Draw(p Pipeline, u common.UniformData) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	hp, ok := p.(*headlessPipeline)
	if !ok || hp.released {
		return ErrForeignPipeline
	}

	g := shader.NewGPUUniforms(u)
	copy(b.uniforms, g.Marshal())
	b.frames++
	return nil
}

func (b *headlessRendererBackendImpl) Release() {
	b.initialized = false
	b.uniforms = nil
}

func (p *headlessPipeline) Release() {
	p.released = true
}
