package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-shaderbox/common"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/logger"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/protocol"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceDescriptorProvider is implemented by surfaces the WGPU backend can present to.
// The window package's Window satisfies it.
type SurfaceDescriptorProvider interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

type wgpuRendererBackendImpl struct {
	settings rendererSettings

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	presentMode   wgpu.PresentMode
	size          common.Resolution

	uniformBuffer *wgpu.Buffer
	uniformSize   uint64
}

var _ Backend = &wgpuRendererBackendImpl{}

// wgpuPipeline holds every GPU object built by Compile. Objects are released in reverse creation order.
type wgpuPipeline struct {
	vertexModule   *wgpu.ShaderModule
	module         *wgpu.ShaderModule
	layout         *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	pipeline       *wgpu.RenderPipeline
	bindGroup      *wgpu.BindGroup
}

var _ Pipeline = &wgpuPipeline{}

func newWGPUBackend(s rendererSettings) *wgpuRendererBackendImpl {
	b := &wgpuRendererBackendImpl{settings: s}
	switch s.presentMode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
	return b
}

func (b *wgpuRendererBackendImpl) Init(surface protocol.Surface) (err error) {
	provider, ok := surface.(SurfaceDescriptorProvider)
	if !ok {
		return ErrUnsupportedSurface
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer init panicked: %v", r)
		}
		if err != nil {
			b.Release()
		}
	}()

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(provider.SurfaceDescriptor())

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.settings.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil || a == nil {
		return adapterError(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Shaderbox Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return ErrUnsupportedSurface
	}
	b.surfaceFormat = capabilities.Formats[0]
	b.alphaMode = capabilities.AlphaModes[0]

	limits := b.adapter.GetLimits()
	b.uniformSize = shader.UniformBufferSize(uint64(limits.Limits.MinUniformBufferOffsetAlignment))
	b.uniformBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Uniforms Buffer",
		Size:  b.uniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create uniform buffer: %w", err)
	}

	width, height := surface.Size()
	if err := b.Configure(width, height); err != nil {
		return err
	}

	logger.With("renderer").Info("gpu initialized",
		"backend", BackendTypeWGPU.String(),
		"format", b.surfaceFormat,
		"uniform_buffer_bytes", b.uniformSize,
		"size", b.size.String(),
	)
	return nil
}

// adapterError wraps the cause of a failed adapter request in ErrNoAdapter.
func adapterError(cause error) error {
	if cause == nil {
		return ErrNoAdapter
	}
	return fmt.Errorf("%w: %v", ErrNoAdapter, cause)
}

func (b *wgpuRendererBackendImpl) Configure(width, height int) error {
	if b.device == nil {
		return ErrNotInitialized
	}
	size := common.Resolution{Width: width, Height: height}
	if !size.Valid() {
		return fmt.Errorf("invalid surface size %s", size)
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})
	b.size = size
	return nil
}

func (b *wgpuRendererBackendImpl) Size() common.Resolution {
	return b.size
}

func (b *wgpuRendererBackendImpl) Compile(source string) (p Pipeline, err error) {
	if b.device == nil {
		return nil, ErrNotInitialized
	}

	program := shader.Compose(source)
	if b.settings.validate {
		if err := shader.Validate(program); err != nil {
			return nil, err
		}
	}

	created := &wgpuPipeline{}
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(program.Remap(fmt.Sprint(r)))
		}
		if err != nil {
			created.Release()
			p = nil
		}
	}()

	created.vertexModule, err = b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Shaderbox Vertex Module",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: shader.VertexSource,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex module: %w", err)
	}

	created.module, err = b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Shaderbox Fragment Module",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: program.Code,
		},
	})
	if err != nil {
		return nil, errors.New(program.Remap(err.Error()))
	}

	created.layout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Uniforms Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64((&shader.GPUUniforms{}).Size()),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group layout: %w", err)
	}

	created.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Shaderbox Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{created.layout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline layout: %w", err)
	}

	created.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Shaderbox Render Pipeline",
		Layout: created.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     created.vertexModule,
			EntryPoint: shader.VertexEntryPoint,
		},
		Fragment: &wgpu.FragmentState{
			Module:     created.module,
			EntryPoint: shader.FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, errors.New(program.Remap(err.Error()))
	}

	created.bindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Uniforms Bind Group",
		Layout: created.layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.uniformBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group: %w", err)
	}

	return created, nil
}

func (b *wgpuRendererBackendImpl) Draw(p Pipeline, u common.UniformData) (err error) {
	if b.device == nil {
		return ErrNotInitialized
	}
	wp, ok := p.(*wgpuPipeline)
	if !ok || wp.pipeline == nil {
		return ErrForeignPipeline
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("draw panicked: %v", r)
		}
	}()

	uniforms := shader.NewGPUUniforms(u)
	b.queue.WriteBuffer(b.uniformBuffer, 0, uniforms.Marshal())

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire frame: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	c := b.settings.clearColor
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]},
			},
		},
	})
	pass.SetPipeline(wp.pipeline)
	pass.SetBindGroup(0, wp.bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	if b.uniformBuffer != nil {
		b.uniformBuffer.Release()
		b.uniformBuffer = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

func (p *wgpuPipeline) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
		p.pipelineLayout = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
	if p.vertexModule != nil {
		p.vertexModule.Release()
		p.vertexModule = nil
	}
}
