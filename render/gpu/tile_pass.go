package gpu

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/townview/render/core"
	"github.com/gekko3d/townview/render/shaders"
)

type geometryBuffers struct {
	vertices   *wgpu.Buffer
	indices    *wgpu.Buffer
	indexCount uint32
}

type textureBinding struct {
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
}

type batchDraw struct {
	geometry      *geometryBuffers
	texture       *textureBinding
	instanceCount uint32
	firstInstance uint32
}

// TileRenderPass draws every mesh of a scene as instanced, textured boxes.
// GPU copies of geometries and textures are created on first use and kept
// until Release, keyed by the CPU-side pointer.
type TileRenderPass struct {
	Device         *wgpu.Device
	Pipeline       *wgpu.RenderPipeline
	SceneBuffer    *wgpu.Buffer
	SceneBindGroup *wgpu.BindGroup
	Sampler        *wgpu.Sampler
	InstanceBuffer *wgpu.Buffer
	InstanceCap    uint32

	geometries map[*core.BoxGeometry]*geometryBuffers
	textures   map[*core.Texture]*textureBinding
	white      *textureBinding
	draws      []batchDraw
}

func NewTileRenderPass(device *wgpu.Device, format wgpu.TextureFormat) (*TileRenderPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "MeshShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.MeshWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	sceneBgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "MeshSceneBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: sceneUniformSize,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	textureBgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "MeshTextureBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "MeshPipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{sceneBgl, textureBgl},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "MeshPipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(core.Vertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
					},
				},
				{
					ArrayStride: uint64(unsafe.Sizeof(MeshInstance{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 3},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 4},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 5},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 6},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 7},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	sceneBuffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "MeshSceneUniforms",
		Size:  sceneUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	sceneBindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "MeshSceneBG",
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: sceneBuffer, Size: sceneUniformSize},
		},
	})
	if err != nil {
		return nil, err
	}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "MeshSampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}

	return &TileRenderPass{
		Device:         device,
		Pipeline:       pipeline,
		SceneBuffer:    sceneBuffer,
		SceneBindGroup: sceneBindGroup,
		Sampler:        sampler,
		geometries:     make(map[*core.BoxGeometry]*geometryBuffers),
		textures:       make(map[*core.Texture]*textureBinding),
	}, nil
}

// Update uploads uniforms and instance data for the current frame.
func (p *TileRenderPass) Update(queue *wgpu.Queue, scene *core.Scene, cam *core.OrthographicCamera) error {
	uniforms := BuildSceneUniforms(scene, cam)
	if err := queue.WriteBuffer(p.SceneBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&uniforms)), sceneUniformSize)); err != nil {
		return fmt.Errorf("write scene uniforms: %w", err)
	}

	planes := FrustumPlanes(scene, cam)
	p.draws = p.draws[:0]
	var allInstances []MeshInstance
	for _, batch := range scene.Batches() {
		if batch.Geometry == nil || len(batch.Meshes) == 0 {
			continue
		}
		geom, err := p.geometryFor(batch.Geometry)
		if err != nil {
			return err
		}
		var tex *core.Texture
		if batch.Material != nil {
			tex = batch.Material.Map
		}
		binding, err := p.textureFor(queue, tex)
		if err != nil {
			return err
		}

		instances := BuildInstances(batch, &planes)
		if len(instances) == 0 {
			continue
		}
		p.draws = append(p.draws, batchDraw{
			geometry:      geom,
			texture:       binding,
			instanceCount: uint32(len(instances)),
			firstInstance: uint32(len(allInstances)),
		})
		allInstances = append(allInstances, instances...)
	}

	if len(allInstances) == 0 {
		return nil
	}

	instanceCount := uint32(len(allInstances))
	sizeBytes := uint64(len(allInstances) * int(unsafe.Sizeof(MeshInstance{})))

	if p.InstanceBuffer == nil || p.InstanceCap < instanceCount {
		if p.InstanceBuffer != nil {
			p.InstanceBuffer.Release()
		}
		p.InstanceCap = instanceCount + 128
		buf, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "MeshInstanceBuffer",
			Size:  uint64(p.InstanceCap) * uint64(unsafe.Sizeof(MeshInstance{})),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			p.InstanceBuffer = nil
			p.InstanceCap = 0
			return fmt.Errorf("instance buffer (%d instances): %w", instanceCount, err)
		}
		p.InstanceBuffer = buf
	}

	return queue.WriteBuffer(p.InstanceBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&allInstances[0])), sizeBytes))
}

// Draw records the draw calls prepared by the last Update. It returns the
// number of instanced draw calls issued.
func (p *TileRenderPass) Draw(pass *wgpu.RenderPassEncoder) int {
	if p.InstanceBuffer == nil || len(p.draws) == 0 {
		return 0
	}

	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.SceneBindGroup, nil)
	pass.SetVertexBuffer(1, p.InstanceBuffer, 0, p.InstanceBuffer.GetSize())

	for _, d := range p.draws {
		pass.SetBindGroup(1, d.texture.bindGroup, nil)
		pass.SetVertexBuffer(0, d.geometry.vertices, 0, d.geometry.vertices.GetSize())
		pass.SetIndexBuffer(d.geometry.indices, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		pass.DrawIndexed(d.geometry.indexCount, d.instanceCount, 0, 0, d.firstInstance)
	}
	return len(p.draws)
}

func (p *TileRenderPass) geometryFor(g *core.BoxGeometry) (*geometryBuffers, error) {
	if gb, ok := p.geometries[g]; ok {
		return gb, nil
	}

	vertices := g.Vertices()
	indices := g.Indices()
	vertexBuf, err := p.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "MeshVertexBuffer",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, err
	}

	// Index buffer sizes must be 4-byte aligned.
	padded := indices
	if len(padded)%2 != 0 {
		padded = append(append([]uint16{}, indices...), 0)
	}
	indexBuf, err := p.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "MeshIndexBuffer",
		Contents: wgpu.ToBytes(padded),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vertexBuf.Release()
		return nil, err
	}

	gb := &geometryBuffers{vertices: vertexBuf, indices: indexBuf, indexCount: uint32(len(indices))}
	p.geometries[g] = gb
	return gb, nil
}

// textureFor returns the bind group for tex, uploading it on first use.
// A nil texture samples as opaque white.
func (p *TileRenderPass) textureFor(queue *wgpu.Queue, tex *core.Texture) (*textureBinding, error) {
	if tex == nil || tex.RGBA == nil {
		if p.white == nil {
			b, err := p.uploadTexture(queue, "MeshWhiteTexture", []byte{255, 255, 255, 255}, 1, 1, 4)
			if err != nil {
				return nil, err
			}
			p.white = b
		}
		return p.white, nil
	}
	if b, ok := p.textures[tex]; ok {
		return b, nil
	}

	b, err := p.uploadTexture(queue, "MeshTexture:"+tex.Name, tex.RGBA.Pix, tex.Width(), tex.Height(), tex.RGBA.Stride)
	if err != nil {
		return nil, fmt.Errorf("upload texture %q: %w", tex.Name, err)
	}
	p.textures[tex] = b
	return b, nil
}

func (p *TileRenderPass) uploadTexture(queue *wgpu.Queue, label string, pix []byte, w, h, stride int) (*textureBinding, error) {
	extent := wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}
	tex, err := p.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	err = queue.WriteTexture(tex.AsImageCopy(), pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(stride),
		RowsPerImage: uint32(h),
	}, &extent)
	if err != nil {
		tex.Release()
		return nil, err
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}

	bg, err := p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label,
		Layout: p.Pipeline.GetBindGroupLayout(1),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: p.Sampler},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, err
	}
	return &textureBinding{texture: tex, view: view, bindGroup: bg}, nil
}

func (p *TileRenderPass) Release() {
	for _, gb := range p.geometries {
		gb.vertices.Release()
		gb.indices.Release()
	}
	p.geometries = make(map[*core.BoxGeometry]*geometryBuffers)

	release := func(b *textureBinding) {
		b.bindGroup.Release()
		b.view.Release()
		b.texture.Release()
	}
	for _, b := range p.textures {
		release(b)
	}
	p.textures = make(map[*core.Texture]*textureBinding)
	if p.white != nil {
		release(p.white)
		p.white = nil
	}

	if p.InstanceBuffer != nil {
		p.InstanceBuffer.Release()
		p.InstanceBuffer = nil
		p.InstanceCap = 0
	}
	if p.SceneBindGroup != nil {
		p.SceneBindGroup.Release()
	}
	if p.SceneBuffer != nil {
		p.SceneBuffer.Release()
	}
	if p.Sampler != nil {
		p.Sampler.Release()
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
	}
}
