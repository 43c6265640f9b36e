package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/townview/render/core"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

var ErrReleased = errors.New("gpu: backend released")

// Backend owns the WebGPU device and surface of one glfw window and draws
// scenes into it.
type Backend struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	DepthTexture *wgpu.Texture
	DepthView    *wgpu.TextureView

	Pass *TileRenderPass

	// DrawCalls is the number of instanced draws issued by the last Draw.
	DrawCalls int

	pixelRatio float32
	released   bool
}

// NewBackend creates the GPU device for window and configures the surface to
// the window's framebuffer size.
func NewBackend(window *glfw.Window) (*Backend, error) {
	b := &Backend{pixelRatio: 1}
	b.Instance = wgpu.CreateInstance(nil)
	b.Surface = b.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := b.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: b.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.Adapter = adapter

	b.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Townview Device",
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.Queue = b.Device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := b.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		b.Release()
		return nil, errors.New("surface reports no formats")
	}
	b.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	b.Surface.Configure(adapter, b.Device, b.Config)

	if err := b.createDepth(); err != nil {
		b.Release()
		return nil, err
	}

	b.Pass, err = NewTileRenderPass(b.Device, b.Config.Format)
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("mesh pass: %w", err)
	}
	return b, nil
}

// Configure resizes the drawing buffer to width×height logical pixels
// scaled by pixelRatio.
func (b *Backend) Configure(width, height int, pixelRatio float32) error {
	if b.released {
		return ErrReleased
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	w := uint32(float32(width) * pixelRatio)
	h := uint32(float32(height) * pixelRatio)
	if w == 0 || h == 0 {
		return nil
	}
	b.pixelRatio = pixelRatio
	if w == b.Config.Width && h == b.Config.Height && b.DepthView != nil {
		return nil
	}
	b.Config.Width = w
	b.Config.Height = h
	b.Surface.Configure(b.Adapter, b.Device, b.Config)
	return b.createDepth()
}

func (b *Backend) PixelRatio() float32 { return b.pixelRatio }

func (b *Backend) createDepth() error {
	if b.DepthView != nil {
		b.DepthView.Release()
		b.DepthView = nil
	}
	if b.DepthTexture != nil {
		b.DepthTexture.Release()
		b.DepthTexture = nil
	}

	tex, err := b.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              b.Config.Width,
			Height:             b.Config.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("depth texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("depth view: %w", err)
	}
	b.DepthTexture = tex
	b.DepthView = view
	return nil
}

// Draw renders one frame of scene as seen by cam and presents it.
func (b *Backend) Draw(scene *core.Scene, cam *core.OrthographicCamera) error {
	if b.released {
		return ErrReleased
	}

	if err := b.Pass.Update(b.Queue, scene, cam); err != nil {
		return err
	}

	nextTexture, err := b.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	encoder, err := b.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	bg := ClearColor(scene)
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: bg[0], G: bg[1], B: bg[2], A: bg[3]},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	b.DrawCalls = b.Pass.Draw(pass)
	if err := pass.End(); err != nil {
		return fmt.Errorf("render pass end: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("encoder finish: %w", err)
	}
	defer cmd.Release()

	b.Queue.Submit(cmd)
	b.Surface.Present()
	return nil
}

// Release frees every GPU object. It is safe to call more than once.
func (b *Backend) Release() {
	if b.released {
		return
	}
	b.released = true

	if b.Pass != nil {
		b.Pass.Release()
		b.Pass = nil
	}
	if b.DepthView != nil {
		b.DepthView.Release()
		b.DepthView = nil
	}
	if b.DepthTexture != nil {
		b.DepthTexture.Release()
		b.DepthTexture = nil
	}
	if b.Queue != nil {
		b.Queue.Release()
		b.Queue = nil
	}
	if b.Device != nil {
		b.Device.Release()
		b.Device = nil
	}
	if b.Adapter != nil {
		b.Adapter.Release()
		b.Adapter = nil
	}
	if b.Surface != nil {
		b.Surface.Release()
		b.Surface = nil
	}
	if b.Instance != nil {
		b.Instance.Release()
		b.Instance = nil
	}
}
