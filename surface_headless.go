package townview

import (
	"time"

	"github.com/gekko3d/townview/render/core"
)

// HeadlessSurface has a fixed size, manual frames and a context that only
// counts what it would draw.
type HeadlessSurface struct {
	Width  int
	Height int

	frames *ManualFrames
	ctx    *HeadlessContext
}

func NewHeadlessSurface(width, height int) *HeadlessSurface {
	return &HeadlessSurface{
		Width:  width,
		Height: height,
		frames: NewManualFrames(time.Second / 60),
		ctx:    &HeadlessContext{},
	}
}

func (s *HeadlessSurface) Bounds() (int, int) { return s.Width, s.Height }

func (s *HeadlessSurface) Context() (RenderContext, error) { return s.ctx, nil }

func (s *HeadlessSurface) Frames() FrameRequester { return s.frames }

func (s *HeadlessSurface) ManualFrames() *ManualFrames { return s.frames }

func (s *HeadlessSurface) HeadlessContext() *HeadlessContext { return s.ctx }

// HeadlessContext records draws instead of issuing them.
type HeadlessContext struct {
	Width, Height int
	PixelRatio    float32
	Draws         int
	LastMeshes    int
	LastBatches   int
	LastCamera    core.OrthographicCamera
	Released      bool
}

func (c *HeadlessContext) Configure(width, height int, pixelRatio float32) error {
	c.Width, c.Height, c.PixelRatio = width, height, pixelRatio
	return nil
}

func (c *HeadlessContext) Draw(scene *core.Scene, camera *core.OrthographicCamera) error {
	if c.Released {
		return ErrRendererStopped
	}
	c.Draws++
	c.LastMeshes = scene.MeshCount()
	c.LastBatches = len(scene.Batches())
	c.LastCamera = *camera
	return nil
}

func (c *HeadlessContext) Release() { c.Released = true }
