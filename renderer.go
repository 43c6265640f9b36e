package townview

import (
	"errors"
	"fmt"

	"github.com/gekko3d/townview/render/core"
)

var (
	ErrSurfaceUnavailable = errors.New("drawing surface unavailable")
	ErrRendererStopped    = errors.New("renderer stopped")
)

// DefaultPixelRatio is applied to every renderer regardless of the display.
const DefaultPixelRatio = 2

// Surface is a host drawing area: its logical size, a way to obtain a
// rendering context for it and the display's frame schedule.
type Surface interface {
	Bounds() (width, height int)
	Context() (RenderContext, error)
	Frames() FrameRequester
}

// RenderContext draws scenes into a surface.
type RenderContext interface {
	Configure(width, height int, pixelRatio float32) error
	Draw(scene *core.Scene, camera *core.OrthographicCamera) error
	Release()
}

// Resizer is implemented by surfaces that report size changes.
type Resizer interface {
	OnResize(fn func(width, height int))
}

// Renderer wraps a RenderContext with size, pixel ratio, the immersive
// session manager and the animation loop.
type Renderer struct {
	XR *XRManager

	ctx        RenderContext
	width      int
	height     int
	pixelRatio float32
	animation  *Animation
	draws      int
	frame      FrameTime
}

func NewRenderer(ctx RenderContext, frames FrameRequester) *Renderer {
	r := &Renderer{
		ctx:        ctx,
		pixelRatio: 1,
		animation:  NewAnimation(frames),
	}
	r.XR = newXRManager(r.animation, frames)
	return r
}

func (r *Renderer) SetPixelRatio(ratio float32) error {
	if ratio <= 0 {
		return fmt.Errorf("pixel ratio %v: must be positive", ratio)
	}
	r.pixelRatio = ratio
	if r.width == 0 || r.height == 0 {
		return nil
	}
	return r.ctx.Configure(r.width, r.height, r.pixelRatio)
}

// SetSize sets the logical size; the drawing buffer is size × pixel ratio.
func (r *Renderer) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("renderer size %dx%d: %w", width, height, ErrSurfaceUnavailable)
	}
	r.width, r.height = width, height
	return r.ctx.Configure(width, height, r.pixelRatio)
}

func (r *Renderer) Size() (int, int) { return r.width, r.height }

func (r *Renderer) PixelRatio() float32 { return r.pixelRatio }

// Render draws one frame.
func (r *Renderer) Render(scene *core.Scene, camera *core.OrthographicCamera) error {
	if err := r.ctx.Draw(scene, camera); err != nil {
		return err
	}
	r.draws++
	return nil
}

// LastFrame is the time of the frame being run.
func (r *Renderer) LastFrame() FrameTime { return r.frame }

// Draws is the number of frames drawn so far.
func (r *Renderer) Draws() int { return r.draws }

// SetAnimationLoop runs fn once per frame of the current frame source. A nil
// fn stops the loop.
func (r *Renderer) SetAnimationLoop(fn func(FrameTime)) {
	r.animation.Stop()
	if fn == nil {
		return
	}
	r.animation.SetCallback(fn)
	r.animation.Start()
}

func (r *Renderer) Animation() *Animation { return r.animation }

// Animation keeps one frame request outstanding on its source while running.
type Animation struct {
	source   FrameRequester
	callback func(FrameTime)
	token    FrameToken
	running  bool
}

func NewAnimation(source FrameRequester) *Animation {
	return &Animation{source: source}
}

func (a *Animation) SetCallback(fn func(FrameTime)) { a.callback = fn }

func (a *Animation) Running() bool { return a.running }

func (a *Animation) Source() FrameRequester { return a.source }

func (a *Animation) Start() {
	if a.running || a.callback == nil {
		return
	}
	a.running = true
	a.request()
}

func (a *Animation) Stop() {
	a.running = false
	a.cancel()
}

// SetSource moves the pending request to source.
func (a *Animation) SetSource(source FrameRequester) {
	if source == a.source {
		return
	}
	a.cancel()
	a.source = source
	if a.running {
		a.request()
	}
}

func (a *Animation) request() {
	if a.source == nil {
		return
	}
	a.token = a.source.RequestFrame(a.onFrame)
}

func (a *Animation) cancel() {
	if a.token != 0 && a.source != nil {
		a.source.CancelFrame(a.token)
	}
	a.token = 0
}

func (a *Animation) onFrame(t FrameTime) {
	a.token = 0
	if !a.running {
		return
	}
	a.callback(t)
	if a.running && a.token == 0 {
		a.request()
	}
}

// RendererResources is everything App.Start acquires. Only the handle
// releases it.
type RendererResources struct {
	Surface  Surface
	Context  RenderContext
	Renderer *Renderer
}

// RendererHandle is the dispose hook returned by App.Start.
type RendererHandle struct {
	app      *App
	res      *RendererResources
	stopped  bool
	err      error
	released bool
}

func inertHandle(app *App) *RendererHandle {
	return &RendererHandle{app: app, stopped: true}
}

// Stop cancels the pending frame, ends an active immersive session and
// releases the rendering context. Calling it again does nothing.
func (h *RendererHandle) Stop() {
	if h == nil || h.released {
		return
	}
	h.stopped = true
	h.released = true
	if h.res == nil {
		return
	}
	if r := h.res.Renderer; r != nil {
		r.SetAnimationLoop(nil)
		if r.XR.Presenting() {
			r.XR.EndSession()
		}
	}
	if h.res.Context != nil {
		h.res.Context.Release()
	}
	h.app.Logger().Infof("Renderer stopped after %d frames", h.Draws())
}

// Err reports the error that stopped the loop, if any.
func (h *RendererHandle) Err() error {
	if h == nil {
		return nil
	}
	return h.err
}

func (h *RendererHandle) Stopped() bool { return h == nil || h.stopped }

func (h *RendererHandle) Draws() int {
	if h == nil || h.res == nil || h.res.Renderer == nil {
		return 0
	}
	return h.res.Renderer.Draws()
}

func (h *RendererHandle) Resources() *RendererResources {
	if h == nil {
		return nil
	}
	return h.res
}

func (h *RendererHandle) fail(err error) {
	if h.err == nil {
		h.err = err
	}
	h.app.Logger().Errorf("Frame failed, stopping renderer: %v", err)
	h.Stop()
}

// Start acquires the surface's rendering context, configures the renderer,
// runs the Startup stage and then runs the per-frame stages once per frame of
// the surface. When no surface or context is available it logs a warning and
// returns an inert handle with ErrSurfaceUnavailable.
func (app *App) Start() (*RendererHandle, error) {
	if app.handle != nil {
		if app.handle.released {
			return app.handle, ErrRendererStopped
		}
		return app.handle, nil
	}
	log := app.Logger()

	unavailable := func(cause error) (*RendererHandle, error) {
		err := ErrSurfaceUnavailable
		if cause != nil {
			err = fmt.Errorf("%w: %v", ErrSurfaceUnavailable, cause)
		}
		log.Warnf("Not rendering: %v", err)
		return inertHandle(app), err
	}

	surface := app.surface
	if surface == nil {
		return unavailable(nil)
	}
	width, height := surface.Bounds()
	if width <= 0 || height <= 0 {
		return unavailable(fmt.Errorf("surface is %dx%d", width, height))
	}
	ctx, err := surface.Context()
	if err != nil {
		return unavailable(err)
	}
	if ctx == nil {
		return unavailable(nil)
	}

	renderer := NewRenderer(ctx, surface.Frames())
	if err := renderer.SetPixelRatio(DefaultPixelRatio); err != nil {
		ctx.Release()
		return unavailable(err)
	}
	if err := renderer.SetSize(width, height); err != nil {
		ctx.Release()
		return unavailable(err)
	}
	renderer.XR.Enabled = true

	res := &RendererResources{Surface: surface, Context: ctx, Renderer: renderer}
	h := &RendererHandle{app: app, res: res}
	app.handle = h
	app.addResources(res, renderer)

	if rs, ok := surface.(Resizer); ok {
		rs.OnResize(func(w, ht int) {
			if err := renderer.SetSize(w, ht); err != nil {
				log.Debugf("Ignoring resize to %dx%d: %v", w, ht, err)
			}
		})
	}

	log.Infof("Renderer started (%dx%d @%v)", width, height, renderer.PixelRatio())
	if err := app.runOnce(); err != nil {
		h.err = err
		h.Stop()
		return h, err
	}

	renderer.SetAnimationLoop(func(ft FrameTime) {
		renderer.frame = ft
		if err := app.runFrame(); err != nil {
			h.fail(err)
		}
	})
	return h, nil
}

func renderSystem(r *Renderer, scene *core.Scene, vp *Viewport) error {
	if vp.Camera == nil {
		return errors.New("viewport has no camera")
	}
	return r.Render(scene, vp.Camera)
}

// RenderModule owns the scene and draws it once per frame.
type RenderModule struct{}

func (RenderModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, "townview")
	if Resource[core.Scene](app) == nil {
		cmd.AddResources(core.NewScene())
	}
	app.UseSystem(System(renderSystem).InStage(Render))
}
