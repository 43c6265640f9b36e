package townview

import (
	"errors"
	"math"

	"github.com/gekko3d/townview/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Viewport is the camera and its orbit controls. Aspect is sampled once, at
// startup.
type Viewport struct {
	Extent float32
	Aspect float32

	Camera   *core.OrthographicCamera
	Controls *core.OrbitControls

	settings ViewportModule

	// pointer slot holding the current drag
	dragging bool
	dragSlot int
}

// ViewportModule builds an orthographic camera of half-height Extent looking
// at the origin from Position, orbiting with damping and auto-rotation.
type ViewportModule struct {
	Extent          float32
	Position        mgl32.Vec3
	DampingFactor   float64
	AutoRotateSpeed float64
	MinDistance     float64
	MaxDistance     float64
	MaxPolarAngle   float64
	// MaxPan bounds how far the orbit target may be panned from the origin.
	MaxPan float64
}

func DefaultViewport() ViewportModule {
	return ViewportModule{
		Extent:          20,
		Position:        mgl32.Vec3{50, 50, 50},
		DampingFactor:   0.005,
		AutoRotateSpeed: 0.5,
		MinDistance:     100,
		MaxDistance:     500,
		MaxPolarAngle:   math.Pi / 2,
		MaxPan:          1000,
	}
}

func (m ViewportModule) Install(app *App, cmd *Commands) {
	if m.Extent == 0 {
		m = DefaultViewport()
	}
	cmd.AddResources(&Viewport{Extent: m.Extent, settings: m})
	app.UseSystem(System(viewportStartupSystem).InStage(Startup))
	app.UseSystem(System(viewportSystem).InStage(PreRender))
}

// Setup builds the camera and controls for a width×height surface and runs
// one settling update.
func (vp *Viewport) Setup(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.New("viewport needs a non-empty surface")
	}
	m := vp.settings
	vp.Aspect = float32(width) / float32(height)
	d := vp.Extent

	cam := core.NewOrthographicCamera(-d*vp.Aspect, d*vp.Aspect, d, -d, 1, 1000)
	cam.Position = m.Position
	cam.LookAt(mgl32.Vec3{})

	c := core.NewOrbitControls(cam, float64(width), float64(height))
	c.EnableDamping = true
	c.DampingFactor = m.DampingFactor
	c.AutoRotate = true
	c.AutoRotateSpeed = m.AutoRotateSpeed
	c.MinDistance = m.MinDistance
	c.MaxDistance = m.MaxDistance
	c.MaxPolarAngle = m.MaxPolarAngle
	if m.MaxPan > 0 {
		c.MaxTargetDistance = m.MaxPan
	}
	c.ScreenSpacePanning = false

	vp.Camera = cam
	vp.Controls = c
	c.Update()
	return nil
}

func viewportStartupSystem(r *Renderer, vp *Viewport, log Logger) error {
	w, h := r.Size()
	if err := vp.Setup(w, h); err != nil {
		return err
	}
	log.Debugf("Viewport aspect %.3f, camera at %v", vp.Aspect, vp.Camera.Position)
	return nil
}

func viewportSystem(vp *Viewport) {
	if vp.Controls != nil {
		vp.Controls.Update()
	}
}
