package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

type OrbitState int

const (
	StateNone OrbitState = iota
	StateRotate
	StateDolly
	StatePan
)

func (s OrbitState) String() string {
	switch s {
	case StateRotate:
		return "rotate"
	case StateDolly:
		return "dolly"
	case StatePan:
		return "pan"
	default:
		return "none"
	}
}

type PointerButton int

const (
	PointerPrimary PointerButton = iota
	PointerMiddle
	PointerSecondary
)

const sphericalEps = 1e-6

// DefaultMaxTargetDistance bounds how far panning can carry the target from
// the origin. Past it float32 camera coordinates lose enough precision to
// break the distance limits.
const DefaultMaxTargetDistance = 1e4

// Spherical is a Y-up spherical coordinate: Phi is the polar angle from +Y,
// Theta the azimuth around Y measured from +Z.
type Spherical struct {
	Radius float64
	Phi    float64
	Theta  float64
}

func SphericalFromVec(v mgl64.Vec3) Spherical {
	s := Spherical{Radius: v.Len()}
	if s.Radius == 0 {
		return s
	}
	s.Theta = math.Atan2(v.X(), v.Z())
	s.Phi = math.Acos(mgl64.Clamp(v.Y()/s.Radius, -1, 1))
	return s
}

func (s Spherical) Vec() mgl64.Vec3 {
	sinPhiRadius := math.Sin(s.Phi) * s.Radius
	return mgl64.Vec3{
		sinPhiRadius * math.Sin(s.Theta),
		math.Cos(s.Phi) * s.Radius,
		sinPhiRadius * math.Cos(s.Theta),
	}
}

// makeSafe keeps Phi away from the poles.
func (s *Spherical) makeSafe() {
	s.Phi = math.Max(sphericalEps, math.Min(math.Pi-sphericalEps, s.Phi))
}

// OrbitControls orbits a camera around Target with damped inertia.
//
// Pointer input feeds angular, dolly and pan deltas; Update applies a
// DampingFactor share of them each frame and decays the rest. When no
// pointer interaction is in progress and AutoRotate is set, a constant
// azimuth step is added to the pending delta, so autorotation and residual
// user inertia compose additively.
type OrbitControls struct {
	Camera *OrthographicCamera
	Target mgl32.Vec3

	EnableDamping bool
	DampingFactor float64

	AutoRotate      bool
	AutoRotateSpeed float64

	MinDistance     float64
	MaxDistance     float64
	MinPolarAngle   float64
	MaxPolarAngle   float64
	MinAzimuthAngle float64
	MaxAzimuthAngle float64

	// MaxTargetDistance caps the target's distance from the origin.
	MaxTargetDistance float64

	EnableRotate       bool
	EnableZoom         bool
	EnablePan          bool
	RotateSpeed        float64
	ZoomSpeed          float64
	PanSpeed           float64
	ScreenSpacePanning bool

	// Size of the navigation surface in pixels, used to scale pointer deltas.
	ViewportWidth  float64
	ViewportHeight float64

	state          OrbitState
	spherical      Spherical
	sphericalDelta Spherical
	scale          float64
	panOffset      mgl64.Vec3
	pointer        mgl64.Vec2
	lastPosition   mgl32.Vec3
}

func NewOrbitControls(camera *OrthographicCamera, viewportWidth, viewportHeight float64) *OrbitControls {
	return &OrbitControls{
		Camera:          camera,
		DampingFactor:   0.05,
		AutoRotateSpeed: 2.0,
		MinDistance:     0,
		MaxDistance:     math.Inf(1),
		MinPolarAngle:   0,
		MaxPolarAngle:   math.Pi,
		MinAzimuthAngle: math.Inf(-1),
		MaxAzimuthAngle: math.Inf(1),
		EnableRotate:    true,
		EnableZoom:      true,
		EnablePan:       true,
		RotateSpeed:     1.0,
		ZoomSpeed:       1.0,
		PanSpeed:        1.0,
		ViewportWidth:   viewportWidth,
		ViewportHeight:  viewportHeight,
		scale:           1,

		MaxTargetDistance: DefaultMaxTargetDistance,
	}
}

func (c *OrbitControls) State() OrbitState { return c.state }

// PolarAngle is the current angle from the +Y axis, as of the last Update.
func (c *OrbitControls) PolarAngle() float64 { return c.spherical.Phi }

// AzimuthalAngle is the current angle around +Y, as of the last Update.
func (c *OrbitControls) AzimuthalAngle() float64 { return c.spherical.Theta }

// Distance is the current camera-to-target radius, as of the last Update.
func (c *OrbitControls) Distance() float64 { return c.spherical.Radius }

// PendingDelta returns the angular velocity not yet applied.
func (c *OrbitControls) PendingDelta() (theta, phi float64) {
	return c.sphericalDelta.Theta, c.sphericalDelta.Phi
}

func (c *OrbitControls) autoRotationAngle() float64 {
	return 2 * math.Pi / 60 / 60 * c.AutoRotateSpeed
}

func (c *OrbitControls) zoomScale() float64 {
	return math.Pow(0.95, c.ZoomSpeed)
}

// Update advances the controls by one frame and repositions the camera.
// It reports whether the camera moved.
func (c *OrbitControls) Update() bool {
	position := vec64(c.Camera.Position)
	target := vec64(c.Target)

	c.spherical = SphericalFromVec(position.Sub(target))

	if c.AutoRotate && c.state == StateNone {
		c.rotateLeft(c.autoRotationAngle())
	}

	if c.EnableDamping {
		c.spherical.Theta += c.sphericalDelta.Theta * c.DampingFactor
		c.spherical.Phi += c.sphericalDelta.Phi * c.DampingFactor
	} else {
		c.spherical.Theta += c.sphericalDelta.Theta
		c.spherical.Phi += c.sphericalDelta.Phi
	}

	c.spherical.Theta = c.restrictAzimuth(c.spherical.Theta)
	c.spherical.Phi = math.Max(c.MinPolarAngle, math.Min(c.MaxPolarAngle, c.spherical.Phi))
	c.spherical.makeSafe()

	c.spherical.Radius *= c.scale
	if math.IsNaN(c.spherical.Radius) {
		c.spherical.Radius = c.MinDistance
	}
	c.spherical.Radius = math.Max(c.MinDistance, math.Min(c.MaxDistance, c.spherical.Radius))

	if c.EnableDamping {
		target = target.Add(c.panOffset.Mul(c.DampingFactor))
	} else {
		target = target.Add(c.panOffset)
	}
	target = c.clampTarget(target)

	position = target.Add(c.spherical.Vec())
	c.Target = vec32(target)
	c.Camera.Position = vec32(position)
	c.Camera.LookAt(c.Target)

	if c.EnableDamping {
		c.sphericalDelta.Theta *= 1 - c.DampingFactor
		c.sphericalDelta.Phi *= 1 - c.DampingFactor
		c.panOffset = c.panOffset.Mul(1 - c.DampingFactor)
	} else {
		c.sphericalDelta = Spherical{}
		c.panOffset = mgl64.Vec3{}
	}
	c.scale = 1

	moved := c.lastPosition.Sub(c.Camera.Position).Len() > sphericalEps
	c.lastPosition = c.Camera.Position
	return moved
}

// clampTarget pulls target back inside MaxTargetDistance of the origin.
func (c *OrbitControls) clampTarget(target mgl64.Vec3) mgl64.Vec3 {
	limit := c.MaxTargetDistance
	if !finite(target[0], target[1], target[2]) {
		return mgl64.Vec3{}
	}
	if !finite(limit) || limit <= 0 {
		limit = DefaultMaxTargetDistance
	}
	if l := target.Len(); l > limit {
		target = target.Mul(limit / l)
	}
	return target
}

// restrictAzimuth wraps theta into (-π, π] and applies the azimuth limits.
func (c *OrbitControls) restrictAzimuth(theta float64) float64 {
	theta = math.Remainder(theta, 2*math.Pi)
	if math.IsInf(c.MinAzimuthAngle, 0) || math.IsInf(c.MaxAzimuthAngle, 0) {
		return theta
	}
	return math.Max(c.MinAzimuthAngle, math.Min(c.MaxAzimuthAngle, theta))
}

// Pointer input. Non-finite coordinates are dropped.

func (c *OrbitControls) PointerDown(button PointerButton, x, y float64) {
	if !finite(x, y) {
		return
	}
	switch button {
	case PointerPrimary:
		if !c.EnableRotate {
			return
		}
		c.state = StateRotate
	case PointerMiddle:
		if !c.EnableZoom {
			return
		}
		c.state = StateDolly
	case PointerSecondary:
		if !c.EnablePan {
			return
		}
		c.state = StatePan
	default:
		return
	}
	c.pointer = mgl64.Vec2{x, y}
}

func (c *OrbitControls) PointerMove(x, y float64) {
	if c.state == StateNone || !finite(x, y) {
		return
	}
	cur := mgl64.Vec2{x, y}
	delta := cur.Sub(c.pointer)
	c.pointer = cur

	switch c.state {
	case StateRotate:
		h := c.viewportHeight()
		delta = delta.Mul(c.RotateSpeed)
		c.rotateLeft(2 * math.Pi * delta.X() / h)
		c.rotateUp(2 * math.Pi * delta.Y() / h)
	case StateDolly:
		if delta.Y() > 0 {
			c.dollyOut(c.zoomScale())
		} else if delta.Y() < 0 {
			c.dollyIn(c.zoomScale())
		}
	case StatePan:
		c.pan(delta.X()*c.PanSpeed, delta.Y()*c.PanSpeed)
	}
}

func (c *OrbitControls) PointerUp() {
	c.state = StateNone
}

// Wheel dollies the camera; positive deltaY moves it away from the target.
func (c *OrbitControls) Wheel(deltaY float64) {
	if !c.EnableZoom || !finite(deltaY) || c.state != StateNone && c.state != StateRotate {
		return
	}
	if deltaY < 0 {
		c.dollyIn(c.zoomScale())
	} else if deltaY > 0 {
		c.dollyOut(c.zoomScale())
	}
}

func (c *OrbitControls) rotateLeft(angle float64) {
	if next := c.sphericalDelta.Theta - angle; finite(next) {
		c.sphericalDelta.Theta = next
	}
}

func (c *OrbitControls) rotateUp(angle float64) {
	if next := c.sphericalDelta.Phi - angle; finite(next) {
		c.sphericalDelta.Phi = next
	}
}

func (c *OrbitControls) dollyOut(dollyScale float64) {
	if next := c.scale / dollyScale; finite(next) && next > 0 {
		c.scale = next
	}
}

func (c *OrbitControls) dollyIn(dollyScale float64) {
	if next := c.scale * dollyScale; finite(next) && next > 0 {
		c.scale = next
	}
}

// pan moves the target by a screen-space delta in pixels.
func (c *OrbitControls) pan(deltaX, deltaY float64) {
	cam := c.Camera
	zoom := float64(cam.Zoom)
	if zoom <= 0 {
		zoom = 1
	}
	left := deltaX * float64(cam.Right-cam.Left) / zoom / c.viewportWidth()
	up := deltaY * float64(cam.Top-cam.Bottom) / zoom / c.viewportHeight()

	right := vec64(cam.RightVector())
	c.panOffset = c.panOffset.Add(right.Mul(-left))

	var upDir mgl64.Vec3
	if c.ScreenSpacePanning {
		upDir = right.Cross(vec64(cam.Forward()))
	} else {
		upDir = vec64(cam.Up).Cross(right)
	}
	c.panOffset = c.panOffset.Add(upDir.Mul(up))
}

func (c *OrbitControls) viewportHeight() float64 {
	if c.ViewportHeight <= 0 {
		return 1
	}
	return c.ViewportHeight
}

func (c *OrbitControls) viewportWidth() float64 {
	if c.ViewportWidth <= 0 {
		return 1
	}
	return c.ViewportWidth
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func vec64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
