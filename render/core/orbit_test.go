package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestControls() *OrbitControls {
	const d, aspect = 20, 16.0 / 9.0
	cam := NewOrthographicCamera(-d*aspect, d*aspect, d, -d, 1, 1000)
	cam.Position = mgl32.Vec3{50, 50, 50}
	cam.LookAt(mgl32.Vec3{})

	c := NewOrbitControls(cam, 1280, 720)
	c.EnableDamping = true
	c.DampingFactor = 0.005
	c.AutoRotate = true
	c.AutoRotateSpeed = 0.5
	c.MinDistance = 100
	c.MaxDistance = 500
	c.MaxPolarAngle = math.Pi / 2
	return c
}

func assertOrbitBounds(t *testing.T, c *OrbitControls) {
	t.Helper()
	polar := c.PolarAngle()
	assert.GreaterOrEqual(t, polar, 0.0)
	assert.LessOrEqual(t, polar, math.Pi/2)
	assert.GreaterOrEqual(t, c.Distance(), 100.0)
	assert.LessOrEqual(t, c.Distance(), 500.0)

	offset := c.Camera.Position.Sub(c.Target)
	assert.InDelta(t, c.Distance(), float64(offset.Len()), 1e-2)
	assert.GreaterOrEqual(t, offset.Y(), float32(-1e-3), "camera must stay above the ground plane")
}

func TestOrbitControls_FirstUpdateSettlesRadius(t *testing.T) {
	c := newTestControls()
	initial := c.Camera.Position.Len()
	require.InDelta(t, 86.6, float64(initial), 0.1)

	c.Update()

	assert.InDelta(t, 100.0, c.Distance(), 1e-6)
	assert.InDelta(t, 100.0, float64(c.Camera.Position.Len()), 1e-3)
	assert.Equal(t, mgl32.Vec3{}, c.Camera.Target)
}

func TestOrbitControls_AdversarialInputStaysInBounds(t *testing.T) {
	c := newTestControls()
	c.Update()

	c.PointerDown(PointerPrimary, 0, 0)
	c.PointerMove(0, -1e7)
	for i := 0; i < 50; i++ {
		c.Update()
		assertOrbitBounds(t, c)
	}
	c.PointerMove(0, 1e7)
	for i := 0; i < 50; i++ {
		c.Update()
		assertOrbitBounds(t, c)
	}
	c.PointerUp()

	for i := 0; i < 500; i++ {
		c.Wheel(1000)
		c.Update()
		assertOrbitBounds(t, c)
	}
	assert.InDelta(t, 500.0, c.Distance(), 1e-6)

	for i := 0; i < 500; i++ {
		c.Wheel(-1000)
		c.Update()
		assertOrbitBounds(t, c)
	}
	assert.InDelta(t, 100.0, c.Distance(), 1e-6)
}

func TestOrbitControls_NonFiniteInputIgnored(t *testing.T) {
	c := newTestControls()
	c.AutoRotate = false
	c.Update()
	before := c.Camera.Position

	c.PointerDown(PointerPrimary, math.NaN(), 0)
	assert.Equal(t, StateNone, c.State())

	c.PointerDown(PointerPrimary, 10, 10)
	c.PointerMove(math.Inf(1), 10)
	c.PointerMove(10, math.NaN())
	c.Wheel(math.NaN())
	c.Wheel(math.Inf(-1))
	theta, phi := c.PendingDelta()
	assert.Zero(t, theta)
	assert.Zero(t, phi)

	c.Update()
	assertOrbitBounds(t, c)
	assert.InDelta(t, float64(before.Len()), float64(c.Camera.Position.Len()), 1e-3)
}

func TestOrbitControls_DampingConvergesMonotonically(t *testing.T) {
	c := newTestControls()
	c.AutoRotate = false
	c.Update()

	c.PointerDown(PointerPrimary, 0, 0)
	c.PointerMove(300, 120)
	c.PointerUp()

	magnitude := func() float64 {
		theta, phi := c.PendingDelta()
		return math.Hypot(theta, phi)
	}

	initial := magnitude()
	require.Greater(t, initial, 0.0)
	prev := initial
	for i := 0; i < 2000; i++ {
		c.Update()
		cur := magnitude()
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
	assert.Less(t, prev, initial*1e-3)
}

func TestOrbitControls_AutoRotateOnlyWhenIdle(t *testing.T) {
	c := newTestControls()
	c.Update()

	az := c.AzimuthalAngle()
	c.Update()
	assert.Less(t, c.AzimuthalAngle(), az, "idle controls should rotate")

	held := newTestControls()
	held.Update()
	held.PointerDown(PointerPrimary, 5, 5)
	assert.Equal(t, StateRotate, held.State())
	theta, _ := held.PendingDelta()
	held.Update()
	after, _ := held.PendingDelta()
	assert.InDelta(t, theta*(1-held.DampingFactor), after, 1e-12, "no autorotation while dragging")
}

func TestOrbitControls_PanStaysInGroundPlane(t *testing.T) {
	c := newTestControls()
	c.AutoRotate = false
	c.Update()

	c.PointerDown(PointerSecondary, 100, 100)
	assert.Equal(t, StatePan, c.State())
	c.PointerMove(400, 350)
	c.PointerUp()

	for i := 0; i < 100; i++ {
		c.Update()
	}
	assert.NotEqual(t, mgl32.Vec3{}, c.Target)
	assert.InDelta(t, 0, c.Target.Y(), 1e-4)
	assertOrbitBounds(t, c)
}

func TestOrbitControls_LargePansKeepCameraDistance(t *testing.T) {
	c := newTestControls()
	c.Update()

	for i := 0; i < 5000; i++ {
		switch i % 4 {
		case 0:
			c.PointerDown(PointerPrimary, 0, 0)
			c.PointerMove(1e12, -1e12)
			c.PointerUp()
		case 1:
			for j := 0; j < 200; j++ {
				c.Wheel(1e30)
			}
		case 2:
			c.PointerDown(PointerSecondary, 0, 0)
			c.PointerMove(1e9, 1e9)
			c.PointerUp()
		case 3:
			for j := 0; j < 200; j++ {
				c.Wheel(-1)
			}
		}
		c.Update()

		dist := float64(c.Camera.Position.Sub(c.Target).Len())
		require.GreaterOrEqual(t, dist, 100.0-1e-2, "update %d", i)
		require.LessOrEqual(t, dist, 500.0+1e-2, "update %d", i)
	}
	assert.LessOrEqual(t, float64(c.Target.Len()), DefaultMaxTargetDistance+1e-2)
	assertOrbitBounds(t, c)
}

func TestOrbitControls_TargetClampedToMaxDistance(t *testing.T) {
	c := newTestControls()
	c.AutoRotate = false
	c.MaxTargetDistance = 50
	c.Update()

	c.PointerDown(PointerSecondary, 0, 0)
	c.PointerMove(1e6, 0)
	c.PointerUp()
	for i := 0; i < 100; i++ {
		c.Update()
	}
	assert.InDelta(t, 50.0, float64(c.Target.Len()), 1e-3)
	assertOrbitBounds(t, c)
}

func TestOrbitControls_DisabledInputs(t *testing.T) {
	c := newTestControls()
	c.EnableRotate = false
	c.EnablePan = false
	c.EnableZoom = false

	c.PointerDown(PointerPrimary, 0, 0)
	assert.Equal(t, StateNone, c.State())
	c.PointerDown(PointerSecondary, 0, 0)
	assert.Equal(t, StateNone, c.State())
	c.PointerDown(PointerMiddle, 0, 0)
	assert.Equal(t, StateNone, c.State())
}

func TestSpherical_RoundTrip(t *testing.T) {
	s := SphericalFromVec(vec64(mgl32.Vec3{50, 50, 50}))
	assert.InDelta(t, math.Pi/4, s.Theta, 1e-9)
	v := s.Vec()
	assert.InDelta(t, 50, v.X(), 1e-9)
	assert.InDelta(t, 50, v.Y(), 1e-9)
	assert.InDelta(t, 50, v.Z(), 1e-9)
}
