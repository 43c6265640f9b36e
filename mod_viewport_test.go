package townview

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewport_Setup(t *testing.T) {
	vp := &Viewport{Extent: 20, settings: DefaultViewport()}
	require.NoError(t, vp.Setup(1600, 800))

	cam := vp.Camera
	assert.Equal(t, float32(2), vp.Aspect)
	assert.Equal(t, float32(-40), cam.Left)
	assert.Equal(t, float32(40), cam.Right)
	assert.Equal(t, float32(20), cam.Top)
	assert.Equal(t, float32(-20), cam.Bottom)
	assert.Equal(t, float32(1), cam.Near)
	assert.Equal(t, float32(1000), cam.Far)
	assert.Equal(t, mgl32.Vec3{}, cam.Target)

	c := vp.Controls
	assert.True(t, c.EnableDamping)
	assert.True(t, c.AutoRotate)
	assert.False(t, c.ScreenSpacePanning)
	assert.Equal(t, math.Pi/2, c.MaxPolarAngle)
	assert.InDelta(t, 100, c.Distance(), 1e-6)

	dir := cam.Position.Normalize()
	assert.InDelta(t, dir.X(), dir.Y(), 1e-3, "settling keeps the (1,1,1) direction")
	assert.InDelta(t, dir.Y(), dir.Z(), 1e-3)
}

func TestViewport_SetupRejectsEmptySurface(t *testing.T) {
	vp := &Viewport{Extent: 20, settings: DefaultViewport()}
	assert.Error(t, vp.Setup(0, 720))
	assert.Nil(t, vp.Camera)
}

func TestViewportModule_ZeroValueUsesDefaults(t *testing.T) {
	app := NewAppBuilder().UseModule(ViewportModule{}).Build()
	vp := Resource[Viewport](app)
	require.NotNil(t, vp)
	assert.Equal(t, float32(20), vp.Extent)
	assert.Equal(t, DefaultViewport(), vp.settings)
}

func TestViewport_BoundsHoldUnderInput(t *testing.T) {
	vp := &Viewport{Extent: 20, settings: DefaultViewport()}
	require.NoError(t, vp.Setup(1280, 720))
	c := vp.Controls

	input := &Input{WindowWidth: 1280, WindowHeight: 720}
	input.press(MouseButtonLeft, true)
	orbitInputSystem(input, vp)
	input.press(MouseButtonLeft, true)
	for i := 0; i < 100; i++ {
		input.MouseX += 300
		input.MouseY -= 500
		input.ScrollY = 5
		orbitInputSystem(input, vp)
		viewportSystem(vp)

		assert.GreaterOrEqual(t, c.PolarAngle(), 0.0)
		assert.LessOrEqual(t, c.PolarAngle(), math.Pi/2)
		assert.GreaterOrEqual(t, c.Distance(), 100.0)
		assert.LessOrEqual(t, c.Distance(), 500.0)
	}
	input.press(MouseButtonLeft, false)
	orbitInputSystem(input, vp)
	assert.Equal(t, "none", c.State().String())
}

func TestOrbitInput_DragEndsOnlyWithStartingButton(t *testing.T) {
	vp := &Viewport{Extent: 20, settings: DefaultViewport()}
	require.NoError(t, vp.Setup(1280, 720))
	c := vp.Controls

	input := &Input{WindowWidth: 1280, WindowHeight: 720}
	input.press(MouseButtonRight, true)
	input.press(MouseButtonLeft, true)
	orbitInputSystem(input, vp)
	assert.Equal(t, "rotate", c.State().String(), "left wins when pressed together")

	input.press(MouseButtonLeft, true)
	input.press(MouseButtonRight, false)
	orbitInputSystem(input, vp)
	assert.Equal(t, "rotate", c.State().String(), "releasing another button keeps the drag")

	input.press(MouseButtonLeft, false)
	orbitInputSystem(input, vp)
	assert.Equal(t, "none", c.State().String())

	input.press(MouseButtonRight, true)
	orbitInputSystem(input, vp)
	assert.Equal(t, "pan", c.State().String())
	input.press(MouseButtonMiddle, true)
	orbitInputSystem(input, vp)
	assert.Equal(t, "pan", c.State().String(), "a second press does not take over the drag")
	input.press(MouseButtonRight, false)
	orbitInputSystem(input, vp)
	assert.Equal(t, "none", c.State().String())
}
