package townview

import (
	"github.com/gekko3d/townview/render/core"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyEscape int = iota
	KeyV
	KeyR
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
	inputSlots
)

type InputModule struct{}

// Input is the input state of the current frame.
type Input struct {
	Pressed      [inputSlots]bool
	JustPressed  [inputSlots]bool
	JustReleased [inputSlots]bool

	MouseX, MouseY float64
	// ScrollY is the wheel movement since the previous frame.
	ScrollY float64

	WindowWidth, WindowHeight int
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	ensureInput(app, cmd)
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate),
	)
	app.UseSystem(
		System(orbitInputSystem).
			InStage(PreUpdate),
	)
}

func ensureInput(app *App, cmd *Commands) {
	if Resource[Input](app) == nil {
		cmd.AddResources(&Input{})
	}
}

// press records one button or key sample.
func (input *Input) press(slot int, down bool) {
	input.JustPressed[slot] = down && !input.Pressed[slot]
	input.JustReleased[slot] = !down && input.Pressed[slot]
	input.Pressed[slot] = down
}

// inputSystem samples the window. Events were polled by WindowFrames.Pump.
func inputSystem(s *WindowSurface, input *Input) {
	if s.window == nil {
		return
	}
	for key, glfwKey := range keyToGlfw {
		input.press(key, s.window.GetKey(glfwKey) == glfw.Press)
	}
	for btn, glfwBtn := range buttonToGlfw {
		input.press(btn, s.window.GetMouseButton(glfwBtn) == glfw.Press)
	}

	input.MouseX, input.MouseY = s.window.GetCursorPos()
	input.ScrollY = s.takeScroll()
	input.WindowWidth, input.WindowHeight = s.window.GetSize()

	if input.JustPressed[KeyEscape] {
		s.window.SetShouldClose(true)
	}
}

// orbitInputSystem feeds pointer and wheel input to the orbit controls.
func orbitInputSystem(input *Input, vp *Viewport) {
	c := vp.Controls
	if c == nil {
		return
	}
	if input.WindowWidth > 0 && input.WindowHeight > 0 {
		c.ViewportWidth = float64(input.WindowWidth)
		c.ViewportHeight = float64(input.WindowHeight)
	}

	// only the button that started a drag can end it
	if !vp.dragging {
		for _, b := range pointerButtons {
			if !input.JustPressed[b.slot] {
				continue
			}
			c.PointerDown(b.button, input.MouseX, input.MouseY)
			if c.State() != core.StateNone {
				vp.dragging, vp.dragSlot = true, b.slot
				break
			}
		}
	}
	if c.State() != core.StateNone {
		c.PointerMove(input.MouseX, input.MouseY)
	}
	if vp.dragging && !input.Pressed[vp.dragSlot] {
		c.PointerUp()
		vp.dragging = false
	}
	if input.ScrollY != 0 {
		// glfw reports wheel-up as positive; the controls expect DOM sign.
		c.Wheel(-input.ScrollY)
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeyEscape: glfw.KeyEscape,
	KeyV:      glfw.KeyV,
	KeyR:      glfw.KeyR,
}

var buttonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:   glfw.MouseButtonLeft,
	MouseButtonRight:  glfw.MouseButtonRight,
	MouseButtonMiddle: glfw.MouseButtonMiddle,
}

// pointerButtons is ordered: when buttons go down together the first wins.
var pointerButtons = []struct {
	slot   int
	button core.PointerButton
}{
	{MouseButtonLeft, core.PointerPrimary},
	{MouseButtonMiddle, core.PointerMiddle},
	{MouseButtonRight, core.PointerSecondary},
}
