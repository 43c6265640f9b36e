package townview

import (
	"fmt"
	"runtime"
	"time"

	"github.com/gekko3d/townview/render/gpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowSurface is a glfw window drawn by the WebGPU backend.
type WindowSurface struct {
	Width  int
	Height int
	Title  string

	window   *glfw.Window
	frames   *WindowFrames
	backend  *gpu.Backend
	onResize []func(width, height int)
	scrollY  float64
}

// NewWindowSurface opens a window with no client API; the backend creates
// its own WebGPU surface for it. Must be called on the main goroutine.
func NewWindowSurface(width, height int, title string) (*WindowSurface, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	s := &WindowSurface{
		Width:  width,
		Height: height,
		Title:  title,
		window: win,
		frames: &WindowFrames{},
	}
	win.SetSizeCallback(func(w *glfw.Window, width, height int) {
		s.Width, s.Height = width, height
		for _, fn := range s.onResize {
			fn(width, height)
		}
	})
	win.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		s.scrollY += yoff
	})
	return s, nil
}

func (s *WindowSurface) Bounds() (int, int) {
	if s.window == nil {
		return 0, 0
	}
	return s.window.GetSize()
}

// Context creates the GPU backend on first use.
func (s *WindowSurface) Context() (RenderContext, error) {
	if s.window == nil {
		return nil, ErrSurfaceUnavailable
	}
	if s.backend == nil {
		b, err := gpu.NewBackend(s.window)
		if err != nil {
			return nil, err
		}
		s.backend = b
	}
	return s.backend, nil
}

func (s *WindowSurface) Frames() FrameRequester { return s.frames }

func (s *WindowSurface) WindowFrames() *WindowFrames { return s.frames }

func (s *WindowSurface) OnResize(fn func(width, height int)) {
	s.onResize = append(s.onResize, fn)
}

func (s *WindowSurface) ShouldClose() bool {
	return s.window == nil || s.window.ShouldClose()
}

func (s *WindowSurface) takeScroll() float64 {
	y := s.scrollY
	s.scrollY = 0
	return y
}

// Destroy closes the window. The rendering context must be released first.
func (s *WindowSurface) Destroy() {
	if s.window == nil {
		return
	}
	s.window.Destroy()
	s.window = nil
	glfw.Terminate()
}

// WindowFrames is the window's frame schedule.
type WindowFrames struct {
	frameQueue
}

// Pump polls window events and fires the pending frame callbacks.
func (f *WindowFrames) Pump() int {
	glfw.PollEvents()
	return f.fire(time.Now())
}

// PlatformWindowModule opens the window and makes it the App's surface.
// Install is idempotent: an existing WindowSurface resource is reused.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewPlatformWindow fills zero fields with 1280x720 and the "Townview" title.
func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Townview"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if ws := Resource[WindowSurface](app); ws != nil {
		app.SetSurface(ws)
		return
	}

	ws, err := NewWindowSurface(m.Width, m.Height, m.Title)
	if err != nil {
		// Start reports the missing surface.
		app.Logger().Warnf("No window: %v", err)
		return
	}
	cmd.AddResources(ws)
	app.SetSurface(ws)
	app.Logger().Infof("Created window (%dx%d) '%s'", m.Width, m.Height, m.Title)
}
