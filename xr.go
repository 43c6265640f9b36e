package townview

import (
	"errors"
)

var ErrImmersiveUnsupported = errors.New("immersive sessions not supported")

// ImmersiveSession is an active head-mounted presentation. While it lasts the
// animation loop runs on its frames instead of the surface's.
type ImmersiveSession interface {
	Frames() FrameRequester
	End()
}

// SessionProvider negotiates sessions with the device runtime.
type SessionProvider interface {
	Supported() bool
	RequestSession() (ImmersiveSession, error)
}

// XRManager tracks the renderer's immersive session.
type XRManager struct {
	Enabled bool

	animation     *Animation
	surfaceFrames FrameRequester
	session       ImmersiveSession
}

func newXRManager(animation *Animation, surfaceFrames FrameRequester) *XRManager {
	return &XRManager{animation: animation, surfaceFrames: surfaceFrames}
}

func (x *XRManager) Presenting() bool { return x.session != nil }

func (x *XRManager) Session() ImmersiveSession { return x.session }

// StartSession moves the animation loop onto s. A session already running is
// ended first.
func (x *XRManager) StartSession(s ImmersiveSession) error {
	if !x.Enabled {
		return ErrImmersiveUnsupported
	}
	if s == nil {
		return errors.New("nil immersive session")
	}
	if x.session != nil {
		x.EndSession()
	}
	x.session = s
	x.animation.SetSource(s.Frames())
	return nil
}

// EndSession ends the active session and returns the loop to the surface.
func (x *XRManager) EndSession() {
	if x.session == nil {
		return
	}
	s := x.session
	x.session = nil
	s.End()
	x.animation.SetSource(x.surfaceFrames)
}

type unsupportedProvider struct{}

func (unsupportedProvider) Supported() bool { return false }

func (unsupportedProvider) RequestSession() (ImmersiveSession, error) {
	return nil, ErrImmersiveUnsupported
}

// ImmersiveButton is the enter/exit affordance wrapped around a renderer.
type ImmersiveButton struct {
	Renderer *Renderer
	Provider SessionProvider
}

// NewImmersiveButton uses provider, or a provider that supports nothing when
// provider is nil.
func NewImmersiveButton(r *Renderer, provider SessionProvider) *ImmersiveButton {
	if provider == nil {
		provider = unsupportedProvider{}
	}
	return &ImmersiveButton{Renderer: r, Provider: provider}
}

func (b *ImmersiveButton) Label() string {
	switch {
	case b.Renderer != nil && b.Renderer.XR.Presenting():
		return "EXIT VR"
	case b.Renderer == nil || !b.Renderer.XR.Enabled || !b.Provider.Supported():
		return "VR NOT SUPPORTED"
	default:
		return "ENTER VR"
	}
}

// Toggle enters a session when none is active and ends it otherwise.
func (b *ImmersiveButton) Toggle() error {
	if b.Renderer == nil {
		return ErrRendererStopped
	}
	xr := b.Renderer.XR
	if xr.Presenting() {
		xr.EndSession()
		return nil
	}
	if !xr.Enabled || !b.Provider.Supported() {
		return ErrImmersiveUnsupported
	}
	s, err := b.Provider.RequestSession()
	if err != nil {
		return err
	}
	return xr.StartSession(s)
}

// ImmersiveModule exposes an ImmersiveButton as a resource once the renderer
// exists. KeyV toggles it.
type ImmersiveModule struct {
	Provider SessionProvider
}

type ImmersiveState struct {
	Provider SessionProvider
	Button   *ImmersiveButton
}

func (m ImmersiveModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&ImmersiveState{Provider: m.Provider})
	ensureInput(app, cmd)
	app.UseSystem(System(immersiveStartupSystem).InStage(Startup))
	app.UseSystem(System(immersiveToggleSystem).InStage(Update))
}

func immersiveStartupSystem(r *Renderer, st *ImmersiveState, log Logger) {
	st.Button = NewImmersiveButton(r, st.Provider)
	log.Infof("Immersive affordance: %s", st.Button.Label())
}

func immersiveToggleSystem(input *Input, st *ImmersiveState, log Logger) {
	if st.Button == nil || !input.JustPressed[KeyV] {
		return
	}
	if err := st.Button.Toggle(); err != nil {
		log.Warnf("Immersive toggle: %v", err)
		return
	}
	log.Infof("Immersive affordance: %s", st.Button.Label())
}
