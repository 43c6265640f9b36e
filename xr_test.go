package townview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	frames *ManualFrames
	ended  int
}

func newFakeSession() *fakeSession {
	return &fakeSession{frames: NewManualFrames(time.Second / 90)}
}

func (s *fakeSession) Frames() FrameRequester { return s.frames }
func (s *fakeSession) End()                   { s.ended++ }

type fakeProvider struct {
	supported bool
	sessions  []*fakeSession
}

func (p *fakeProvider) Supported() bool { return p.supported }

func (p *fakeProvider) RequestSession() (ImmersiveSession, error) {
	s := newFakeSession()
	p.sessions = append(p.sessions, s)
	return s, nil
}

func TestXR_SessionRebindsAnimation(t *testing.T) {
	surface := newFakeSurface()
	_, h := startFake(t, surface)
	defer h.Stop()
	xr := h.Resources().Renderer.XR

	surface.frames.Tick()
	require.Equal(t, 1, surface.ctx.draws)

	session := newFakeSession()
	require.NoError(t, xr.StartSession(session))
	assert.True(t, xr.Presenting())
	assert.Zero(t, surface.frames.Pending(), "surface loop pauses during a session")
	assert.Zero(t, surface.frames.Tick())

	session.frames.Tick()
	session.frames.Tick()
	assert.Equal(t, 3, surface.ctx.draws)

	xr.EndSession()
	assert.Equal(t, 1, session.ended)
	assert.False(t, xr.Presenting())
	assert.Zero(t, session.frames.Pending())

	surface.frames.Tick()
	assert.Equal(t, 4, surface.ctx.draws, "surface loop resumes after the session")
}

func TestXR_StopEndsSession(t *testing.T) {
	surface := newFakeSurface()
	_, h := startFake(t, surface)
	xr := h.Resources().Renderer.XR

	session := newFakeSession()
	require.NoError(t, xr.StartSession(session))
	h.Stop()

	assert.Equal(t, 1, session.ended)
	assert.Zero(t, session.frames.Pending())
	assert.Zero(t, surface.frames.Pending())
	assert.Equal(t, 1, surface.ctx.released)
}

func TestXR_Disabled(t *testing.T) {
	r := NewRenderer(&fakeContext{}, NewManualFrames(time.Millisecond))
	assert.ErrorIs(t, r.XR.StartSession(newFakeSession()), ErrImmersiveUnsupported)

	r.XR.Enabled = true
	assert.Error(t, r.XR.StartSession(nil))
	assert.NotPanics(t, r.XR.EndSession)
}

func TestXR_NewSessionEndsPrevious(t *testing.T) {
	r := NewRenderer(&fakeContext{}, NewManualFrames(time.Millisecond))
	r.XR.Enabled = true
	first, second := newFakeSession(), newFakeSession()

	require.NoError(t, r.XR.StartSession(first))
	require.NoError(t, r.XR.StartSession(second))
	assert.Equal(t, 1, first.ended)
	assert.Same(t, second, r.XR.Session())
}

func TestImmersiveButton(t *testing.T) {
	r := NewRenderer(&fakeContext{}, NewManualFrames(time.Millisecond))
	r.XR.Enabled = true

	unsupported := NewImmersiveButton(r, nil)
	assert.Equal(t, "VR NOT SUPPORTED", unsupported.Label())
	assert.ErrorIs(t, unsupported.Toggle(), ErrImmersiveUnsupported)

	provider := &fakeProvider{supported: true}
	b := NewImmersiveButton(r, provider)
	assert.Equal(t, "ENTER VR", b.Label())

	require.NoError(t, b.Toggle())
	assert.Equal(t, "EXIT VR", b.Label())
	require.Len(t, provider.sessions, 1)

	require.NoError(t, b.Toggle())
	assert.Equal(t, "ENTER VR", b.Label())
	assert.Equal(t, 1, provider.sessions[0].ended)

	r.XR.Enabled = false
	assert.Equal(t, "VR NOT SUPPORTED", b.Label())

	assert.ErrorIs(t, (&ImmersiveButton{Provider: provider}).Toggle(), ErrRendererStopped)
}

func TestImmersiveModule_KeyToggles(t *testing.T) {
	provider := &fakeProvider{supported: true}
	surface := newFakeSurface()
	app, h := startFake(t, surface, ImmersiveModule{Provider: provider})
	defer h.Stop()

	st := Resource[ImmersiveState](app)
	require.NotNil(t, st.Button)
	assert.Equal(t, "ENTER VR", st.Button.Label())

	Resource[Input](app).JustPressed[KeyV] = true
	surface.frames.Tick()
	assert.Equal(t, "EXIT VR", st.Button.Label())
	require.Len(t, provider.sessions, 1)
	assert.Equal(t, 1, provider.sessions[0].frames.Pending())
}
