package frame

import (
	"errors"
	"testing"

	"github.com/Wiktwn/mandelbulb-raymarching/camera"
	"github.com/Wiktwn/mandelbulb-raymarching/clock"
	"github.com/Wiktwn/mandelbulb-raymarching/scene"
	"github.com/Wiktwn/mandelbulb-raymarching/uniforms"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	t     *testing.T
	calls int
	err   error
	times []float32
}

func (r *recordingRenderer) Render(plane *scene.RaymarchPlane, cam *camera.Camera, table *uniforms.Table) error {
	r.calls++
	if r.err != nil {
		return r.err
	}

	// everything the shader sees must describe the same pose
	want := cam.Position.Add(cam.Forward().Mul(cam.Near))
	assertVec3(r.t, want, plane.Position, 1e-5)
	assert.Equal(r.t, cam.Orientation, plane.Orientation)

	world, _ := table.Mat4(uniforms.CameraToWorld)
	assert.Equal(r.t, cam.WorldMatrix(), world)
	invProj, _ := table.Mat4(uniforms.CameraInverseProj)
	assert.Equal(r.t, cam.ProjectionInverse(), invProj)
	pos, _ := table.Vec3(uniforms.CameraPosition)
	assert.Equal(r.t, cam.Position, pos)

	tm, _ := table.Float(uniforms.Time)
	r.times = append(r.times, tm)
	return nil
}

// assertVec3 compares component-wise with an absolute tolerance.
func assertVec3(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "want %v got %v", want, got)
	}
}

type fakeHost struct {
	callback func()
	sets     int
}

func (h *fakeHost) SetFrameCallback(fn func()) {
	h.callback = fn
	h.sets++
}

func (h *fakeHost) tick() {
	if h.callback != nil {
		h.callback()
	}
}

type fakeTelemetry struct{ text string }

func (f *fakeTelemetry) SetTelemetry(text string) { f.text = text }

func newState(t *testing.T, pausable bool) (*State, *clock.Manual) {
	t.Helper()
	src := &clock.Manual{}
	cam := camera.New(75, 16.0/9.0, 0.1, 1000)
	cam.Position = mgl32.Vec3{0, 0, 5}
	orbit := camera.NewOrbit(cam, mgl32.Vec3{}, 720)
	return &State{
		Rig:      camera.NewRig(cam, orbit),
		Plane:    scene.NewRaymarchPlane(cam),
		Uniforms: uniforms.NewFractalTable(uniforms.DefaultSceneConfig(1000)),
		Clock:    clock.New(src.Now, pausable),
	}, src
}

func TestLoop_StartStopRegistersCallback(t *testing.T) {
	state, src := newState(t, false)
	r := &recordingRenderer{t: t}
	host := &fakeHost{}
	loop := NewLoop(state, r, host)

	require.NoError(t, loop.Start())
	assert.True(t, loop.Running())
	require.NotNil(t, host.callback)

	for i := 0; i < 3; i++ {
		src.Advance(0.016)
		host.tick()
	}
	assert.Equal(t, 3, r.calls)
	assert.Equal(t, uint64(3), loop.Frames())

	loop.Stop()
	assert.False(t, loop.Running())
	assert.Nil(t, host.callback)
	host.tick()
	assert.Equal(t, 3, r.calls)

	// starting twice registers once
	require.NoError(t, loop.Start())
	require.NoError(t, loop.Start())
	assert.Equal(t, 3, host.sets)
}

func TestLoop_StepSynchronizesCameraAndPlane(t *testing.T) {
	state, src := newState(t, false)
	r := &recordingRenderer{t: t}
	loop := NewLoop(state, r, nil)

	orbit := state.Rig.Controls.(*camera.Orbit)
	orbit.Rotate(120, -40)
	src.Advance(0.016)
	require.NoError(t, loop.Step())

	orbit.Dolly(3)
	orbit.Pan(10, 5)
	src.Advance(0.016)
	require.NoError(t, loop.Step())
	assert.Equal(t, 2, r.calls)
}

func TestLoop_TimeIncreasesThenFreezesWhilePaused(t *testing.T) {
	state, src := newState(t, true)
	r := &recordingRenderer{t: t}
	loop := NewLoop(state, r, nil)

	for i := 0; i < 3; i++ {
		src.Advance(0.02)
		require.NoError(t, loop.Step())
	}
	for i := 1; i < len(r.times); i++ {
		assert.Greater(t, r.times[i], r.times[i-1])
	}

	state.Clock.TogglePause()
	frozen := r.times[len(r.times)-1]
	for i := 0; i < 3; i++ {
		src.Advance(0.02)
		require.NoError(t, loop.Step())
		assert.Equal(t, frozen, r.times[len(r.times)-1])
	}

	state.Clock.TogglePause()
	src.Advance(0.02)
	require.NoError(t, loop.Step())
	assert.InDelta(t, frozen+0.02, r.times[len(r.times)-1], 1e-6)
}

func TestLoop_RestartDoesNotJump(t *testing.T) {
	state, src := newState(t, false)
	r := &recordingRenderer{t: t}
	host := &fakeHost{}
	loop := NewLoop(state, r, host)

	require.NoError(t, loop.Start())
	src.Advance(0.5)
	host.tick()
	pos := state.Camera().Position
	loop.Stop()

	src.Advance(60)
	require.NoError(t, loop.Start())
	src.Advance(0.25)
	host.tick()

	assert.InDelta(t, 0.75, r.times[len(r.times)-1], 1e-6)
	assert.Equal(t, pos, state.Camera().Position)
}

func TestLoop_Telemetry(t *testing.T) {
	state, src := newState(t, false)
	tel := &fakeTelemetry{}
	loop := NewLoop(state, &recordingRenderer{t: t}, nil, WithTelemetry(tel))

	src.Advance(0.02)
	require.NoError(t, loop.Step())
	assert.Equal(t, "fps: 50", tel.text)

	require.NoError(t, loop.Step())
	assert.Equal(t, "fps: 0", tel.text, "zero delta must not report an infinite rate")
}

func TestLoop_RenderFailureIsFatal(t *testing.T) {
	state, src := newState(t, false)
	boom := errors.New("context lost")
	r := &recordingRenderer{t: t, err: boom}
	host := &fakeHost{}
	var fatal error
	loop := NewLoop(state, r, host, WithFatalHandler(func(err error) { fatal = err }))

	require.NoError(t, loop.Start())
	src.Advance(0.016)
	host.tick()

	assert.ErrorIs(t, loop.Err(), boom)
	assert.ErrorIs(t, fatal, boom)
	assert.False(t, loop.Running())
	assert.Nil(t, host.callback)
	assert.Error(t, loop.Start())
}

func TestLoop_RefusesToStartWithoutRenderer(t *testing.T) {
	state, _ := newState(t, false)
	host := &fakeHost{}
	loop := NewLoop(state, nil, host)
	assert.ErrorIs(t, loop.Start(), ErrNotReady)
	assert.Nil(t, host.callback)
	assert.ErrorIs(t, loop.Step(), ErrNotReady)
}

func TestState_Resize(t *testing.T) {
	state, _ := newState(t, false)
	before := state.Plane.Scale

	state.Resize(1000, 1000)
	assert.Equal(t, float32(1), state.Camera().Aspect)
	assert.InDelta(t, before[1], state.Plane.Scale[1], 1e-6)
	assert.InDelta(t, before[1], state.Plane.Scale[0], 1e-6)

	state.Resize(0, 10)
	assert.Equal(t, float32(1), state.Camera().Aspect)
}

type levelModulator struct {
	level float32
	err   error
}

func (m *levelModulator) Apply(table *uniforms.Table) error {
	if m.err != nil {
		return m.err
	}
	return table.Set(uniforms.Glow, m.level)
}

func TestLoop_ModulatorRunsBeforeRender(t *testing.T) {
	state, _ := newState(t, false)
	var seen float32
	r := &recordingRenderer{t: t}
	mod := &levelModulator{level: 0.9}
	loop := NewLoop(state, rendererFunc(func(p *scene.RaymarchPlane, c *camera.Camera, table *uniforms.Table) error {
		seen, _ = table.Float(uniforms.Glow)
		return r.Render(p, c, table)
	}), nil, WithModulator(mod))

	require.NoError(t, loop.Step())
	assert.Equal(t, float32(0.9), seen)

	mod.err = errors.New("device gone")
	err := loop.Step()
	assert.ErrorIs(t, err, mod.err)
	assert.Equal(t, 1, r.calls)
}

type rendererFunc func(*scene.RaymarchPlane, *camera.Camera, *uniforms.Table) error

func (f rendererFunc) Render(p *scene.RaymarchPlane, c *camera.Camera, table *uniforms.Table) error {
	return f(p, c, table)
}
