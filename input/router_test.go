package input

import (
	"errors"
	"testing"

	"github.com/Wiktwn/mandelbulb-raymarching/camera"
	"github.com/Wiktwn/mandelbulb-raymarching/clock"
	"github.com/Wiktwn/mandelbulb-raymarching/frame"
	"github.com/Wiktwn/mandelbulb-raymarching/scene"
	"github.com/Wiktwn/mandelbulb-raymarching/uniforms"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoop struct {
	starts, stops int
	err           error
}

func (f *fakeLoop) Start() error {
	f.starts++
	return f.err
}

func (f *fakeLoop) Stop() { f.stops++ }

type fakePrompt struct{ visible []bool }

func (f *fakePrompt) ShowPrompt(visible bool) { f.visible = append(f.visible, visible) }

func orbitState() *frame.State {
	cam := camera.New(75, 16.0/9.0, 0.1, 1000)
	cam.Position = mgl32.Vec3{0, 0, 5}
	src := &clock.Manual{}
	return &frame.State{
		Rig:      camera.NewRig(cam, camera.NewOrbit(cam, mgl32.Vec3{}, 720)),
		Plane:    scene.NewRaymarchPlane(cam),
		Uniforms: uniforms.NewOrbitTable(uniforms.DefaultSceneConfig(1000)),
		Clock:    clock.New(src.Now, false),
	}
}

func fractalState() (*frame.State, *camera.FirstPerson) {
	cam := camera.New(75, 16.0/9.0, 0.1, 1000)
	cam.Position = mgl32.Vec3{0, 0, 3}
	fp := camera.NewFirstPerson(cam, 1, 0.002)
	src := &clock.Manual{}
	return &frame.State{
		Rig:      camera.NewRig(cam, fp),
		Plane:    scene.NewRaymarchPlane(cam),
		Uniforms: uniforms.NewFractalTable(uniforms.DefaultSceneConfig(1000)),
		Clock:    clock.New(src.Now, true),
	}, fp
}

func press(r *Router, keys ...Key) {
	for _, k := range keys {
		r.HandleKey(k, Press)
	}
}

func TestRouter_ThresholdKeys(t *testing.T) {
	s := orbitState()
	r := NewRouter(s, OrbitBindings())

	press(r, KeyMinus)
	v, _ := s.Uniforms.Float(uniforms.Threshold)
	assert.InEpsilon(t, 0.00001, v, 1e-5)

	press(r, KeyEqual, KeyEqual)
	v, _ = s.Uniforms.Float(uniforms.Threshold)
	assert.InEpsilon(t, 0.001, v, 1e-5)
}

func TestRouter_ThresholdClamped(t *testing.T) {
	s := orbitState()
	r := NewRouter(s, OrbitBindings())

	for i := 0; i < 20; i++ {
		r.HandleKey(KeyEqual, Repeat)
	}
	v, _ := s.Uniforms.Float(uniforms.Threshold)
	assert.Equal(t, float32(MaxThreshold), v)

	for i := 0; i < 20; i++ {
		press(r, KeyMinus)
	}
	v, _ = s.Uniforms.Float(uniforms.Threshold)
	assert.Equal(t, float32(MinThreshold), v)
}

func TestRouter_StepKeys(t *testing.T) {
	s := orbitState()
	r := NewRouter(s, OrbitBindings())

	press(r, KeyRightBracket, KeyRightBracket, KeyLeftBracket)
	n, _ := s.Uniforms.Int(uniforms.MaxSteps)
	assert.Equal(t, int32(110), n)

	for i := 0; i < 50; i++ {
		press(r, KeyLeftBracket)
	}
	n, _ = s.Uniforms.Int(uniforms.MaxSteps)
	assert.Equal(t, int32(MinSteps), n)

	for i := 0; i < 300; i++ {
		press(r, KeyRightBracket)
	}
	n, _ = s.Uniforms.Int(uniforms.MaxSteps)
	assert.Equal(t, int32(MaxSteps), n)
}

func TestRouter_ReleaseDoesNotFireCommands(t *testing.T) {
	s := orbitState()
	r := NewRouter(s, OrbitBindings())
	r.HandleKey(KeyRightBracket, Release)
	n, _ := s.Uniforms.Int(uniforms.MaxSteps)
	assert.Equal(t, uniforms.DefaultOrbitSteps, n)
}

func TestRouter_OrbitLoopControl(t *testing.T) {
	s := orbitState()
	loop := &fakeLoop{}
	r := NewRouter(s, OrbitBindings(), WithLoopControl(loop))

	press(r, KeyBackspace)
	press(r, KeyEnter)
	assert.Equal(t, 1, loop.stops)
	assert.Equal(t, 1, loop.starts)

	loop.err = errors.New("no program")
	press(r, KeyEnter)
	assert.Equal(t, 2, loop.starts)

	// orbit has no pause
	press(r, KeyP)
	assert.False(t, s.Clock.Paused())
}

func TestRouter_OrbitPointer(t *testing.T) {
	s := orbitState()
	r := NewRouter(s, OrbitBindings())
	before := s.Camera().Position

	// moving without a button does nothing
	r.HandlePointer(100, 100)
	r.HandlePointer(150, 100)
	s.Rig.Update(0.016)
	assertVec3(t, before, s.Camera().Position, 1e-5)

	r.HandleButton(MouseButtonLeft, Press)
	r.HandlePointer(250, 100)
	r.HandleButton(MouseButtonLeft, Release)
	s.Rig.Update(0.016)
	assert.Greater(t, before.Sub(s.Camera().Position).Len(), float32(1e-3))

	orbit := s.Rig.Controls.(*camera.Orbit)
	radius := orbit.Radius()
	r.HandleScroll(2)
	s.Rig.Update(0.016)
	assert.Less(t, orbit.Radius(), radius)

	r.HandleButton(MouseButtonRight, Press)
	r.HandlePointer(300, 100)
	s.Rig.Update(0.016)
	assert.NotEqual(t, mgl32.Vec3{}, orbit.Target())
}

func TestRouter_FractalMovementIgnoredWhileUnlocked(t *testing.T) {
	s, fp := fractalState()
	lock := NewPointerLock(nil)
	r := NewRouter(s, FractalBindings(), WithPointerLock(lock))
	start := s.Camera().Position

	press(r, KeyW, KeyD)
	r.HandlePointer(10, 10)
	r.HandlePointer(60, 10)
	s.Rig.Update(0.5)

	assert.False(t, r.Tracking())
	assert.Equal(t, mgl32.Vec3{}, fp.Intent())
	assert.Equal(t, start, s.Camera().Position)
}

func TestRouter_FractalLockLifecycle(t *testing.T) {
	s, fp := fractalState()
	capt := &fakeCapturer{}
	prompt := &fakePrompt{}
	lock := NewPointerLock(capt)
	r := NewRouter(s, FractalBindings(), WithPointerLock(lock), WithPrompt(prompt))
	require.Equal(t, []bool{true}, prompt.visible)

	r.HandleButton(MouseButtonLeft, Press)
	require.True(t, lock.Locked())
	assert.True(t, r.Tracking())
	assert.True(t, fp.Locked())
	assert.Equal(t, []bool{true}, capt.calls)

	press(r, KeyW)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, fp.Intent())
	press(r, KeyS)
	assert.Equal(t, mgl32.Vec3{}, fp.Intent())
	r.HandleKey(KeyS, Release)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, fp.Intent())

	start := s.Camera().Position
	s.Rig.Update(1)
	assertVec3(t, start.Add(mgl32.Vec3{0, 0, -1}), s.Camera().Position, 1e-5)

	// Escape releases and drops held keys
	press(r, KeyEscape)
	assert.False(t, lock.Locked())
	assert.False(t, r.Tracking())
	assert.Equal(t, mgl32.Vec3{}, fp.Intent())
	assert.Equal(t, []bool{true, false, true}, prompt.visible)

	// releasing a key held before the unlock is harmless
	r.HandleKey(KeyW, Release)
	assert.Equal(t, mgl32.Vec3{}, fp.Intent())

	// lock again then lose focus
	r.HandleButton(MouseButtonLeft, Press)
	press(r, KeyA)
	r.HandleFocus(false)
	assert.False(t, lock.Locked())
	assert.Equal(t, mgl32.Vec3{}, fp.Intent())
	assert.Equal(t, []bool{true, false, true, false}, capt.calls)
}

func TestRouter_FractalLookAfterLockHasNoJump(t *testing.T) {
	s, fp := fractalState()
	r := NewRouter(s, FractalBindings(), WithPointerLock(NewPointerLock(nil)))

	r.HandlePointer(10, 10)
	r.HandleButton(MouseButtonLeft, Press)
	// first event after capture only sets the baseline
	r.HandlePointer(640, 360)
	s.Rig.Update(0)
	yaw, pitch := s.Camera().YawPitch()
	assert.InDelta(t, 0, yaw, 1e-6)
	assert.InDelta(t, 0, pitch, 1e-6)

	r.HandlePointer(740, 360)
	s.Rig.Update(0)
	yaw, _ = s.Camera().YawPitch()
	assert.InDelta(t, -100*fp.Sensitivity, yaw, 1e-5)
}

func TestRouter_PauseAndScrub(t *testing.T) {
	s, _ := fractalState()
	r := NewRouter(s, FractalBindings(), WithScrubStep(2))

	press(r, KeyP)
	assert.True(t, s.Clock.Paused())

	press(r, KeyPeriod, KeyPeriod)
	assert.InDelta(t, 4, s.Clock.Elapsed(), 1e-9)
	tm, _ := s.Uniforms.Float(uniforms.Time)
	assert.InDelta(t, 4, tm, 1e-6)

	for i := 0; i < 5; i++ {
		press(r, KeyComma)
	}
	assert.Zero(t, s.Clock.Elapsed())

	press(r, KeyP)
	assert.False(t, s.Clock.Paused())
}

func TestRouter_Resize(t *testing.T) {
	s := orbitState()
	r := NewRouter(s, OrbitBindings())
	r.HandleResize(800, 800)
	assert.Equal(t, float32(1), s.Camera().Aspect)
}
