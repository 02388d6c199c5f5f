package frame

import (
	"errors"
	"fmt"

	"github.com/Wiktwn/mandelbulb-raymarching/camera"
	"github.com/Wiktwn/mandelbulb-raymarching/clock"
	"github.com/Wiktwn/mandelbulb-raymarching/logging"
	"github.com/Wiktwn/mandelbulb-raymarching/scene"
	"github.com/Wiktwn/mandelbulb-raymarching/uniforms"
)

var ErrNotReady = errors.New("frame loop has no renderer")

// Renderer draws the raymarch plane through the camera with the given uniforms.
type Renderer interface {
	Render(plane *scene.RaymarchPlane, cam *camera.Camera, table *uniforms.Table) error
}

// Host invokes the registered callback once per display frame. Registering
// nil stops the callbacks.
type Host interface {
	SetFrameCallback(fn func())
}

// Telemetry displays a short status text, updated once per frame.
type Telemetry interface {
	SetTelemetry(text string)
}

// Modulator adjusts uniforms from an outside signal after the camera and time
// have been synced.
type Modulator interface {
	Apply(table *uniforms.Table) error
}

// Loop runs the per-frame synchronization: pose, plane, uniforms, render,
// telemetry, always in that order.
type Loop struct {
	state     *State
	renderer  Renderer
	host      Host
	telemetry Telemetry
	log       logging.Logger
	onFatal   func(error)
	modulator Modulator

	running bool
	err     error
	frames  uint64
}

type Option func(*Loop)

func WithTelemetry(t Telemetry) Option {
	return func(l *Loop) { l.telemetry = t }
}

func WithLogger(log logging.Logger) Option {
	return func(l *Loop) { l.log = log }
}

func WithModulator(m Modulator) Option {
	return func(l *Loop) { l.modulator = m }
}

// WithFatalHandler is called once when a frame fails and the loop stops.
func WithFatalHandler(fn func(error)) Option {
	return func(l *Loop) { l.onFatal = fn }
}

func NewLoop(state *State, renderer Renderer, host Host, options ...Option) *Loop {
	l := &Loop{
		state:    state,
		renderer: renderer,
		host:     host,
	}
	for _, option := range options {
		option(l)
	}
	l.log = logging.OrNop(l.log)
	return l
}

// Start registers the frame callback with the host. The clock is re-anchored
// so the time spent stopped is not seen as a frame delta; all other state
// continues from where it was.
func (l *Loop) Start() error {
	if l.renderer == nil {
		return ErrNotReady
	}
	if l.err != nil {
		return fmt.Errorf("frame loop stopped after failure: %w", l.err)
	}
	if l.running {
		return nil
	}
	l.state.Clock.Resume()
	l.running = true
	if l.host != nil {
		l.host.SetFrameCallback(l.frame)
	}
	l.log.Debugf("frame loop started")
	return nil
}

// Stop unregisters the frame callback. State is kept for a later Start.
func (l *Loop) Stop() {
	if !l.running {
		return
	}
	l.running = false
	if l.host != nil {
		l.host.SetFrameCallback(nil)
	}
	l.log.Debugf("frame loop stopped after %d frames, %.1fs since startup", l.frames, l.state.Clock.SinceInit())
}

func (l *Loop) Running() bool  { return l.running }
func (l *Loop) Err() error     { return l.err }
func (l *Loop) Frames() uint64 { return l.frames }

func (l *Loop) frame() {
	_ = l.Step()
}

// Step runs one frame. A render failure is fatal: the loop stops and the
// error is kept and returned.
func (l *Loop) Step() error {
	if l.renderer == nil {
		return ErrNotReady
	}
	s := l.state
	cam := s.Camera()

	// 1. pose
	dt := s.Clock.Tick()
	s.Rig.Update(dt)

	// 2. plane
	s.Plane.Place(cam)

	// 3. uniforms
	if err := SyncUniforms(s); err != nil {
		l.fail(err)
		return err
	}
	if l.modulator != nil {
		if err := l.modulator.Apply(s.Uniforms); err != nil {
			err = fmt.Errorf("modulate uniforms: %w", err)
			l.fail(err)
			return err
		}
	}

	// 4. render
	if err := l.renderer.Render(s.Plane, cam, s.Uniforms); err != nil {
		err = fmt.Errorf("render frame %d: %w", l.frames, err)
		l.fail(err)
		return err
	}
	l.frames++

	// 5. telemetry
	if l.telemetry != nil {
		l.telemetry.SetTelemetry(fmt.Sprintf("fps: %d", clock.FrameRate(dt)))
	}
	return nil
}

func (l *Loop) fail(err error) {
	l.err = err
	l.log.Errorf("%v", err)
	l.Stop()
	if l.onFatal != nil {
		l.onFatal(err)
	}
}
