package input

import (
	"github.com/Wiktwn/mandelbulb-raymarching/camera"
	"github.com/Wiktwn/mandelbulb-raymarching/frame"
	"github.com/Wiktwn/mandelbulb-raymarching/logging"
	"github.com/Wiktwn/mandelbulb-raymarching/uniforms"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinThreshold = 1e-8
	MaxThreshold = 1e-1
	MinSteps     = 1
	MaxSteps     = 2000

	thresholdFactor = 10
	stepsIncrement  = 10

	DefaultScrubStep = 1.0
)

// LoopControl is the part of the frame loop the keyboard can drive.
type LoopControl interface {
	Start() error
	Stop()
}

// Prompter shows or hides the "click to look around" hint.
type Prompter interface {
	ShowPrompt(visible bool)
}

// Router turns window events into camera, clock, uniform and loop changes.
// All methods must be called from the render thread.
type Router struct {
	state    *frame.State
	bindings Bindings
	movement MovementKeys
	lock     *PointerLock
	loop     LoopControl
	prompt   Prompter
	log      logging.Logger

	scrubStep float64

	tracking bool
	pressed  map[Key]bool
	buttons  map[MouseButton]bool

	havePointer bool
	lastX       float64
	lastY       float64
}

var _ Handler = (*Router)(nil)

type RouterOption func(*Router)

// WithPointerLock enables click-to-lock first-person control.
func WithPointerLock(lock *PointerLock) RouterOption {
	return func(r *Router) { r.lock = lock }
}

func WithLoopControl(loop LoopControl) RouterOption {
	return func(r *Router) { r.loop = loop }
}

func WithPrompt(p Prompter) RouterOption {
	return func(r *Router) { r.prompt = p }
}

func WithMovementKeys(keys MovementKeys) RouterOption {
	return func(r *Router) { r.movement = keys }
}

func WithScrubStep(seconds float64) RouterOption {
	return func(r *Router) { r.scrubStep = seconds }
}

func WithLogger(log logging.Logger) RouterOption {
	return func(r *Router) { r.log = log }
}

func NewRouter(state *frame.State, bindings Bindings, options ...RouterOption) *Router {
	r := &Router{
		state:     state,
		bindings:  bindings,
		movement:  DefaultMovementKeys,
		scrubStep: DefaultScrubStep,
		pressed:   make(map[Key]bool),
		buttons:   make(map[MouseButton]bool),
	}
	for _, option := range options {
		option(r)
	}
	r.log = logging.OrNop(r.log)

	if r.lock != nil {
		r.lock.Subscribe(r.onLock)
		if r.prompt != nil {
			r.prompt.ShowPrompt(!r.lock.Locked())
		}
	}
	return r
}

// Tracking reports whether movement keys currently steer the camera.
func (r *Router) Tracking() bool { return r.tracking }

func (r *Router) HandleKey(key Key, action Action) {
	if action == Release {
		if r.pressed[key] {
			delete(r.pressed, key)
			r.refreshIntent()
		}
		return
	}

	if r.tracking && r.movement.has(key) && !r.pressed[key] {
		r.pressed[key] = true
		r.refreshIntent()
	}

	// key repeat fires the command again
	if cmd, ok := r.bindings[key]; ok {
		r.Execute(cmd)
	}
}

// Execute runs a discrete command against the shared state.
func (r *Router) Execute(cmd Command) {
	s := r.state
	switch cmd {
	case CmdStopLoop:
		if r.loop != nil {
			r.loop.Stop()
		}
	case CmdStartLoop:
		if r.loop != nil {
			if err := r.loop.Start(); err != nil {
				r.log.Warnf("cannot start frame loop: %v", err)
			}
		}
	case CmdTogglePause:
		if s.Clock.TogglePause() {
			r.log.Debugf("paused: %v", s.Clock.Paused())
		}
	case CmdScrubForward:
		r.scrub(r.scrubStep)
	case CmdScrubBack:
		r.scrub(-r.scrubStep)
	case CmdThresholdUp:
		r.scaleThreshold(thresholdFactor)
	case CmdThresholdDown:
		r.scaleThreshold(1.0 / thresholdFactor)
	case CmdStepsUp:
		r.addSteps(stepsIncrement)
	case CmdStepsDown:
		r.addSteps(-stepsIncrement)
	case CmdReleaseLock:
		if r.lock != nil {
			r.lock.Unlock()
		}
	}
}

func (r *Router) scrub(d float64) {
	s := r.state
	s.Clock.Scrub(d)
	// visible on the next frame even while paused
	if err := s.Uniforms.Set(uniforms.Time, float32(s.Clock.Elapsed())); err != nil {
		r.log.Warnf("scrub: %v", err)
	}
}

func (r *Router) scaleThreshold(factor float32) {
	t := r.state.Uniforms
	v, ok := t.Float(uniforms.Threshold)
	if !ok {
		return
	}
	v = mgl32.Clamp(v*factor, MinThreshold, MaxThreshold)
	if err := t.Set(uniforms.Threshold, v); err != nil {
		r.log.Warnf("threshold: %v", err)
		return
	}
	r.log.Debugf("%s = %g", uniforms.Threshold, v)
}

func (r *Router) addSteps(delta int32) {
	t := r.state.Uniforms
	n, ok := t.Int(uniforms.MaxSteps)
	if !ok {
		return
	}
	n = min(max(n+delta, MinSteps), MaxSteps)
	if err := t.Set(uniforms.MaxSteps, n); err != nil {
		r.log.Warnf("steps: %v", err)
		return
	}
	r.log.Debugf("%s = %d", uniforms.MaxSteps, n)
}

func (r *Router) refreshIntent() {
	fp, ok := r.state.Rig.Controls.(*camera.FirstPerson)
	if !ok {
		return
	}
	fp.SetIntent(MovementIntent(r.movement.held(r.pressed)))
}

func (r *Router) HandlePointer(x, y float64) {
	dx, dy := float32(x-r.lastX), float32(y-r.lastY)
	if !r.havePointer {
		dx, dy = 0, 0
	}
	r.lastX, r.lastY, r.havePointer = x, y, true
	if dx == 0 && dy == 0 {
		return
	}

	switch c := r.state.Rig.Controls.(type) {
	case *camera.Orbit:
		if r.buttons[MouseButtonLeft] {
			c.Rotate(dx, dy)
		}
		if r.buttons[MouseButtonRight] {
			c.Pan(dx, dy)
		}
	case *camera.FirstPerson:
		if r.tracking {
			c.AddLook(dx, dy)
		}
	}
}

func (r *Router) HandleButton(button MouseButton, action Action) {
	r.buttons[button] = action != Release
	if button == MouseButtonLeft && action == Press && r.lock != nil {
		r.lock.Lock()
	}
}

func (r *Router) HandleScroll(dy float64) {
	if orbit, ok := r.state.Rig.Controls.(*camera.Orbit); ok {
		orbit.Dolly(float32(dy))
	}
}

// HandleFocus releases the pointer lock when the window loses focus.
func (r *Router) HandleFocus(focused bool) {
	if !focused {
		if r.lock != nil {
			r.lock.Unlock()
		}
		clear(r.buttons)
	}
}

func (r *Router) HandleResize(width, height int) {
	r.state.Resize(width, height)
}

func (r *Router) onLock(locked bool) {
	r.tracking = locked
	clear(r.pressed)
	// the captured cursor jumps, do not turn that into a look delta
	r.havePointer = false

	if fp, ok := r.state.Rig.Controls.(*camera.FirstPerson); ok {
		fp.SetLocked(locked)
	}
	if r.prompt != nil {
		r.prompt.ShowPrompt(!locked)
	}
	r.log.Debugf("pointer locked: %v", locked)
}
