// Package demo assembles the two raymarching variants from the shared parts:
// the uniform preset, the camera control mode, the key bindings and the
// clock pause policy.
package demo

import (
	"fmt"
	"strings"

	"github.com/Wiktwn/mandelbulb-raymarching/camera"
	"github.com/Wiktwn/mandelbulb-raymarching/clock"
	"github.com/Wiktwn/mandelbulb-raymarching/frame"
	"github.com/Wiktwn/mandelbulb-raymarching/input"
	"github.com/Wiktwn/mandelbulb-raymarching/logging"
	"github.com/Wiktwn/mandelbulb-raymarching/scene"
	"github.com/Wiktwn/mandelbulb-raymarching/uniforms"
	"github.com/go-gl/mathgl/mgl32"
)

type Kind string

const (
	KindOrbit   Kind = "orbit"
	KindFractal Kind = "fractal"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindOrbit, KindFractal:
		return k, nil
	}
	return "", fmt.Errorf("unknown demo %q (want %q or %q)", s, KindOrbit, KindFractal)
}

// Title is the window title of the demo.
func (k Kind) Title() string {
	if k == KindFractal {
		return "Mandelbulb"
	}
	return "Raymarching"
}

// Prompt is the hint shown while the pointer is free. Only the fractal demo
// locks the pointer.
func (k Kind) Prompt() string {
	if k == KindFractal {
		return LockPrompt
	}
	return ""
}

const (
	FlySpeed         = 1.0
	LookSensitivity  = 0.002
	LockPrompt       = "click to look around"
	orbitStartRadius = 5
	flyStartDistance = 3
)

// Config is the part of the command line a demo depends on.
type Config struct {
	Width, Height  int
	FOV, Near, Far float32
	// Now is the time source in seconds. It must be monotonic.
	Now func() float64
	// Audio declares the microphone uniforms in the table.
	Audio bool
	Log   logging.Logger
}

type Demo struct {
	Kind     Kind
	State    *frame.State
	Bindings input.Bindings
}

func New(kind Kind, cfg Config) (*Demo, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Now == nil {
		return nil, fmt.Errorf("demo %s: no time source", kind)
	}
	if cfg.Near <= 0 || cfg.Far <= cfg.Near {
		return nil, fmt.Errorf("invalid clip range [%g, %g]", cfg.Near, cfg.Far)
	}

	cam := camera.New(cfg.FOV, float32(cfg.Width)/float32(cfg.Height), cfg.Near, cfg.Far)
	sceneCfg := uniforms.DefaultSceneConfig(cfg.Far)
	sceneCfg.Audio = cfg.Audio

	d := &Demo{Kind: kind}
	var (
		controls camera.ControlMode
		table    *uniforms.Table
		pausable bool
	)
	switch kind {
	case KindOrbit:
		cam.Position = mgl32.Vec3{0, 0, orbitStartRadius}
		controls = camera.NewOrbit(cam, mgl32.Vec3{}, cfg.Height)
		table = uniforms.NewOrbitTable(sceneCfg)
		d.Bindings = input.OrbitBindings()
	case KindFractal:
		cam.Position = mgl32.Vec3{0, 0, flyStartDistance}
		controls = camera.NewFirstPerson(cam, FlySpeed, LookSensitivity)
		table = uniforms.NewFractalTable(sceneCfg)
		pausable = true
		d.Bindings = input.FractalBindings()
	default:
		return nil, fmt.Errorf("unknown demo %q", kind)
	}

	d.State = &frame.State{
		Rig:      camera.NewRig(cam, controls),
		Plane:    scene.NewRaymarchPlane(cam),
		Uniforms: table,
		Clock:    clock.New(cfg.Now, pausable),
	}
	logging.OrNop(cfg.Log).Debugf("demo %s: %s camera at %v, %d uniforms",
		kind, controls.Mode(), cam.Position, len(table.Names()))
	return d, nil
}

// Surface is what the router needs from the window: pointer capture and the
// lock prompt.
type Surface interface {
	input.Capturer
	input.Prompter
}

// NewRouter connects the demo state to window input. Only the fractal demo
// uses pointer lock; only the orbit demo binds loop control keys.
func (d *Demo) NewRouter(surface Surface, loop input.LoopControl, log logging.Logger) *input.Router {
	options := []input.RouterOption{
		input.WithLoopControl(loop),
		input.WithLogger(log),
	}
	if d.Kind == KindFractal {
		options = append(options,
			input.WithPointerLock(input.NewPointerLock(surface)),
			input.WithPrompt(surface),
		)
	}
	return input.NewRouter(d.State, d.Bindings, options...)
}
