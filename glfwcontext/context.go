package glfwcontext

import (
	"runtime"

	"github.com/Wiktwn/mandelbulb-raymarching/graphics"
	"github.com/Wiktwn/mandelbulb-raymarching/input"
	"github.com/Wiktwn/mandelbulb-raymarching/logging"
	glfw "github.com/go-gl/glfw/v3.3/glfw"
)

// idleWait bounds how long Run sleeps in the event queue while no frame
// callback is registered.
const idleWait = 0.1

type Config struct {
	Width, Height int
	Title         string
	Prompt        string
	Visible       bool
}

// Context owns the GLFW window. It is the frame host for the render loop, the
// event source for the input router and the place telemetry is shown.
type Context struct {
	window   *glfw.Window
	overlay  *graphics.Overlay
	handler  input.Handler
	frame    func()
	captured bool
}

var _ graphics.Surface = (*Context)(nil)

// New creates the window with a 4.1 core context. Must be called from the main thread.
func New(cfg Config) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if cfg.Visible {
		glfw.WindowHint(glfw.Visible, glfw.True)
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:  win,
		overlay: graphics.NewOverlay(cfg.Title, cfg.Prompt),
	}
	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)
	win.SetMouseButtonCallback(c.glfwMouseButtonCallback)
	win.SetScrollCallback(c.glfwScrollCallback)
	win.SetFocusCallback(c.glfwFocusCallback)
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)
	return c, nil
}

// SetHandler routes window events to h. Passing nil drops them.
func (c *Context) SetHandler(h input.Handler) {
	c.handler = h
}

// SetFrameCallback implements the frame host. While fn is set Run calls it
// once per swap interval; with nil Run only waits for events.
func (c *Context) SetFrameCallback(fn func()) {
	c.frame = fn
}

// Run processes the window until it is asked to close.
func (c *Context) Run() {
	glfw.SwapInterval(1)
	for !c.window.ShouldClose() {
		if c.frame == nil {
			glfw.WaitEventsTimeout(idleWait)
			continue
		}
		c.frame()
		c.window.SwapBuffers()
		glfw.PollEvents()
	}
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	// Escape closes the window unless it is releasing a captured pointer.
	if key == glfw.KeyEscape && action == glfw.Press && !c.captured {
		w.SetShouldClose(true)
	}
	if c.handler == nil {
		return
	}
	k, ok := glfwToKey[key]
	if !ok {
		return
	}
	c.handler.HandleKey(k, toAction(action))
}

func (c *Context) glfwCursorPosCallback(_ *glfw.Window, x, y float64) {
	if c.handler != nil {
		c.handler.HandlePointer(x, y)
	}
}

func (c *Context) glfwMouseButtonCallback(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if c.handler == nil {
		return
	}
	var b input.MouseButton
	switch button {
	case glfw.MouseButtonLeft:
		b = input.MouseButtonLeft
	case glfw.MouseButtonRight:
		b = input.MouseButtonRight
	case glfw.MouseButtonMiddle:
		b = input.MouseButtonMiddle
	default:
		return
	}
	c.handler.HandleButton(b, toAction(action))
}

func (c *Context) glfwScrollCallback(_ *glfw.Window, xoff, yoff float64) {
	if c.handler != nil {
		c.handler.HandleScroll(yoff)
	}
}

func (c *Context) glfwFocusCallback(_ *glfw.Window, focused bool) {
	if c.handler != nil {
		c.handler.HandleFocus(focused)
	}
}

func (c *Context) glfwFramebufferSizeCallback(_ *glfw.Window, width, height int) {
	if c.handler != nil {
		c.handler.HandleResize(width, height)
	}
}

func toAction(a glfw.Action) input.Action {
	switch a {
	case glfw.Press:
		return input.Press
	case glfw.Repeat:
		return input.Repeat
	}
	return input.Release
}

var glfwToKey = map[glfw.Key]input.Key{
	glfw.KeyA:            input.KeyA,
	glfw.KeyD:            input.KeyD,
	glfw.KeyP:            input.KeyP,
	glfw.KeyS:            input.KeyS,
	glfw.KeyW:            input.KeyW,
	glfw.KeySpace:        input.KeySpace,
	glfw.KeyLeftShift:    input.KeyLeftShift,
	glfw.KeyEnter:        input.KeyEnter,
	glfw.KeyKPEnter:      input.KeyEnter,
	glfw.KeyBackspace:    input.KeyBackspace,
	glfw.KeyEscape:       input.KeyEscape,
	glfw.KeyEqual:        input.KeyEqual,
	glfw.KeyKPAdd:        input.KeyEqual,
	glfw.KeyMinus:        input.KeyMinus,
	glfw.KeyKPSubtract:   input.KeyMinus,
	glfw.KeyLeftBracket:  input.KeyLeftBracket,
	glfw.KeyRightBracket: input.KeyRightBracket,
	glfw.KeyComma:        input.KeyComma,
	glfw.KeyPeriod:       input.KeyPeriod,
	glfw.KeyUp:           input.KeyUp,
	glfw.KeyDown:         input.KeyDown,
	glfw.KeyLeft:         input.KeyLeft,
	glfw.KeyRight:        input.KeyRight,
}

// SetPointerCaptured hides the cursor and switches to unbounded relative
// motion while captured.
func (c *Context) SetPointerCaptured(captured bool) {
	c.captured = captured
	if captured {
		c.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			c.window.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
		return
	}
	if glfw.RawMouseMotionSupported() {
		c.window.SetInputMode(glfw.RawMouseMotion, glfw.False)
	}
	c.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
}

func (c *Context) SetTelemetry(text string) {
	if c.overlay.SetTelemetry(text) {
		c.window.SetTitle(c.overlay.Text())
	}
}

func (c *Context) ShowPrompt(visible bool) {
	if c.overlay.ShowPrompt(visible) {
		c.window.SetTitle(c.overlay.Text())
	}
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) Close() {
	c.window.SetShouldClose(true)
}

func (c *Context) SwapBuffers() {
	c.window.SwapBuffers()
}

func (c *Context) FramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics(log logging.Logger) error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	logging.OrNop(log).Debugf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down GLFW. Must be called from the main thread.
func TerminateGraphics(log logging.Logger) {
	glfw.Terminate()
	logging.OrNop(log).Debugf("GLFW Terminated")
}
