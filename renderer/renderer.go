package renderer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Wiktwn/mandelbulb-raymarching/camera"
	"github.com/Wiktwn/mandelbulb-raymarching/frame"
	"github.com/Wiktwn/mandelbulb-raymarching/graphics"
	"github.com/Wiktwn/mandelbulb-raymarching/logging"
	"github.com/Wiktwn/mandelbulb-raymarching/scene"
	"github.com/Wiktwn/mandelbulb-raymarching/shader"
	"github.com/Wiktwn/mandelbulb-raymarching/translator"
	"github.com/Wiktwn/mandelbulb-raymarching/uniforms"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrGL = errors.New("opengl error")

var glInitOnce sync.Once

// Renderer draws the raymarch plane with the user's shader program into the
// surface's default framebuffer.
type Renderer struct {
	surface graphics.Surface
	log     logging.Logger

	program uint32
	vao     uint32
	vbo     uint32
	slots   map[string]uniformSlot
}

var _ frame.Renderer = (*Renderer)(nil)

type Option func(*Renderer)

func WithLogger(log logging.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// New translates and links the shader pair and uploads the plane geometry.
// The surface's context is made current on the calling thread, which must
// stay the render thread from then on.
func New(ctx context.Context, surface graphics.Surface, src shader.Source, options ...Option) (*Renderer, error) {
	r := &Renderer{surface: surface}
	for _, option := range options {
		option(r)
	}
	r.log = logging.OrNop(r.log)

	surface.MakeCurrent()
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	r.log.Debugf("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	vertex, fragment := src.Compose()
	translated, err := translator.Translate(ctx, vertex, fragment)
	if err != nil {
		return nil, err
	}
	r.program, err = newProgram(translated.Vertex, translated.Fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.slots = activeUniforms(r.program, translated.Uniforms)
	r.log.Debugf("shader program %d: %d active uniforms", r.program, len(r.slots))

	r.initPlane()
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	return r, nil
}

func (r *Renderer) initPlane() {
	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(scene.PlaneVertices)*4, gl.Ptr(scene.PlaneVertices), gl.STATIC_DRAW)

	stride := int32(scene.PlaneVertexStride * 4)
	gl.EnableVertexAttribArray(shader.PositionLocation)
	gl.VertexAttribPointer(shader.PositionLocation, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(shader.UVLocation)
	gl.VertexAttribPointer(shader.UVLocation, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Unbound lists shader uniforms that neither the table nor the renderer
// supplies. They keep their GLSL default of zero.
func (r *Renderer) Unbound(table *uniforms.Table) []string {
	var names []string
	for name := range r.slots {
		if table.Has(name) || isBuiltin(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isBuiltin(name string) bool {
	switch name {
	case shader.ModelMatrix, shader.ModelViewMatrix, shader.ProjectionMatrix, shader.ViewMatrix, shader.CameraPosition:
		return true
	}
	return false
}

// Render draws one frame. It does not swap buffers.
func (r *Renderer) Render(plane *scene.RaymarchPlane, cam *camera.Camera, table *uniforms.Table) error {
	width, height := r.surface.FramebufferSize()
	gl.Viewport(0, 0, int32(width), int32(height))
	if c, ok := table.Vec3(uniforms.ClearColor); ok {
		gl.ClearColor(c[0], c[1], c[2], 1)
	}
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)

	model := plane.ModelMatrix()
	view := cam.ViewMatrix()
	builtins := []uniforms.Entry{
		{Name: shader.ModelMatrix, Value: model},
		{Name: shader.ModelViewMatrix, Value: view.Mul4(model)},
		{Name: shader.ProjectionMatrix, Value: cam.ProjectionMatrix()},
		{Name: shader.ViewMatrix, Value: view},
		{Name: shader.CameraPosition, Value: cam.Position},
	}
	for _, e := range builtins {
		if err := r.upload(e.Name, e.Value); err != nil {
			return err
		}
	}
	var uploadErr error
	table.Each(func(name string, v any) {
		if uploadErr == nil {
			uploadErr = r.upload(name, v)
		}
	})
	if uploadErr != nil {
		return uploadErr
	}

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, scene.PlaneVertexCount)
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%w: 0x%04x", ErrGL, code)
	}
	return nil
}

func (r *Renderer) upload(name string, v any) error {
	slot, ok := r.slots[name]
	if !ok || slot.location < 0 {
		// optimized out by the compiler
		return nil
	}
	value, err := uniforms.Coerce(v, slot.kind)
	if err != nil {
		return fmt.Errorf("uniform %s: %w", name, err)
	}
	switch x := value.(type) {
	case float32:
		gl.Uniform1f(slot.location, x)
	case int32:
		gl.Uniform1i(slot.location, x)
	case mgl32.Vec3:
		gl.Uniform3fv(slot.location, 1, &x[0])
	case mgl32.Mat4:
		gl.UniformMatrix4fv(slot.location, 1, false, &x[0])
	}
	return nil
}

// ReadPixels returns the current framebuffer as tightly packed RGBA rows,
// bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int, error) {
	width, height := r.surface.FramebufferSize()
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return nil, width, height, fmt.Errorf("empty framebuffer %dx%d", width, height)
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	if code := gl.GetError(); code != gl.NO_ERROR {
		return nil, width, height, fmt.Errorf("%w: read pixels: 0x%04x", ErrGL, code)
	}
	return pixels, width, height, nil
}

func (r *Renderer) Shutdown() {
	gl.DeleteProgram(r.program)
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteVertexArrays(1, &r.vao)
}
