package scene

import (
	"math"

	"github.com/Wiktwn/mandelbulb-raymarching/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// RaymarchPlane is a unit quad that is kept on the camera's near plane, facing
// the camera, and scaled to cover the near cross-section of the frustum. The
// fragment shader treats each covered pixel as one ray.
type RaymarchPlane struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Scale       mgl32.Vec3
}

// NewRaymarchPlane sizes the plane for cam and places it in front of it.
func NewRaymarchPlane(cam *camera.Camera) *RaymarchPlane {
	p := &RaymarchPlane{Orientation: mgl32.QuatIdent()}
	p.Fit(cam)
	p.Place(cam)
	return p
}

// NearPlaneSize returns the width and height of the frustum cross-section at
// the near plane.
func NearPlaneSize(cam *camera.Camera) (width, height float32) {
	halfFov := float64(mgl32.DegToRad(cam.FOV)) / 2
	width = cam.Near * float32(math.Tan(halfFov)) * cam.Aspect * 2
	height = width / cam.Aspect
	return width, height
}

// Fit recomputes the scale from the camera's near plane, FOV and aspect. It is
// called at setup and when the viewport is resized, never per frame.
func (p *RaymarchPlane) Fit(cam *camera.Camera) {
	w, h := NearPlaneSize(cam)
	p.Scale = mgl32.Vec3{w, h, 1}
}

// Place locks the plane to the camera: it sits on the near plane along the
// view direction and shares the camera's orientation.
func (p *RaymarchPlane) Place(cam *camera.Camera) {
	p.Position = cam.Position.Add(cam.Forward().Mul(cam.Near))
	p.Orientation = cam.Orientation
}

// ModelMatrix is translation * rotation * scale.
func (p *RaymarchPlane) ModelMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(p.Position[0], p.Position[1], p.Position[2])
	s := mgl32.Scale3D(p.Scale[0], p.Scale[1], p.Scale[2])
	return t.Mul4(p.Orientation.Mat4()).Mul4(s)
}

// Plane geometry: a unit quad in the XY plane facing +Z, drawn as two
// triangles with interleaved position (x, y, z) and texture coordinate (u, v).
const (
	PlaneVertexStride = 5
	PlaneVertexCount  = 6
)

var PlaneVertices = []float32{
	-0.5, -0.5, 0, 0, 0,
	0.5, -0.5, 0, 1, 0,
	0.5, 0.5, 0, 1, 1,

	-0.5, -0.5, 0, 0, 0,
	0.5, 0.5, 0, 1, 1,
	-0.5, 0.5, 0, 0, 1,
}
