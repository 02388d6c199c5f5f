package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera looking down its local -Z axis.
type Camera struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat

	FOV    float32 // vertical, in degrees
	Aspect float32
	Near   float32
	Far    float32
}

// New creates a camera at the origin looking down -Z.
func New(fov, aspect, near, far float32) *Camera {
	return &Camera{
		Orientation: mgl32.QuatIdent(),
		FOV:         fov,
		Aspect:      aspect,
		Near:        near,
		Far:         far,
	}
}

// SetAspect updates the aspect ratio after a viewport resize. Non-positive
// ratios are ignored.
func (c *Camera) SetAspect(aspect float32) {
	if aspect > 0 && !math.IsInf(float64(aspect), 0) {
		c.Aspect = aspect
	}
}

// SetYawPitch orients the camera by a rotation of yaw radians around world Y
// followed by pitch radians around the local X axis. Roll is always zero.
func (c *Camera) SetYawPitch(yaw, pitch float32) {
	q := mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0}).Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0}))
	c.Orientation = q.Normalize()
}

// YawPitch recovers the yaw and pitch angles from the current view direction.
func (c *Camera) YawPitch() (yaw, pitch float32) {
	f := c.Forward()
	yaw = float32(math.Atan2(float64(-f[0]), float64(-f[2])))
	pitch = float32(math.Asin(float64(mgl32.Clamp(f[1], -1, 1))))
	return yaw, pitch
}

// Forward is the unit view direction in world space.
func (c *Camera) Forward() mgl32.Vec3 {
	return c.Orientation.Rotate(mgl32.Vec3{0, 0, -1})
}

func (c *Camera) Right() mgl32.Vec3 {
	return c.Orientation.Rotate(mgl32.Vec3{1, 0, 0})
}

func (c *Camera) Up() mgl32.Vec3 {
	return c.Orientation.Rotate(mgl32.Vec3{0, 1, 0})
}

// WorldMatrix is the camera-to-world transform.
func (c *Camera) WorldMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(c.Position[0], c.Position[1], c.Position[2]).Mul4(c.Orientation.Mat4())
}

// ViewMatrix is the world-to-camera transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	p := c.Position
	return c.Orientation.Conjugate().Mat4().Mul4(mgl32.Translate3D(-p[0], -p[1], -p[2]))
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

func (c *Camera) ProjectionInverse() mgl32.Mat4 {
	return c.ProjectionMatrix().Inv()
}
