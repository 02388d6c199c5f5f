package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const polarEpsilon = 1e-4

// Orbit rotates the camera around a target point using spherical coordinates.
// Pointer drags and scroll steps are accumulated between frames and applied in
// Update, so any number of input events collapse into one pose change.
type Orbit struct {
	target mgl32.Vec3

	radius  float32
	azimuth float32 // around world Y, zero looking down -Z
	polar   float32 // from world +Y

	minRadius   float32
	maxRadius   float32
	rotateSpeed float32
	zoomSpeed   float32
	panSpeed    float32

	viewportHeight float32

	pendingRotate mgl32.Vec2
	pendingPan    mgl32.Vec2
	pendingDolly  float32
}

var _ ControlMode = (*Orbit)(nil)

type OrbitOption func(*Orbit)

func WithRadiusLimits(min, max float32) OrbitOption {
	return func(o *Orbit) {
		o.minRadius = min
		o.maxRadius = max
	}
}

func WithRotateSpeed(s float32) OrbitOption {
	return func(o *Orbit) { o.rotateSpeed = s }
}

func WithZoomSpeed(s float32) OrbitOption {
	return func(o *Orbit) { o.zoomSpeed = s }
}

func WithPanSpeed(s float32) OrbitOption {
	return func(o *Orbit) { o.panSpeed = s }
}

// NewOrbit derives the spherical coordinates from the camera's current
// position relative to target and aims the camera at the target.
func NewOrbit(cam *Camera, target mgl32.Vec3, viewportHeight int, options ...OrbitOption) *Orbit {
	o := &Orbit{
		target:         target,
		minRadius:      0,
		maxRadius:      float32(math.Inf(1)),
		rotateSpeed:    1,
		zoomSpeed:      1,
		panSpeed:       1,
		viewportHeight: float32(viewportHeight),
	}
	for _, option := range options {
		option(o)
	}

	offset := cam.Position.Sub(target)
	o.radius = offset.Len()
	if o.radius > 0 {
		o.azimuth = float32(math.Atan2(float64(offset[0]), float64(offset[2])))
		o.polar = float32(math.Acos(float64(mgl32.Clamp(offset[1]/o.radius, -1, 1))))
	} else {
		o.polar = math.Pi / 2
	}
	o.clamp()
	o.apply(cam)
	return o
}

func (o *Orbit) Mode() Mode { return ModeOrbit }

func (o *Orbit) Target() mgl32.Vec3 { return o.target }
func (o *Orbit) Radius() float32    { return o.radius }

// SetViewportHeight sets the pixel height used to convert drag distances to angles.
func (o *Orbit) SetViewportHeight(h int) {
	if h > 0 {
		o.viewportHeight = float32(h)
	}
}

// Rotate queues a drag of dx, dy pixels. A drag across the full viewport
// height turns the camera by one full revolution.
func (o *Orbit) Rotate(dx, dy float32) {
	o.pendingRotate = o.pendingRotate.Add(mgl32.Vec2{dx, dy})
}

// Pan queues a drag of dx, dy pixels that moves the target in the view plane.
func (o *Orbit) Pan(dx, dy float32) {
	o.pendingPan = o.pendingPan.Add(mgl32.Vec2{dx, dy})
}

// Dolly queues scroll steps. Positive steps move the camera towards the target.
func (o *Orbit) Dolly(steps float32) {
	o.pendingDolly += steps
}

func (o *Orbit) Update(cam *Camera, dt float64) {
	h := o.viewportHeight
	if h <= 0 {
		h = 1
	}

	if o.pendingRotate != (mgl32.Vec2{}) {
		o.azimuth -= 2 * math.Pi * o.pendingRotate[0] / h * o.rotateSpeed
		o.polar -= 2 * math.Pi * o.pendingRotate[1] / h * o.rotateSpeed
		o.pendingRotate = mgl32.Vec2{}
	}

	if o.pendingDolly != 0 {
		o.radius *= float32(math.Pow(0.95, float64(o.pendingDolly*o.zoomSpeed)))
		o.pendingDolly = 0
	}

	if o.pendingPan != (mgl32.Vec2{}) {
		// world units per pixel at the target distance
		k := 2 * o.radius * float32(math.Tan(float64(mgl32.DegToRad(cam.FOV)/2))) / h * o.panSpeed
		offset := cam.Right().Mul(-o.pendingPan[0] * k).Add(cam.Up().Mul(o.pendingPan[1] * k))
		o.target = o.target.Add(offset)
		o.pendingPan = mgl32.Vec2{}
	}

	o.clamp()
	o.apply(cam)
}

func (o *Orbit) clamp() {
	o.polar = mgl32.Clamp(o.polar, polarEpsilon, math.Pi-polarEpsilon)
	o.radius = mgl32.Clamp(o.radius, o.minRadius, o.maxRadius)
}

func (o *Orbit) apply(cam *Camera) {
	sinP := float32(math.Sin(float64(o.polar)))
	cosP := float32(math.Cos(float64(o.polar)))
	sinA := float32(math.Sin(float64(o.azimuth)))
	cosA := float32(math.Cos(float64(o.azimuth)))

	cam.Position = o.target.Add(mgl32.Vec3{
		o.radius * sinP * sinA,
		o.radius * cosP,
		o.radius * sinP * cosA,
	})
	cam.SetYawPitch(o.azimuth, o.polar-math.Pi/2)
}
