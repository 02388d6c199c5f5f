package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const maxPitch = math.Pi/2 - 0.01

// FirstPerson flies the camera from a movement intent and relative pointer
// deltas. It only acts while the pointer is locked; an unlocked controller
// leaves the camera untouched.
type FirstPerson struct {
	Speed       float32 // world units per second
	Sensitivity float32 // radians per pixel of pointer motion

	yaw   float32
	pitch float32

	intent mgl32.Vec3
	look   mgl32.Vec2
	locked bool
}

var _ ControlMode = (*FirstPerson)(nil)

// NewFirstPerson starts from the camera's current view direction.
func NewFirstPerson(cam *Camera, speed, sensitivity float32) *FirstPerson {
	yaw, pitch := cam.YawPitch()
	return &FirstPerson{
		Speed:       speed,
		Sensitivity: sensitivity,
		yaw:         yaw,
		pitch:       pitch,
	}
}

func (f *FirstPerson) Mode() Mode { return ModeFirstPerson }

func (f *FirstPerson) Locked() bool       { return f.locked }
func (f *FirstPerson) Intent() mgl32.Vec3 { return f.intent }

// SetLocked records the pointer-lock state. Unlocking drops any pending
// movement and look input.
func (f *FirstPerson) SetLocked(locked bool) {
	f.locked = locked
	if !locked {
		f.intent = mgl32.Vec3{}
		f.look = mgl32.Vec2{}
	}
}

// SetIntent replaces the movement intent (strafe, vertical, forward).
// Ignored while unlocked.
func (f *FirstPerson) SetIntent(v mgl32.Vec3) {
	if !f.locked {
		return
	}
	f.intent = v
}

// AddLook accumulates pointer motion in pixels. Ignored while unlocked.
func (f *FirstPerson) AddLook(dx, dy float32) {
	if !f.locked {
		return
	}
	f.look = f.look.Add(mgl32.Vec2{dx, dy})
}

func (f *FirstPerson) Update(cam *Camera, dt float64) {
	if !f.locked {
		return
	}

	if f.look != (mgl32.Vec2{}) {
		f.yaw -= f.look[0] * f.Sensitivity
		f.pitch = mgl32.Clamp(f.pitch-f.look[1]*f.Sensitivity, -maxPitch, maxPitch)
		f.look = mgl32.Vec2{}
	}
	cam.SetYawPitch(f.yaw, f.pitch)

	if dt <= 0 || f.intent.Len() == 0 {
		return
	}
	local := mgl32.Vec3{f.intent[0], f.intent[1], -f.intent[2]}
	step := cam.Orientation.Rotate(local).Mul(f.Speed * float32(dt))
	cam.Position = cam.Position.Add(step)
}
