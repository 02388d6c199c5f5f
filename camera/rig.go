package camera

// Mode names a camera control strategy.
type Mode int

const (
	ModeOrbit Mode = iota
	ModeFirstPerson
)

func (m Mode) String() string {
	switch m {
	case ModeOrbit:
		return "orbit"
	case ModeFirstPerson:
		return "first-person"
	default:
		return "unknown"
	}
}

// ControlMode produces the next camera pose from the input accumulated since
// the previous frame and the frame delta in seconds.
type ControlMode interface {
	Mode() Mode
	Update(cam *Camera, dt float64)
}

// Rig pairs a camera with its active control strategy.
type Rig struct {
	Camera   *Camera
	Controls ControlMode
}

func NewRig(cam *Camera, controls ControlMode) *Rig {
	return &Rig{Camera: cam, Controls: controls}
}

// Update resolves the camera pose for this frame.
func (r *Rig) Update(dt float64) {
	if r.Controls == nil {
		return
	}
	r.Controls.Update(r.Camera, dt)
}
