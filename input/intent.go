package input

import "github.com/go-gl/mathgl/mgl32"

// HeldKeys is the instantaneous state of the six movement keys.
type HeldKeys struct {
	Forward, Back bool
	Left, Right   bool
	Up, Down      bool
}

// MovementIntent maps held movement keys to a (strafe, vertical, forward)
// direction. Each axis is +1 or -1 when exactly one of its two keys is held
// and 0 when neither or both are held. The result is normalized, so it is
// either the zero vector or unit length.
func MovementIntent(h HeldKeys) mgl32.Vec3 {
	v := mgl32.Vec3{
		axis(h.Right, h.Left),
		axis(h.Up, h.Down),
		axis(h.Forward, h.Back),
	}
	if v == (mgl32.Vec3{}) {
		return v
	}
	return v.Normalize()
}

func axis(positive, negative bool) float32 {
	if positive == negative {
		return 0
	}
	if positive {
		return 1
	}
	return -1
}

// MovementKeys binds the six movement directions to keys.
type MovementKeys struct {
	Forward, Back Key
	Left, Right   Key
	Up, Down      Key
}

// DefaultMovementKeys is WASD plus Space and Shift for vertical flight.
var DefaultMovementKeys = MovementKeys{
	Forward: KeyW,
	Back:    KeyS,
	Left:    KeyA,
	Right:   KeyD,
	Up:      KeySpace,
	Down:    KeyLeftShift,
}

func (m MovementKeys) has(k Key) bool {
	return k == m.Forward || k == m.Back || k == m.Left || k == m.Right || k == m.Up || k == m.Down
}

// held derives the movement state from the full set of pressed keys.
func (m MovementKeys) held(pressed map[Key]bool) HeldKeys {
	return HeldKeys{
		Forward: pressed[m.Forward],
		Back:    pressed[m.Back],
		Left:    pressed[m.Left],
		Right:   pressed[m.Right],
		Up:      pressed[m.Up],
		Down:    pressed[m.Down],
	}
}
