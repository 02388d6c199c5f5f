package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestMovementIntent(t *testing.T) {
	tests := []struct {
		name string
		held HeldKeys
		want mgl32.Vec3
	}{
		{"nothing", HeldKeys{}, mgl32.Vec3{}},
		{"forward", HeldKeys{Forward: true}, mgl32.Vec3{0, 0, 1}},
		{"back", HeldKeys{Back: true}, mgl32.Vec3{0, 0, -1}},
		{"left", HeldKeys{Left: true}, mgl32.Vec3{-1, 0, 0}},
		{"right", HeldKeys{Right: true}, mgl32.Vec3{1, 0, 0}},
		{"up", HeldKeys{Up: true}, mgl32.Vec3{0, 1, 0}},
		{"down", HeldKeys{Down: true}, mgl32.Vec3{0, -1, 0}},
		{"forward and back cancel", HeldKeys{Forward: true, Back: true}, mgl32.Vec3{}},
		{"left and right cancel", HeldKeys{Left: true, Right: true}, mgl32.Vec3{}},
		{"up and down cancel", HeldKeys{Up: true, Down: true}, mgl32.Vec3{}},
		{"all held", HeldKeys{true, true, true, true, true, true}, mgl32.Vec3{}},
		{"cancelled pair keeps the other axis", HeldKeys{Forward: true, Back: true, Right: true}, mgl32.Vec3{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MovementIntent(tt.held))
		})
	}
}

func TestMovementIntent_UnitOrZero(t *testing.T) {
	// every combination of the six keys
	for bits := 0; bits < 64; bits++ {
		h := HeldKeys{
			Forward: bits&1 != 0,
			Back:    bits&2 != 0,
			Left:    bits&4 != 0,
			Right:   bits&8 != 0,
			Up:      bits&16 != 0,
			Down:    bits&32 != 0,
		}
		v := MovementIntent(h)
		if v == (mgl32.Vec3{}) {
			continue
		}
		assert.InDelta(t, 1, v.Len(), 1e-6, "combination %06b", bits)
	}
}

func TestMovementIntent_Diagonal(t *testing.T) {
	v := MovementIntent(HeldKeys{Forward: true, Right: true})
	s := float32(1 / 1.4142135)
	assertVec3(t, mgl32.Vec3{s, 0, s}, v, 1e-6)
}

func TestMovementKeys_Held(t *testing.T) {
	pressed := map[Key]bool{KeyW: true, KeySpace: true, KeyP: true}
	assert.Equal(t, HeldKeys{Forward: true, Up: true}, DefaultMovementKeys.held(pressed))
	assert.True(t, DefaultMovementKeys.has(KeyLeftShift))
	assert.False(t, DefaultMovementKeys.has(KeyP))
}

type fakeCapturer struct{ calls []bool }

func (f *fakeCapturer) SetPointerCaptured(captured bool) { f.calls = append(f.calls, captured) }

func TestPointerLock(t *testing.T) {
	c := &fakeCapturer{}
	lock := NewPointerLock(c)
	var seen []bool
	lock.Subscribe(func(locked bool) { seen = append(seen, locked) })

	assert.False(t, lock.Locked())
	assert.False(t, lock.Unlock())
	assert.True(t, lock.Lock())
	assert.False(t, lock.Lock())
	assert.True(t, lock.Locked())
	assert.True(t, lock.Unlock())

	assert.Equal(t, []bool{true, false}, seen)
	assert.Equal(t, []bool{true, false}, c.calls)
}

// assertVec3 compares component-wise with an absolute tolerance.
func assertVec3(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "want %v got %v", want, got)
	}
}
