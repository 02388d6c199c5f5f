package input

// Capturer grabs or releases the pointer on the host window.
type Capturer interface {
	SetPointerCaptured(captured bool)
}

// PointerLock tracks exclusive pointer capture. It has two states, unlocked
// and locked; every transition captures or releases the pointer and notifies
// subscribers in registration order.
type PointerLock struct {
	capturer    Capturer
	locked      bool
	subscribers []func(locked bool)
}

func NewPointerLock(capturer Capturer) *PointerLock {
	return &PointerLock{capturer: capturer}
}

func (p *PointerLock) Locked() bool { return p.locked }

// Subscribe registers fn to be called on every lock or unlock.
func (p *PointerLock) Subscribe(fn func(locked bool)) {
	p.subscribers = append(p.subscribers, fn)
}

// Lock moves to the locked state. It reports false if already locked.
func (p *PointerLock) Lock() bool {
	return p.set(true)
}

// Unlock moves to the unlocked state. It reports false if already unlocked.
func (p *PointerLock) Unlock() bool {
	return p.set(false)
}

func (p *PointerLock) set(locked bool) bool {
	if p.locked == locked {
		return false
	}
	p.locked = locked
	if p.capturer != nil {
		p.capturer.SetPointerCaptured(locked)
	}
	for _, fn := range p.subscribers {
		fn(locked)
	}
	return true
}
