package input

// Key identifies a keyboard key independently of the windowing library.
type Key int

const (
	KeyUnknown Key = iota
	KeyA
	KeyD
	KeyP
	KeyS
	KeyW
	KeySpace
	KeyLeftShift
	KeyEnter
	KeyBackspace
	KeyEscape
	KeyEqual
	KeyMinus
	KeyLeftBracket
	KeyRightBracket
	KeyComma
	KeyPeriod
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

type Action int

const (
	Release Action = iota
	Press
	Repeat
)

type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Handler receives window events already translated to this package's types.
type Handler interface {
	HandleKey(key Key, action Action)
	HandlePointer(x, y float64)
	HandleButton(button MouseButton, action Action)
	HandleScroll(dy float64)
	HandleFocus(focused bool)
	HandleResize(width, height int)
}
