package input

// Command is a discrete action triggered by a key press.
type Command int

const (
	CmdNone Command = iota
	CmdStopLoop
	CmdStartLoop
	CmdTogglePause
	CmdScrubForward
	CmdScrubBack
	CmdThresholdUp
	CmdThresholdDown
	CmdStepsUp
	CmdStepsDown
	CmdReleaseLock
)

var commandNames = map[Command]string{
	CmdNone:          "none",
	CmdStopLoop:      "stop-loop",
	CmdStartLoop:     "start-loop",
	CmdTogglePause:   "toggle-pause",
	CmdScrubForward:  "scrub-forward",
	CmdScrubBack:     "scrub-back",
	CmdThresholdUp:   "threshold-up",
	CmdThresholdDown: "threshold-down",
	CmdStepsUp:       "steps-up",
	CmdStepsDown:     "steps-down",
	CmdReleaseLock:   "release-lock",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Bindings maps keys to commands.
type Bindings map[Key]Command

// tuning keys shared by both demos
func commonBindings() Bindings {
	return Bindings{
		KeyEqual:        CmdThresholdUp,
		KeyMinus:        CmdThresholdDown,
		KeyRightBracket: CmdStepsUp,
		KeyLeftBracket:  CmdStepsDown,
	}
}

// OrbitBindings adds loop control to the tuning keys.
func OrbitBindings() Bindings {
	b := commonBindings()
	b[KeyBackspace] = CmdStopLoop
	b[KeyEnter] = CmdStartLoop
	return b
}

// FractalBindings adds pause, scrubbing and lock release to the tuning keys.
func FractalBindings() Bindings {
	b := commonBindings()
	b[KeyP] = CmdTogglePause
	b[KeyPeriod] = CmdScrubForward
	b[KeyComma] = CmdScrubBack
	b[KeyEscape] = CmdReleaseLock
	return b
}
