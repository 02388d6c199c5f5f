package graphics

import "strings"

// Overlay composes the status line shown in the window title:
// "<title> | <telemetry> | <prompt>", leaving out empty or hidden parts.
type Overlay struct {
	title     string
	telemetry string
	prompt    string
	visible   bool
}

func NewOverlay(title, prompt string) *Overlay {
	return &Overlay{title: title, prompt: prompt}
}

// SetTelemetry reports whether the text changed.
func (o *Overlay) SetTelemetry(text string) bool {
	if o.telemetry == text {
		return false
	}
	o.telemetry = text
	return true
}

// ShowPrompt reports whether visibility changed. A blank prompt is never shown.
func (o *Overlay) ShowPrompt(visible bool) bool {
	if o.visible == visible {
		return false
	}
	o.visible = visible
	return o.prompt != ""
}

func (o *Overlay) Text() string {
	parts := []string{o.title}
	if o.telemetry != "" {
		parts = append(parts, o.telemetry)
	}
	if o.visible && o.prompt != "" {
		parts = append(parts, o.prompt)
	}
	return strings.Join(parts, " | ")
}
