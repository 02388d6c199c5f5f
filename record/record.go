// Package record drives the frame loop offscreen at a fixed frame rate and
// hands every rendered frame to an encoder.
package record

import (
	"errors"
	"fmt"
	"math"

	"github.com/Wiktwn/mandelbulb-raymarching/clock"
	"github.com/Wiktwn/mandelbulb-raymarching/encoder"
	"github.com/Wiktwn/mandelbulb-raymarching/logging"
)

type Stepper interface {
	Step() error
}

// Grabber reads back the frame just rendered.
type Grabber interface {
	ReadPixels() (pixels []byte, width, height int, err error)
}

type Sink interface {
	SendVideo(frame *encoder.Frame) error
}

type Settings struct {
	Duration float64 // seconds
	FPS      int
}

// FrameCount is the number of frames needed to cover the duration.
func (s Settings) FrameCount() int {
	if s.FPS <= 0 || s.Duration <= 0 {
		return 0
	}
	return int(math.Round(s.Duration * float64(s.FPS)))
}

// Run renders FrameCount frames. Frame i is rendered at animated time
// i/FPS; the manual clock src must be the one the loop's clock samples.
// It returns the number of frames sent.
func Run(loop Stepper, src *clock.Manual, grab Grabber, sink Sink, s Settings, log logging.Logger) (int, error) {
	log = logging.OrNop(log)
	total := s.FrameCount()
	if total == 0 {
		return 0, errors.New("nothing to record")
	}
	step := 1.0 / float64(s.FPS)

	for i := 0; i < total; i++ {
		if i > 0 {
			src.Advance(step)
		}
		if err := loop.Step(); err != nil {
			return i, fmt.Errorf("frame %d: %w", i, err)
		}
		pixels, _, _, err := grab.ReadPixels()
		if err != nil {
			return i, fmt.Errorf("frame %d: %w", i, err)
		}
		if err := sink.SendVideo(&encoder.Frame{Pixels: pixels, PTS: int64(i)}); err != nil {
			return i, fmt.Errorf("frame %d: %w", i, err)
		}
		if (i+1)%s.FPS == 0 {
			log.Infof("recorded %d/%d frames", i+1, total)
		}
	}
	return total, nil
}
