// Package audio captures the default input device and reduces it to a couple
// of loudness uniforms the fractal shader can react to.
package audio

import (
	"fmt"

	"github.com/Wiktwn/mandelbulb-raymarching/logging"
	"github.com/gordonklaus/portaudio"
)

const (
	DefaultSampleRate = 44100
	sampleQueueDepth  = 16
)

// Microphone streams mono buffers from the default input device. Buffers the
// consumer has not picked up in time are dropped, never queued without bound.
type Microphone struct {
	sampleRate int
	stream     *portaudio.Stream
	samples    chan []float32
	running    bool
	log        logging.Logger
}

// NewMicrophone initializes portaudio; Stop releases it again.
func NewMicrophone(sampleRate int, log logging.Logger) (*Microphone, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	return &Microphone{sampleRate: sampleRate, log: logging.OrNop(log)}, nil
}

// capture runs on the portaudio thread with a buffer it will overwrite.
func (m *Microphone) capture(in []float32) {
	buf := append([]float32(nil), in...)
	select {
	case m.samples <- buf:
	default:
		m.log.Debugf("analyzer behind, dropped %d samples", len(buf))
	}
}

// Start opens the input stream. The returned channel is closed by Stop.
func (m *Microphone) Start() (<-chan []float32, error) {
	m.samples = make(chan []float32, sampleQueueDepth)
	stream, err := m.open()
	if err != nil {
		close(m.samples)
		return nil, err
	}
	m.stream = stream
	m.running = true
	return m.samples, nil
}

func (m *Microphone) open() (*portaudio.Stream, error) {
	host, err := portaudio.DefaultHostApi()
	if err != nil {
		return nil, fmt.Errorf("portaudio host: %w", err)
	}
	device := host.DefaultInputDevice
	if device == nil {
		return nil, fmt.Errorf("no default input device on %s", host.Name)
	}

	params := portaudio.HighLatencyParameters(device, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(m.sampleRate)

	stream, err := portaudio.OpenStream(params, m.capture)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device.Name, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("start %s: %w", device.Name, err)
	}
	m.log.Infof("capturing %s at %d Hz", device.Name, m.sampleRate)
	return stream, nil
}

// Stop closes the stream, then the sample channel, and terminates portaudio.
// It is also the cleanup for a microphone whose Start failed.
func (m *Microphone) Stop() error {
	if m.running {
		m.running = false
		if err := m.stream.Close(); err != nil {
			portaudio.Terminate()
			return err
		}
		close(m.samples)
	}
	return portaudio.Terminate()
}

func (m *Microphone) SampleRate() int { return m.sampleRate }
