package audio

import (
	"math"
	"sync"

	"github.com/Wiktwn/mandelbulb-raymarching/uniforms"
	fft "github.com/mjibson/go-dsp/fft"
)

const (
	// 2048 samples give 1024 frequency bins; only the lower half is used.
	fftSize           = 2048
	spectrumBins      = 512
	historyBufferSize = fftSize * 4

	minDecibels = -100.0
	maxDecibels = -30.0
	bassCutoff  = 250.0 // Hz

	DefaultSmoothing = 0.8
)

// Levels is one analysis of the most recent audio, both values in [0, 1].
type Levels struct {
	Level float32 // mean over the spectrum
	Bass  float32 // mean below the bass cutoff
}

// Analyzer keeps a rolling history of mono samples and turns it into
// smoothed loudness values for the shader.
type Analyzer struct {
	sampleRate int

	mu            sync.Mutex
	historyBuffer []float32
	bufferPos     int

	window    []float64
	lastFFT   []float64
	smoothing float64
	bassBins  int
}

func NewAnalyzer(sampleRate int) *Analyzer {
	a := &Analyzer{
		sampleRate:    sampleRate,
		historyBuffer: make([]float32, historyBufferSize),
		window:        blackmanWindow(fftSize),
		lastFFT:       make([]float64, spectrumBins),
		smoothing:     DefaultSmoothing,
	}
	for i := range a.lastFFT {
		a.lastFFT[i] = minDecibels
	}
	a.bassBins = int(bassCutoff * fftSize / float64(sampleRate))
	a.bassBins = max(1, min(a.bassBins, spectrumBins-1))
	return a
}

func (a *Analyzer) SampleRate() int { return a.sampleRate }

// Write appends samples to the history.
func (a *Analyzer) Write(samples []float32) {
	a.mu.Lock()
	for _, s := range samples {
		a.historyBuffer[a.bufferPos] = s
		a.bufferPos = (a.bufferPos + 1) % historyBufferSize
	}
	a.mu.Unlock()
}

// Consume writes every buffer received on ch until it is closed.
func (a *Analyzer) Consume(ch <-chan []float32) {
	for samples := range ch {
		a.Write(samples)
	}
}

func (a *Analyzer) recent(n int) []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]float64, n)
	for i := range out {
		index := (a.bufferPos - n + i + historyBufferSize) % historyBufferSize
		out[i] = float64(a.historyBuffer[index])
	}
	return out
}

// Levels runs the FFT over the latest fftSize samples. Each call moves the
// smoothed spectrum toward the current one, so it should be called once per
// frame.
func (a *Analyzer) Levels() Levels {
	samples := a.recent(fftSize)
	for i := range samples {
		samples[i] *= a.window[i]
	}
	spectrum := fft.FFTReal(samples)

	var total, bass float64
	// bin 0 is DC
	for i := 1; i < spectrumBins; i++ {
		re, im := real(spectrum[i]), imag(spectrum[i])
		magnitude := math.Sqrt(re*re+im*im) * (2.0 / fftSize)
		db := 20 * math.Log10(magnitude+1e-9)

		a.lastFFT[i] = a.smoothing*a.lastFFT[i] + (1-a.smoothing)*db
		v := scale(a.lastFFT[i])
		total += v
		if i <= a.bassBins {
			bass += v
		}
	}
	return Levels{
		Level: float32(total / (spectrumBins - 1)),
		Bass:  float32(bass / float64(a.bassBins)),
	}
}

func scale(db float64) float64 {
	switch {
	case db <= minDecibels:
		return 0
	case db >= maxDecibels:
		return 1
	}
	return (db - minDecibels) / (maxDecibels - minDecibels)
}

// Apply stores the current levels in the table. Tables built without the
// audio uniforms are left untouched.
func (a *Analyzer) Apply(table *uniforms.Table) error {
	if !table.Has(uniforms.AudioLevel) {
		return nil
	}
	l := a.Levels()
	if err := table.Set(uniforms.AudioLevel, l.Level); err != nil {
		return err
	}
	return table.Set(uniforms.AudioBass, l.Bass)
}

func blackmanWindow(size int) []float64 {
	window := make([]float64, size)
	const a0, a1, a2 = 0.42, 0.5, 0.08
	invSize := 1.0 / float64(size-1)
	for i := range window {
		t := float64(i) * invSize
		window[i] = a0 - a1*math.Cos(2*math.Pi*t) + a2*math.Cos(4*math.Pi*t)
	}
	return window
}
