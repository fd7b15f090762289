package analyzer

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	defaultFFTSize   = 2048
	defaultSmoothing = 0.8
	defaultMinDB     = -100.0
	defaultMaxDB     = -30.0
)

// Analyzer turns the most recent PCM samples into byte frequency magnitudes:
// Blackman-windowed FFT, per-bin temporal smoothing, decibel scaling mapped
// onto [0, 255].
type Analyzer struct {
	fftSize   int
	smoothing float64
	minDB     float64
	maxDB     float64

	buffer    []float64
	window    []float64
	magnitude []float64
	out       []uint8
}

// Config controls Analyzer behavior.
type Config struct {
	// FFTSize is the window length; it is rounded up to a power of two.
	FFTSize int
	// Smoothing blends each bin with its previous value, in (0, 1). Zero
	// selects the default of 0.8.
	Smoothing float64
	// NoSmoothing disables temporal smoothing regardless of Smoothing.
	NoSmoothing bool
	MinDB     float64
	MaxDB     float64
}

// New creates an Analyzer, filling unset fields with defaults.
func New(cfg Config) *Analyzer {
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = defaultFFTSize
	}
	switch {
	case cfg.NoSmoothing:
		cfg.Smoothing = 0
	case cfg.Smoothing <= 0 || cfg.Smoothing >= 1:
		cfg.Smoothing = defaultSmoothing
	}
	if cfg.MinDB == 0 && cfg.MaxDB == 0 {
		cfg.MinDB = defaultMinDB
		cfg.MaxDB = defaultMaxDB
	}
	if cfg.MaxDB <= cfg.MinDB {
		cfg.MinDB = defaultMinDB
		cfg.MaxDB = defaultMaxDB
	}
	size := nextPow2(cfg.FFTSize)
	return &Analyzer{
		fftSize:   size,
		smoothing: cfg.Smoothing,
		minDB:     cfg.MinDB,
		maxDB:     cfg.MaxDB,
	}
}

// FFTSize returns the effective window length.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// BinCount returns the number of frequency bins produced per call.
func (a *Analyzer) BinCount() int { return a.fftSize / 2 }

// ByteFrequencyData analyzes the trailing FFTSize samples (zero padded at the
// front when fewer are available) and returns BinCount magnitudes. The
// returned slice is reused by the next call.
func (a *Analyzer) ByteFrequencyData(samples []float32) []uint8 {
	a.ensureWorkspace()

	size := a.fftSize
	buffer := a.buffer
	offset := len(samples) - size
	for i := 0; i < size; i++ {
		j := offset + i
		if j < 0 {
			buffer[i] = 0
			continue
		}
		buffer[i] = float64(samples[j]) * a.window[i]
	}

	spectrum := fft.FFTReal(buffer)

	scale := 1.0 / float64(size)
	rangeDB := a.maxDB - a.minDB
	for k := range a.magnitude {
		mag := cmag(spectrum[k]) * scale
		smoothed := a.smoothing*a.magnitude[k] + (1-a.smoothing)*mag
		if math.IsNaN(smoothed) || math.IsInf(smoothed, 0) {
			smoothed = 0
		}
		a.magnitude[k] = smoothed

		if smoothed <= 0 {
			a.out[k] = 0
			continue
		}
		db := 20 * math.Log10(smoothed)
		scaled := 255 * (db - a.minDB) / rangeDB
		a.out[k] = uint8(clamp(scaled, 0, 255))
	}
	return a.out
}

// Reset clears the temporal smoothing history.
func (a *Analyzer) Reset() {
	for i := range a.magnitude {
		a.magnitude[i] = 0
	}
}

func (a *Analyzer) ensureWorkspace() {
	size := a.fftSize
	if len(a.buffer) != size {
		a.buffer = make([]float64, size)
	}
	if len(a.window) != size {
		a.window = window.Blackman(size)
	}
	if len(a.magnitude) != size/2 {
		a.magnitude = make([]float64, size/2)
		a.out = make([]uint8, size/2)
	}
}

func cmag(c complex128) float64 {
	return math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
}

func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}

func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
