package app

import (
	"math"
	"math/rand"

	"github.com/charmbracelet/harmonica"
)

// syntheticSpectrum fakes analyzer output when audio is disabled: one spring
// per band chases targets that are re-rolled on a loose beat.
type syntheticSpectrum struct {
	rng      *rand.Rand
	bands    int
	usable   int
	pos      []float64
	vel      []float64
	target   []float64
	spring   harmonica.Spring
	springDt float64
	clock    float64
	nextBeat float64
	out      []uint8
}

// newSyntheticSpectrum produces bins values per frame. Only the first usable
// bins carry signal, matching what the smoother reads.
func newSyntheticSpectrum(bins, usable, bands int, seed int64) *syntheticSpectrum {
	if usable <= 0 || usable > bins {
		usable = bins
	}
	if bands <= 0 {
		bands = 1
	}
	return &syntheticSpectrum{
		rng:    rand.New(rand.NewSource(seed)),
		bands:  bands,
		usable: usable,
		pos:    make([]float64, bands),
		vel:    make([]float64, bands),
		target: make([]float64, bands),
		out:    make([]uint8, bins),
	}
}

// Next advances the springs by dt and returns the sample. The slice is reused.
func (f *syntheticSpectrum) Next(dt float64) []uint8 {
	if dt > 0 {
		if dt != f.springDt {
			f.spring = harmonica.NewSpring(dt, 7.0, 0.3)
			f.springDt = dt
		}
		f.clock += dt
		if f.clock >= f.nextBeat {
			f.retarget()
			f.nextBeat = f.clock + 0.3 + f.rng.Float64()*0.4
		}
		for b := range f.pos {
			f.pos[b], f.vel[b] = f.spring.Update(f.pos[b], f.vel[b], f.target[b])
		}
	}

	group := f.usable / f.bands
	if group < 1 {
		group = 1
	}
	for i := range f.out {
		if i >= f.usable {
			f.out[i] = 0
			continue
		}
		b := i / group
		if b >= f.bands {
			b = f.bands - 1
		}
		ripple := 0.85 + 0.15*math.Sin(float64(i)*0.7+f.clock*3)
		f.out[i] = uint8(clampFloat(f.pos[b]*ripple, 0, 255))
	}
	return f.out
}

// retarget draws new band levels, louder in the low bands, with an
// occasional kick that saturates the bass.
func (f *syntheticSpectrum) retarget() {
	kick := f.rng.Float64() < 0.35
	for b := range f.target {
		level := 230 * math.Exp(-2.5*float64(b)/float64(f.bands))
		f.target[b] = level * (0.35 + 0.65*f.rng.Float64())
		if kick && b < f.bands/8+1 {
			f.target[b] = 255
		}
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
