package analyzer

import (
	"math"
	"testing"
)

func TestNextPow2(t *testing.T) {
	cases := map[int]int{
		0:    1,
		1:    1,
		2:    2,
		3:    4,
		5:    8,
		16:   16,
		31:   32,
		257:  512,
		2048: 2048,
	}
	for input, want := range cases {
		if got := nextPow2(input); got != want {
			t.Fatalf("nextPow2(%d)=%d want=%d", input, got, want)
		}
	}
}

func TestClamp(t *testing.T) {
	if clamp(300, 0, 255) != 255 {
		t.Fatalf("expected clamp high to be 255")
	}
	if clamp(-1, 0, 255) != 0 {
		t.Fatalf("expected clamp low to be 0")
	}
	if clamp(12.5, 0, 255) != 12.5 {
		t.Fatalf("expected clamp middle to be unchanged")
	}
}

func TestNewRoundsFFTSize(t *testing.T) {
	a := New(Config{FFTSize: 1000})
	if a.FFTSize() != 1024 || a.BinCount() != 512 {
		t.Fatalf("size=%d bins=%d want 1024/512", a.FFTSize(), a.BinCount())
	}
}

func TestSilenceIsZero(t *testing.T) {
	a := New(Config{FFTSize: 512})
	out := a.ByteFrequencyData(make([]float32, 512))
	if len(out) != 256 {
		t.Fatalf("len=%d want 256", len(out))
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("bin %d=%d want 0", i, v)
		}
	}
}

func TestEmptyInputDoesNotPanic(t *testing.T) {
	a := New(Config{FFTSize: 256})
	out := a.ByteFrequencyData(nil)
	if len(out) != 128 {
		t.Fatalf("len=%d want 128", len(out))
	}
}

func TestSinePeaksAtItsBin(t *testing.T) {
	const size = 1024
	const bin = 40
	a := New(Config{FFTSize: size, Smoothing: 0.0001})
	samples := make([]float32, size)
	for i := range samples {
		samples[i] = float32(0.01 * math.Sin(2*math.Pi*bin*float64(i)/size))
	}

	out := a.ByteFrequencyData(samples)
	peak := 0
	for i, v := range out {
		if v > out[peak] {
			peak = i
		}
	}
	if peak != bin {
		t.Fatalf("peak at bin %d want %d", peak, bin)
	}
	if out[peak] < 120 {
		t.Fatalf("peak magnitude=%d, expected a loud bin", out[peak])
	}
	if out[bin+30] >= out[peak] {
		t.Fatalf("distant bin %d not attenuated", bin+30)
	}
}

func TestSmoothingCarriesHistory(t *testing.T) {
	const size = 256
	a := New(Config{FFTSize: size})
	loud := make([]float32, size)
	for i := range loud {
		loud[i] = float32(0.01 * math.Sin(2*math.Pi*10*float64(i)/size))
	}
	first := a.ByteFrequencyData(loud)[10]

	after := a.ByteFrequencyData(make([]float32, size))[10]
	if after == 0 || after >= first {
		t.Fatalf("expected decaying tail after silence, first=%d after=%d", first, after)
	}

	a.Reset()
	if v := a.ByteFrequencyData(make([]float32, size))[10]; v != 0 {
		t.Fatalf("expected zero after reset, got %d", v)
	}
}

func TestDefaultSmoothing(t *testing.T) {
	if got := New(Config{}).smoothing; got != defaultSmoothing {
		t.Fatalf("smoothing=%f want %f", got, defaultSmoothing)
	}
	if got := New(Config{Smoothing: 0.5}).smoothing; got != 0.5 {
		t.Fatalf("smoothing=%f want 0.5", got)
	}
}

func TestNoSmoothingDropsHistory(t *testing.T) {
	const size = 256
	a := New(Config{FFTSize: size, NoSmoothing: true})
	loud := make([]float32, size)
	for i := range loud {
		loud[i] = float32(0.01 * math.Sin(2*math.Pi*10*float64(i)/size))
	}
	if first := a.ByteFrequencyData(loud)[10]; first == 0 {
		t.Fatalf("expected energy at bin 10")
	}
	if after := a.ByteFrequencyData(make([]float32, size))[10]; after != 0 {
		t.Fatalf("expected silence without smoothing, got %d", after)
	}
}
