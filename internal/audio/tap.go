package audio

import "github.com/faiface/beep"

// tap wraps a beep.Streamer and records everything streamed through it,
// mixed down to mono, so the analyzer sees what is actually being played.
type tap struct {
	source  beep.Streamer
	history *ring
	mono    []float32
}

func newTap(src beep.Streamer, size int) *tap {
	return &tap{
		source:  src,
		history: newRing(size),
	}
}

// Stream runs on the speaker goroutine.
func (t *tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.source.Stream(samples)
	if n <= 0 {
		return n, ok
	}
	if cap(t.mono) < n {
		t.mono = make([]float32, n)
	}
	mono := t.mono[:n]
	for i := 0; i < n; i++ {
		mono[i] = float32((samples[i][0] + samples[i][1]) * 0.5)
	}
	t.history.write(mono)
	return n, ok
}

func (t *tap) Err() error { return t.source.Err() }
