package audio

import "sync"

// ring is a fixed-size mono sample history shared between an audio callback
// (writer) and the render loop (reader).
type ring struct {
	mu     sync.RWMutex
	buffer []float32
	index  int
	filled bool
}

func newRing(size int) *ring {
	if size <= 0 {
		size = defaultBufferSize
	}
	return &ring{buffer: make([]float32, size)}
}

func (r *ring) write(in []float32) {
	if len(in) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.buffer)
	if len(in) >= n {
		copy(r.buffer, in[len(in)-n:])
		r.index = 0
		r.filled = true
		return
	}

	if r.index+len(in) <= n {
		copy(r.buffer[r.index:], in)
		r.index += len(in)
		if r.index == n {
			r.index = 0
			r.filled = true
		}
		return
	}

	remaining := n - r.index
	copy(r.buffer[r.index:], in[:remaining])
	copy(r.buffer, in[remaining:])
	r.index = len(in) - remaining
	r.filled = true
}

// snapshot copies the history out oldest first. Before the ring has wrapped
// the unwritten tail is returned as leading silence.
func (r *ring) snapshot() []float32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.buffer)
	out := make([]float32, n)
	if !r.filled {
		copy(out[n-r.index:], r.buffer[:r.index])
		return out
	}
	copy(out, r.buffer[r.index:])
	copy(out[n-r.index:], r.buffer[:r.index])
	return out
}
