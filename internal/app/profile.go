package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// profiler writes per-section frame timings as CSV rows:
// frame,section,ms. A nil profiler is a no-op.
type profiler struct {
	w      io.Writer
	closer io.Closer
	frame  uint64
	start  time.Time
	last   time.Time
	now    func() time.Time
}

func newProfiler(path string, logger *log.Logger) *profiler {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		if logger != nil {
			logger.Printf("profiler disabled: %v", err)
		}
		return nil
	}
	p := newProfilerTo(f)
	p.closer = f
	return p
}

func newProfilerTo(w io.Writer) *profiler {
	p := &profiler{w: w, now: time.Now}
	fmt.Fprintln(p.w, "frame,section,ms")
	return p
}

func (p *profiler) beginFrame() {
	if p == nil {
		return
	}
	p.frame++
	p.start = p.now()
	p.last = p.start
}

// mark records the time since the previous mark (or frame start).
func (p *profiler) mark(section string) {
	if p == nil {
		return
	}
	now := p.now()
	p.write(section, now.Sub(p.last))
	p.last = now
}

func (p *profiler) endFrame() {
	if p == nil {
		return
	}
	p.write("total", p.now().Sub(p.start))
}

func (p *profiler) write(section string, d time.Duration) {
	fmt.Fprintf(p.w, "%d,%s,%.3f\n", p.frame, section, float64(d)/float64(time.Millisecond))
}

func (p *profiler) Close() error {
	if p == nil || p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
