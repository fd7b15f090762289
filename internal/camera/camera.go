package camera

import (
	"fmt"
	"math"

	"github.com/guidoenr/spectrafield/internal/geom"
	"github.com/guidoenr/spectrafield/internal/input"
	"github.com/guidoenr/spectrafield/internal/spectrum"
)

// State is the camera position in spherical coordinates together with its
// first (velocity) and second (impulse) derivatives.
type State struct {
	Theta   float64
	Phi     float64
	Radius  float64
	DTheta  float64
	DPhi    float64
	DRadius float64
	D2Theta float64
	D2Phi   float64
}

// Config controls the motion model.
type Config struct {
	// Drag is the per-frame damping factor, in (0, 1).
	Drag        float64
	DistanceMin float64
	DistanceMax float64
	// TargetY lifts both the eye and the look-at target.
	TargetY float64
	// PointerScale converts pointer deltas into impulses.
	PointerScale float64
	Initial      State
}

// DefaultConfig returns the inertial camera used by the default preset.
func DefaultConfig() Config {
	return Config{
		Drag:         0.96,
		DistanceMin:  1,
		DistanceMax:  16,
		TargetY:      1,
		PointerScale: 1.0 / 200,
		Initial: State{
			Theta:   -math.Pi / 7,
			Phi:     -math.Pi / 2,
			Radius:  6,
			D2Theta: -0.001,
		},
	}
}

// Model is the inertial orbit camera. It is driven once per frame by Update
// and in between by pointer events; all calls must come from the render loop.
type Model struct {
	conf  Config
	state State

	dragging bool
	lastX    float64
	lastY    float64
}

// New validates cfg and returns a camera at cfg.Initial.
func New(cfg Config) (*Model, error) {
	if !(cfg.Drag > 0 && cfg.Drag < 1) {
		return nil, fmt.Errorf("drag must be in (0,1) (got %f)", cfg.Drag)
	}
	if cfg.DistanceMin <= 0 || cfg.DistanceMax < cfg.DistanceMin {
		return nil, fmt.Errorf("invalid distance range [%f, %f]", cfg.DistanceMin, cfg.DistanceMax)
	}
	if cfg.PointerScale == 0 {
		cfg.PointerScale = 1.0 / 200
	}
	m := &Model{conf: cfg, state: cfg.Initial}
	m.state.Radius = clamp(m.state.Radius, cfg.DistanceMin, cfg.DistanceMax)
	return m, nil
}

// State returns a copy of the current state.
func (m *Model) State() State { return m.state }

// SetState replaces the current state; the radius is clamped.
func (m *Model) SetState(s State) {
	s.Radius = clamp(s.Radius, m.conf.DistanceMin, m.conf.DistanceMax)
	m.state = s
}

// Dragging reports whether a press-drag gesture is in progress.
func (m *Model) Dragging() bool { return m.dragging }

// Update advances the camera by dt seconds.
func (m *Model) Update(dt float64) {
	s := &m.state
	drag := m.conf.Drag

	s.Theta += s.DTheta * dt
	s.Phi += s.DPhi * dt
	s.Radius = clamp(s.Radius+s.DRadius*dt, m.conf.DistanceMin, m.conf.DistanceMax)

	s.DTheta += s.D2Theta
	s.DPhi += s.D2Phi
	s.DTheta *= drag
	s.DPhi *= drag
	s.DRadius *= drag
	s.D2Theta *= drag
	s.D2Phi *= drag
}

// Perturb couples low-band energy into the camera: the lowest bands shake the
// polar angle, a low band of the second row zooms, and another nudges the
// azimuth impulse in its current direction. Velocities too small to index
// are ignored.
func (m *Model) Perturb(v spectrum.Velocity, dt float64) {
	bands := v.Bands()
	if len(v) < 2 || bands < 6 || dt <= 0 {
		return
	}
	third := bands/3 - 1
	if third < 0 {
		third = 0
	}
	s := &m.state
	s.DPhi += (v.At(0, 2) + v.At(0, third)) / 10 * dt
	s.DRadius += v.At(1, 5) * dt
	s.D2Theta += math.Abs(v.At(1, 2)/160*dt) * sign(s.D2Theta)
}

// Press starts a drag gesture anchored at (x, y).
func (m *Model) Press(x, y float64) {
	m.dragging = true
	m.lastX, m.lastY = x, y
}

// Move updates the impulse from the pointer delta since the previous position.
// It is ignored outside a drag gesture.
func (m *Model) Move(x, y float64) {
	if !m.dragging {
		return
	}
	dx, dy := x-m.lastX, y-m.lastY
	m.lastX, m.lastY = x, y
	m.Impulse(dx*m.conf.PointerScale, dy*m.conf.PointerScale)
}

// Release ends a drag gesture. It reports true so the caller can resume playback.
func (m *Model) Release() bool {
	m.dragging = false
	return true
}

// Scroll accumulates a wheel delta, clamped to [-1, 1], into the radial velocity.
func (m *Model) Scroll(delta float64) {
	if math.IsNaN(delta) {
		return
	}
	m.state.DRadius += clamp(delta, -1, 1)
}

// Impulse sets the angular impulses directly.
func (m *Model) Impulse(d2Theta, d2Phi float64) {
	m.state.D2Theta = d2Theta
	m.state.D2Phi = d2Phi
}

// Handle dispatches a pointer event and reports whether it ended a drag.
func (m *Model) Handle(ev input.Event) bool {
	switch ev.Kind {
	case input.Press:
		m.Press(ev.X, ev.Y)
	case input.Move:
		m.Move(ev.X, ev.Y)
	case input.Release:
		return m.Release()
	case input.Scroll:
		m.Scroll(ev.Delta)
	}
	return false
}

// Eye returns the Cartesian eye position.
func (m *Model) Eye() geom.Vec3 {
	s := m.state
	sinPhi, cosPhi := math.Sincos(s.Phi)
	sinTheta, cosTheta := math.Sincos(s.Theta)
	return geom.Vec3{
		sinPhi * cosTheta * s.Radius,
		cosPhi*s.Radius + m.conf.TargetY,
		sinPhi * sinTheta * s.Radius,
	}
}

// View returns the view matrix looking from Eye toward (0, TargetY, 0).
func (m *Model) View() geom.Mat4 {
	return geom.LookAt(m.Eye(), geom.Vec3{0, m.conf.TargetY, 0}, geom.Vec3{0, 1, 0})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
