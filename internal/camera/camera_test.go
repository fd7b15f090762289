package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/guidoenr/spectrafield/internal/input"
	"github.com/guidoenr/spectrafield/internal/spectrum"
)

func newModel(t *testing.T) *Model {
	t.Helper()
	m, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestNewRejectsDragOutsideUnitInterval(t *testing.T) {
	for _, drag := range []float64{0, 1, -0.5, 1.2} {
		cfg := DefaultConfig()
		cfg.Drag = drag
		if _, err := New(cfg); err == nil {
			t.Fatalf("expected error for drag=%f", drag)
		}
	}
}

func TestRadiusStaysClamped(t *testing.T) {
	m := newModel(t)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		if rng.Intn(3) == 0 {
			m.Scroll((rng.Float64()*2 - 1) * 50)
		}
		m.Update(rng.Float64() * 0.5)
		r := m.State().Radius
		if r < 1 || r > 16 {
			t.Fatalf("step %d: radius %f outside [1,16]", i, r)
		}
	}
}

func TestScrollClampsPerEvent(t *testing.T) {
	m := newModel(t)
	m.Scroll(120)
	if got := m.State().DRadius; got != 1 {
		t.Fatalf("DRadius=%f want 1", got)
	}
	m.Scroll(-0.25)
	if got := m.State().DRadius; math.Abs(got-0.75) > 1e-12 {
		t.Fatalf("DRadius=%f want 0.75", got)
	}
}

func TestDragDecay(t *testing.T) {
	m := newModel(t)
	m.SetState(State{Radius: 6, DTheta: 2, DPhi: -1.5, DRadius: 0.5})

	const steps = 40
	for i := 0; i < steps; i++ {
		m.Update(1.0 / 60)
	}

	factor := math.Pow(0.96, steps)
	s := m.State()
	checks := []struct {
		name      string
		got, want float64
	}{
		{"dTheta", s.DTheta, 2 * factor},
		{"dPhi", s.DPhi, -1.5 * factor},
		{"dR", s.DRadius, 0.5 * factor},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-12 {
			t.Fatalf("%s=%g want=%g", c.name, c.got, c.want)
		}
	}
}

func TestImpulseFeedsVelocity(t *testing.T) {
	m := newModel(t)
	m.SetState(State{Radius: 6, D2Theta: 0.1})
	m.Update(0)
	s := m.State()
	if math.Abs(s.DTheta-0.1*0.96) > 1e-12 {
		t.Fatalf("DTheta=%f want=%f", s.DTheta, 0.1*0.96)
	}
	if math.Abs(s.D2Theta-0.1*0.96) > 1e-12 {
		t.Fatalf("D2Theta=%f want=%f", s.D2Theta, 0.1*0.96)
	}
}

func TestPressMoveRelease(t *testing.T) {
	m := newModel(t)

	m.Move(50, 50)
	if s := m.State(); s.D2Phi != 0 {
		t.Fatalf("move without press changed impulse: %+v", s)
	}

	m.Handle(input.Event{Kind: input.Press, X: 100, Y: 100})
	if !m.Dragging() {
		t.Fatalf("expected drag in progress")
	}
	m.Handle(input.Event{Kind: input.Move, X: 140, Y: 80})
	s := m.State()
	if math.Abs(s.D2Theta-0.2) > 1e-12 || math.Abs(s.D2Phi+0.1) > 1e-12 {
		t.Fatalf("impulse=(%f,%f) want (0.2,-0.1)", s.D2Theta, s.D2Phi)
	}

	m.Handle(input.Event{Kind: input.Move, X: 140, Y: 80})
	if s := m.State(); s.D2Theta != 0 || s.D2Phi != 0 {
		t.Fatalf("zero delta should clear impulse, got (%f,%f)", s.D2Theta, s.D2Phi)
	}

	if !m.Handle(input.Event{Kind: input.Release}) {
		t.Fatalf("release should report true")
	}
	if m.Dragging() {
		t.Fatalf("drag still active after release")
	}
}

func TestPerturbUsesLowBands(t *testing.T) {
	m := newModel(t)
	m.SetState(State{Radius: 6, D2Theta: -0.5})

	v := make(spectrum.Velocity, 2)
	for w := range v {
		v[w] = make([]float64, 32)
	}
	v[0][2] = 10
	v[0][32/3-1] = 20
	v[1][5] = 3
	v[1][2] = 16

	m.Perturb(v, 0.5)
	s := m.State()
	if want := (10.0 + 20.0) / 10 * 0.5; math.Abs(s.DPhi-want) > 1e-12 {
		t.Fatalf("DPhi=%f want=%f", s.DPhi, want)
	}
	if want := 1.5; math.Abs(s.DRadius-want) > 1e-12 {
		t.Fatalf("DRadius=%f want=%f", s.DRadius, want)
	}
	if want := -0.5 - 16.0/160*0.5; math.Abs(s.D2Theta-want) > 1e-12 {
		t.Fatalf("D2Theta=%f want=%f", s.D2Theta, want)
	}
}

func TestPerturbIgnoresSmallVelocity(t *testing.T) {
	m := newModel(t)
	before := m.State()
	m.Perturb(spectrum.Velocity{{1, 2, 3}}, 0.1)
	m.Perturb(nil, 0.1)
	if m.State() != before {
		t.Fatalf("state changed for undersized velocity")
	}
}

func TestEyeDistanceFromTarget(t *testing.T) {
	m := newModel(t)
	eye := m.Eye()
	dx, dy, dz := eye[0], eye[1]-1, eye[2]
	if d := math.Sqrt(dx*dx + dy*dy + dz*dz); math.Abs(d-6) > 1e-9 {
		t.Fatalf("eye distance=%f want 6", d)
	}

	view := m.View()
	_, _, z, _ := view.Transform(0, 1, 0, 1)
	if math.Abs(z+6) > 1e-9 {
		t.Fatalf("target depth=%f want -6", z)
	}
}
