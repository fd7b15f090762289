package geom

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{3, 4, 5}
	center := Vec3{0, 1, 0}
	view := LookAt(eye, center, Vec3{0, 1, 0})

	x, y, z, w := view.Transform(eye[0], eye[1], eye[2], 1)
	if !near(x, 0) || !near(y, 0) || !near(z, 0) || !near(w, 1) {
		t.Fatalf("eye mapped to (%f,%f,%f,%f) want origin", x, y, z, w)
	}

	_, _, cz, _ := view.Transform(center[0], center[1], center[2], 1)
	dist := eye.Sub(center).Length()
	if !near(cz, -dist) {
		t.Fatalf("center depth=%f want=%f", cz, -dist)
	}
}

func TestLookAtDegenerateIsIdentity(t *testing.T) {
	if got := LookAt(Vec3{1, 1, 1}, Vec3{1, 1, 1}, Vec3{0, 1, 0}); got != Identity() {
		t.Fatalf("expected identity for eye == center, got %v", got)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	p := Perspective(math.Pi/2, 1, 0.1, 100)

	_, _, z, w := p.Transform(0, 0, -0.1, 1)
	if !near(z/w, -1) {
		t.Fatalf("near plane ndc z=%f want -1", z/w)
	}
	_, _, z, w = p.Transform(0, 0, -100, 1)
	if math.Abs(z/w-1) > 1e-6 {
		t.Fatalf("far plane ndc z=%f want 1", z/w)
	}
}

func TestPerspectiveZeroAspect(t *testing.T) {
	p := Perspective(math.Pi/3, 0, 0.1, 10)
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("element %d not finite: %f", i, v)
		}
	}
}

func TestMulIdentity(t *testing.T) {
	m := Perspective(1, 1.5, 0.1, 50)
	if got := m.Mul(Identity()); got != m {
		t.Fatalf("m*I != m")
	}
	if got := Identity().Mul(m); got != m {
		t.Fatalf("I*m != m")
	}
}
