package render

import (
	"math"
	"testing"

	"github.com/guidoenr/spectrafield/internal/geom"
)

var _ Backend = (*Raster)(nil)

func mustProgram(t *testing.T, r *Raster, spec ProgramSpec) *Program {
	t.Helper()
	p, err := r.CompileProgram(spec)
	if err != nil {
		t.Fatalf("compile %s: %v", spec.Name, err)
	}
	return p
}

func TestResizeReportsChange(t *testing.T) {
	r := NewRaster(8, 4)
	if r.Resize(8, 4) {
		t.Fatalf("same size should not report a change")
	}
	if !r.Resize(16, 4) {
		t.Fatalf("new size should report a change")
	}
	if w, h := r.Size(); w != 16 || h != 4 {
		t.Fatalf("size=%dx%d want 16x4", w, h)
	}
	if len(r.Screen().Pix) != 16*4*3 {
		t.Fatalf("screen not reallocated: %d", len(r.Screen().Pix))
	}
}

func TestDrawWithoutProgramFails(t *testing.T) {
	r := NewRaster(4, 4)
	if err := r.Draw(Points, 1); err == nil {
		t.Fatalf("expected error without a program")
	}
}

func TestZeroSizeDrawIsNoop(t *testing.T) {
	r := NewRaster(0, 0)
	r.UseProgram(mustProgram(t, r, PointsProgram(true)))
	r.UploadVertices([]float32{0, 0, 0, 1, 0})
	if err := r.Draw(Points, 1); err != nil {
		t.Fatalf("Draw: %v", err)
	}
}

func TestPointMultipliesOverWhite(t *testing.T) {
	r := NewRaster(32, 32)
	r.UseProgram(mustProgram(t, r, PointsProgram(true)))
	r.SetUniform(UniformPointSize, 2.0)
	r.SetUniform(UniformModelView, geom.Identity())
	r.SetUniform(UniformProjection, geom.Identity())
	r.Clear(1, 1, 1)

	r.UploadVertices([]float32{0, 0, 0, 0, 0})
	if err := r.Draw(Points, 1); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	// Identity transforms put the point at the center with size 20.
	cr, cg, cb := r.Screen().At(16, 16)
	if cr >= 1 && cg >= 1 && cb >= 1 {
		t.Fatalf("center pixel untouched: %f %f %f", cr, cg, cb)
	}
	if cr, cg, cb := r.Screen().At(0, 0); cr != 1 || cg != 1 || cb != 1 {
		t.Fatalf("corner pixel changed: %f %f %f", cr, cg, cb)
	}
}

func TestFogBleachesPoint(t *testing.T) {
	draw := func(fog float32) float64 {
		r := NewRaster(32, 32)
		r.UseProgram(mustProgram(t, r, PointsProgram(true)))
		r.SetUniform(UniformPointSize, 2.0)
		r.Clear(1, 1, 1)
		r.UploadVertices([]float32{0, 0, 0, 0, fog})
		if err := r.Draw(Points, 1); err != nil {
			t.Fatalf("Draw: %v", err)
		}
		cr, cg, cb := r.Screen().At(16, 16)
		return cr + cg + cb
	}
	if clear, fogged := draw(0), draw(1); fogged <= clear {
		t.Fatalf("fogged point (%f) should be lighter than clear (%f)", fogged, clear)
	}
	if fogged := draw(1); math.Abs(fogged-3) > 1e-6 {
		t.Fatalf("full fog should vanish into white, got %f", fogged)
	}
}

func TestPointsBehindCameraSkipped(t *testing.T) {
	r := NewRaster(16, 16)
	r.UseProgram(mustProgram(t, r, PointsProgram(false)))
	proj := geom.Identity()
	proj[15] = -1
	r.SetUniform(UniformProjection, proj)
	r.Clear(1, 1, 1)
	r.UploadVertices([]float32{0, 0, 0, 0})
	if err := r.Draw(Points, 1); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	for _, v := range r.Screen().Pix {
		if v != 1 {
			t.Fatalf("point with w<=0 was drawn")
		}
	}
}

func TestUnknownUniformIgnored(t *testing.T) {
	r := NewRaster(4, 4)
	p := mustProgram(t, r, PostProgram())
	r.UseProgram(p)
	r.SetUniform("u_Nope", 1.0)
	if _, ok := p.Uniform("u_Nope"); ok {
		t.Fatalf("undeclared uniform stored")
	}
	r.SetUniform(UniformStrength, 0.5)
	if v, ok := p.Uniform(UniformStrength); !ok || v.(float64) != 0.5 {
		t.Fatalf("u_Strength=%v,%v", v, ok)
	}
}

func TestPostPassInverts(t *testing.T) {
	r := NewRaster(6, 4)
	r.BindTarget(Offscreen)
	r.Clear(0.25, 1, 0)

	r.UseProgram(mustProgram(t, r, PostProgram()))
	r.SetUniform(UniformStrength, 0.5)
	r.UploadVertices(QuadVertices)

	if err := r.Draw(TriangleFan, 4); err == nil {
		t.Fatalf("drawing the fan into its own source should fail")
	}

	r.BindTarget(Screen)
	if err := r.Draw(TriangleFan, 4); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			cr, cg, cb := r.Screen().At(x, y)
			if math.Abs(cr-0.25) > 1e-6 || math.Abs(cg-0.5) > 1e-6 || math.Abs(cb-0.5) > 1e-6 {
				t.Fatalf("pixel(%d,%d)=%f %f %f want 0.25 0.5 0.5", x, y, cr, cg, cb)
			}
		}
	}
}

func TestUploadCopiesVertices(t *testing.T) {
	r := NewRaster(2, 2)
	buf := []float32{1, 2}
	r.UploadVertices(buf)
	buf[0] = 9
	if r.vertices[0] != 1 {
		t.Fatalf("upload aliased caller buffer")
	}
}

func TestSpriteColorEdges(t *testing.T) {
	if c := spriteColor(0, 0, 20, 0, 0); c != white {
		t.Fatalf("sprite corner=%v want white", c)
	}
	c := spriteColor(0, 0, 20, 0.5, 0.5)
	// All three inks overlap at the center of an idle sprite.
	want := rgb{magenta[0] * cyan[0] * yellow[0], magenta[1] * cyan[1] * yellow[1], magenta[2] * cyan[2] * yellow[2]}
	for k := range c {
		if math.Abs(c[k]-want[k]) > 1e-9 {
			t.Fatalf("center=%v want %v", c, want)
		}
	}
}

func TestSmoothstep(t *testing.T) {
	if smoothstep(0, 1, -1) != 0 || smoothstep(0, 1, 2) != 1 {
		t.Fatalf("smoothstep not clamped")
	}
	if v := smoothstep(0, 1, 0.5); math.Abs(v-0.5) > 1e-12 {
		t.Fatalf("smoothstep(0.5)=%f", v)
	}
}
