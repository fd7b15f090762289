package render

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/guidoenr/spectrafield/internal/geom"
)

var (
	errNoProgram    = errors.New("no program in use")
	errFeedbackLoop = errors.New("post pass cannot sample the target it draws into")
)

// Raster is a software Backend. Points are splatted with multiplicative
// blending and no depth writes; triangle fans sample the offscreen target.
type Raster struct {
	width       int
	height      int
	pointScale  float64
	pixelAspect float64

	screen    *Framebuffer
	offscreen *Framebuffer
	target    Target
	current   *Program
	vertices  []float32
}

// RasterOption tweaks a Raster.
type RasterOption func(*Raster)

// WithPointScale scales rasterized point sizes, for surfaces whose pixels
// are much coarser than a display's.
func WithPointScale(scale float64) RasterOption {
	return func(r *Raster) {
		if scale > 0 {
			r.pointScale = scale
		}
	}
}

// WithPixelAspect sets the width/height ratio of one surface pixel.
func WithPixelAspect(aspect float64) RasterOption {
	return func(r *Raster) {
		if aspect > 0 {
			r.pixelAspect = aspect
		}
	}
}

// NewRaster creates a software backend with both targets sized width x height.
func NewRaster(width, height int, opts ...RasterOption) *Raster {
	r := &Raster{
		pointScale:  1,
		pixelAspect: 1,
		screen:      newFramebuffer(0, 0),
		offscreen:   newFramebuffer(0, 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Resize(width, height)
	return r
}

// Screen returns the presentable framebuffer.
func (r *Raster) Screen() *Framebuffer { return r.screen }

// PixelAspect returns the width/height ratio of one pixel.
func (r *Raster) PixelAspect() float64 { return r.pixelAspect }

func (r *Raster) CompileProgram(spec ProgramSpec) (*Program, error) {
	return buildProgram(spec)
}

func (r *Raster) UseProgram(p *Program) { r.current = p }

func (r *Raster) SetUniform(name string, value any) {
	if r.current == nil || !r.current.declares(name) {
		return
	}
	r.current.uniforms[name] = value
}

// UploadVertices copies buf; the caller may reuse it immediately.
func (r *Raster) UploadVertices(buf []float32) {
	r.vertices = append(r.vertices[:0], buf...)
}

func (r *Raster) BindTarget(t Target) { r.target = t }

func (r *Raster) Clear(red, green, blue float64) {
	r.bound().fill(red, green, blue)
}

func (r *Raster) Size() (int, int) { return r.width, r.height }

// Resize reallocates both targets when the size changed and reports whether it did.
func (r *Raster) Resize(width, height int) bool {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == r.width && height == r.height {
		return false
	}
	r.width = width
	r.height = height
	r.screen.resize(width, height)
	r.offscreen.resize(width, height)
	return true
}

func (r *Raster) Draw(prim Primitive, count int) error {
	if r.current == nil {
		return errNoProgram
	}
	if r.width == 0 || r.height == 0 || count <= 0 {
		return nil
	}
	if n := len(r.vertices) / r.current.stride; count > n {
		count = n
	}
	switch prim {
	case Points:
		return r.drawPoints(count)
	case TriangleFan:
		return r.drawFan(count)
	default:
		return fmt.Errorf("unsupported primitive %d", prim)
	}
}

func (r *Raster) bound() *Framebuffer {
	if r.target == Offscreen {
		return r.offscreen
	}
	return r.screen
}

func (r *Raster) drawPoints(count int) error {
	p := r.current
	posOff, ok := p.Offset("a_Position")
	if !ok {
		return fmt.Errorf("program %q has no a_Position attribute", p.Name())
	}
	forceOff, hasForce := p.Offset("a_Force")
	fogOff, hasFog := p.Offset("a_Fog")

	mvp := mat4Uniform(p, UniformProjection).Mul(mat4Uniform(p, UniformModelView))
	pointSize := floatUniform(p, UniformPointSize, 1)
	fb := r.bound()
	stride := p.stride
	width := float64(fb.Width)
	height := float64(fb.Height)

	for i := 0; i < count; i++ {
		v := r.vertices[i*stride : (i+1)*stride]
		x, y, z, w := mvp.Transform(float64(v[posOff]), float64(v[posOff+1]), float64(v[posOff+2]), 1)
		if w <= 0 {
			continue
		}
		if nz := z / w; nz < -1 || nz > 1 {
			continue
		}
		var force, fog float64
		if hasForce {
			force = float64(v[forceOff])
		}
		if hasFog {
			fog = float64(v[fogOff])
		}
		sx := (x/w*0.5 + 0.5) * width
		sy := (0.5 - y/w*0.5) * height
		size := math.Max(pointSize/w*10*r.pointScale, 1)
		r.splat(fb, sx, sy, size, force, fog)
	}
	return nil
}

func (r *Raster) splat(fb *Framebuffer, cx, cy, size, force, fog float64) {
	halfW := size / 2
	halfH := halfW * r.pixelAspect
	x0 := maxInt(int(math.Floor(cx-halfW)), 0)
	x1 := minInt(int(math.Ceil(cx+halfW)), fb.Width)
	y0 := maxInt(int(math.Floor(cy-halfH)), 0)
	y1 := minInt(int(math.Ceil(cy+halfH)), fb.Height)

	for py := y0; py < y1; py++ {
		v := (float64(py) + 0.5 - (cy - halfH)) / (2 * halfH)
		if v < 0 || v > 1 {
			continue
		}
		for px := x0; px < x1; px++ {
			u := (float64(px) + 0.5 - (cx - halfW)) / size
			if u < 0 || u > 1 {
				continue
			}
			fb.multiply(px, py, spriteColor(force, fog, size, u, v))
		}
	}
}

// drawFan fills the screen-space bounds of the fan with |strength - texel|,
// sampling the offscreen target.
func (r *Raster) drawFan(count int) error {
	if count < 3 {
		return nil
	}
	if r.target == Offscreen {
		return errFeedbackLoop
	}
	p := r.current
	posOff, ok := p.Offset("a_Position")
	if !ok {
		return fmt.Errorf("program %q has no a_Position attribute", p.Name())
	}
	strength := float32(floatUniform(p, UniformStrength, 0))

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i < count; i++ {
		x := float64(r.vertices[i*p.stride+posOff])
		y := float64(r.vertices[i*p.stride+posOff+1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	dst := r.screen
	src := r.offscreen
	x0 := maxInt(int(math.Round((minX*0.5+0.5)*float64(dst.Width))), 0)
	x1 := minInt(int(math.Round((maxX*0.5+0.5)*float64(dst.Width))), dst.Width)
	y0 := maxInt(int(math.Round((0.5-maxY*0.5)*float64(dst.Height))), 0)
	y1 := minInt(int(math.Round((0.5-minY*0.5)*float64(dst.Height))), dst.Height)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	rows := y1 - y0
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > rows {
		numWorkers = rows
	}

	var wg sync.WaitGroup
	jobs := make(chan int, numWorkers)
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range jobs {
				start := (y*dst.Width + x0) * 3
				end := (y*dst.Width + x1) * 3
				for i := start; i < end; i++ {
					d := strength - src.Pix[i]
					if d < 0 {
						d = -d
					}
					dst.Pix[i] = d
				}
			}
		}()
	}
	for y := y0; y < y1; y++ {
		jobs <- y
	}
	close(jobs)
	wg.Wait()
	return nil
}

func mat4Uniform(p *Program, name string) geom.Mat4 {
	if m, ok := p.uniforms[name].(geom.Mat4); ok {
		return m
	}
	return geom.Identity()
}

func floatUniform(p *Program, name string, fallback float64) float64 {
	switch v := p.uniforms[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return fallback
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
