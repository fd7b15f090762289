package render

// Framebuffer is a linear RGB image stored row-major as float triplets.
type Framebuffer struct {
	Width  int
	Height int
	Pix    []float32
}

func newFramebuffer(width, height int) *Framebuffer {
	f := &Framebuffer{}
	f.resize(width, height)
	return f
}

func (f *Framebuffer) resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	f.Width = width
	f.Height = height
	n := width * height * 3
	if cap(f.Pix) < n {
		f.Pix = make([]float32, n)
	}
	f.Pix = f.Pix[:n]
}

// At returns the color of pixel (x, y). Out of range reads are white.
func (f *Framebuffer) At(x, y int) (r, g, b float64) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 1, 1, 1
	}
	i := (y*f.Width + x) * 3
	return float64(f.Pix[i]), float64(f.Pix[i+1]), float64(f.Pix[i+2])
}

func (f *Framebuffer) fill(r, g, b float64) {
	for i := 0; i < len(f.Pix); i += 3 {
		f.Pix[i] = float32(r)
		f.Pix[i+1] = float32(g)
		f.Pix[i+2] = float32(b)
	}
}

// multiply blends c into pixel (x, y) as dst*src.
func (f *Framebuffer) multiply(x, y int, c rgb) {
	i := (y*f.Width + x) * 3
	f.Pix[i] *= float32(c[0])
	f.Pix[i+1] *= float32(c[1])
	f.Pix[i+2] *= float32(c[2])
}
