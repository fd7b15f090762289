//go:build sdl

package render

import (
	"fmt"

	"github.com/guidoenr/spectrafield/internal/input"
	"github.com/veandco/go-sdl2/sdl"
)

// Window presents framebuffers in an SDL window and reports pointer input.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte
	width    int
	height   int
	pitch    int
	events   []input.Event
	quit     bool
}

// WindowConfig configures a Window.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
}

// NewWindow opens a resizable window.
func NewWindow(cfg WindowConfig) (*Window, error) {
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 640
	}
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("init video: %w", err)
	}
	window, err := sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return nil, fmt.Errorf("create window: %w", err)
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	return &Window{window: window, renderer: renderer}, nil
}

// RasterOptions returns nil; window pixels are square and display sized.
func (w *Window) RasterOptions() []RasterOption { return nil }

// Size returns the drawable size in pixels.
func (w *Window) Size() (int, int) {
	width, height := w.window.GetSize()
	return int(width), int(height)
}

// Events drains the SDL queue and returns the pointer events seen since the
// previous call. A quit request is reported by the next Present.
func (w *Window) Events() []input.Event {
	w.events = w.events[:0]
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.quit = true
		case *sdl.MouseButtonEvent:
			if e.Button != sdl.BUTTON_LEFT {
				continue
			}
			kind := input.Press
			if e.Type == sdl.MOUSEBUTTONUP {
				kind = input.Release
			}
			w.events = append(w.events, input.Event{Kind: kind, X: float64(e.X), Y: float64(e.Y)})
		case *sdl.MouseMotionEvent:
			w.events = append(w.events, input.Event{Kind: input.Move, X: float64(e.X), Y: float64(e.Y)})
		case *sdl.MouseWheelEvent:
			// Wheel up moves the camera closer, like a negative DOM deltaY.
			w.events = append(w.events, input.Event{Kind: input.Scroll, Delta: -float64(e.Y)})
		}
	}
	return w.events
}

// Present uploads fb to the streaming texture and shows it. The window
// title is fixed, so status is unused.
func (w *Window) Present(fb *Framebuffer, status string) error {
	if w.quit {
		return ErrRendererQuit
	}
	if fb.Width == 0 || fb.Height == 0 {
		return nil
	}
	if err := w.ensureTexture(fb.Width, fb.Height); err != nil {
		return err
	}
	for i, j := 0, 0; i < len(fb.Pix); i, j = i+3, j+4 {
		w.pixels[j+0] = toByte(fb.Pix[i])
		w.pixels[j+1] = toByte(fb.Pix[i+1])
		w.pixels[j+2] = toByte(fb.Pix[i+2])
		w.pixels[j+3] = 255
	}
	if err := w.texture.Update(nil, w.pixels, w.pitch); err != nil {
		return err
	}
	if err := w.renderer.Clear(); err != nil {
		return err
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return err
	}
	w.renderer.Present()
	return nil
}

func (w *Window) ensureTexture(width, height int) error {
	if w.texture != nil && w.width == width && w.height == height {
		return nil
	}
	if w.texture != nil {
		w.texture.Destroy()
		w.texture = nil
	}
	tex, err := w.renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		int32(width), int32(height),
	)
	if err != nil {
		return err
	}
	w.texture = tex
	w.width = width
	w.height = height
	w.pitch = width * 4
	w.pixels = make([]byte, w.pitch*height)
	return nil
}

// Close destroys the window and shuts down the video subsystem.
func (w *Window) Close() error {
	if w.texture != nil {
		w.texture.Destroy()
		w.texture = nil
	}
	if w.renderer != nil {
		w.renderer.Destroy()
		w.renderer = nil
	}
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
	}
	w.pixels = nil
	return nil
}

func toByte(v float32) byte {
	return byte(clampFloat(float64(v)*255, 0, 255))
}

// SupportsWindow reports whether the binary was built with SDL.
func SupportsWindow() bool { return true }
