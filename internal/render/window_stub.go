//go:build !sdl

package render

import (
	"errors"

	"github.com/guidoenr/spectrafield/internal/input"
)

// Window is unavailable without the sdl build tag.
type Window struct{}

// WindowConfig configures a Window.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
}

func NewWindow(WindowConfig) (*Window, error) {
	return nil, errors.New("SDL backend not enabled; rebuild with -tags sdl")
}

func (w *Window) RasterOptions() []RasterOption { return nil }

func (w *Window) Size() (int, int) { return 0, 0 }

func (w *Window) Events() []input.Event { return nil }

func (w *Window) Present(fb *Framebuffer, status string) error { return ErrRendererQuit }

func (w *Window) Close() error { return nil }

func SupportsWindow() bool { return false }
