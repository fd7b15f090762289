package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/guidoenr/spectrafield/internal/analyzer"
	"github.com/guidoenr/spectrafield/internal/audio"
	"github.com/guidoenr/spectrafield/internal/input"
	"github.com/guidoenr/spectrafield/internal/params"
	"github.com/guidoenr/spectrafield/internal/render"
	"github.com/guidoenr/spectrafield/internal/spectrum"
)

// Config configures the application runtime.
type Config struct {
	DeviceName    string
	TrackPath     string
	Width         int
	Height        int
	TargetFPS     float64
	Preset        string
	PostProcess   bool
	DisableAudio  bool
	ShowStatusBar bool
	Palette       string
	UseANSI       bool
	Window        bool
	ProfilePath   string
	Log           *log.Logger
}

// Presenter shows finished frames and reports pointer input.
type Presenter interface {
	Size() (int, int)
	Present(fb *render.Framebuffer, status string) error
	Events() []input.Event
	RasterOptions() []render.RasterOption
	Close() error
}

// App ties together the spectrum source, the scene and a presenter.
type App struct {
	cfg         Config
	log         *log.Logger
	params      params.Parameters
	scene       *Scene
	raster      *render.Raster
	presenter   Presenter
	terminal    *render.Terminal
	source      audio.Source
	playback    audio.Playback
	analyzer    *analyzer.Analyzer
	synthetic   *syntheticSpectrum
	prof        *profiler
	sourceLabel string
	commands    chan command
	last        time.Time
	started     bool
	fps         float64
}

// New constructs the application using the provided configuration.
func New(cfg Config) (*App, error) {
	cfg = withDefaults(cfg)

	var (
		presenter Presenter
		terminal  *render.Terminal
	)
	if cfg.Window {
		w, err := render.NewWindow(render.WindowConfig{Title: "spectrafield", Width: cfg.Width, Height: cfg.Height})
		if err != nil {
			return nil, fmt.Errorf("open window: %w", err)
		}
		presenter = w
	} else {
		terminal = render.NewTerminal(render.TerminalConfig{
			Palette:   cfg.Palette,
			UseANSI:   cfg.UseANSI,
			StatusBar: cfg.ShowStatusBar,
		})
		presenter = terminal
	}

	a, err := newApp(cfg, presenter)
	if err != nil {
		_ = presenter.Close()
		return nil, err
	}
	a.terminal = terminal

	if err := a.openSource(); err != nil {
		_ = presenter.Close()
		return nil, err
	}
	a.prof = newProfiler(cfg.ProfilePath, a.log)
	return a, nil
}

func withDefaults(cfg Config) Config {
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = 30
	}
	if cfg.Log == nil {
		cfg.Log = log.New(os.Stderr, "", log.LstdFlags)
	}
	if cfg.Width <= 0 {
		cfg.Width = 80
	}
	if cfg.Height <= 0 {
		cfg.Height = 24
	}
	return cfg
}

// newApp builds the scene on a software raster sized for presenter. The
// spectrum source is left unset.
func newApp(cfg Config, presenter Presenter) (*App, error) {
	p, err := params.Preset(cfg.Preset)
	if err != nil {
		return nil, err
	}
	if cfg.PostProcess {
		p.PostProcess = true
	}

	width, height := presenter.Size()
	if width <= 0 || height <= 0 {
		width, height = cfg.Width, cfg.Height
	}
	raster := render.NewRaster(width, height, presenter.RasterOptions()...)

	scene, err := NewScene(p, raster)
	if err != nil {
		var buildErr *render.ShaderBuildError
		if errors.As(err, &buildErr) {
			cfg.Log.Printf("shader log (%s/%s):\n%s", buildErr.Program, buildErr.Stage, buildErr.Log)
		}
		return nil, fmt.Errorf("build scene: %w", err)
	}
	scene.SetPixelAspect(raster.PixelAspect())

	return &App{
		cfg:       cfg,
		log:       cfg.Log,
		params:    p,
		scene:     scene,
		raster:    raster,
		presenter: presenter,
	}, nil
}

func (a *App) openSource() error {
	fftSize := a.params.FFTSize()
	bufferSize := fftSize
	if bufferSize < 4096 {
		bufferSize = 4096
	}

	switch {
	case a.cfg.DisableAudio:
		usable := spectrum.UsableBins(fftSize/2, a.params.Bands, a.params.Resolution)
		a.synthetic = newSyntheticSpectrum(fftSize/2, usable, a.params.Bands, time.Now().UnixNano())
		a.sourceLabel = "synthetic"
		a.log.Println("audio disabled, using synthetic spectrum")
		return nil
	case a.cfg.TrackPath != "":
		player, err := audio.OpenPlayer(audio.PlayerConfig{Path: a.cfg.TrackPath, BufferSize: bufferSize})
		if err != nil {
			return fmt.Errorf("audio playback: %w", err)
		}
		a.source = player
		a.playback = player
		a.sourceLabel = "track"
		a.log.Printf("looping %s (%s) @ %.0f Hz", a.cfg.TrackPath, player.Duration().Round(time.Second), player.SampleRate())
	default:
		capture, err := audio.NewCapture(audio.Config{
			DeviceName: a.cfg.DeviceName,
			BufferSize: bufferSize,
			Channels:   2,
		})
		if err != nil {
			return fmt.Errorf("audio capture: %w", err)
		}
		a.source = capture
		a.sourceLabel = "mic"
		if info := capture.Device(); info != nil {
			a.sourceLabel = info.Name
			a.log.Printf("audio capture started on %q @ %.0f Hz", info.Name, capture.SampleRate())
		} else {
			a.log.Printf("audio capture started @ %.0f Hz", capture.SampleRate())
		}
	}
	a.analyzer = analyzer.New(analyzer.Config{FFTSize: fftSize})
	return nil
}

// Run drives the render loop until ctx is cancelled, the user quits, or the
// presenter is closed.
func (a *App) Run(ctx context.Context) error {
	frameDuration := time.Duration(float64(time.Second) / a.cfg.TargetFPS)
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	if a.terminal != nil {
		if err := a.terminal.Open(); err != nil {
			return err
		}
		defer a.terminal.Close()
	}

	inputCtx, cancelInput := context.WithCancel(ctx)
	defer cancelInput()
	a.startKeyboard(inputCtx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-a.commands:
			if !ok {
				a.commands = nil
				continue
			}
			if a.apply(cmd) {
				return nil
			}
		case now := <-ticker.C:
			if err := a.step(now); err != nil {
				if errors.Is(err, render.ErrRendererQuit) {
					return nil
				}
				return err
			}
		}
	}
}

// Close releases held resources.
func (a *App) Close() error {
	var errs []error
	if a.source != nil {
		errs = append(errs, a.source.Close())
	}
	if a.presenter != nil {
		errs = append(errs, a.presenter.Close())
	}
	errs = append(errs, a.prof.Close())
	return errors.Join(errs...)
}

// step renders one frame: resize, input, update, draw, present.
func (a *App) step(now time.Time) error {
	a.prof.beginFrame()

	width, height := a.presenter.Size()
	if a.raster.Resize(width, height) {
		a.log.Printf("surface resized to %dx%d", width, height)
	}

	dt := 0.0
	if a.started {
		dt = now.Sub(a.last).Seconds()
	}
	a.started = true
	a.last = now
	if dt > 0 {
		a.fps = 1 / dt
	}

	for _, ev := range a.presenter.Events() {
		if a.scene.Camera().Handle(ev) && a.playback != nil {
			a.playback.Resume()
		}
	}
	a.prof.mark("input")

	sample := a.sample(dt)
	a.prof.mark("sample")

	a.scene.Update(sample, dt)
	a.prof.mark("update")

	if err := a.scene.Draw(a.raster); err != nil {
		return err
	}
	a.prof.mark("draw")

	if err := a.presenter.Present(a.raster.Screen(), a.status()); err != nil {
		return err
	}
	a.prof.mark("present")
	a.prof.endFrame()
	return nil
}

func (a *App) sample(dt float64) []uint8 {
	switch {
	case a.synthetic != nil:
		return a.synthetic.Next(dt)
	case a.source != nil && a.analyzer != nil:
		return a.analyzer.ByteFrequencyData(a.source.Samples())
	default:
		return nil
	}
}

func (a *App) status() string {
	post := "off"
	if a.scene.PostProcess() {
		post = "on"
	}
	st := a.scene.Camera().State()
	return fmt.Sprintf("%s | src=%s | points=%d r=%.2f post=%s | fps %.1f",
		a.params.Name, a.sourceLabel, a.scene.VertexCount(), st.Radius, post, a.fps)
}
