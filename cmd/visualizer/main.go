package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/guidoenr/spectrafield/internal/app"
	"github.com/guidoenr/spectrafield/internal/audio"
	"github.com/guidoenr/spectrafield/internal/params"
	"github.com/guidoenr/spectrafield/internal/render"
	"github.com/ncruces/zenity"
)

func main() {
	var (
		deviceName  = flag.String("audio-device", "", "Optional PortAudio input device name (substring match)")
		track       = flag.String("track", "", "Loop an audio file (wav|mp3|flac) instead of capturing input")
		pick        = flag.Bool("pick", false, "Choose the track with a file dialog")
		preset      = flag.String("preset", "inertial", "Pipeline preset ("+strings.Join(params.PresetNames(), "|")+")")
		post        = flag.Bool("post", false, "Enable the inversion post pass")
		width       = flag.Int("width", 960, "Window width (with -window)")
		height      = flag.Int("height", 640, "Window height (with -window)")
		targetFPS   = flag.Float64("fps", 30, "Target frames per second")
		noAudio     = flag.Bool("no-audio", false, "Run with a synthetic spectrum")
		window      = flag.Bool("window", false, "Render into an SDL window (requires -tags sdl)")
		palette     = flag.String("palette", "default", "Glyph palette ("+strings.Join(render.PaletteNames(), "|")+")")
		noColor     = flag.Bool("no-color", false, "Disable ANSI color output")
		showStatus  = flag.Bool("status", true, "Display status bar")
		profilePath = flag.String("profile", "", "Write per-frame section timings as CSV to this path")
		debug       = flag.Bool("debug", false, "Enable verbose logging")
		listDevs    = flag.Bool("list-audio-devices", false, "List available audio input devices and exit")
	)

	flag.Parse()

	if *targetFPS <= 0 {
		log.Fatalf("fps must be positive (got %.2f)", *targetFPS)
	}
	if *window && !render.SupportsWindow() {
		log.Fatalf("-window needs a build with -tags sdl")
	}

	logger := log.New(os.Stdout, "[spectrafield] ", log.LstdFlags)
	if !*debug {
		logger.SetOutput(os.Stderr)
		logger.SetFlags(0)
	}

	if *pick {
		path, err := pickTrack()
		if err != nil {
			logger.Fatalf("pick track: %v", err)
		}
		if path == "" {
			logger.Println("no track selected")
			return
		}
		*track = path
	}

	needCapture := (!*noAudio && *track == "") || *listDevs
	if needCapture {
		terminate, err := audio.Initialize()
		if err != nil {
			logger.Fatalf("failed to initialize PortAudio: %v", err)
		}
		defer terminate()
	}

	if *listDevs {
		devices, err := audio.InputDevices()
		if err != nil {
			logger.Fatalf("list devices: %v", err)
		}
		fmt.Printf("\n=== Audio Input Devices ===\n\n")
		for _, dev := range devices {
			fmt.Printf("- %s\n", dev)
		}
		if dev, err := audio.AutoDetectDevice(); err == nil && dev != nil {
			fmt.Printf("\nAuto-detected input: %s (%.0f Hz, %d channels)\n", dev.Name, dev.DefaultSampleRate, dev.MaxInputChannels)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(app.Config{
		DeviceName:    *deviceName,
		TrackPath:     *track,
		Width:         *width,
		Height:        *height,
		TargetFPS:     *targetFPS,
		Preset:        *preset,
		PostProcess:   *post,
		DisableAudio:  *noAudio,
		ShowStatusBar: *showStatus,
		Palette:       *palette,
		UseANSI:       !*noColor,
		Window:        *window,
		ProfilePath:   *profilePath,
		Log:           logger,
	})
	if err != nil {
		logger.Fatalf("failed to create app: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "cleanup error: %v\n", err)
		}
	}()

	if err := a.Run(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nExiting...")
			return
		}
		logger.Fatalf("runtime error: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
}

// pickTrack opens a native file dialog. A cancelled dialog returns "".
func pickTrack() (string, error) {
	patterns := make([]string, 0, len(audio.SupportedExtensions()))
	for _, ext := range audio.SupportedExtensions() {
		patterns = append(patterns, "*"+ext)
	}
	path, err := zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: patterns,
		}},
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", nil
	}
	return path, err
}
