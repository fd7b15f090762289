package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// ErrUnsupportedFormat is returned for track extensions without a decoder.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Player plays a track on an endless loop through the default output device
// and keeps a mono history of what was played for analysis.
type Player struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *tap
}

// PlayerConfig controls how a Player is created.
type PlayerConfig struct {
	Path string
	// BufferSize is the history length in mono frames.
	BufferSize int
	// Latency is the speaker buffer duration.
	Latency time.Duration
}

// SupportedExtensions lists the track formats Player can decode.
func SupportedExtensions() []string {
	return []string{".wav", ".mp3", ".flac"}
}

// OpenPlayer decodes the track at cfg.Path and starts looping playback.
func OpenPlayer(cfg PlayerConfig) (*Player, error) {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.Latency <= 0 {
		cfg.Latency = time.Second / 20
	}

	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}

	streamer, format, err := decode(f, filepath.Ext(cfg.Path))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(cfg.Path), err)
	}

	t := newTap(beep.Loop(-1, streamer), cfg.BufferSize)
	ctrl := &beep.Ctrl{Streamer: t}

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(cfg.Latency)); err != nil {
		_ = streamer.Close()
		_ = f.Close()
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(ctrl)

	return &Player{
		file:     f,
		streamer: streamer,
		format:   format,
		ctrl:     ctrl,
		tap:      t,
	}, nil
}

func decode(f *os.File, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(ext) {
	case ".wav":
		return wav.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Samples returns the recently played mono history, oldest first.
func (p *Player) Samples() []float32 {
	return p.tap.history.snapshot()
}

// SampleRate returns the track sample rate.
func (p *Player) SampleRate() float64 {
	return float64(p.format.SampleRate)
}

// Duration returns the length of one loop of the track.
func (p *Player) Duration() time.Duration {
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// Resume unpauses playback.
func (p *Player) Resume() {
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
}

// TogglePause flips the paused state and reports whether playback is now paused.
func (p *Player) TogglePause() bool {
	speaker.Lock()
	defer speaker.Unlock()
	p.ctrl.Paused = !p.ctrl.Paused
	return p.ctrl.Paused
}

// Close stops playback and releases the track.
func (p *Player) Close() error {
	speaker.Clear()
	var errs []error
	if p.streamer != nil {
		errs = append(errs, p.streamer.Close())
		p.streamer = nil
	}
	if p.file != nil {
		if err := p.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
		p.file = nil
	}
	return errors.Join(errs...)
}
