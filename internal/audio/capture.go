package audio

import (
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// Capture wraps a PortAudio input stream and keeps a mono history of the
// latest samples. It is the live-input Source.
type Capture struct {
	stream     *portaudio.Stream
	sampleRate float64
	channels   int
	device     *portaudio.DeviceInfo

	history *ring
	mono    []float32
}

// Config controls how a Capture instance is created.
type Config struct {
	DeviceName string
	// BufferSize is the history length in mono frames; it should cover the FFT size.
	BufferSize int
	Channels   int
}

const defaultBufferSize = 4096

// NewCapture opens and starts a PortAudio input stream.
func NewCapture(cfg Config) (*Capture, error) {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}

	device, err := findInputDevice(cfg.DeviceName)
	if err != nil {
		return nil, err
	}
	channels := cfg.Channels
	if device.MaxInputChannels > 0 && channels > device.MaxInputChannels {
		channels = device.MaxInputChannels
	}

	capture := &Capture{
		sampleRate: device.DefaultSampleRate,
		channels:   channels,
		device:     device,
		history:    newRing(cfg.BufferSize),
	}

	framesPerBuffer := cfg.BufferSize / 4
	if framesPerBuffer < 64 {
		framesPerBuffer = portaudio.FramesPerBufferUnspecified
	}

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      capture.sampleRate,
		FramesPerBuffer: framesPerBuffer,
	}, capture.process)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	capture.stream = stream

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("start stream: %w", err)
	}
	return capture, nil
}

// Close stops and closes the underlying PortAudio stream.
func (c *Capture) Close() error {
	if c.stream == nil {
		return nil
	}
	if err := c.stream.Stop(); err != nil && !isInvalidStreamState(err) {
		return err
	}
	err := c.stream.Close()
	c.stream = nil
	return err
}

// SampleRate returns the stream sample rate.
func (c *Capture) SampleRate() float64 {
	return c.sampleRate
}

// Device returns the PortAudio device associated with the capture stream.
func (c *Capture) Device() *portaudio.DeviceInfo {
	return c.device
}

// Samples returns a copy of the captured history, oldest first.
func (c *Capture) Samples() []float32 {
	return c.history.snapshot()
}

// process runs on the PortAudio callback thread.
func (c *Capture) process(in []float32) {
	if c.channels <= 1 {
		c.history.write(in)
		return
	}
	frames := len(in) / c.channels
	if cap(c.mono) < frames {
		c.mono = make([]float32, frames)
	}
	c.mono = c.mono[:frames]
	c.history.write(downmix(c.mono, in, c.channels))
}

// downmix averages interleaved channels of in into dst.
func downmix(dst, in []float32, channels int) []float32 {
	for i := range dst {
		sum := float32(0)
		base := i * channels
		for ch := 0; ch < channels; ch++ {
			sum += in[base+ch]
		}
		dst[i] = sum / float32(channels)
	}
	return dst
}

// isInvalidStreamState reports whether err comes from stopping a stream
// that is not running.
func isInvalidStreamState(err error) bool {
	return err != nil && strings.Contains(err.Error(), "PaErrorCode -9986")
}
