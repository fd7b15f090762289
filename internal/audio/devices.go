package audio

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gordonklaus/portaudio"
)

var errNoInputDevice = errors.New("no suitable audio input device found")

// loopbackHints mark devices that record system output rather than a microphone.
var loopbackHints = []string{"monitor", "loopback", "stereo mix", "what u hear", "mix"}

// Device describes a PortAudio device in a Go-friendly way.
type Device struct {
	Name            string
	MaxInput        int
	MaxOutput       int
	DefaultSampleHz float64
	HostAPI         string
	IsDefaultInput  bool
}

func (d Device) String() string {
	marker := ""
	if d.IsDefaultInput {
		marker = " (default)"
	}
	return fmt.Sprintf("%s [%s]%s inputs:%d outputs:%d sample:%.0f Hz",
		d.Name, d.HostAPI, marker, d.MaxInput, d.MaxOutput, d.DefaultSampleHz)
}

// InputDevices returns every device with at least one input channel, sorted
// by host API and name.
func InputDevices() ([]Device, error) {
	hosts, err := portaudio.HostApis()
	if err != nil {
		return nil, fmt.Errorf("host apis: %w", err)
	}

	defaultInputIndex := -1
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		defaultInputIndex = def.Index
	}

	var devices []Device
	for _, host := range hosts {
		for _, d := range host.Devices {
			if d.MaxInputChannels <= 0 {
				continue
			}
			devices = append(devices, Device{
				Name:            d.Name,
				MaxInput:        d.MaxInputChannels,
				MaxOutput:       d.MaxOutputChannels,
				DefaultSampleHz: d.DefaultSampleRate,
				HostAPI:         host.Name,
				IsDefaultInput:  d.Index == defaultInputIndex,
			})
		}
	}
	sortDevices(devices)
	return devices, nil
}

func sortDevices(devices []Device) {
	sort.Slice(devices, func(i, j int) bool {
		if devices[i].HostAPI == devices[j].HostAPI {
			return devices[i].Name < devices[j].Name
		}
		return devices[i].HostAPI < devices[j].HostAPI
	})
}

// AutoDetectDevice returns the input device NewCapture picks when no name is given.
func AutoDetectDevice() (*portaudio.DeviceInfo, error) {
	return findInputDevice("")
}

// findInputDevice resolves name by case-insensitive substring, or picks the
// best scoring input when name is empty.
func findInputDevice(name string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}
	if name != "" {
		if dev := matchDevice(devices, name); dev != nil {
			return dev, nil
		}
		return nil, fmt.Errorf("audio device %q not found", name)
	}

	defaultIndex, hostIndex := -1, -1
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		defaultIndex = def.Index
	}
	if host, err := portaudio.DefaultHostApi(); err == nil && host != nil && host.DefaultInputDevice != nil {
		hostIndex = host.DefaultInputDevice.Index
	}
	if dev := bestDevice(devices, defaultIndex, hostIndex); dev != nil {
		return dev, nil
	}
	return nil, errNoInputDevice
}

func matchDevice(devices []*portaudio.DeviceInfo, name string) *portaudio.DeviceInfo {
	needle := strings.ToLower(name)
	for _, d := range devices {
		if d == nil || d.MaxInputChannels <= 0 {
			continue
		}
		if strings.Contains(strings.ToLower(d.Name), needle) {
			return d
		}
	}
	return nil
}

// bestDevice prefers the system default input, then the host API default,
// then loopback style devices; ties go to the alphabetically first name.
func bestDevice(devices []*portaudio.DeviceInfo, defaultIndex, hostIndex int) *portaudio.DeviceInfo {
	var (
		best      *portaudio.DeviceInfo
		bestScore int
	)
	for _, d := range devices {
		if d == nil || d.MaxInputChannels <= 0 {
			continue
		}
		score := deviceScore(d.Name, d.MaxInputChannels, d.Index == defaultIndex, d.Index == hostIndex)
		if best == nil || score > bestScore ||
			(score == bestScore && strings.ToLower(d.Name) < strings.ToLower(best.Name)) {
			best, bestScore = d, score
		}
	}
	return best
}

func deviceScore(name string, inputs int, systemDefault, hostDefault bool) int {
	score := inputs
	if systemDefault {
		score += 50
	}
	if hostDefault {
		score += 40
	}
	lower := strings.ToLower(name)
	for _, hint := range loopbackHints {
		if strings.Contains(lower, hint) {
			score += 20
			break
		}
	}
	if strings.Contains(lower, "default") {
		score += 10
	}
	return score
}
