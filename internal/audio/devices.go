package audio

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// ErrNoInput is returned when no capture-capable device exists.
var ErrNoInput = errors.New("no suitable audio input device found")

// Device describes a PortAudio device in a Go-friendly way.
type Device struct {
	Name            string
	MaxInput        int
	MaxOutput       int
	DefaultSampleHz float64
	HostAPI         string
	IsDefaultInput  bool
}

// ListDevices returns all devices sorted by host API and name.
func ListDevices() ([]Device, error) {
	hosts, err := portaudio.HostApis()
	if err != nil {
		return nil, fmt.Errorf("host apis: %w", err)
	}
	defaultInput := defaultInputIndex()

	var devices []Device
	for _, host := range hosts {
		for _, d := range host.Devices {
			devices = append(devices, Device{
				Name:            d.Name,
				MaxInput:        d.MaxInputChannels,
				MaxOutput:       d.MaxOutputChannels,
				DefaultSampleHz: d.DefaultSampleRate,
				HostAPI:         host.Name,
				IsDefaultInput:  d.Index == defaultInput,
			})
		}
	}
	sort.Slice(devices, func(i, j int) bool {
		if devices[i].HostAPI == devices[j].HostAPI {
			return devices[i].Name < devices[j].Name
		}
		return devices[i].HostAPI < devices[j].HostAPI
	})
	return devices, nil
}

// FindDevice picks an input device by case-insensitive substring, or the
// best loopback-friendly input when name is empty.
func FindDevice(name string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}
	if name != "" {
		if d := matchDevice(devices, name); d != nil {
			return d, nil
		}
		return nil, fmt.Errorf("audio device %q not found", name)
	}
	if d := pickBestDevice(devices, defaultInputIndex()); d != nil {
		return d, nil
	}
	return nil, ErrNoInput
}

func defaultInputIndex() int {
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		return def.Index
	}
	return -1
}

func matchDevice(devices []*portaudio.DeviceInfo, name string) *portaudio.DeviceInfo {
	name = strings.ToLower(name)
	for _, d := range devices {
		if d == nil || d.MaxInputChannels == 0 {
			continue
		}
		if strings.Contains(strings.ToLower(d.Name), name) {
			return d
		}
	}
	return nil
}

var loopbackKeywords = []string{"monitor", "loopback", "stereo mix", "mix", "what u hear"}

// scoreDevice ranks input devices; loopback sources win so the visual
// follows whatever the machine is playing.
func scoreDevice(d *portaudio.DeviceInfo, defaultInput int) int {
	if d == nil || d.MaxInputChannels <= 0 {
		return -1
	}
	score := d.MaxInputChannels
	if d.Index == defaultInput {
		score += 50
	}
	lower := strings.ToLower(d.Name)
	for _, kw := range loopbackKeywords {
		if strings.Contains(lower, kw) {
			score += 60
			break
		}
	}
	if strings.Contains(lower, "default") {
		score += 10
	}
	return score
}

func pickBestDevice(devices []*portaudio.DeviceInfo, defaultInput int) *portaudio.DeviceInfo {
	var best *portaudio.DeviceInfo
	bestScore := -1
	for _, d := range devices {
		s := scoreDevice(d, defaultInput)
		if s < 0 {
			continue
		}
		if s > bestScore || (s == bestScore && strings.ToLower(d.Name) < strings.ToLower(best.Name)) {
			best, bestScore = d, s
		}
	}
	return best
}
