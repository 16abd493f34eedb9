package params

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Channel selects which audio level feeds an effect.
type Channel int32

const (
	ChannelNone Channel = iota
	ChannelMelody
	ChannelChords
	ChannelBass
	ChannelMid
	ChannelTreble
	ChannelPeak
	ChannelVibe

	channelCount
)

var channelNames = [channelCount]string{
	ChannelNone:   "none",
	ChannelMelody: "melody",
	ChannelChords: "chords",
	ChannelBass:   "bass",
	ChannelMid:    "mid",
	ChannelTreble: "treble",
	ChannelPeak:   "peak",
	ChannelVibe:   "vibe",
}

func (c Channel) String() string {
	if c < 0 || c >= channelCount {
		return fmt.Sprintf("channel(%d)", int32(c))
	}
	return channelNames[c]
}

// Valid reports whether c is one of the known channels.
func (c Channel) Valid() bool {
	return c >= 0 && c < channelCount
}

// ParseChannel maps a channel name to its Channel.
func ParseChannel(name string) (Channel, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return ChannelNone, nil
	}
	for i, n := range channelNames {
		if n == key {
			return Channel(i), nil
		}
	}
	return ChannelNone, fmt.Errorf("unknown audio channel %q", name)
}

// ChannelNames returns all channel identifiers in declaration order.
func ChannelNames() []string {
	out := make([]string, len(channelNames))
	copy(out, channelNames[:])
	return out
}

// Effect is a shader behaviour that can be driven by an audio channel.
type Effect int

const (
	EffectShadowFlicker Effect = iota
	EffectSpin
	EffectTwirl
	EffectZoomThump
	EffectColorSaturation
	EffectBeatPulse

	effectCount
)

var effectNames = [effectCount]string{
	EffectShadowFlicker:   "shadow-flicker",
	EffectSpin:            "spin",
	EffectTwirl:           "twirl",
	EffectZoomThump:       "zoom-thump",
	EffectColorSaturation: "color-saturation",
	EffectBeatPulse:       "beat-pulse",
}

func (e Effect) String() string {
	if e < 0 || e >= effectCount {
		return fmt.Sprintf("effect(%d)", int(e))
	}
	return effectNames[e]
}

// ParseEffect maps an effect name to its Effect.
func ParseEffect(name string) (Effect, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range effectNames {
		if n == key {
			return Effect(i), nil
		}
	}
	return 0, fmt.Errorf("unknown effect %q", name)
}

// Effects returns every effect in declaration order.
func Effects() []Effect {
	out := make([]Effect, effectCount)
	for i := range out {
		out[i] = Effect(i)
	}
	return out
}

var defaultBindings = [effectCount]Channel{
	EffectShadowFlicker:   ChannelMid,
	EffectSpin:            ChannelChords,
	EffectTwirl:           ChannelTreble,
	EffectZoomThump:       ChannelBass,
	EffectColorSaturation: ChannelMelody,
	EffectBeatPulse:       ChannelNone,
}

// DefaultBinding returns the channel an effect listens to out of the box.
func DefaultBinding(e Effect) Channel {
	if e < 0 || e >= effectCount {
		return ChannelNone
	}
	return defaultBindings[e]
}

// Bindings maps each effect to one audio channel. It is read every frame
// and written by configuration, so each slot is atomic.
type Bindings struct {
	slots [effectCount]atomic.Int32
}

// NewBindings returns bindings populated with the per-effect defaults.
func NewBindings() *Bindings {
	b := &Bindings{}
	b.Reset()
	return b
}

// Reset restores every effect to its default channel.
func (b *Bindings) Reset() {
	for i := range b.slots {
		b.slots[i].Store(int32(defaultBindings[i]))
	}
}

// Set binds effect e to channel c. Unknown channels bind to ChannelNone;
// unknown effects are ignored.
func (b *Bindings) Set(e Effect, c Channel) {
	if e < 0 || e >= effectCount {
		return
	}
	if !c.Valid() {
		c = ChannelNone
	}
	b.slots[e].Store(int32(c))
}

// Get returns the channel bound to e, or ChannelNone for unknown effects.
func (b *Bindings) Get(e Effect) Channel {
	if e < 0 || e >= effectCount {
		return ChannelNone
	}
	return Channel(b.slots[e].Load())
}

// Map returns the bindings keyed by effect name.
func (b *Bindings) Map() map[string]string {
	out := make(map[string]string, effectCount)
	for i := range b.slots {
		out[Effect(i).String()] = b.Get(Effect(i)).String()
	}
	return out
}
