package params

import "testing"

func TestDefaultBindings(t *testing.T) {
	b := NewBindings()
	want := map[Effect]Channel{
		EffectShadowFlicker:   ChannelMid,
		EffectSpin:            ChannelChords,
		EffectTwirl:           ChannelTreble,
		EffectZoomThump:       ChannelBass,
		EffectColorSaturation: ChannelMelody,
		EffectBeatPulse:       ChannelNone,
	}
	for e, c := range want {
		if got := b.Get(e); got != c {
			t.Fatalf("%s bound to %s want %s", e, got, c)
		}
	}
}

func TestBindingSetAndReset(t *testing.T) {
	b := NewBindings()
	b.Set(EffectSpin, ChannelNone)
	if got := b.Get(EffectSpin); got != ChannelNone {
		t.Fatalf("spin=%s want none", got)
	}
	b.Set(EffectTwirl, Channel(99))
	if got := b.Get(EffectTwirl); got != ChannelNone {
		t.Fatalf("invalid channel stored as %s", got)
	}
	b.Set(Effect(42), ChannelBass)
	if got := b.Get(Effect(42)); got != ChannelNone {
		t.Fatalf("unknown effect returned %s", got)
	}
	b.Reset()
	if got := b.Get(EffectSpin); got != ChannelChords {
		t.Fatalf("reset spin=%s want chords", got)
	}
}

func TestParseNames(t *testing.T) {
	for _, name := range ChannelNames() {
		c, err := ParseChannel(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if c.String() != name {
			t.Fatalf("channel %q formatted as %q", name, c.String())
		}
	}
	if c, err := ParseChannel(""); err != nil || c != ChannelNone {
		t.Fatalf("empty channel: got %s, %v", c, err)
	}
	if _, err := ParseChannel("kazoo"); err == nil {
		t.Fatalf("expected error for unknown channel")
	}

	for _, e := range Effects() {
		got, err := ParseEffect(e.String())
		if err != nil || got != e {
			t.Fatalf("parse effect %q: got %v, %v", e.String(), got, err)
		}
	}
	if e, err := ParseEffect(" Zoom-Thump "); err != nil || e != EffectZoomThump {
		t.Fatalf("case-insensitive parse failed: %v, %v", e, err)
	}
}
