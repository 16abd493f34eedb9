package analyzer

// BandScale maps a normalized band energy onto the engine's band range.
const BandScale = 10.0

// Levels is one analysis result: bands in [0, BandScale], tracks, vibe and
// beat in [0,1].
type Levels struct {
	Mid    float64
	Treble float64
	Peak   float64
	Melody float64
	Chords float64
	Bass   float64
	Vibe   float64
	Beat   float64
}

// Sink receives analysis results. The engine implements it.
type Sink interface {
	SetBands(mid, treble, peak float64)
	SetTracks(melody, chords, bass float64)
	SetVibe(v float64)
	Pulse(strength float64)
}

// Push forwards l to sink.
func (l Levels) Push(sink Sink) {
	sink.SetBands(l.Mid, l.Treble, l.Peak)
	sink.SetTracks(l.Melody, l.Chords, l.Bass)
	sink.SetVibe(l.Vibe)
	if l.Beat > 0 {
		sink.Pulse(l.Beat)
	}
}

// Gate applies a noise floor so weak signals are ignored.
func Gate(l Levels, floor float64) Levels {
	if floor <= 0 {
		return l
	}
	gate := func(v float64) float64 {
		if v <= floor {
			return 0
		}
		return clamp((v-floor)/(1.0-floor), 0, 1)
	}
	band := func(v float64) float64 { return gate(v/BandScale) * BandScale }

	l.Mid = band(l.Mid)
	l.Treble = band(l.Treble)
	l.Peak = band(l.Peak)
	l.Melody = gate(l.Melody)
	l.Chords = gate(l.Chords)
	l.Bass = gate(l.Bass)
	l.Vibe = gate(l.Vibe)
	l.Beat = gate(l.Beat)
	return l
}
