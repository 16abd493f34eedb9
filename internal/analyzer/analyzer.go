package analyzer

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Analyzer performs FFT-based spectral analysis and reduces each block of
// samples to the levels the engine consumes.
type Analyzer struct {
	sampleRate float64

	bassPeak   float64
	chordPeak  float64
	melodyPeak float64
	midPeak    float64
	treblePeak float64
	spectPeak  float64
	beatPulse  float64
	lastBass   float64
	energyHist []float64

	historySize int

	buffer []float64
	window []float64
}

// Config controls Analyzer behavior.
type Config struct {
	SampleRate  float64
	HistorySize int
}

// New creates an Analyzer with sensible defaults.
func New(cfg Config) *Analyzer {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44_100
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 60
	}
	return &Analyzer{
		sampleRate:  cfg.SampleRate,
		energyHist:  make([]float64, 0, cfg.HistorySize),
		historySize: cfg.HistorySize,
	}
}

// Analyze returns levels for the provided mono samples.
func (a *Analyzer) Analyze(samples []float32) Levels {
	if len(samples) == 0 {
		return Levels{}
	}

	size := nextPow2(min(len(samples), 2048))
	if size < 256 {
		size = 256
	}
	a.ensureWorkspace(size)

	buffer := a.buffer[:size]
	for i := range buffer {
		if i < len(samples) {
			buffer[i] = float64(samples[i]) * a.window[i]
			continue
		}
		buffer[i] = 0
	}
	spectrum := fft.FFTReal(buffer)

	res := a.sampleRate / float64(size)
	bass := bandEnergy(spectrum, res, 20, 250)
	chords := bandEnergy(spectrum, res, 250, 1000)
	melody := bandEnergy(spectrum, res, 1000, 4000)
	mid := bandEnergy(spectrum, res, 250, 2000)
	treble := bandEnergy(spectrum, res, 2000, 8000)
	peak := peakMagnitude(spectrum, res, 20, 8000)

	a.bassPeak = envelope(a.bassPeak, bass, 0.94, 0.75)
	a.chordPeak = envelope(a.chordPeak, chords, 0.94, 0.78)
	a.melodyPeak = envelope(a.melodyPeak, melody, 0.94, 0.8)
	a.midPeak = envelope(a.midPeak, mid, 0.94, 0.78)
	a.treblePeak = envelope(a.treblePeak, treble, 0.94, 0.8)
	a.spectPeak = envelope(a.spectPeak, peak, 0.9, 0.85)

	bassOut := dynamics(bass, a.bassPeak)
	chordOut := dynamics(chords, a.chordPeak)
	melodyOut := dynamics(melody, a.melodyPeak)

	vibe := (bassOut + chordOut + melodyOut) / 3.0
	a.pushEnergy(vibe)
	variance := 1.0 + a.energyVariance()*0.65

	bassDiff := bass - a.lastBass
	beat := clamp(bassDiff*14.0, 0, 1)
	if beat > 0.12 {
		a.beatPulse = 1.0
	}
	a.beatPulse *= 0.88
	beat = math.Min(1.0, beat+a.beatPulse*0.7)
	a.lastBass = bass

	return Levels{
		Mid:    BandScale * dynamics(mid, a.midPeak),
		Treble: BandScale * dynamics(treble, a.treblePeak),
		Peak:   BandScale * dynamics(peak, a.spectPeak),
		Melody: math.Min(1.0, melodyOut*variance),
		Chords: math.Min(1.0, chordOut*variance),
		Bass:   math.Min(1.0, bassOut*variance),
		Vibe:   math.Min(1.0, vibe*variance),
		Beat:   beat,
	}
}

func bandEnergy(spectrum []complex128, resolution float64, minHz, maxHz float64) float64 {
	lo, hi, ok := binRange(len(spectrum), resolution, minHz, maxHz)
	if !ok {
		return 0
	}
	sum := 0.0
	for _, val := range spectrum[lo:hi] {
		sum += cmag(val)
	}
	return math.Min(1.0, sum/float64(hi-lo))
}

func peakMagnitude(spectrum []complex128, resolution float64, minHz, maxHz float64) float64 {
	lo, hi, ok := binRange(len(spectrum), resolution, minHz, maxHz)
	if !ok {
		return 0
	}
	best := 0.0
	for _, val := range spectrum[lo:hi] {
		best = math.Max(best, cmag(val))
	}
	// a full-scale sine concentrates about n/4 into its bin after Hann windowing
	return math.Min(1.0, best/(float64(len(spectrum))/4))
}

func binRange(n int, resolution, minHz, maxHz float64) (int, int, bool) {
	if minHz >= maxHz || resolution <= 0 {
		return 0, 0, false
	}
	lo := int(math.Floor(minHz / resolution))
	hi := int(math.Ceil(maxHz/resolution)) + 1
	if hi > n/2 {
		hi = n / 2
	}
	return lo, hi, lo < hi
}

func (a *Analyzer) pushEnergy(value float64) {
	a.energyHist = append(a.energyHist, value)
	if len(a.energyHist) > a.historySize {
		copy(a.energyHist, a.energyHist[1:])
		a.energyHist = a.energyHist[:len(a.energyHist)-1]
	}
}

func (a *Analyzer) energyVariance() float64 {
	if len(a.energyHist) < 10 {
		return 0
	}
	mean := average(a.energyHist)
	sumSq := 0.0
	for _, v := range a.energyHist {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Min(1.0, math.Sqrt(sumSq/float64(len(a.energyHist))))
}

func (a *Analyzer) ensureWorkspace(size int) {
	if len(a.buffer) != size {
		a.buffer = make([]float64, size)
	}
	if len(a.window) != size {
		a.window = window.Hann(size)
	}
}

func cmag(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func envelope(current, input, attack, release float64) float64 {
	if input > current {
		return current*attack + input*(1-attack)
	}
	return current * release
}

func dynamics(value, peak float64) float64 {
	if peak < 0.01 {
		return value
	}
	ratio := value / peak
	if ratio < 0 {
		ratio = 0
	}
	expanded := math.Pow(ratio, 0.7) * peak
	if ratio > 0.85 {
		expanded *= 1.0 + (ratio-0.85)*2.0
	}
	if expanded > 1.0 {
		return 1.0
	}
	return expanded
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}

func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
