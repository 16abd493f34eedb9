package audio

import "sync"

// Ring keeps the most recent mono samples written by the capture callback.
type Ring struct {
	mu    sync.RWMutex
	buf   []float32
	index int
	total uint64
}

// NewRing allocates a ring holding size samples.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = defaultBufferSize
	}
	return &Ring{buf: make([]float32, size)}
}

// Len returns the ring capacity.
func (r *Ring) Len() int { return len(r.buf) }

// Written returns how many samples were ever written.
func (r *Ring) Written() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}

// Write appends interleaved frames of the given channel count, averaging
// them down to mono.
func (r *Ring) Write(in []float32, channels int) {
	if channels > 1 {
		in = downmix(in, channels)
	}
	if len(in) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total += uint64(len(in))

	if len(in) >= len(r.buf) {
		copy(r.buf, in[len(in)-len(r.buf):])
		r.index = 0
		return
	}
	n := copy(r.buf[r.index:], in)
	if n < len(in) {
		copy(r.buf, in[n:])
	}
	r.index = (r.index + len(in)) % len(r.buf)
}

// Latest copies the newest n samples, oldest first, into a new slice.
// n larger than the ring is truncated.
func (r *Ring) Latest(n int) []float32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n <= 0 || n > len(r.buf) {
		n = len(r.buf)
	}
	out := make([]float32, n)
	start := (r.index - n + len(r.buf)) % len(r.buf)
	k := copy(out, r.buf[start:])
	if k < n {
		copy(out[k:], r.buf[:r.index])
	}
	return out
}

func downmix(in []float32, channels int) []float32 {
	mono := make([]float32, len(in)/channels)
	for i := range mono {
		var sum float32
		base := i * channels
		for ch := 0; ch < channels; ch++ {
			sum += in[base+ch]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}
