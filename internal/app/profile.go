package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// profiler appends one CSV row per frame: wall clock, frame delta handed
// to the engine and time spent inside the engine.
type profiler struct {
	mu     sync.Mutex
	out    io.Writer
	closer io.Closer
	frames uint64
}

func newProfiler(path string, logger *log.Logger) *profiler {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.Printf("profiler disabled: %v", err)
		return nil
	}
	return newProfilerWriter(f, f)
}

func newProfilerWriter(w io.Writer, c io.Closer) *profiler {
	p := &profiler{out: w, closer: c}
	fmt.Fprintln(p.out, "timestamp,frame,dt_ms,engine_ms")
	return p
}

func (p *profiler) frame(dt float64, spent time.Duration) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames++
	fmt.Fprintf(p.out, "%s,%d,%.3f,%.3f\n",
		time.Now().Format(time.RFC3339Nano), p.frames, dt*1000, spent.Seconds()*1000)
}

func (p *profiler) Close() error {
	if p == nil || p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
