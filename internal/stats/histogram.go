package stats

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram is a thread-safe HdrHistogram tracking publish-call latencies
// in microseconds
type Histogram struct {
	hist *hdrhistogram.Histogram
	mu   sync.Mutex
}

// NewHistogram creates a histogram covering 1us to 1min with 3 significant figures
func NewHistogram() *Histogram {
	h := hdrhistogram.New(1, int64(time.Minute/time.Microsecond), 3)
	return &Histogram{hist: h}
}

// Record records a latency sample
func (h *Histogram) Record(d time.Duration) error {
	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.RecordValue(us)
}

// Quantile returns the latency at the given percentile (0-100)
func (h *Histogram) Quantile(q float64) time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return time.Duration(h.hist.ValueAtQuantile(q)) * time.Microsecond
}

// Mean returns the mean latency
func (h *Histogram) Mean() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return time.Duration(h.hist.Mean()) * time.Microsecond
}

// Max returns the largest recorded latency
func (h *Histogram) Max() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return time.Duration(h.hist.Max()) * time.Microsecond
}

// Count returns the number of recorded samples
func (h *Histogram) Count() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.TotalCount()
}
