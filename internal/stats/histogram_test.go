package stats

import (
	"sync"
	"testing"
	"time"
)

func TestHistogramQuantiles(t *testing.T) {
	h := NewHistogram()

	// 1ms..100ms in 1ms steps.
	for i := 1; i <= 100; i++ {
		if err := h.Record(time.Duration(i) * time.Millisecond); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	if h.Count() != 100 {
		t.Errorf("Count() = %d, want 100", h.Count())
	}

	within := func(got, want, tolerance time.Duration) bool {
		diff := got - want
		if diff < 0 {
			diff = -diff
		}
		return diff <= tolerance
	}

	if got := h.Quantile(50); !within(got, 50*time.Millisecond, time.Millisecond) {
		t.Errorf("Quantile(50) = %v, want ~50ms", got)
	}
	if got := h.Quantile(99); !within(got, 99*time.Millisecond, time.Millisecond) {
		t.Errorf("Quantile(99) = %v, want ~99ms", got)
	}
	if got := h.Max(); !within(got, 100*time.Millisecond, time.Millisecond) {
		t.Errorf("Max() = %v, want ~100ms", got)
	}
	if got := h.Mean(); !within(got, 50500*time.Microsecond, time.Millisecond) {
		t.Errorf("Mean() = %v, want ~50.5ms", got)
	}
}

func TestHistogramClampsSubMicrosecond(t *testing.T) {
	h := NewHistogram()

	if err := h.Record(0); err != nil {
		t.Fatalf("Record(0) error: %v", err)
	}
	if err := h.Record(100 * time.Nanosecond); err != nil {
		t.Fatalf("Record(100ns) error: %v", err)
	}

	if h.Count() != 2 {
		t.Errorf("Count() = %d, want 2", h.Count())
	}
	if got := h.Max(); got != time.Microsecond {
		t.Errorf("Max() = %v, want 1us", got)
	}
}

func TestHistogramConcurrentRecord(t *testing.T) {
	h := NewHistogram()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				h.Record(time.Millisecond)
			}
		}()
	}
	wg.Wait()

	if h.Count() != 8000 {
		t.Errorf("Count() = %d, want 8000", h.Count())
	}
}
