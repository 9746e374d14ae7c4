package publisher

import (
	"fmt"
	"time"

	"github.com/pubbench/pubbench/internal/stats"
)

// Report summarizes a completed publisher run
type Report struct {
	Sent          int
	Failed        int
	ServiceErrors int
	Elapsed       time.Duration
	Latency       *stats.Histogram
}

// Rate returns the achieved publish rate in messages per second
func (r *Report) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Sent) / r.Elapsed.Seconds()
}

// Degraded reports whether connection servicing failed at any point
// during the run
func (r *Report) Degraded() bool {
	return r.ServiceErrors > 0
}

// Summary renders the human-readable completion line
func (r *Report) Summary() string {
	s := fmt.Sprintf("sent %d messages in %.1fs (%.1f msg/s, %d failed)",
		r.Sent, r.Elapsed.Seconds(), r.Rate(), r.Failed)
	if r.Latency != nil && r.Latency.Count() > 0 {
		s += fmt.Sprintf(", publish latency p50=%s p99=%s max=%s",
			r.Latency.Quantile(50), r.Latency.Quantile(99), r.Latency.Max())
	}
	return s
}
