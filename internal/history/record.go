// Package history persists a summary record per completed publisher run,
// so results survive across invocations of the harness.
package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pubbench/pubbench/internal/publisher"
)

// Record is the durable summary of one publisher run
type Record struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	Broker      string    `json:"broker"`
	Topic       string    `json:"topic"`
	Mode        string    `json:"mode"`
	QoS         int       `json:"qos"`
	PayloadSize int       `json:"payload_size"`
	DurationSec float64   `json:"duration_sec"`
	IntervalSec float64   `json:"interval_sec"`

	Sent          int     `json:"sent"`
	Failed        int     `json:"failed"`
	ServiceErrors int     `json:"service_errors"`
	ElapsedSec    float64 `json:"elapsed_sec"`
	Rate          float64 `json:"rate_msg_per_sec"`
	P99LatencyUs  int64   `json:"p99_latency_us"`
	Degraded      bool    `json:"degraded"`
}

// NewRecord builds a record from a run configuration and its report
func NewRecord(broker string, cfg publisher.Config, rep *publisher.Report) Record {
	rec := Record{
		ID:          uuid.New().String(),
		StartedAt:   time.Now().UTC().Add(-rep.Elapsed),
		Broker:      broker,
		Topic:       cfg.Topic,
		Mode:        string(cfg.Mode),
		QoS:         int(cfg.QoS),
		PayloadSize: cfg.PayloadSize,
		DurationSec: cfg.Duration.Seconds(),
		IntervalSec: cfg.Interval.Seconds(),

		Sent:          rep.Sent,
		Failed:        rep.Failed,
		ServiceErrors: rep.ServiceErrors,
		ElapsedSec:    rep.Elapsed.Seconds(),
		Rate:          rep.Rate(),
		Degraded:      rep.Degraded(),
	}
	if rep.Latency != nil && rep.Latency.Count() > 0 {
		rec.P99LatencyUs = rep.Latency.Quantile(99).Microseconds()
	}
	return rec
}

// String renders a record as a single history listing line
func (r Record) String() string {
	return fmt.Sprintf("%s  %s  %s  size=%dB interval=%.3gs  sent=%d failed=%d rate=%.1f msg/s",
		r.StartedAt.Format(time.RFC3339), r.Topic, r.Mode,
		r.PayloadSize, r.IntervalSec, r.Sent, r.Failed, r.Rate)
}
