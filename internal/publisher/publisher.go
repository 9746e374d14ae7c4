// Package publisher implements the rate-controlled publish loop: it emits
// synthetic payloads at a target cadence for a bounded duration while
// servicing the broker connection on every iteration.
package publisher

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pubbench/pubbench/internal/stats"
)

// Mode selects how the inter-publish interval is scheduled
type Mode string

const (
	// ModeDrift anchors each publish to the ideal timeline
	// (next = previous target + interval), so scheduling jitter does not
	// accumulate over the run.
	ModeDrift Mode = "drift"

	// ModeMeasured times the publish call itself and sleeps the remainder
	// of the interval. A call slower than the interval is not compensated,
	// so the cadence drifts under load. Kept as a selectable behavior for
	// comparison runs.
	ModeMeasured Mode = "measured"
)

// Payload content is irrelevant to the measurement; the buffer is filled
// with the same byte the original harness used.
const fillByte = 'A'

const (
	defaultServiceTimeout = 10 * time.Millisecond
	defaultIdleSleep      = time.Millisecond
)

// Conn is the slice of the broker connection the publish loop needs. The
// full mqtt.Client satisfies it.
type Conn interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	Service(timeout time.Duration) error
}

// Config describes a single publisher run. It is immutable for the
// lifetime of the run.
type Config struct {
	Topic       string
	QoS         byte
	Retained    bool
	PayloadSize int
	Duration    time.Duration
	Interval    time.Duration
	Mode        Mode

	// ServiceTimeout bounds the per-iteration connection service call.
	// Defaults to 10ms.
	ServiceTimeout time.Duration

	// IdleSleep is the pause taken on iterations where no publish is due,
	// so the loop does not busy-spin. Defaults to 1ms.
	IdleSleep time.Duration
}

func (c *Config) applyDefaults() {
	if c.ServiceTimeout <= 0 {
		c.ServiceTimeout = defaultServiceTimeout
	}
	if c.IdleSleep <= 0 {
		c.IdleSleep = defaultIdleSleep
	}
	if c.Mode == "" {
		c.Mode = ModeDrift
	}
}

func (c *Config) validate() error {
	if c.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if c.PayloadSize <= 0 {
		return fmt.Errorf("payload size must be positive, got %d", c.PayloadSize)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", c.Duration)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %s", c.Interval)
	}
	if c.Mode != ModeDrift && c.Mode != ModeMeasured {
		return fmt.Errorf("invalid mode: %s", c.Mode)
	}
	return nil
}

// Runner executes rate-controlled publish runs
type Runner struct {
	cfg    Config
	clock  Clock
	logger *slog.Logger
}

// NewRunner creates a runner for the given run configuration
func NewRunner(cfg Config, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		clock:  SystemClock(),
		logger: logger,
	}
}

// Run publishes until the configured duration elapses and returns a report
// of the run. Publish and service errors are counted, logged and survived;
// only an invalid configuration or context cancellation ends the run early.
//
// The run state (schedule anchor, counters) has exactly one mutator: this
// goroutine. The connection handle may concurrently run its own network
// goroutines; that safety is the client library's contract.
func (r *Runner) Run(ctx context.Context, conn Conn) (*Report, error) {
	cfg := r.cfg
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid run configuration: %w", err)
	}

	payload := bytes.Repeat([]byte{fillByte}, cfg.PayloadSize)
	rep := &Report{Latency: stats.NewHistogram()}

	start := r.clock.Now()
	deadline := start.Add(cfg.Duration)
	next := start

	for {
		now := r.clock.Now()
		if !now.Before(deadline) {
			break
		}

		select {
		case <-ctx.Done():
			rep.Elapsed = r.clock.Now().Sub(start)
			return rep, ctx.Err()
		default:
		}

		// Service the connection every iteration, publish due or not, so
		// keep-alive and inbound dispatch stay healthy over long runs.
		if err := conn.Service(cfg.ServiceTimeout); err != nil {
			rep.ServiceErrors++
			r.logger.Warn("Connection service failed", "error", err)
		}

		switch cfg.Mode {
		case ModeMeasured:
			sendStart := r.clock.Now()
			r.publish(conn, payload, rep, sendStart)
			if cfg.Interval > 0 {
				if spent := r.clock.Now().Sub(sendStart); spent < cfg.Interval {
					r.clock.Sleep(cfg.Interval - spent)
				}
			}

		default: // drift-corrected
			if !now.Before(next) {
				r.publish(conn, payload, rep, now)
				next = next.Add(cfg.Interval)
				continue
			}
			sleep := cfg.IdleSleep
			if until := next.Sub(now); until < sleep {
				sleep = until
			}
			r.clock.Sleep(sleep)
		}
	}

	rep.Elapsed = r.clock.Now().Sub(start)
	return rep, nil
}

func (r *Runner) publish(conn Conn, payload []byte, rep *Report, sendStart time.Time) {
	if err := conn.Publish(r.cfg.Topic, r.cfg.QoS, r.cfg.Retained, payload); err != nil {
		rep.Failed++
		r.logger.Warn("Publish failed", "topic", r.cfg.Topic, "error", err)
		return
	}
	rep.Sent++
	if err := rep.Latency.Record(r.clock.Now().Sub(sendStart)); err != nil {
		r.logger.Debug("Latency sample out of range", "error", err)
	}
}
