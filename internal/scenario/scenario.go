// Package scenario loads YAML files describing a sequence of publisher
// runs, replacing the original practice of keeping one edited binary per
// measurement variant.
package scenario

import (
	"fmt"
)

// Scenario is a named sequence of publisher runs executed in order
type Scenario struct {
	Name string `yaml:"name"`
	Runs []Run  `yaml:"runs"`
}

// Run describes one publisher run within a scenario. Zero values fall
// back to the values configured on the command line.
type Run struct {
	Name        string   `yaml:"name"`
	Topic       string   `yaml:"topic"`
	QoS         *int     `yaml:"qos"`
	PayloadSize int      `yaml:"payload_size"`
	DurationSec float64  `yaml:"duration_sec"`
	IntervalSec *float64 `yaml:"interval_sec"`
	Mode        string   `yaml:"mode"`
}

// Validate checks a loaded scenario before any run starts
func Validate(s *Scenario) error {
	if len(s.Runs) == 0 {
		return fmt.Errorf("scenario has no runs")
	}

	for i, run := range s.Runs {
		if run.PayloadSize < 0 {
			return fmt.Errorf("run %d (%s): payload size must not be negative", i, run.Name)
		}
		if run.DurationSec < 0 {
			return fmt.Errorf("run %d (%s): duration must not be negative", i, run.Name)
		}
		if run.IntervalSec != nil && *run.IntervalSec < 0 {
			return fmt.Errorf("run %d (%s): interval must not be negative", i, run.Name)
		}
		if run.QoS != nil && (*run.QoS < 0 || *run.QoS > 2) {
			return fmt.Errorf("run %d (%s): QoS must be 0, 1 or 2", i, run.Name)
		}
		switch run.Mode {
		case "", "drift", "measured":
		default:
			return fmt.Errorf("run %d (%s): invalid mode %q", i, run.Name, run.Mode)
		}
	}

	return nil
}
