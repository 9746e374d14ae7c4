package scenario

import (
	"strings"
	"testing"
)

func TestLoadBytes(t *testing.T) {
	yaml := `
name: qos-sweep
runs:
  - name: qos0-fast
    topic: bench/qos0
    qos: 0
    payload_size: 128
    duration_sec: 5
    interval_sec: 0.1
  - name: qos1-slow
    qos: 1
    interval_sec: 1.0
    mode: measured
  - name: saturate
    interval_sec: 0
`

	s, err := LoadBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadBytes() error: %v", err)
	}

	if s.Name != "qos-sweep" {
		t.Errorf("Name = %v, want qos-sweep", s.Name)
	}
	if len(s.Runs) != 3 {
		t.Fatalf("len(Runs) = %d, want 3", len(s.Runs))
	}

	first := s.Runs[0]
	if first.Topic != "bench/qos0" {
		t.Errorf("Runs[0].Topic = %v, want bench/qos0", first.Topic)
	}
	if first.QoS == nil || *first.QoS != 0 {
		t.Errorf("Runs[0].QoS = %v, want 0", first.QoS)
	}
	if first.PayloadSize != 128 {
		t.Errorf("Runs[0].PayloadSize = %v, want 128", first.PayloadSize)
	}
	if first.IntervalSec == nil || *first.IntervalSec != 0.1 {
		t.Errorf("Runs[0].IntervalSec = %v, want 0.1", first.IntervalSec)
	}

	second := s.Runs[1]
	if second.Topic != "" {
		t.Errorf("Runs[1].Topic = %v, want empty (fall back to flags)", second.Topic)
	}
	if second.Mode != "measured" {
		t.Errorf("Runs[1].Mode = %v, want measured", second.Mode)
	}

	// Explicit zero interval must survive as a set value, not fall back.
	third := s.Runs[2]
	if third.IntervalSec == nil || *third.IntervalSec != 0 {
		t.Errorf("Runs[2].IntervalSec = %v, want explicit 0", third.IntervalSec)
	}
}

func TestLoadBytesInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "not yaml",
			yaml:    "{{{",
			wantErr: "failed to parse",
		},
		{
			name:    "no runs",
			yaml:    "name: empty\nruns: []\n",
			wantErr: "no runs",
		},
		{
			name:    "negative duration",
			yaml:    "runs:\n  - name: bad\n    duration_sec: -1\n",
			wantErr: "duration",
		},
		{
			name:    "negative interval",
			yaml:    "runs:\n  - name: bad\n    interval_sec: -0.5\n",
			wantErr: "interval",
		},
		{
			name:    "qos out of range",
			yaml:    "runs:\n  - name: bad\n    qos: 3\n",
			wantErr: "QoS",
		},
		{
			name:    "unknown mode",
			yaml:    "runs:\n  - name: bad\n    mode: burst\n",
			wantErr: "invalid mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.yaml))
			if err == nil {
				t.Fatal("LoadBytes() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/scenario.yaml"); err == nil {
		t.Fatal("Load() succeeded for missing file, want error")
	}
}
