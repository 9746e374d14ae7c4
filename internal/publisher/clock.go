package publisher

import "time"

// Clock abstracts wall time so run timing can be driven by a virtual
// clock in tests
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock returns a Clock backed by real time
func SystemClock() Clock {
	return systemClock{}
}
