package quiz

import "math"

// MinSeconds is the shortest countdown a timer will run. Configured
// durations below this are raised to it so a session is never a degenerate
// few seconds long.
const MinSeconds = 60

// Timer is a one-second-granularity countdown owned by a session. It does no
// scheduling of its own: the owner delivers ticks (the quiz screen runs a
// one-second tick loop, tests call Tick directly) and the timer guarantees
// expiry is reported exactly once per Start.
type Timer struct {
	// Remaining is the number of whole seconds left. Never negative.
	Remaining int

	running bool
}

// Start arms the timer with at least MinSeconds seconds.
func (t *Timer) Start(seconds int) {
	if seconds < MinSeconds {
		seconds = MinSeconds
	}
	t.Remaining = seconds
	t.running = true
}

// Stop disarms the timer. Idempotent; safe on a timer that never started.
func (t *Timer) Stop() {
	t.running = false
}

// Running reports whether the timer is armed and consuming ticks.
func (t *Timer) Running() bool {
	return t.running
}

// Tick consumes one second and reports whether this tick reached zero.
// Ticks delivered after Stop, or after expiry has already been reported,
// do nothing.
func (t *Timer) Tick() (expired bool) {
	if !t.running {
		return false
	}
	if t.Remaining > 0 {
		t.Remaining--
	}
	if t.Remaining > 0 {
		return false
	}
	t.Remaining = 0
	t.running = false
	return true
}

// MinutesToSeconds converts a configured duration in minutes to timer
// seconds, rounding fractional minutes to the nearest whole minute.
func MinutesToSeconds(minutes float64) int {
	return int(math.Round(minutes)) * 60
}
