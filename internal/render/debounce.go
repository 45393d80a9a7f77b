package render

import "time"

// Debouncer coalesces a burst of events into a single ready signal once a
// quiet period has passed after the last event.
type Debouncer struct {
	quiet   time.Duration
	last    time.Time
	pending bool
}

// NewDebouncer creates a Debouncer with the given quiet period.
func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{quiet: quiet}
}

// Trigger records an event at the given time.
func (d *Debouncer) Trigger(now time.Time) {
	d.last = now
	d.pending = true
}

// Ready reports whether the quiet period has elapsed since the last event.
// It returns true at most once per burst.
func (d *Debouncer) Ready(now time.Time) bool {
	if !d.pending {
		return false
	}
	if now.Sub(d.last) < d.quiet {
		return false
	}
	d.pending = false
	return true
}
