package crm

import "time"

// DefaultDebounceWindow is the quiescence window for free-text edits.
const DefaultDebounceWindow = 500 * time.Millisecond

// Emission is one debounced value, carrying the timestamp of the keystroke
// that produced it.
type Emission struct {
	Value string
	At    time.Time
}

// Debounce coalesces rapid free-text changes into a single emission once no
// newer change has arrived for a full window. Last write wins: each Note
// supersedes the previous pending value and restarts the window.
type Debounce struct {
	window  time.Duration
	pending Emission
	armed   bool
}

// NewDebounce returns a Debounce with the given window
// (<= 0 selects the default).
func NewDebounce(window time.Duration) *Debounce {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debounce{window: window}
}

// Note records a text change at now and (re)arms the check.
func (d *Debounce) Note(value string, now time.Time) {
	d.pending = Emission{Value: value, At: now}
	d.armed = true
}

// Poll emits the pending value once the window has elapsed with no newer
// Note, then disarms until the next Note. At most one emission per
// quiescence period; polling with nothing armed is a no-op.
func (d *Debounce) Poll(now time.Time) (Emission, bool) {
	if !d.armed || now.Sub(d.pending.At) < d.window {
		return Emission{}, false
	}
	d.armed = false
	return d.pending, true
}

// Reset drops any pending edit, e.g. when the selection changes.
func (d *Debounce) Reset() {
	d.armed = false
	d.pending = Emission{}
}
