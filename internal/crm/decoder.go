package crm

import (
	"strconv"
	"time"

	"prospect/internal/model"
)

// DefaultFollowUpCommitWindow is how long the decoder waits for more offset
// digits before committing a follow-up intent.
const DefaultFollowUpCommitWindow = 500 * time.Millisecond

// IntentKind discriminates decoded intents.
type IntentKind int

const (
	IntentStatus IntentKind = iota
	IntentFollowUp
	IntentNavigate
)

// Intent is one discrete action decoded from raw key presses.
type Intent struct {
	Kind IntentKind

	Status     model.Status // IntentStatus
	OffsetDays int          // IntentFollowUp: follow-up in N days from today
	Delta      int          // IntentNavigate: -1 up, +1 down
}

// statusKeys maps idle-state keys to statuses: digits 1-8 in display order
// and one letter mnemonic per status. "f" is not here; it opens the
// follow-up offset buffer instead.
var statusKeys = map[string]model.Status{
	"1": model.StatusNew,
	"2": model.StatusToContact,
	"3": model.StatusContacted,
	"4": model.StatusInConversation,
	"5": model.StatusMeetingScheduled,
	"6": model.StatusOnHold,
	"7": model.StatusClosedPositive,
	"8": model.StatusClosedNegative,
	"n": model.StatusNew,
	"t": model.StatusToContact,
	"c": model.StatusContacted,
	"i": model.StatusInConversation,
	"m": model.StatusMeetingScheduled,
	"h": model.StatusOnHold,
	"p": model.StatusClosedPositive,
	"x": model.StatusClosedNegative,
}

// followUpKey opens the offset buffer.
const followUpKey = "f"

type decoderState int

const (
	stateIdle decoderState = iota
	stateBuffering
)

// Decoder turns raw key events into intents. It is single-threaded: the
// caller feeds keys with HandleKey and drains intents with Poll, which also
// fires the buffered follow-up commit once its deadline passes. The caller
// must not feed keys while a text control has focus.
type Decoder struct {
	window   time.Duration
	state    decoderState
	buffer   string
	deadline time.Time
	queue    []Intent
}

// NewDecoder returns a Decoder with the given commit window
// (<= 0 selects the default).
func NewDecoder(window time.Duration) *Decoder {
	if window <= 0 {
		window = DefaultFollowUpCommitWindow
	}
	return &Decoder{window: window}
}

// HandleKey consumes one key event. Keys the decoder does not recognize are
// ignored in the idle state; in the buffering state they commit the buffer
// and are then re-processed as fresh idle events so a quick "f" followed by
// a status letter yields two intents, not a dropped one.
func (d *Decoder) HandleKey(key string, now time.Time) {
	if d.state == stateBuffering {
		switch {
		case isDigit(key):
			d.buffer += key
			d.deadline = now.Add(d.window)
			return
		case key == "enter":
			d.commitFollowUp()
			return
		default:
			d.commitFollowUp()
			// fall through: the key becomes a new idle-state event
		}
	}

	switch {
	case key == followUpKey:
		d.state = stateBuffering
		d.buffer = ""
		d.deadline = now.Add(d.window)
	case key == "up":
		d.push(Intent{Kind: IntentNavigate, Delta: -1})
	case key == "down":
		d.push(Intent{Kind: IntentNavigate, Delta: +1})
	default:
		if s, ok := statusKeys[key]; ok {
			d.push(Intent{Kind: IntentStatus, Status: s})
		}
	}
}

// Poll returns the next pending intent, if any. It first checks whether the
// follow-up commit deadline has elapsed. A poll with nothing pending is a
// no-op, so the caller can probe on a fixed tick.
func (d *Decoder) Poll(now time.Time) (Intent, bool) {
	if d.state == stateBuffering && !now.Before(d.deadline) {
		d.commitFollowUp()
	}
	if len(d.queue) == 0 {
		return Intent{}, false
	}
	in := d.queue[0]
	d.queue = d.queue[1:]
	return in, true
}

// Reset drops buffered and pending state. Called when the selection
// changes so no half-typed sequence leaks onto another contact.
func (d *Decoder) Reset() {
	d.state = stateIdle
	d.buffer = ""
	d.queue = nil
}

// Buffering reports whether an offset buffer is open (used by the UI to
// show the pending "f" sequence).
func (d *Decoder) Buffering() (string, bool) {
	return d.buffer, d.state == stateBuffering
}

func (d *Decoder) commitFollowUp() {
	offset := 0
	if d.buffer != "" {
		// Only digits ever reach the buffer; a parse failure means offset 0.
		if n, err := strconv.Atoi(d.buffer); err == nil {
			offset = n
		}
	}
	d.push(Intent{Kind: IntentFollowUp, OffsetDays: offset})
	d.state = stateIdle
	d.buffer = ""
}

func (d *Decoder) push(in Intent) {
	d.queue = append(d.queue, in)
}

func isDigit(key string) bool {
	return len(key) == 1 && key[0] >= '0' && key[0] <= '9'
}
