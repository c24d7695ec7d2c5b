package crm_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"prospect/internal/crm"
	"prospect/internal/model"
)

const window = 500 * time.Millisecond

func drain(d *crm.Decoder, now time.Time) []crm.Intent {
	var out []crm.Intent
	for {
		in, ok := d.Poll(now)
		if !ok {
			return out
		}
		out = append(out, in)
	}
}

func TestDecodeStatusKeys(t *testing.T) {
	tests := []struct {
		key  string
		want model.Status
	}{
		{"1", model.StatusNew},
		{"5", model.StatusMeetingScheduled},
		{"8", model.StatusClosedNegative},
		{"n", model.StatusNew},
		{"c", model.StatusContacted},
		{"x", model.StatusClosedNegative},
	}
	now := time.Unix(0, 0)
	for _, tc := range tests {
		d := crm.NewDecoder(window)
		d.HandleKey(tc.key, now)
		intents := drain(d, now)
		require.Len(t, intents, 1, tc.key)
		require.Equal(t, crm.IntentStatus, intents[0].Kind)
		require.Equal(t, tc.want, intents[0].Status)
	}
}

func TestDecodeNavigation(t *testing.T) {
	d := crm.NewDecoder(window)
	now := time.Unix(0, 0)
	d.HandleKey("down", now)
	d.HandleKey("up", now)
	intents := drain(d, now)
	require.Len(t, intents, 2)
	require.Equal(t, +1, intents[0].Delta)
	require.Equal(t, -1, intents[1].Delta)
}

func TestFollowUpBufferCommitsOnTimer(t *testing.T) {
	d := crm.NewDecoder(window)
	now := time.Unix(0, 0)

	d.HandleKey("f", now)
	d.HandleKey("2", now.Add(100*time.Millisecond))
	d.HandleKey("0", now.Add(200*time.Millisecond))

	// Before the deadline (which restarted at the "0") nothing commits.
	_, ok := d.Poll(now.Add(600 * time.Millisecond))
	require.False(t, ok)

	in, ok := d.Poll(now.Add(200*time.Millisecond + window))
	require.True(t, ok)
	require.Equal(t, crm.IntentFollowUp, in.Kind)
	require.Equal(t, 20, in.OffsetDays)
}

func TestFollowUpEmptyBufferIsToday(t *testing.T) {
	d := crm.NewDecoder(window)
	now := time.Unix(0, 0)
	d.HandleKey("f", now)
	d.HandleKey("enter", now.Add(50*time.Millisecond))

	in, ok := d.Poll(now.Add(50 * time.Millisecond))
	require.True(t, ok)
	require.Equal(t, crm.IntentFollowUp, in.Kind)
	require.Equal(t, 0, in.OffsetDays)
}

func TestFollowUpInterruptedByStatusKey(t *testing.T) {
	// "f" then a status letter before the timer elapses: the buffer
	// commits as offset 0 and the letter is re-processed as a new intent.
	d := crm.NewDecoder(window)
	now := time.Unix(0, 0)
	d.HandleKey("f", now)
	d.HandleKey("c", now.Add(100*time.Millisecond))

	intents := drain(d, now.Add(100*time.Millisecond))
	require.Len(t, intents, 2)
	require.Equal(t, crm.IntentFollowUp, intents[0].Kind)
	require.Equal(t, 0, intents[0].OffsetDays)
	require.Equal(t, crm.IntentStatus, intents[1].Kind)
	require.Equal(t, model.StatusContacted, intents[1].Status)
}

func TestDigitResetsCommitTimer(t *testing.T) {
	d := crm.NewDecoder(window)
	now := time.Unix(0, 0)
	d.HandleKey("f", now)
	// Each digit restarts the window: a single timer, never stacked.
	for i := 1; i <= 3; i++ {
		d.HandleKey("1", now.Add(time.Duration(i)*400*time.Millisecond))
	}
	_, ok := d.Poll(now.Add(1500 * time.Millisecond))
	require.False(t, ok)

	in, ok := d.Poll(now.Add(1200*time.Millisecond + window))
	require.True(t, ok)
	require.Equal(t, 111, in.OffsetDays)
}

func TestPollWithNothingPendingIsNoOp(t *testing.T) {
	d := crm.NewDecoder(window)
	now := time.Unix(0, 0)
	_, ok := d.Poll(now)
	require.False(t, ok)
	_, ok = d.Poll(now.Add(time.Hour))
	require.False(t, ok)
}

func TestUnknownKeysIgnoredInIdle(t *testing.T) {
	d := crm.NewDecoder(window)
	now := time.Unix(0, 0)
	d.HandleKey("z", now)
	d.HandleKey("enter", now)
	d.HandleKey("9", now)
	require.Empty(t, drain(d, now))
}

func TestResetDropsBufferAndQueue(t *testing.T) {
	d := crm.NewDecoder(window)
	now := time.Unix(0, 0)
	d.HandleKey("c", now)
	d.HandleKey("f", now)
	d.HandleKey("7", now)
	d.Reset()
	require.Empty(t, drain(d, now.Add(time.Hour)))
	_, buffering := d.Buffering()
	require.False(t, buffering)
}
