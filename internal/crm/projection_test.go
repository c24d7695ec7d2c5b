package crm_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"prospect/internal/crm"
	"prospect/internal/model"
)

var today = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

func followUp(name string, offsetDays int) model.ShortlistEntry {
	return model.ShortlistEntry{
		Name:         name,
		Status:       model.StatusFollowUp,
		FollowUpDate: today.AddDate(0, 0, offsetDays).Format(model.DateFormat),
	}
}

func plain(name string, s model.Status) model.ShortlistEntry {
	return model.ShortlistEntry{Name: name, Status: s}
}

func names(rows []crm.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestProjectNoFollowUpsPreservesOrder(t *testing.T) {
	entries := []model.ShortlistEntry{
		plain("a", model.StatusNew),
		plain("b", model.StatusContacted),
		plain("c", model.StatusOnHold),
	}
	rows := crm.Project(entries, today)
	require.Equal(t, []string{"a", "b", "c"}, names(rows))
	for _, r := range rows {
		require.Equal(t, crm.UrgencySentinel, r.UrgencyKey)
		require.Equal(t, crm.BandNone, crm.UrgencyBand(r.UrgencyKey))
	}
}

func TestProjectPartialSort(t *testing.T) {
	// Follow-ups resorted ascending by urgency into their original slots
	// (0 and 2); everything else untouched.
	entries := []model.ShortlistEntry{
		followUp("A", 5),
		plain("B", model.StatusNew),
		followUp("C", -1),
		plain("D", model.StatusNew),
	}
	rows := crm.Project(entries, today)
	require.Equal(t, []string{"C", "B", "A", "D"}, names(rows))
	require.Equal(t, -1, rows[0].UrgencyKey)
	require.Equal(t, 5, rows[2].UrgencyKey)
}

func TestProjectStatusLabels(t *testing.T) {
	rows := crm.Project([]model.ShortlistEntry{
		followUp("A", 2),
		plain("B", model.StatusMeetingScheduled),
	}, today)
	require.Equal(t, "Follow Up ("+today.AddDate(0, 0, 2).Format(model.DateFormat)+")", rows[0].StatusLabel)
	require.Equal(t, "Meeting Scheduled", rows[1].StatusLabel)
}

func TestUrgencyBands(t *testing.T) {
	tests := []struct {
		urgency int
		want    crm.Band
	}{
		{-3, crm.BandOverdue},
		{0, crm.BandOverdue},
		{1, crm.BandNear},
		{3, crm.BandNear},
		{7, crm.BandSoon},
		{14, crm.BandUpcoming},
		{15, crm.BandNeutral},
		{crm.UrgencySentinel, crm.BandNone},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, crm.UrgencyBand(tc.urgency), "urgency %d", tc.urgency)
	}
}

func TestFilterByStatusKeepsUrgencyOrdering(t *testing.T) {
	entries := []model.ShortlistEntry{
		followUp("A", 5),
		plain("B", model.StatusNew),
		followUp("C", -1),
		plain("D", model.StatusContacted),
	}
	rows := crm.Project(entries, today)

	filtered := crm.FilterByStatus(rows, map[model.Status]bool{model.StatusFollowUp: true})
	require.Equal(t, []string{"C", "A"}, names(filtered))

	// nil filter returns everything, order intact
	all := crm.FilterByStatus(rows, nil)
	require.Equal(t, names(rows), names(all))
}

func TestProjectDoesNotMutateEntries(t *testing.T) {
	entries := []model.ShortlistEntry{followUp("A", 5), followUp("C", -1)}
	_ = crm.Project(entries, today)
	require.Equal(t, "A", entries[0].Name)
	require.Equal(t, "C", entries[1].Name)
}
