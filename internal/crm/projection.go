package crm

import (
	"fmt"
	"sort"
	"time"

	"prospect/internal/model"
)

// UrgencySentinel marks rows without a real follow-up date. It is larger
// than any day count so such rows sort after every dated follow-up.
const UrgencySentinel = int(1) << 30

// Band is a presentation hint derived from how soon a follow-up is due.
type Band int

const (
	BandNone     Band = iota // not a dated follow-up
	BandOverdue              // due today or past
	BandNear                 // within 3 days
	BandSoon                 // within a week
	BandUpcoming             // within two weeks
	BandNeutral              // further out
)

// Row is a display-ready view of one shortlist entry. Projection never
// mutates the underlying entries.
type Row struct {
	model.ShortlistEntry

	StatusLabel string
	UrgencyKey  int // days until follow-up, or UrgencySentinel
}

// UrgencyBand buckets an urgency key into a Band.
func UrgencyBand(urgency int) Band {
	switch {
	case urgency == UrgencySentinel:
		return BandNone
	case urgency <= 0:
		return BandOverdue
	case urgency <= 3:
		return BandNear
	case urgency <= 7:
		return BandSoon
	case urgency <= 14:
		return BandUpcoming
	default:
		return BandNeutral
	}
}

// Project derives rows from entries: status labels, follow-up annotations
// and the stable partial sort that pulls the most time-critical follow-ups
// forward within the slots follow-up rows already occupy. All other rows
// keep their positions, so the caller's primary ordering survives.
func Project(entries []model.ShortlistEntry, today time.Time) []Row {
	rows := make([]Row, 0, len(entries))
	day := civilDay(today)
	for _, e := range entries {
		r := Row{ShortlistEntry: e, StatusLabel: e.Status.Label(), UrgencyKey: UrgencySentinel}
		if e.Status == model.StatusFollowUp && e.FollowUpDate != "" {
			if due, err := time.Parse(model.DateFormat, e.FollowUpDate); err == nil {
				r.UrgencyKey = int(civilDay(due).Sub(day).Hours() / 24)
				r.StatusLabel = fmt.Sprintf("%s (%s)", e.Status.Label(), e.FollowUpDate)
			}
		}
		rows = append(rows, r)
	}
	partialSortByUrgency(rows)
	return rows
}

// FilterByStatus keeps only rows whose status is in allowed (nil or empty
// means everything) and re-applies the urgency ordering so filtering cannot
// disturb it.
func FilterByStatus(rows []Row, allowed map[model.Status]bool) []Row {
	if len(allowed) == 0 {
		out := make([]Row, len(rows))
		copy(out, rows)
		partialSortByUrgency(out)
		return out
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if allowed[r.Status] {
			out = append(out, r)
		}
	}
	partialSortByUrgency(out)
	return out
}

// partialSortByUrgency extracts the rows with a real urgency key, sorts
// them ascending, and reinserts them into the exact index positions they
// previously occupied. Stable for equal keys.
func partialSortByUrgency(rows []Row) {
	var slots []int
	var dated []Row
	for i, r := range rows {
		if r.UrgencyKey != UrgencySentinel {
			slots = append(slots, i)
			dated = append(dated, r)
		}
	}
	if len(dated) < 2 {
		return
	}
	sort.SliceStable(dated, func(a, b int) bool { return dated[a].UrgencyKey < dated[b].UrgencyKey })
	for k, idx := range slots {
		rows[idx] = dated[k]
	}
}

// civilDay collapses a timestamp to its calendar day so day arithmetic is
// immune to time zones and DST.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
