package model

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the wire format for follow-up dates.
const DateFormat = "2006-01-02"

// Status is the CRM pipeline stage of a shortlisted contact.
type Status string

const (
	StatusNew              Status = "new"
	StatusToContact        Status = "to_contact"
	StatusContacted        Status = "contacted"
	StatusInConversation   Status = "in_conversation"
	StatusMeetingScheduled Status = "meeting_scheduled"
	StatusFollowUp         Status = "follow_up"
	StatusOnHold           Status = "on_hold"
	StatusClosedPositive   Status = "closed_positive"
	StatusClosedNegative   Status = "closed_negative"
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{
	StatusNew,
	StatusToContact,
	StatusContacted,
	StatusInConversation,
	StatusMeetingScheduled,
	StatusFollowUp,
	StatusOnHold,
	StatusClosedPositive,
	StatusClosedNegative,
}

var statusLabels = map[Status]string{
	StatusNew:              "New",
	StatusToContact:        "To Contact",
	StatusContacted:        "Contacted",
	StatusInConversation:   "In Conversation",
	StatusMeetingScheduled: "Meeting Scheduled",
	StatusFollowUp:         "Follow Up",
	StatusOnHold:           "On Hold",
	StatusClosedPositive:   "Closed (Positive)",
	StatusClosedNegative:   "Closed (Negative)",
}

// Label returns the human-readable name for s.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return statusLabels[StatusNew]
}

// Valid reports whether s is a known status id.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// ParseStatus normalizes a status id. Empty input maps to "new" so older
// records without CRM fields stay loadable.
func ParseStatus(s string) (Status, error) {
	id := Status(strings.ToLower(strings.TrimSpace(s)))
	if id == "" {
		return StatusNew, nil
	}
	if !id.Valid() {
		return "", fmt.Errorf("unknown status: %q", s)
	}
	return id, nil
}

// ShortlistEntry is one shortlisted contact. Name is the unique key within
// the shortlist and the join key to the archive. The display fields come
// from the connections export and are never edited here.
type ShortlistEntry struct {
	Name        string `json:"name"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	ConnectedOn string `json:"connected_on"`
	ProfileURL  string `json:"profile_url"`
	Email       string `json:"email"`

	Status       Status `json:"status"`
	Comments     string `json:"comments"`
	LastUpdated  string `json:"last_updated,omitempty"`
	FollowUpDate string `json:"follow_up_date,omitempty"`
}

// CRMFields returns the editable triple of e.
func (e ShortlistEntry) CRMFields() CRMFields {
	return CRMFields{Status: e.Status, Comments: e.Comments, FollowUpDate: e.FollowUpDate}
}

// CRMFields is the editable state of one contact, also used as the
// loaded snapshot for change detection.
type CRMFields struct {
	Status       Status
	Comments     string
	FollowUpDate string // YYYY-MM-DD, "" = unset
}

// Normalized enforces the follow-up invariant: a date is only meaningful
// while the status is follow_up.
func (f CRMFields) Normalized() CRMFields {
	if f.Status == "" {
		f.Status = StatusNew
	}
	if f.Status != StatusFollowUp {
		f.FollowUpDate = ""
	}
	return f
}

// ArchiveRecord mirrors the CRM fields of a contact so they survive
// removal from the shortlist.
type ArchiveRecord struct {
	Status       Status `json:"status"`
	Comments     string `json:"comments"`
	LastUpdated  string `json:"last_updated,omitempty"`
	FollowUpDate string `json:"follow_up_date,omitempty"`
}

// FollowUpIn computes the follow-up date offset days after today.
func FollowUpIn(today time.Time, offsetDays int) string {
	return today.AddDate(0, 0, offsetDays).Format(DateFormat)
}

// CountByStatus tallies entries per status. Unknown ids count as "new",
// matching the store's defaulting.
func CountByStatus(entries []ShortlistEntry) map[Status]int {
	counts := make(map[Status]int, len(AllStatuses))
	for _, e := range entries {
		s := e.Status
		if !s.Valid() {
			s = StatusNew
		}
		counts[s]++
	}
	return counts
}
