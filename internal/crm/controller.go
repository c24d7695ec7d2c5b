package crm

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"prospect/internal/model"
	"prospect/internal/store"
)

// FieldsFn supplies the live editable field values (status, comments,
// follow-up date) from whatever presentation layer is wired in. The
// controller never reads widgets directly.
type FieldsFn func() model.CRMFields

// Controller owns "which contact is being edited". It keeps the snapshot of
// the selected contact's CRM fields as last loaded from the store, detects
// unsaved deltas against it, and writes through to both collections before
// the selection moves on or whenever an intent commits.
type Controller struct {
	store  *store.Store
	log    *zap.Logger
	fields FieldsFn
	now    func() time.Time

	selected string
	snapshot model.CRMFields
	hasSel   bool
}

// NewController wires a controller. now defaults to time.Now and log to a
// no-op logger when nil.
func NewController(st *store.Store, log *zap.Logger, fields FieldsFn, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{store: st, log: log, fields: fields, now: now}
}

// Selected returns the current contact name, if any.
func (c *Controller) Selected() (string, bool) { return c.selected, c.hasSel }

// Snapshot returns the CRM fields as last read from or written to the
// store for the selected contact.
func (c *Controller) Snapshot() model.CRMFields { return c.snapshot }

// Select flushes any unsaved delta on the previous contact, then loads name
// as the new selection. On a write failure the selection does not change,
// so the unsaved edit stays live for a retry; a vanished previous contact
// is surfaced but does not block the switch.
func (c *Controller) Select(name string) error {
	flushErr := c.flushIfDirty()
	var nf NotFoundError
	if flushErr != nil && !errors.As(flushErr, &nf) {
		return flushErr
	}

	c.selected = name
	c.hasSel = true
	c.snapshot = c.loadFields(name)
	c.log.Debug("contact selected", zap.String("name", name))
	return flushErr
}

// Deselect flushes and clears the selection. Same failure semantics as
// Select.
func (c *Controller) Deselect() error {
	flushErr := c.flushIfDirty()
	var nf NotFoundError
	if flushErr != nil && !errors.As(flushErr, &nf) {
		return flushErr
	}
	c.selected = ""
	c.hasSel = false
	c.snapshot = model.CRMFields{}
	return flushErr
}

// ApplyStatus commits a status change immediately: explicit intents are
// atomic, never debounced. Free text the user already typed rides along.
func (c *Controller) ApplyStatus(s model.Status) error {
	if !c.hasSel {
		return nil
	}
	f := c.fields()
	f.Status = s
	return c.commit(c.selected, f)
}

// ApplyFollowUp commits a follow-up offsetDays from today.
func (c *Controller) ApplyFollowUp(offsetDays int) error {
	if !c.hasSel {
		return nil
	}
	f := c.fields()
	f.Status = model.StatusFollowUp
	f.FollowUpDate = model.FollowUpIn(c.now(), offsetDays)
	return c.commit(c.selected, f)
}

// CommitComments applies a debounced edit. name is the contact the edit was
// typed under; an emission left over from a previous selection is dropped.
// An edit equal to the snapshot is a no-op.
func (c *Controller) CommitComments(name, value string) error {
	if !c.hasSel || name != c.selected {
		return nil
	}
	f := c.snapshot
	f.Comments = value
	if f == c.snapshot {
		return nil
	}
	return c.commit(c.selected, f)
}

// flushIfDirty writes through when the live fields differ from the
// snapshot.
func (c *Controller) flushIfDirty() error {
	if !c.hasSel || c.fields == nil {
		return nil
	}
	live := c.fields().Normalized()
	if live == c.snapshot.Normalized() {
		return nil
	}
	c.log.Info("flushing unsaved edit", zap.String("name", c.selected))
	return c.commit(c.selected, live)
}

// commit normalizes, stamps lastUpdated, and writes through to the
// shortlist and the archive. The snapshot only advances on success, so a
// failed write keeps the delta visible for the next flush.
func (c *Controller) commit(name string, f model.CRMFields) error {
	f = f.Normalized()
	entries := c.store.LoadShortlist()
	idx := -1
	for i := range entries {
		if entries[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.log.Warn("commit target missing", zap.String("name", name))
		return NotFoundError{Name: name}
	}

	stamp := c.now().Format(time.RFC3339)
	entries[idx].Status = f.Status
	entries[idx].Comments = f.Comments
	entries[idx].FollowUpDate = f.FollowUpDate
	entries[idx].LastUpdated = stamp

	if err := c.store.SaveShortlist(entries); err != nil {
		c.log.Error("shortlist write failed", zap.String("name", name), zap.Error(err))
		return WriteError{Name: name, Err: err}
	}
	if err := c.store.SaveArchiveEntry(name, model.ArchiveRecord{
		Status:       f.Status,
		Comments:     f.Comments,
		LastUpdated:  stamp,
		FollowUpDate: f.FollowUpDate,
	}); err != nil {
		c.log.Error("archive write failed", zap.String("name", name), zap.Error(err))
		return WriteError{Name: name, Err: err}
	}

	c.snapshot = f
	c.log.Info("committed",
		zap.String("name", name),
		zap.String("status", string(f.Status)),
		zap.String("follow_up", f.FollowUpDate))
	return nil
}

func (c *Controller) loadFields(name string) model.CRMFields {
	for _, e := range c.store.LoadShortlist() {
		if e.Name == name {
			return e.CRMFields().Normalized()
		}
	}
	// Selection of a row that vanished from the store: fall back to the
	// archive so prior CRM context is not silently reset.
	rec := c.store.ArchivedCRMData(name)
	return model.CRMFields{
		Status:       rec.Status,
		Comments:     rec.Comments,
		FollowUpDate: rec.FollowUpDate,
	}.Normalized()
}

// NextIndex resolves a navigation intent against a displayed list of n
// rows. current is -1 when nothing is selected: down selects the first row
// and up the last. Movement clamps at both ends.
func NextIndex(current, delta, n int) int {
	if n == 0 {
		return -1
	}
	if current < 0 {
		if delta > 0 {
			return 0
		}
		return n - 1
	}
	next := current + delta
	if next < 0 {
		return 0
	}
	if next >= n {
		return n - 1
	}
	return next
}
