package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"prospect/internal/model"
)

// JSON-backed storage: one array file for the active shortlist, one object
// file (keyed by contact name) for the CRM archive. Full-file writes are the
// unit of atomicity; there is no locking because the app assumes a single
// local editor. Other tools read the shortlist file directly, so the format
// stays plain JSON.

// Store reads and writes the two collections.
type Store struct {
	shortlistPath string
	archivePath   string
}

// New returns a Store over the given files.
func New(shortlistPath, archivePath string) *Store {
	return &Store{shortlistPath: shortlistPath, archivePath: archivePath}
}

// ShortlistPath returns the shortlist file location.
func (s *Store) ShortlistPath() string { return s.shortlistPath }

// LoadShortlist reads the shortlist. An absent or unreadable file yields an
// empty list rather than an error; missing CRM fields are back-filled with
// defaults so records written before the CRM fields existed stay valid.
func (s *Store) LoadShortlist() []model.ShortlistEntry {
	b, err := os.ReadFile(s.shortlistPath)
	if err != nil {
		return []model.ShortlistEntry{}
	}
	var entries []model.ShortlistEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return []model.ShortlistEntry{}
	}
	for i := range entries {
		if !entries[i].Status.Valid() {
			entries[i].Status = model.StatusNew
		}
		if entries[i].Status != model.StatusFollowUp {
			entries[i].FollowUpDate = ""
		}
	}
	return entries
}

// SaveShortlist overwrites the whole shortlist file.
func (s *Store) SaveShortlist(entries []model.ShortlistEntry) error {
	if entries == nil {
		entries = []model.ShortlistEntry{}
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.shortlistPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(s.shortlistPath, b, 0o644); err != nil {
		return fmt.Errorf("write shortlist: %w", err)
	}
	return nil
}

// LoadArchive reads the archive map. Absent or corrupt files yield an
// empty map.
func (s *Store) LoadArchive() map[string]model.ArchiveRecord {
	b, err := os.ReadFile(s.archivePath)
	if err != nil {
		return map[string]model.ArchiveRecord{}
	}
	var archive map[string]model.ArchiveRecord
	if err := json.Unmarshal(b, &archive); err != nil || archive == nil {
		return map[string]model.ArchiveRecord{}
	}
	return archive
}

// SaveArchiveEntry merges one record into the archive file, preserving
// unrelated keys. Records are never deleted here.
func (s *Store) SaveArchiveEntry(name string, rec model.ArchiveRecord) error {
	archive := s.LoadArchive()
	archive[name] = rec
	b, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.archivePath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(s.archivePath, b, 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	return nil
}

// ArchivedCRMData returns the archived record for name, or status-new
// defaults when the contact was never archived. Used to repopulate CRM
// fields when a contact re-enters the shortlist.
func (s *Store) ArchivedCRMData(name string) model.ArchiveRecord {
	if rec, ok := s.LoadArchive()[name]; ok {
		if !rec.Status.Valid() {
			rec.Status = model.StatusNew
		}
		return rec
	}
	return model.ArchiveRecord{Status: model.StatusNew}
}
