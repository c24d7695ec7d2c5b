package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"prospect/internal/model"
	"prospect/internal/store"
)

func newStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	return store.New(filepath.Join(dir, "shortlist.json"), filepath.Join(dir, "archive.json")), dir
}

func TestLoadShortlistAbsentFile(t *testing.T) {
	st, _ := newStore(t)
	require.Empty(t, st.LoadShortlist())
}

func TestLoadShortlistCorruptFile(t *testing.T) {
	st, dir := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shortlist.json"), []byte("{not json"), 0o644))
	require.Empty(t, st.LoadShortlist())
}

func TestLoadShortlistBackfillsDefaults(t *testing.T) {
	st, dir := newStore(t)
	// A record written before the CRM fields existed.
	raw := `[{"name":"Ada Lovelace","company":"Analytical Engines"},
	         {"name":"Brook Taylor","status":"contacted","follow_up_date":"2026-09-01"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shortlist.json"), []byte(raw), 0o644))

	entries := st.LoadShortlist()
	require.Len(t, entries, 2)
	require.Equal(t, model.StatusNew, entries[0].Status)
	require.Empty(t, entries[0].Comments)
	require.Empty(t, entries[0].LastUpdated)
	// follow_up_date without follow_up status is dropped on load
	require.Equal(t, model.StatusContacted, entries[1].Status)
	require.Empty(t, entries[1].FollowUpDate)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	st, _ := newStore(t)
	in := []model.ShortlistEntry{{
		Name:         "Ada Lovelace",
		Company:      "Analytical Engines",
		Status:       model.StatusFollowUp,
		Comments:     "met at conf",
		FollowUpDate: "2026-09-01",
		LastUpdated:  "2026-08-23T10:00:00Z",
	}}
	require.NoError(t, st.SaveShortlist(in))
	require.Equal(t, in, st.LoadShortlist())
}

func TestArchiveMergePreservesOtherKeys(t *testing.T) {
	st, _ := newStore(t)
	require.NoError(t, st.SaveArchiveEntry("Ada Lovelace", model.ArchiveRecord{
		Status: model.StatusContacted, Comments: "first",
	}))
	require.NoError(t, st.SaveArchiveEntry("Brook Taylor", model.ArchiveRecord{
		Status: model.StatusOnHold,
	}))
	require.NoError(t, st.SaveArchiveEntry("Ada Lovelace", model.ArchiveRecord{
		Status: model.StatusClosedPositive, Comments: "signed",
	}))

	archive := st.LoadArchive()
	require.Len(t, archive, 2)
	require.Equal(t, model.StatusOnHold, archive["Brook Taylor"].Status)
	require.Equal(t, model.StatusClosedPositive, archive["Ada Lovelace"].Status)
	require.Equal(t, "signed", archive["Ada Lovelace"].Comments)
}

func TestArchivedCRMDataDefaults(t *testing.T) {
	st, _ := newStore(t)
	rec := st.ArchivedCRMData("never seen")
	require.Equal(t, model.StatusNew, rec.Status)
	require.Empty(t, rec.Comments)

	require.NoError(t, st.SaveArchiveEntry("Ada Lovelace", model.ArchiveRecord{
		Status: model.StatusFollowUp, FollowUpDate: "2026-09-01",
	}))
	rec = st.ArchivedCRMData("Ada Lovelace")
	require.Equal(t, model.StatusFollowUp, rec.Status)
	require.Equal(t, "2026-09-01", rec.FollowUpDate)
}
