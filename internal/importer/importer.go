package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"prospect/internal/model"
	"prospect/internal/store"
)

// Connections CSV exports carry a free-text preamble before the header row
// and dates like "16 Sep 2025". The importer tolerates both and maps
// columns by header name so column reordering does not break it.

const exportDateFormat = "02 Jan 2006"

// Connection is one row of the connections export.
type Connection struct {
	Name        string
	Company     string
	Position    string
	ConnectedOn string // normalized to YYYY-MM-DD when parseable
	ProfileURL  string
	Email       string
}

// ParseConnections reads a connections CSV, skipping any preamble before
// the header row.
func ParseConnections(r io.Reader) ([]Connection, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var header map[string]int
	var conns []Connection
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if header == nil {
			if isHeader(rec) {
				header = indexHeader(rec)
			}
			continue
		}
		c := Connection{
			Name:        strings.TrimSpace(field(rec, header, "First Name") + " " + field(rec, header, "Last Name")),
			Company:     field(rec, header, "Company"),
			Position:    field(rec, header, "Position"),
			ConnectedOn: normalizeDate(field(rec, header, "Connected On")),
			ProfileURL:  field(rec, header, "URL"),
			Email:       field(rec, header, "Email Address"),
		}
		if c.Name == "" {
			continue
		}
		conns = append(conns, c)
	}
	if header == nil {
		return nil, fmt.Errorf("no header row found")
	}
	return conns, nil
}

// ParseConnectionsFile is ParseConnections over a file path.
func ParseConnectionsFile(path string) ([]Connection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ParseConnections(f)
}

// Result summarizes a Sync run.
type Result struct {
	Added     int
	Refreshed int
	Missing   []string // requested names absent from the export
}

// Sync merges export rows into the shortlist. With names given, those
// contacts are shortlisted (CRM fields recovered from the current shortlist
// or, for re-added contacts, from the archive). Without names, only the
// display fields of contacts already shortlisted are refreshed.
func Sync(st *store.Store, conns []Connection, names []string) (Result, error) {
	byName := make(map[string]Connection, len(conns))
	for _, c := range conns {
		byName[c.Name] = c
	}

	entries := st.LoadShortlist()
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Name] = i
	}

	var res Result
	if len(names) == 0 {
		for i := range entries {
			c, ok := byName[entries[i].Name]
			if !ok {
				continue
			}
			applyDisplayFields(&entries[i], c)
			res.Refreshed++
		}
	} else {
		for _, name := range names {
			c, ok := byName[name]
			if !ok {
				res.Missing = append(res.Missing, name)
				continue
			}
			if i, exists := index[name]; exists {
				applyDisplayFields(&entries[i], c)
				res.Refreshed++
				continue
			}
			rec := st.ArchivedCRMData(name)
			entries = append(entries, model.ShortlistEntry{
				Name:         c.Name,
				Company:      c.Company,
				Position:     c.Position,
				ConnectedOn:  c.ConnectedOn,
				ProfileURL:   c.ProfileURL,
				Email:        c.Email,
				Status:       rec.Status,
				Comments:     rec.Comments,
				LastUpdated:  rec.LastUpdated,
				FollowUpDate: rec.FollowUpDate,
			})
			index[name] = len(entries) - 1
			res.Added++
		}
	}

	if err := st.SaveShortlist(entries); err != nil {
		return Result{}, err
	}
	return res, nil
}

func applyDisplayFields(e *model.ShortlistEntry, c Connection) {
	e.Company = c.Company
	e.Position = c.Position
	e.ConnectedOn = c.ConnectedOn
	e.ProfileURL = c.ProfileURL
	e.Email = c.Email
}

func isHeader(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) == "First Name" {
			return true
		}
	}
	return false
}

func indexHeader(rec []string) map[string]int {
	idx := make(map[string]int, len(rec))
	for i, cell := range rec {
		idx[strings.TrimSpace(cell)] = i
	}
	return idx
}

func field(rec []string, header map[string]int, name string) string {
	i, ok := header[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func normalizeDate(s string) string {
	if s == "" {
		return ""
	}
	if t, err := time.Parse(exportDateFormat, s); err == nil {
		return t.Format(model.DateFormat)
	}
	return s
}
