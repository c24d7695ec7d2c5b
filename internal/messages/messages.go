package messages

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// Message exports carry the same free-text preamble as the connections
// export and timestamps like "2023-06-12 14:01:55 UTC". Rows that cannot be
// dated keep their raw date string and sort last.

var exportTimeFormats = []string{
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Message is one row of the messages export.
type Message struct {
	From    string
	To      string
	Date    time.Time // zero when RawDate did not parse
	RawDate string
	Subject string
	Content string
}

// Incoming reports whether contact sent the message.
func (m Message) Incoming(contact string) bool { return m.From == contact }

// Parse reads a messages CSV, skipping any preamble before the header row.
// Columns are mapped by header name.
func Parse(r io.Reader) ([]Message, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var header map[string]int
	var msgs []Message
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
		raw := field(rec, header, "DATE")
		m := Message{
			From:    field(rec, header, "FROM"),
			To:      field(rec, header, "TO"),
			Date:    parseWhen(raw),
			RawDate: raw,
			Subject: field(rec, header, "SUBJECT"),
			Content: field(rec, header, "CONTENT"),
		}
		if m.From == "" && m.To == "" {
			continue
		}
		msgs = append(msgs, m)
	}
	if header == nil {
		return nil, fmt.Errorf("no header row found")
	}
	return msgs, nil
}

// ParseFile is Parse over a file path.
func ParseFile(path string) ([]Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// History returns the messages exchanged with contact, newest first, capped
// at limit (<= 0 means no cap). Undated messages sort after dated ones.
func History(msgs []Message, contact string, limit int) []Message {
	var out []Message
	for _, m := range msgs {
		if m.From == contact || m.To == contact {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Date.IsZero() != out[b].Date.IsZero() {
			return !out[a].Date.IsZero()
		}
		return out[a].Date.After(out[b].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func parseWhen(s string) time.Time {
	for _, layout := range exportTimeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func isHeader(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) == "FROM" {
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
