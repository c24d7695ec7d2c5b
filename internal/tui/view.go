package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"prospect/internal/crm"
	"prospect/internal/messages"
	"prospect/internal/model"
)

func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	header := m.headerView()
	footer := m.footerView()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - 2

	var body string
	if m.picking {
		body = m.pickerView(bodyHeight)
	} else {
		left := m.listPane(bodyHeight)
		right := m.detailPane(bodyHeight)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) listWidth() int {
	w := m.width * 2 / 5
	if w < 30 {
		w = 30
	}
	return w
}

func (m *Model) detailWidth() int {
	return m.width - m.listWidth() - 2
}

func (m *Model) headerView() string {
	counts := model.CountByStatus(m.entries)
	parts := []string{
		titleStyle.Render("Shortlist"),
		accentStyle.Render(fmt.Sprintf("Total %d", len(m.entries))),
	}
	for _, s := range model.AllStatuses {
		if n := counts[s]; n > 0 {
			parts = append(parts, mutedStyle.Render(fmt.Sprintf("%s %d", s.Label(), n)))
		}
	}
	return " " + strings.Join(parts, "  ")
}

func (m *Model) footerView() string {
	if m.notice != "" {
		if m.noticeErr {
			return " " + errorStyle.Render("✖ "+m.notice)
		}
		return " " + successStyle.Render("✔ "+m.notice)
	}
	if buf, ok := m.decoder.Buffering(); ok {
		return " " + accentStyle.Render(fmt.Sprintf("follow-up in: %s days…", orZero(buf)))
	}
	if m.filtering {
		return " " + m.nameFilter.View()
	}
	help := "↑/↓ move · 1-8/letters status · f[days] follow-up · tab notes · s filter · / search · q quit"
	return " " + helpStyle.Render(help)
}

// listPane renders the projected rows with a window around the selection.
func (m *Model) listPane(height int) string {
	innerH := height - 2
	if innerH < 1 {
		innerH = 1
	}
	w := m.listWidth() - 4

	var lines []string
	if len(m.rows) == 0 {
		lines = append(lines, mutedStyle.Render("no contacts — run `prospect import`"))
	}
	start := 0
	if m.selIdx >= innerH {
		start = m.selIdx - innerH + 1
	}
	end := start + innerH
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := start; i < end; i++ {
		r := m.rows[i]
		prefix := "  "
		if i == m.selIdx {
			prefix = selectedStyle.Render("> ")
		}
		label := bandStyle(crm.UrgencyBand(r.UrgencyKey)).Render(r.StatusLabel)
		line := fmt.Sprintf("%s%s  %s", prefix, truncate(r.Name, w/2), label)
		if r.Company != "" {
			line += mutedStyle.Render("  " + truncate(r.Company, w/3))
		}
		lines = append(lines, line)
	}

	style := paneStyle
	if m.focus == focusList {
		style = focusedPaneStyle
	}
	return style.Width(m.listWidth()).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) detailPane(height int) string {
	var b strings.Builder
	if m.selIdx < 0 || m.selIdx >= len(m.rows) {
		b.WriteString(mutedStyle.Render("Select a contact from the list to view details"))
	} else {
		r := m.rows[m.selIdx]
		b.WriteString(titleStyle.Render(r.Name) + "\n\n")
		writeField(&b, "Company", r.Company)
		writeField(&b, "Position", r.Position)
		writeField(&b, "Connected", r.ConnectedOn)
		writeField(&b, "Email", r.Email)
		writeField(&b, "Profile", r.ProfileURL)
		b.WriteString("\n")

		status := m.curStatus.Label()
		if m.curStatus == model.StatusFollowUp && m.curFollowUp != "" {
			status = fmt.Sprintf("%s (%s)", status, m.curFollowUp)
		}
		b.WriteString(labelStyle.Render("Status: ") + status + "\n")
		if r.LastUpdated != "" {
			b.WriteString(labelStyle.Render("Updated: ") + mutedStyle.Render(r.LastUpdated) + "\n")
		}
		b.WriteString("\n" + labelStyle.Render("Comments") + "\n")
		b.WriteString(m.comments.View())
		b.WriteString("\n\n" + labelStyle.Render("Messages") + "\n")
		b.WriteString(m.messageHistory(r.Name, m.detailWidth()-6))
	}

	style := paneStyle
	if m.focus == focusComments {
		style = focusedPaneStyle
	}
	return style.Width(m.detailWidth()).Height(height).Render(b.String())
}

// messagesShown caps the history section; the export can hold years of
// conversation and the pane only has a few lines.
const messagesShown = 4

// messageHistory renders the most recent messages exchanged with name,
// newest first, one line each.
func (m *Model) messageHistory(name string, width int) string {
	hist := messages.History(m.msgs, name, 0)
	if len(hist) == 0 {
		return mutedStyle.Render("no messages with this contact")
	}
	var lines []string
	for i, msg := range hist {
		if i == messagesShown {
			lines = append(lines, mutedStyle.Render(
				fmt.Sprintf("showing %d of %d messages", messagesShown, len(hist))))
			break
		}
		when := msg.RawDate
		if !msg.Date.IsZero() {
			when = msg.Date.Format("2006-01-02 15:04")
		}
		direction := "→ them"
		if msg.Incoming(name) {
			direction = "← them"
		}
		body := msg.Content
		if body == "" {
			body = msg.Subject
		}
		// quoted CSV fields can span lines; the pane gets one per message
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			body = body[:nl] + "…"
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s",
			mutedStyle.Render(when), accentStyle.Render(direction), truncate(body, width)))
	}
	return strings.Join(lines, "\n")
}

// pickerView lists "All Statuses" plus each status for the filter.
func (m *Model) pickerView(height int) string {
	var lines []string
	lines = append(lines, titleStyle.Render("Filter by status"), "")
	options := append([]string{"All Statuses"}, statusLabels()...)
	for i, opt := range options {
		prefix := "  "
		if i == m.pickIdx {
			prefix = selectedStyle.Render("> ")
		}
		lines = append(lines, prefix+opt)
	}
	return paneStyle.Width(m.width - 2).Height(height).Render(strings.Join(lines, "\n"))
}

func statusLabels() []string {
	out := make([]string, len(model.AllStatuses))
	for i, s := range model.AllStatuses {
		out[i] = s.Label()
	}
	return out
}

func bandStyle(b crm.Band) lipgloss.Style {
	switch b {
	case crm.BandOverdue:
		return overdueStyle
	case crm.BandNear:
		return nearStyle
	case crm.BandSoon:
		return soonStyle
	case crm.BandUpcoming:
		return upcomingStyle
	default:
		return neutralStyle
	}
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(labelStyle.Render(label+": ") + value + "\n")
}

func truncate(s string, n int) string {
	if n < 4 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
