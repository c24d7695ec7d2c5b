package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"prospect/internal/config"
	"prospect/internal/crm"
	"prospect/internal/messages"
	"prospect/internal/model"
	"prospect/internal/store"
)

const (
	tickEvery    = 100 * time.Millisecond
	noticeExpiry = 3 * time.Second
)

type focusArea int

const (
	focusList focusArea = iota
	focusComments
)

type tickMsg time.Time

// Model is the interactive shortlist view: contact list on the left,
// detail + comments editor on the right. Raw keys in the list pane go
// through the intent decoder; comment keystrokes go through the debouncer.
type Model struct {
	cfg config.Config
	st  *store.Store
	log *zap.Logger

	entries []model.ShortlistEntry
	rows    []crm.Row          // displayed order
	msgs    []messages.Message // message export, loaded once at startup
	selIdx  int                // index into rows, -1 = no selection

	ctrl     *crm.Controller
	decoder  *crm.Decoder
	debounce *crm.Debounce

	// Live editable field values, read by the controller's accessor.
	curStatus    model.Status
	curFollowUp  string
	comments     textarea.Model
	debounceFor  string // contact the pending comment edit belongs to
	lastComments string // last value handed to the debouncer

	// Status filter picker ("s").
	picking bool
	pickIdx int
	allowed map[model.Status]bool // nil = all statuses

	// Name filter ("/").
	filtering  bool
	nameFilter textinput.Model

	focus       focusArea
	notice      string
	noticeErr   bool
	noticeUntil time.Time

	width, height int
}

// New builds the TUI model over the store.
func New(cfg config.Config, st *store.Store, log *zap.Logger) *Model {
	ta := textarea.New()
	ta.Placeholder = "Add notes about this contact..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(6)

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "filter by name or company"
	fi.CharLimit = 60

	m := &Model{
		cfg:        cfg,
		st:         st,
		log:        log,
		selIdx:     -1,
		decoder:    crm.NewDecoder(cfg.FollowUpCommit()),
		debounce:   crm.NewDebounce(cfg.Debounce()),
		comments:   ta,
		nameFilter: fi,
	}
	m.ctrl = crm.NewController(st, log, func() model.CRMFields {
		return model.CRMFields{
			Status:       m.curStatus,
			Comments:     m.comments.Value(),
			FollowUpDate: m.curFollowUp,
		}
	}, time.Now)
	// The message export is optional context; a missing or malformed file
	// just means an empty history pane.
	if msgs, err := messages.ParseFile(cfg.MessagesPath()); err == nil {
		m.msgs = msgs
	} else {
		log.Debug("messages export not loaded", zap.Error(err))
	}
	m.reload()
	return m
}

func (m *Model) Init() tea.Cmd { return tickCmd() }

func tickCmd() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.comments.SetWidth(m.detailWidth() - 4)
		return m, nil
	case tickMsg:
		m.onTick(time.Time(msg))
		return m, tickCmd()
	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

// onTick is the periodic probe: it fires expired decoder/debounce deadlines
// and retires stale notices.
func (m *Model) onTick(now time.Time) {
	m.drainIntents(now)
	if em, ok := m.debounce.Poll(now); ok {
		m.afterCommit(m.ctrl.CommitComments(m.debounceFor, em.Value))
	}
	if m.notice != "" && now.After(m.noticeUntil) {
		m.notice = ""
	}
}

func (m *Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	now := time.Now()

	if key == "ctrl+c" {
		// Best-effort flush; ctrl+c quits even if it fails.
		if err := m.ctrl.Deselect(); err != nil {
			m.log.Error("flush on quit failed", zap.Error(err))
		}
		return m, tea.Quit
	}

	if m.picking {
		m.onPickerKey(key)
		return m, nil
	}
	if m.filtering {
		return m, m.onFilterKey(msg)
	}
	if m.focus == focusComments {
		return m, m.onCommentsKey(msg, now)
	}
	return m.onListKey(key, now)
}

// onListKey routes keys while the contact list is active. Everything not
// claimed here goes to the intent decoder.
func (m *Model) onListKey(key string, now time.Time) (tea.Model, tea.Cmd) {
	// An open offset buffer owns the next key: enter commits it, any other
	// key commits then re-processes inside the decoder. Routing it through
	// the switch below instead would drop the half-typed follow-up.
	if _, ok := m.decoder.Buffering(); ok {
		m.decoder.HandleKey(key, now)
		m.drainIntents(now)
		return m, nil
	}

	switch key {
	case "q", "esc":
		if err := m.ctrl.Deselect(); err != nil {
			var we crm.WriteError
			if errors.As(err, &we) {
				m.showError(err.Error() + " (edit kept, retry or ctrl+c)")
				return m, nil
			}
			m.showError(err.Error())
		}
		return m, tea.Quit
	case "/":
		m.filtering = true
		m.nameFilter.Focus()
		m.decoder.Reset()
		return m, textinput.Blink
	case "s":
		m.picking = true
		m.pickIdx = 0
		m.decoder.Reset()
		return m, nil
	case "tab", "enter":
		if m.selIdx >= 0 {
			m.focus = focusComments
			m.decoder.Reset()
			m.comments.Focus()
			return m, textarea.Blink
		}
		return m, nil
	}

	m.decoder.HandleKey(key, now)
	m.drainIntents(now)
	return m, nil
}

func (m *Model) drainIntents(now time.Time) {
	for {
		in, ok := m.decoder.Poll(now)
		if !ok {
			return
		}
		m.applyIntent(in)
	}
}

// onCommentsKey feeds the textarea and notes every change with the
// debouncer; the decoder never sees these keys.
func (m *Model) onCommentsKey(msg tea.KeyMsg, now time.Time) tea.Cmd {
	switch msg.String() {
	case "esc", "tab":
		m.focus = focusList
		m.comments.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.comments, cmd = m.comments.Update(msg)
	if v := m.comments.Value(); v != m.lastComments {
		m.lastComments = v
		name, _ := m.ctrl.Selected()
		m.debounceFor = name
		m.debounce.Note(v, now)
	}
	return cmd
}

func (m *Model) onFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.nameFilter.SetValue("")
		m.nameFilter.Blur()
		m.recompute()
		return nil
	case "enter":
		m.filtering = false
		m.nameFilter.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.nameFilter, cmd = m.nameFilter.Update(msg)
	m.recompute()
	return cmd
}

// onPickerKey drives the status filter picker: "All" plus one row per
// status.
func (m *Model) onPickerKey(key string) {
	options := len(model.AllStatuses) + 1
	switch key {
	case "esc":
		m.picking = false
	case "up", "k":
		if m.pickIdx > 0 {
			m.pickIdx--
		}
	case "down", "j":
		if m.pickIdx < options-1 {
			m.pickIdx++
		}
	case "enter":
		if m.pickIdx == 0 {
			m.allowed = nil
		} else {
			m.allowed = map[model.Status]bool{model.AllStatuses[m.pickIdx-1]: true}
		}
		m.picking = false
		m.recompute()
	}
}

func (m *Model) applyIntent(in crm.Intent) {
	switch in.Kind {
	case crm.IntentNavigate:
		idx := crm.NextIndex(m.selIdx, in.Delta, len(m.rows))
		if idx >= 0 && idx != m.selIdx {
			m.selectRow(idx)
		}
	case crm.IntentStatus:
		m.afterCommit(m.ctrl.ApplyStatus(in.Status))
	case crm.IntentFollowUp:
		m.afterCommit(m.ctrl.ApplyFollowUp(in.OffsetDays))
	}
}

// selectRow moves the selection, flushing the previous contact first. On a
// write failure the selection stays put so the unsaved edit remains live.
func (m *Model) selectRow(idx int) {
	name := m.rows[idx].Name
	err := m.ctrl.Select(name)
	if err != nil {
		var we crm.WriteError
		if errors.As(err, &we) {
			m.showError(err.Error())
			return
		}
		// Previous contact vanished: surface it, the switch went through.
		m.showError(err.Error())
	}
	// The flush may have moved the previous contact within the urgency
	// ordering, so rebuild rows; recompute re-finds the new selection.
	m.reload()
	m.loadDetail()
}

// loadDetail resets the editable pane from the controller's snapshot and
// clears any in-flight decoder/debounce state so nothing leaks across
// contacts.
func (m *Model) loadDetail() {
	snap := m.ctrl.Snapshot()
	m.curStatus = snap.Status
	m.curFollowUp = snap.FollowUpDate
	m.comments.SetValue(snap.Comments)
	m.lastComments = snap.Comments
	m.decoder.Reset()
	m.debounce.Reset()
	m.debounceFor = ""
}

// afterCommit refreshes rows and detail after a controller write, or
// surfaces the failure while keeping the in-memory edit.
func (m *Model) afterCommit(err error) {
	if err != nil {
		m.showError(err.Error())
		return
	}
	name, ok := m.ctrl.Selected()
	if !ok {
		return
	}
	m.reload()
	snap := m.ctrl.Snapshot()
	m.curStatus = snap.Status
	m.curFollowUp = snap.FollowUpDate
	m.showSuccess(fmt.Sprintf("Saved changes for %s", name))
}

func (m *Model) showError(msg string) {
	m.notice, m.noticeErr = msg, true
	m.noticeUntil = time.Now().Add(noticeExpiry)
}

func (m *Model) showSuccess(msg string) {
	m.notice, m.noticeErr = msg, false
	m.noticeUntil = time.Now().Add(noticeExpiry)
}

// reload re-reads the store and rebuilds the displayed rows.
func (m *Model) reload() {
	m.entries = m.st.LoadShortlist()
	m.recompute()
}

// recompute projects and filters the rows; display order is the stored
// order with dated follow-ups pulled forward into their own slots.
func (m *Model) recompute() {
	rows := crm.FilterByStatus(crm.Project(m.entries, time.Now()), m.allowed)
	if q := strings.ToLower(strings.TrimSpace(m.nameFilter.Value())); q != "" {
		kept := rows[:0:0]
		for _, r := range rows {
			if strings.Contains(strings.ToLower(r.Name), q) ||
				strings.Contains(strings.ToLower(r.Company), q) {
				kept = append(kept, r)
			}
		}
		rows = kept
	}
	m.rows = rows

	// Keep the highlight on the controller's contact; a filter that hides
	// it leaves the list without a highlight but does not deselect.
	m.selIdx = -1
	if name, ok := m.ctrl.Selected(); ok {
		for i, r := range m.rows {
			if r.Name == name {
				m.selIdx = i
				break
			}
		}
	}
}
