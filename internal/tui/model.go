package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/micromind/internal/autosave"
	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/logger"
	"github.com/julianstephens/micromind/internal/models"
	"github.com/julianstephens/micromind/internal/storage"
	"github.com/julianstephens/micromind/internal/tui/components/history"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateHistory
	StateStats
	StateEntryDetail
	StateConfirmDelete
)

const tabCount = 3

const (
	fieldLearned = iota
	fieldQuestion
	fieldIdea
)

type prompt struct {
	title       string
	placeholder string
}

var prompts = [3]prompt{
	{"What did I learn today?", "Something new I discovered or understood..."},
	{"What's one question I have?", "Something I wonder about or want to explore..."},
	{"What idea came to mind?", "A thought, insight, or creative spark..."},
}

// savedMsg reports the outcome of a save, automatic or explicit.
type savedMsg struct {
	entry models.Entry
	ok    bool
	err   error
}

// entriesChangedMsg carries the collection after any write to it.
type entriesChangedMsg struct {
	entries []models.Entry
}

type Model struct {
	entries  *storage.EntryStore
	settings *storage.SettingsStore
	prefs    models.Settings
	path     string

	state  SessionState
	keys   KeyMap
	help   help.Model
	styles Styles

	draft    models.Entry
	editors  [3]textarea.Model
	focus    int
	autosave *autosave.Debouncer[models.Entry]

	history  history.Model
	stats    models.Stats
	selected models.Entry
	deleteID string

	events      chan tea.Msg
	unsubscribe func()

	lastSaved time.Time
	status    string
	quitting  bool
	width     int
	height    int
}

// NewModel builds the TUI over the given stores. path is shown on the stats
// tab; autosaveDelay is how long typing must pause before a save.
func NewModel(entries *storage.EntryStore, settings *storage.SettingsStore, path string, autosaveDelay time.Duration) Model {
	prefs := settings.Load()
	events := make(chan tea.Msg, 16)

	m := Model{
		entries:  entries,
		settings: settings,
		prefs:    prefs,
		path:     path,
		state:    StateToday,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		styles:   NewStyles(prefs.DarkMode),
		events:   events,
	}

	for i, p := range prompts {
		ta := textarea.New()
		ta.Placeholder = p.placeholder
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.SetHeight(3)
		m.editors[i] = ta
	}

	m.autosave = autosave.NewDebouncer(autosaveDelay, func(e models.Entry) {
		send(events, save(entries, settings, e))
	})
	m.unsubscribe = entries.Subscribe(func(all []models.Entry) {
		send(events, entriesChangedMsg{entries: all})
	})

	all := entries.Load()
	m.history = history.New(all, entries.Today(), time.Now(), 0, 0)
	m.stats = entries.Stats()
	m.setDraft(initialDraft(entries))
	m.focusField(fieldLearned)
	return m
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateToday:
		return []key.Binding{m.keys.Tab, m.keys.Save, m.keys.NextField, m.keys.NewEntry, m.keys.ToggleDark}
	case StateEntryDetail:
		return []key.Binding{m.keys.Back, m.keys.Quit}
	case StateConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help, m.keys.ToggleDark}
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForEvent(m.events))
}

// Close writes any pending edit and detaches from the store.
func (m Model) Close() {
	m.autosave.Flush()
	m.autosave.Stop()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Draft returns the entry currently being edited.
func (m Model) Draft() models.Entry {
	return m.draft
}

// State returns the active screen.
func (m Model) State() SessionState {
	return m.state
}

// DarkMode reports the active theme.
func (m Model) DarkMode() bool {
	return m.prefs.DarkMode
}

// initialDraft continues today's latest entry, or starts a new one.
func initialDraft(entries *storage.EntryStore) models.Entry {
	if today := entries.TodayEntries(); len(today) > 0 {
		return today[0]
	}
	return entries.CurrentDraft()
}

func (m *Model) setDraft(e models.Entry) {
	m.draft = e
	m.editors[fieldLearned].SetValue(e.Learned)
	m.editors[fieldQuestion].SetValue(e.Question)
	m.editors[fieldIdea].SetValue(e.Idea)
}

// syncDraft copies the editor contents into the draft and reports whether
// anything changed.
func (m *Model) syncDraft() bool {
	before := m.draft
	m.draft.Learned = m.editors[fieldLearned].Value()
	m.draft.Question = m.editors[fieldQuestion].Value()
	m.draft.Idea = m.editors[fieldIdea].Value()
	return before.Learned != m.draft.Learned ||
		before.Question != m.draft.Question ||
		before.Idea != m.draft.Idea
}

func (m *Model) focusField(i int) tea.Cmd {
	m.focus = (i + len(m.editors)) % len(m.editors)
	for j := range m.editors {
		m.editors[j].Blur()
	}
	return m.editors[m.focus].Focus()
}

// refresh rebuilds the derived views from the stored collection.
func (m *Model) refresh(all []models.Entry) {
	m.history.SetEntries(all, m.entries.Today(), time.Now())
	m.stats = m.entries.Stats()

	// Pick up edits made elsewhere unless the user has unsaved typing.
	if m.autosave.Pending() {
		return
	}
	for _, e := range all {
		if e.ID != m.draft.ID || e.Timestamp <= m.draft.Timestamp {
			continue
		}
		m.draft.Timestamp = e.Timestamp
		if e.Learned != m.draft.Learned || e.Question != m.draft.Question || e.Idea != m.draft.Idea {
			m.setDraft(e)
		}
		return
	}
}

func (m *Model) toggleDarkMode() {
	prefs, err := m.settings.ToggleDarkMode()
	if err != nil {
		m.status = fmt.Sprintf("Failed to save settings: %v", err)
		return
	}
	m.prefs = prefs
	m.styles = NewStyles(prefs.DarkMode)
}

// newEntry saves the current draft and starts a fresh one for today.
func (m *Model) newEntry() tea.Cmd {
	if m.entries.Mode() == storage.ModeDate {
		m.status = fmt.Sprintf("Only one entry per day in %q entry mode", constants.EntryModeDate)
		return nil
	}
	m.autosave.Flush()
	m.setDraft(m.entries.CurrentDraft())
	m.lastSaved = time.Time{}
	m.status = ""
	return m.focusField(fieldLearned)
}

func save(entries *storage.EntryStore, settings *storage.SettingsStore, e models.Entry) savedMsg {
	saved, ok, err := entries.Upsert(e)
	if err != nil {
		logger.Error("Failed to save entry", "id", e.ID, "error", err)
		return savedMsg{entry: e, err: err}
	}
	if ok {
		if _, err := settings.SetLastEntryDate(saved.Date); err != nil {
			logger.Warn("Failed to record last entry date", "error", err)
		}
	}
	return savedMsg{entry: saved, ok: ok}
}

// send delivers msg to the program without blocking the caller, which may
// be the update loop itself.
func send(events chan<- tea.Msg, msg tea.Msg) {
	select {
	case events <- msg:
	default:
		logger.Warn("Dropped UI event", "type", fmt.Sprintf("%T", msg))
	}
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}
