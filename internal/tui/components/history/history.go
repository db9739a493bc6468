package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/micromind/internal/models"
	"github.com/julianstephens/micromind/internal/utils"
)

const previewLen = 48

type ViewEntryMsg struct {
	Entry models.Entry
}

type DeleteEntryMsg struct {
	ID string
}

type Item struct {
	Entry models.Entry
	Today string
	Now   time.Time
}

func (i Item) Title() string {
	return utils.RelativeDay(i.Entry.Date, i.Today)
}

func (i Item) Description() string {
	return fmt.Sprintf("%s | saved %s", preview(i.Entry), humanize.RelTime(i.Entry.SavedAt(), i.Now, "ago", "from now"))
}

func (i Item) FilterValue() string {
	return strings.Join([]string{i.Entry.Date, i.Entry.Learned, i.Entry.Question, i.Entry.Idea}, " ")
}

type KeyMap struct {
	View   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		View: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "view"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(entries []models.Entry, today string, now time.Time, width, height int) Model {
	l := list.New(items(entries, today, now), list.NewDefaultDelegate(), width, height)
	l.Title = "Journal History"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.View, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.View, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

// SetEntries replaces the listed entries, keeping their order.
func (m *Model) SetEntries(entries []models.Entry, today string, now time.Time) {
	m.list.SetItems(items(entries, today, now))
}

// Len returns the number of listed entries.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (models.Entry, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Entry{}, false
	}
	return i.Entry, true
}

// Filtering reports whether the list is capturing keys for its filter input.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		switch {
		case key.Matches(msg, m.keys.View):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ViewEntryMsg{Entry: e} }
			}
		case key.Matches(msg, m.keys.Delete):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteEntryMsg{ID: e.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No entries yet.\n  Start your first reflection on the Today tab."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func items(entries []models.Entry, today string, now time.Time) []list.Item {
	out := make([]list.Item, len(entries))
	for i, e := range entries {
		out[i] = Item{Entry: e, Today: today, Now: now}
	}
	return out
}

func preview(e models.Entry) string {
	text := e.Learned
	for _, s := range []string{e.Learned, e.Question, e.Idea} {
		if strings.TrimSpace(s) != "" {
			text = s
			break
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > previewLen {
		return string(r[:previewLen-1]) + "…"
	}
	if text == "" {
		return "(empty)"
	}
	return text
}
