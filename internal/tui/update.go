package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/micromind/internal/logger"
	"github.com/julianstephens/micromind/internal/storage"
	"github.com/julianstephens/micromind/internal/tui/components/history"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		for i := range m.editors {
			m.editors[i].SetWidth(max(msg.Width-8, 20))
		}
		m.history.SetSize(max(msg.Width-4, 20), max(msg.Height-8, 5))
		return m, nil

	case savedMsg:
		m.handleSaved(msg)
		return m, waitForEvent(m.events)

	case entriesChangedMsg:
		m.refresh(msg.entries)
		return m, waitForEvent(m.events)

	case history.ViewEntryMsg:
		m.selected = msg.Entry
		m.state = StateEntryDetail
		return m, nil

	case history.DeleteEntryMsg:
		m.deleteID = msg.ID
		m.state = StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == StateToday {
		return m.updateEditor(msg)
	}
	if m.state == StateHistory {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.state {
	case StateConfirmDelete:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.deleteEntry()
		case key.Matches(msg, m.keys.Cancel):
			m.deleteID = ""
			m.state = StateHistory
		}
		return m, nil

	case StateEntryDetail:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.state = StateHistory
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case msg.String() == "d":
			m.deleteID = m.selected.ID
			m.state = StateConfirmDelete
		}
		return m, nil

	case StateHistory:
		if m.history.Filtering() {
			var cmd tea.Cmd
			m.history, cmd = m.history.Update(msg)
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Tab):
		return m, m.switchTab(int(m.state) + 1)
	case key.Matches(msg, m.keys.ShiftTab):
		return m, m.switchTab(int(m.state) - 1)
	case key.Matches(msg, m.keys.ToggleDark):
		m.toggleDarkMode()
		return m, nil
	}

	if m.state == StateToday {
		switch {
		case key.Matches(msg, m.keys.Save):
			m.syncDraft()
			m.autosave.Trigger(m.draft)
			m.autosave.Flush()
			return m, nil
		case key.Matches(msg, m.keys.NextField):
			return m, m.focusField(m.focus + 1)
		case key.Matches(msg, m.keys.PrevField):
			return m, m.focusField(m.focus - 1)
		case key.Matches(msg, m.keys.NewEntry):
			return m, m.newEntry()
		}
		return m.updateEditor(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.state == StateHistory {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateEditor forwards msg to the focused prompt and schedules a save when
// the text changed.
func (m Model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.editors[m.focus], cmd = m.editors[m.focus].Update(msg)
	if m.syncDraft() {
		m.status = ""
		m.autosave.Trigger(m.draft)
	}
	return m, cmd
}

func (m *Model) switchTab(i int) tea.Cmd {
	if m.state == StateToday {
		m.autosave.Flush()
		m.editors[m.focus].Blur()
	}
	m.state = SessionState((i + tabCount) % tabCount)
	m.status = ""
	if m.state == StateToday {
		return m.focusField(m.focus)
	}
	return nil
}

func (m *Model) handleSaved(msg savedMsg) {
	switch {
	case msg.err != nil:
		m.status = fmt.Sprintf("Save failed: %v", msg.err)
	case !msg.ok:
		m.status = "Nothing to save yet"
	default:
		m.status = ""
		m.lastSaved = msg.entry.SavedAt()
		if msg.entry.Date == m.draft.Date && (msg.entry.ID == m.draft.ID || m.entries.Mode() == storage.ModeDate) {
			m.draft.ID = msg.entry.ID
			if msg.entry.Timestamp > m.draft.Timestamp {
				m.draft.Timestamp = msg.entry.Timestamp
			}
		}
	}
}

func (m *Model) deleteEntry() {
	id := m.deleteID
	m.deleteID = ""
	m.state = StateHistory
	if id == "" {
		return
	}
	if err := m.entries.Delete(id); err != nil {
		logger.Error("Failed to delete entry", "id", id, "error", err)
		m.status = fmt.Sprintf("Delete failed: %v", err)
		return
	}
	if id == m.draft.ID {
		m.autosave.Stop()
		m.setDraft(m.entries.CurrentDraft())
		m.lastSaved = time.Time{}
	}
	m.refresh(m.entries.Load())
	m.status = "Entry deleted"
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.autosave.Flush()
	m.quitting = true
	return m, tea.Quit
}
