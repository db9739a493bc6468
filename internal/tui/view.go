package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateHistory:
		content = m.styles.Doc.Render(m.history.View())
	case StateStats:
		content = m.viewStats()
	case StateEntryDetail:
		content = m.viewEntryDetail()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, m.styles.Warning.Render(m.status))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	active := m.state
	if active == StateEntryDetail || active == StateConfirmDelete {
		active = StateHistory
	}

	var tabs []string
	for i, title := range []string{"Today", "History", "Stats"} {
		if active == SessionState(i) {
			tabs = append(tabs, m.styles.ActiveTab.Render(title))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(utils.LongDate(m.draft.Date)))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtle.Render("Take a moment to reflect on your day"))
	b.WriteString("\n\n")

	if m.complete() {
		b.WriteString(m.styles.Success.Render("✓ Today's reflection complete!"))
		b.WriteString("\n\n")
	}

	for i, p := range prompts {
		b.WriteString(m.styles.Prompt[i].Render(p.title))
		b.WriteString("\n")
		box := m.styles.Editor
		if i == m.focus {
			box = m.styles.Focused
		}
		b.WriteString(box.Render(m.editors[i].View()))
		b.WriteString("\n")
	}

	switch {
	case m.autosave.Pending():
		b.WriteString(m.styles.Subtle.Render("Saving..."))
	case !m.lastSaved.IsZero():
		b.WriteString(m.styles.Subtle.Render("Last saved " + m.lastSaved.Format("15:04")))
	}

	return m.styles.Doc.Render(b.String())
}

func (m Model) complete() bool {
	for _, ed := range m.editors {
		if strings.TrimSpace(ed.Value()) == "" {
			return false
		}
	}
	return true
}

func (m Model) viewStats() string {
	row := func(value, label string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.styles.Stat.Render(value), "  ", m.styles.Subtle.Render(label))
	}

	last := "never"
	if m.prefs.LastEntryDate != "" {
		last = utils.RelativeDay(m.prefs.LastEntryDate, m.entries.Today())
	}
	theme := "light"
	if m.prefs.DarkMode {
		theme = "dark"
	}

	lines := []string{
		m.styles.Title.Render("Your Journal"),
		"",
		row(humanize.Comma(int64(m.stats.TotalEntries)), "total entries"),
		row(humanize.Comma(int64(m.stats.ThisMonth)), "this month"),
		row(humanize.Comma(int64(m.stats.Streak)), "day streak"),
		row(humanize.Comma(int64(m.stats.TotalWords)), "words written"),
		"",
		m.styles.Subtle.Render(fmt.Sprintf("Last entry: %s", last)),
		m.styles.Subtle.Render(fmt.Sprintf("Entry mode: %s", m.entries.Mode())),
		m.styles.Subtle.Render(fmt.Sprintf("Theme:      %s", theme)),
		m.styles.Subtle.Render(fmt.Sprintf("Storage:    %s", m.path)),
	}
	return m.styles.Doc.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) viewEntryDetail() string {
	e := m.selected
	sections := []string{
		m.styles.Title.Render(utils.RelativeDay(e.Date, m.entries.Today())),
		m.styles.Subtle.Render(utils.LongDate(e.Date)),
	}
	labels := [3]string{constants.LabelLearned, constants.LabelQuestion, constants.LabelIdea}
	for i, text := range []string{e.Learned, e.Question, e.Idea} {
		if strings.TrimSpace(text) == "" {
			text = m.styles.Subtle.Render("No entry for this day")
		}
		sections = append(sections, "", m.styles.Prompt[i].Render(labels[i]), text)
	}
	return m.styles.Doc.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			m.styles.Danger.Render("Are you sure you want to delete this entry?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
