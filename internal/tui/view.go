package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"bookshelf/internal/library"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")).Padding(0, 1)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	sections := []string{
		titleStyle.Render("Mini Library"),
		subtitleStyle.Render("manage your book collection"),
		"",
		m.renderStatus(),
	}

	if msg := m.lib.Err(); msg != "" {
		sections = append(sections, errorStyle.Render(msg+"  (x to dismiss)"))
	}
	if m.lib.ShowStats() {
		sections = append(sections, m.renderStats())
	}

	sections = append(sections, "")
	switch m.mode {
	case modeForm:
		sections = append(sections, m.renderForm())
	case modeConfirm:
		sections = append(sections, m.renderList(), "", m.renderConfirm())
	default:
		sections = append(sections, m.renderList())
	}

	sections = append(sections, "", helpStyle.Render(m.help()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStatus() string {
	search := m.lib.SearchInput()
	if m.mode == modeSearch {
		search += "_"
	}
	pages := max(m.lib.TotalPages(), 1)
	return statusStyle.Render(fmt.Sprintf("search: %s   sort: %s %s   page %d/%d (%d books)",
		search, m.lib.SortBy(), m.lib.Order(), m.lib.Page(), pages, m.lib.Total()))
}

func (m Model) renderStats() string {
	s := m.lib.Stats()
	if s == nil {
		return panelStyle.Render("stats not loaded")
	}
	return panelStyle.Render(fmt.Sprintf("Books: %d\nRead: %d\nTop author: %s", s.Count, s.ReadCount, s.TopAuthor))
}

func (m Model) renderList() string {
	books := m.lib.Books()
	if len(books) == 0 {
		if m.lib.Loading() {
			return mutedStyle.Render("Loading...")
		}
		return mutedStyle.Render(m.lib.EmptyMessage())
	}

	var sb strings.Builder
	for i, b := range books {
		mark := "[ ]"
		if b.Read {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s by %s (%d)", mark, b.Title, b.Author, b.Year)
		if i == m.cursor {
			sb.WriteString(selectedStyle.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		if i < len(books)-1 {
			sb.WriteByte('\n')
		}
	}
	if m.lib.Loading() {
		sb.WriteString("\n" + mutedStyle.Render("Loading..."))
	}
	return sb.String()
}

func (m Model) renderForm() string {
	heading := "New book"
	if _, editing := m.lib.Editing(); editing {
		heading = "Edit book"
	}

	form := m.lib.Form()
	lines := []string{titleStyle.Render(heading)}
	for _, f := range library.Fields {
		value := form.Value(f)
		if f == library.FieldRead {
			value = "no"
			if form.Read {
				value = "yes"
			}
		}
		line := fmt.Sprintf("%-7s %s", f.String()+":", value)
		if f == m.field {
			lines = append(lines, selectedStyle.Render("> "+line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	if m.submitting {
		lines = append(lines, mutedStyle.Render("Saving..."))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderConfirm() string {
	id, _ := m.lib.PendingDelete()
	name := fmt.Sprintf("book %d", id)
	for _, b := range m.lib.Books() {
		if b.ID == id {
			name = fmt.Sprintf("%q", b.Title)
			break
		}
	}
	return errorStyle.Render(fmt.Sprintf("Delete %s? (y/n)", name))
}

func (m Model) help() string {
	switch m.mode {
	case modeSearch:
		return "type to search • enter/esc done"
	case modeForm:
		return "tab next field • space toggle read • enter save • esc cancel"
	case modeConfirm:
		return "y confirm • n cancel"
	}
	return "/ search • s sort • o order • t stats • n new • e edit • r read • d delete • ←/→ page • q quit"
}
