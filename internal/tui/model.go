// Package tui is the terminal front end of the book collection.
package tui

import (
	tea "charm.land/bubbletea/v2"

	"bookshelf/internal/book"
	"bookshelf/internal/library"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeConfirm
)

// Model adapts a library.Model to bubbletea.
type Model struct {
	lib *library.Model

	mode   mode
	cursor int
	field  library.Field
	width  int

	// submitting is set between Submit and the save result.
	submitting bool
}

func New(lib *library.Model) Model {
	return Model{lib: lib}
}

func (m Model) Init() tea.Cmd {
	return adapt(m.lib.Init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}

	cmd := m.lib.Update(msg)
	m.afterResult()
	return m, adapt(cmd)
}

// afterResult keeps the cursor on a visible row and leaves the form once
// the save itself went through. Unrelated results do not end a submit.
func (m *Model) afterResult() {
	if n := len(m.lib.Books()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if !m.submitting {
		return
	}
	switch m.lib.LastSave() {
	case library.SaveSucceeded:
		m.submitting = false
		m.mode = modeBrowse
	case library.SaveFailed:
		m.submitting = false
	}
}

func (m Model) selected() (book.Book, bool) {
	books := m.lib.Books()
	if m.cursor < 0 || m.cursor >= len(books) {
		return book.Book{}, false
	}
	return books[m.cursor], true
}

func (m Model) updateBrowse(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	var cmd library.Cmd

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
	case "s":
		cmd = m.lib.CycleSort()
	case "o":
		cmd = m.lib.FlipOrder()
	case "t":
		m.lib.ToggleStats()
	case "x":
		m.lib.DismissError()
	case "n":
		m.lib.CancelEdit()
		m.openForm()
	case "e":
		if b, ok := m.selected(); ok {
			m.lib.Edit(b)
			m.openForm()
		}
	case "r":
		if b, ok := m.selected(); ok {
			cmd = m.lib.ToggleRead(b)
		}
	case "d":
		if b, ok := m.selected(); ok {
			m.lib.RequestDelete(b.ID)
			m.mode = modeConfirm
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.lib.Books())-1 {
			m.cursor++
		}
	case "left", "h":
		if cmd = m.lib.PreviousPage(); cmd != nil {
			m.cursor = 0
		}
	case "right", "l":
		if cmd = m.lib.NextPage(); cmd != nil {
			m.cursor = 0
		}
	}
	return m, adapt(cmd)
}

func (m *Model) openForm() {
	m.mode = modeForm
	m.field = library.FieldTitle
	m.submitting = false
}

func (m Model) updateSearch(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	text := m.lib.SearchInput()

	switch msg.String() {
	case "esc", "enter":
		m.mode = modeBrowse
		return m, nil
	case "backspace":
		if text == "" {
			return m, nil
		}
		r := []rune(text)
		text = string(r[:len(r)-1])
	default:
		if msg.Text == "" {
			return m, nil
		}
		text += msg.Text
	}

	m.cursor = 0
	return m, adapt(m.lib.SetSearch(text))
}

func (m Model) updateForm(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.lib.CancelEdit()
		m.mode = modeBrowse
		m.submitting = false
		return m, nil
	case "tab", "down":
		m.field = library.Fields[(int(m.field)+1)%len(library.Fields)]
		return m, nil
	case "shift+tab", "up":
		m.field = library.Fields[(int(m.field)+len(library.Fields)-1)%len(library.Fields)]
		return m, nil
	case "enter":
		cmd := m.lib.Submit()
		m.submitting = cmd != nil
		return m, adapt(cmd)
	}

	if m.field == library.FieldRead {
		if msg.String() == "space" {
			m.lib.SetRead(!m.lib.Form().Read)
		}
		return m, nil
	}

	value := m.lib.Form().Value(m.field)
	switch {
	case msg.String() == "backspace":
		if value == "" {
			return m, nil
		}
		r := []rune(value)
		value = string(r[:len(r)-1])
	case msg.Text != "":
		value += msg.Text
	default:
		return m, nil
	}
	m.lib.SetField(m.field, value)
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.mode = modeBrowse
		return m, adapt(m.lib.ConfirmDelete())
	case "n", "esc":
		m.lib.CancelDelete()
		m.mode = modeBrowse
	}
	return m, nil
}
