package tui

import (
	tea "charm.land/bubbletea/v2"

	"bookshelf/internal/library"
)

// adapt runs a library command on the bubbletea runtime. Batches are
// handed back as tea.BatchMsg so their members run concurrently.
func adapt(c library.Cmd) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		msg := c()
		batch, ok := msg.(library.BatchMsg)
		if !ok {
			return msg
		}
		cmds := make(tea.BatchMsg, 0, len(batch))
		for _, b := range batch {
			if cmd := adapt(b); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return cmds
	}
}
