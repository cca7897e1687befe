package tui

import (
	"logviewer/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
)

// ChangeMsg carries one filesystem change into the event loop.
type ChangeMsg struct {
	Change watch.Change
}

// watchClosedMsg is sent once the watcher's channel has been closed.
type watchClosedMsg struct{}

// listen waits for the next change on ch.
func listen(ch <-chan watch.Change) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return ChangeMsg{Change: change}
	}
}
