package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"polyc/internal/sched"
)

// Run renders progress on out until events is closed. The producer runs on
// another goroutine and must close the channel when it is done.
func Run(out io.Writer, title string, files, kinds []string, events <-chan sched.Event) error {
	p := tea.NewProgram(NewProgressModel(title, files, kinds, events), tea.WithOutput(out), tea.WithInput(nil))
	_, err := p.Run()
	return err
}
