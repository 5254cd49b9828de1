package frontend

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the frontend and blocks until the user quits or a tracked file
// becomes unreadable (which is fatal and returned to the caller).
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.Fatal()
}
