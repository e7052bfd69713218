package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Run starts the Bubble Tea program and blocks until the user quits or ctx is
// cancelled. Log output is sent to logOut while the TUI owns the terminal;
// pass nil to discard it.
func Run(ctx context.Context, cfg Config, logOut io.Writer) error {
	model := NewModel(cfg)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)

	// Silence external logs during TUI to avoid corrupting the view.
	if logOut == nil {
		logOut = io.Discard
	}
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(logOut)
	defer logrus.SetOutput(prevOut)

	model.log.Info("viewer started")
	_, err := p.Run()
	return err
}
