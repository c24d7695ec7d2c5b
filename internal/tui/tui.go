package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"prospect/internal/config"
	"prospect/internal/store"
)

// Run starts the interactive shortlist view and blocks until it exits.
func Run(cfg config.Config, st *store.Store, log *zap.Logger) error {
	p := tea.NewProgram(New(cfg, st, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
