package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// ------- output helpers for the non-interactive commands -------
var (
	boldStyle      = lipgloss.NewStyle().Bold(true)
	accentOutStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedOutStyle  = lipgloss.NewStyle().Faint(true)
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func bold(s string) string      { return boldStyle.Render(s) }
func accent(s string) string    { return accentOutStyle.Render(s) }
func muted(s string) string     { return mutedOutStyle.Render(s) }
func warn(s string) string      { return warnStyle.Render(s) }
func errorText(s string) string { return failStyle.Render(s) }

func ok(msg string) {
	fmt.Println(okStyle.Render("✔ " + msg))
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, failStyle.Render("✖ "+msg))
}
