package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/vitalog/internal/tui"
)

// TuiCmd runs the full-screen interface. It is the default command.
type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	_, err := tea.NewProgram(tui.NewApp(ctx.Store, ctx.UserID), tea.WithAltScreen()).Run()
	return err
}
