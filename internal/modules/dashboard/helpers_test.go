package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func exec(cmd tea.Cmd) []tea.Msg {
	return flatten(cmd)
}

func pump(cmd tea.Cmd, handle func(tea.Msg) tea.Cmd) {
	drain(cmd, handle)
}

// panelHandler routes messages the way the dashboard does for one panel
func panelHandler(p Panel) func(tea.Msg) tea.Cmd {
	return func(msg tea.Msg) tea.Cmd {
		return routePanels([]Panel{p}, msg)
	}
}
