package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Paint drives panels without a terminal: every panel is initialised and
// the resulting commands run to completion, with their messages routed the
// way the dashboard routes them. It returns once nothing is left to do.
func Paint(panels []Panel) {
	cmds := make([]tea.Cmd, 0, len(panels))
	for _, p := range panels {
		cmds = append(cmds, p.Metric.Init())
	}
	drain(tea.Batch(cmds...), func(msg tea.Msg) tea.Cmd {
		return routePanels(panels, msg)
	})
}

// routePanels hands a widget message to the panel it belongs to
func routePanels(panels []Panel, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case FetchResultMsg:
		for _, p := range panels {
			if p.Metric.ID() == msg.Widget {
				return p.Metric.Update(msg)
			}
		}
	case LibraryLoadedMsg, RedrawMsg:
		var cmds []tea.Cmd
		for _, p := range panels {
			cmds = append(cmds, p.Chart.Update(msg))
		}
		return tea.Batch(cmds...)
	}
	return nil
}

// flatten runs cmd and unpacks batches into the messages they produce
func flatten(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, flatten(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// drain executes cmd and feeds every resulting message to handle until no
// commands remain, the way the bubbletea loop would
func drain(cmd tea.Cmd, handle func(tea.Msg) tea.Cmd) {
	queue := flatten(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		queue = append(queue, flatten(handle(msg))...)
	}
}
