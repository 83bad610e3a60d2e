package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	figure "github.com/common-nighthawk/go-figure"

	"github.com/aristath/schedboard/internal/theme"
)

const (
	gridColumns = 2
	// border plus padding on each side of a panel
	panelFrameWidth  = 4
	panelFrameHeight = 2
	// title, bucket selector and status line
	panelHeaderLines = 3
	minChartWidth    = 10
	minChartHeight   = 3
	// below this height the banner is replaced by a one-line title
	bannerMinHeight = 30
)

func (d *Dashboard) View() string {
	if !d.ready {
		return "\n  Loading..."
	}

	t := theme.Default

	sections := []string{d.viewHeader(), d.viewGrid()}
	if toasts := d.viewToasts(); toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, d.help.View(keys))

	page := lipgloss.NewStyle().
		Width(d.width).
		MaxHeight(d.height).
		Foreground(t.Text)

	return page.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderBanner renders text with go-figure's standard font
func renderBanner(text string) string {
	fig := figure.NewFigure(text, "", true)
	return strings.Join(fig.Slicify(), "\n")
}

func (d *Dashboard) viewHeader() string {
	t := theme.Default

	subtitle := lipgloss.NewStyle().Foreground(t.Muted).Render(fmt.Sprintf("scheduling metrics · %s", d.opts.APIURL))
	if d.height < bannerMinHeight {
		title := lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Render("SCHEDBOARD")
		return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", subtitle)
	}

	banner := theme.GradientText(strings.TrimRight(renderBanner("schedboard"), "\n "), t.Primary, t.Accent)
	return lipgloss.JoinVertical(lipgloss.Left, banner, subtitle)
}

func (d *Dashboard) viewGrid() string {
	t := theme.Default
	chartW, chartH := d.chartSize()

	var rows []string
	for start := 0; start < len(d.panels); start += gridColumns {
		end := start + gridColumns
		if end > len(d.panels) {
			end = len(d.panels)
		}

		var cells []string
		for i := start; i < end; i++ {
			p := d.panels[i]
			focused := i == d.focus

			border := t.Border
			if focused {
				border = t.Focus
			}

			chart := lipgloss.NewStyle().
				Width(chartW).
				Height(chartH).
				MaxHeight(chartH).
				Render(p.Chart.View())

			cell := lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(border).
				Padding(0, 1).
				Width(chartW + 2).
				Render(lipgloss.JoinVertical(lipgloss.Left, p.Metric.View(focused), chart))
			cells = append(cells, cell)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (d *Dashboard) viewToasts() string {
	t := theme.Default

	active := d.toasts.Active()
	if len(active) == 0 {
		return ""
	}

	lines := make([]string, len(active))
	for i, toast := range active {
		title := lipgloss.NewStyle().Bold(true).Foreground(t.Base).Background(t.Error).Render(" " + toast.Title + " ")
		msg := lipgloss.NewStyle().Foreground(t.Error).Render(toast.Message)
		lines[i] = title + " " + msg
	}
	return strings.Join(lines, "\n")
}

// chartSize returns the drawable area of one panel's chart
func (d *Dashboard) chartSize() (int, int) {
	rows := (len(d.panels) + gridColumns - 1) / gridColumns
	if rows == 0 {
		rows = 1
	}

	used := lipgloss.Height(d.viewHeader()) + lipgloss.Height(d.help.View(keys))
	if toasts := d.viewToasts(); toasts != "" {
		used += lipgloss.Height(toasts)
	}

	w := d.width/gridColumns - panelFrameWidth
	h := (d.height-used)/rows - panelFrameHeight - panelHeaderLines

	if w < minChartWidth {
		w = minChartWidth
	}
	if h < minChartHeight {
		h = minChartHeight
	}
	return w, h
}

func (d *Dashboard) resizeCharts() {
	if !d.ready {
		return
	}
	w, h := d.chartSize()
	for _, p := range d.panels {
		p.Chart.SetSize(w, h)
	}
}
