package terminal

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"

	"github.com/aristath/schedboard/internal/modules/charts"
)

const (
	noData     = "(no data)"
	barGlyph   = "█"
	polarGlyph = "▓"
	minBarCols = 4
)

// Chart is a live terminal chart. Kind and title are fixed at construction;
// UpdateData swaps labels and series and Redraw rebuilds the frame.
type Chart struct {
	lib *Library

	mu     sync.Mutex
	spec   charts.ChartSpec
	width  int
	height int
	frame  string
	draws  int
}

// UpdateData replaces the chart's labels and series
func (c *Chart) UpdateData(data charts.ChartData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := data.Clone()
	c.spec.CategoryLabels = d.Labels
	c.spec.Series = d.Series
}

// Resize changes the frame size. The next Redraw uses it.
func (c *Chart) Resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if width > 0 {
		c.width = width
	}
	if height > 0 {
		c.height = height
	}
	c.frame = c.draw()
}

// Redraw rebuilds the frame from the current data
func (c *Chart) Redraw() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frame = c.draw()
	c.draws++
	return nil
}

// View returns the last drawn frame
func (c *Chart) View() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Draws returns how many times the frame was rebuilt by Redraw
func (c *Chart) Draws() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draws
}

// Spec returns a copy of the data the chart currently holds
func (c *Chart) Spec() charts.ChartSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spec.Clone()
}

func (c *Chart) draw() string {
	lines := []string{lipgloss.NewStyle().Bold(true).Render(c.spec.Title)}
	if c.spec.Title == "" {
		lines = lines[:0]
	}

	var body string
	switch {
	case c.spec.IsEmpty() || len(c.spec.Series) == 0:
		body = noData
	case c.spec.Kind == charts.KindLine:
		body = c.drawLine()
	case c.spec.Kind == charts.KindBar:
		body = c.drawBars(barGlyph, false)
	case c.spec.Kind == charts.KindPolarArea:
		body = c.drawBars(polarGlyph, false)
	default:
		body = c.drawBars(barGlyph, true)
	}

	lines = append(lines, body)
	if legend := c.legend(); legend != "" && body != noData {
		lines = append(lines, legend)
	}
	return truncate(strings.Join(lines, "\n"), c.height)
}

// drawLine plots every series on one braille line chart. Segments touching a
// missing or non-finite value are skipped.
func (c *Chart) drawLine() string {
	all := present(c.spec.Series)
	if len(all) == 0 {
		return noData
	}

	minY, maxY := floats.Min(all), floats.Max(all)
	if c.spec.Axis.BeginAtZero && minY > 0 {
		minY = 0
	}
	if maxY == minY {
		maxY = minY + 1
	}
	maxX := math.Max(1, float64(len(c.spec.CategoryLabels)-1))

	h := c.height - 3
	if c.spec.Title != "" {
		h--
	}
	if h < 3 {
		h = 3
	}

	lc := linechart.New(c.width, h, 0, maxX, minY, maxY)
	lc.Clear()
	for _, s := range c.spec.Series {
		for i := 0; i+1 < len(s.Values); i++ {
			if !charts.Finite(s.Values[i]) || !charts.Finite(s.Values[i+1]) {
				continue
			}
			lc.DrawBrailleLine(
				canvas.Float64Point{X: float64(i), Y: *s.Values[i]},
				canvas.Float64Point{X: float64(i + 1), Y: *s.Values[i+1]},
			)
		}
	}
	lc.DrawXYAxisAndLabel()

	keys := make([]string, len(c.spec.CategoryLabels))
	for i, l := range c.spec.CategoryLabels {
		keys[i] = fmt.Sprintf("%d %s", i, l)
	}
	plot := lipgloss.NewStyle().Foreground(c.seriesColor(c.spec.Series[0], 0)).Render(lc.View())
	return plot + "\n" + strings.Join(keys, " · ")
}

// drawBars renders one row per category and series. With share set the bar
// length is the value's percentage of its series total, which is how the
// radial kinds read in a terminal.
func (c *Chart) drawBars(glyph string, share bool) string {
	labelWidth := 0
	for _, l := range c.spec.CategoryLabels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
	}

	maxVal := 0.0
	if all := present(c.spec.Series); len(all) > 0 {
		maxVal = floats.Max(all)
	}
	cols := max(minBarCols, c.width-labelWidth-12)

	totals := make([]float64, len(c.spec.Series))
	for si, s := range c.spec.Series {
		totals[si] = floats.Sum(positive(s.Values))
	}

	var rows []string
	for i, label := range c.spec.CategoryLabels {
		for si, s := range c.spec.Series {
			prefix := strings.Repeat(" ", labelWidth)
			if si == 0 {
				prefix = label + strings.Repeat(" ", labelWidth-lipgloss.Width(label))
			}
			v := s.Values[i]
			if !charts.Finite(v) {
				rows = append(rows, fmt.Sprintf("%s │ %s", prefix, "-"))
				continue
			}

			scale, text := maxVal, formatValue(*v)
			if share {
				scale = totals[si]
				if scale > 0 {
					text = fmt.Sprintf("%.0f%%", *v/scale*100)
				}
			}
			n := 0
			if scale > 0 && *v > 0 {
				n = min(cols, int(math.Round(*v/scale*float64(cols))))
			}
			bar := lipgloss.NewStyle().Foreground(c.seriesColor(s, i)).Render(strings.Repeat(glyph, n))
			rows = append(rows, fmt.Sprintf("%s │ %s %s", prefix, bar, text))
		}
	}
	return strings.Join(rows, "\n")
}

func (c *Chart) legend() string {
	parts := make([]string, 0, len(c.spec.Series))
	for _, s := range c.spec.Series {
		if s.Label == "" {
			continue
		}
		dot := lipgloss.NewStyle().Foreground(c.seriesColor(s, 0)).Render("■")
		parts = append(parts, dot+" "+s.Label)
	}
	return strings.Join(parts, "  ")
}

// seriesColor picks the color for point i, cycling a per-point palette
func (c *Chart) seriesColor(s charts.Series, i int) lipgloss.Color {
	if len(s.Colors) == 0 {
		return c.lib.theme.Primary
	}
	return c.lib.color(s.Colors[i%len(s.Colors)])
}

func present(series []charts.Series) []float64 {
	var out []float64
	for _, s := range series {
		for _, v := range s.Values {
			if charts.Finite(v) {
				out = append(out, *v)
			}
		}
	}
	return out
}

func positive(values []*float64) []float64 {
	var out []float64
	for _, v := range values {
		if charts.Finite(v) && *v > 0 {
			out = append(out, *v)
		}
	}
	return out
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, height int) string {
	if height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
