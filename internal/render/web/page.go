package web

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rs/zerolog"

	"github.com/aristath/schedboard/internal/modules/charts"
)

// ECharts treats "-" as a missing point
const missing = "-"

type renderer interface {
	Render(w io.Writer) error
}

// Page is a chart written to a single HTML file. Every Redraw rewrites it.
type Page struct {
	id   string
	path string
	log  zerolog.Logger

	mu    sync.Mutex
	spec  charts.ChartSpec
	draws int
}

// ID returns the chart id used as the page's DOM id
func (p *Page) ID() string {
	return p.id
}

// Path returns the file the page is written to
func (p *Page) Path() string {
	return p.path
}

// UpdateData replaces the page's labels and series
func (p *Page) UpdateData(data charts.ChartData) {
	p.mu.Lock()
	defer p.mu.Unlock()

	d := data.Clone()
	p.spec.CategoryLabels = d.Labels
	p.spec.Series = d.Series
}

// Redraw rebuilds the chart and rewrites the page
func (p *Page) Redraw() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.Create(p.path)
	if err != nil {
		return fmt.Errorf("failed to write chart page: %w", err)
	}
	err = p.build().Render(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		return fmt.Errorf("failed to write chart page: %w", cerr)
	}
	if err != nil {
		return fmt.Errorf("failed to render chart page: %w", err)
	}

	p.draws++
	p.log.Debug().Str("chart_id", p.id).Str("path", p.path).Msg("Chart page written")
	return nil
}

// View reports where the page lives
func (p *Page) View() string {
	return "wrote " + p.path
}

// Draws returns how many times the page was written
func (p *Page) Draws() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draws
}

func (p *Page) build() renderer {
	initOpts := opts.Initialization{
		PageTitle:  p.spec.Title,
		ChartID:    p.id,
		AssetsHost: "./",
		Width:      "900px",
		Height:     "500px",
	}
	title := opts.Title{Title: p.spec.Title}
	legend := opts.Legend{Show: opts.Bool(true)}

	switch p.spec.Kind {
	case charts.KindLine:
		return p.line(initOpts, title, legend)
	case charts.KindBar:
		return p.bar(initOpts, title, legend)
	default:
		return p.pie(initOpts, title, legend)
	}
}

func (p *Page) yAxis() opts.YAxis {
	y := opts.YAxis{Type: "value"}
	if p.spec.Axis.BeginAtZero {
		y.Min = 0
	}
	return y
}

func (p *Page) line(initOpts opts.Initialization, title opts.Title, legend opts.Legend) renderer {
	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(initOpts),
		echarts.WithTitleOpts(title),
		echarts.WithLegendOpts(legend),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithYAxisOpts(p.yAxis()),
	)
	line.SetXAxis(p.spec.CategoryLabels)

	for _, s := range p.spec.Series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.LineData{Value: missing}
			if charts.Finite(v) {
				data[i] = opts.LineData{Value: *v}
			}
		}

		var seriesOpts []echarts.SeriesOpts
		if len(s.Colors) > 0 {
			seriesOpts = append(seriesOpts,
				echarts.WithItemStyleOpts(opts.ItemStyle{Color: s.Colors[0]}),
				echarts.WithLineStyleOpts(opts.LineStyle{Color: s.Colors[0]}),
			)
		}
		line.AddSeries(s.Label, data, seriesOpts...)
	}
	return line
}

func (p *Page) bar(initOpts opts.Initialization, title opts.Title, legend opts.Legend) renderer {
	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithInitializationOpts(initOpts),
		echarts.WithTitleOpts(title),
		echarts.WithLegendOpts(legend),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithYAxisOpts(p.yAxis()),
	)
	bar.SetXAxis(p.spec.CategoryLabels)

	for _, s := range p.spec.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Value: missing}
			if charts.Finite(v) {
				data[i] = opts.BarData{Value: *v}
			}
			if len(s.Colors) > 0 {
				data[i].ItemStyle = &opts.ItemStyle{Color: s.Colors[i%len(s.Colors)]}
			}
		}
		bar.AddSeries(s.Label, data)
	}
	return bar
}

// pie draws pie, doughnut and polar area charts. Each series becomes a ring
// so multi-series plans stay readable.
func (p *Page) pie(initOpts opts.Initialization, title opts.Title, legend opts.Legend) renderer {
	pie := echarts.NewPie()
	pie.SetGlobalOptions(
		echarts.WithInitializationOpts(initOpts),
		echarts.WithTitleOpts(title),
		echarts.WithLegendOpts(legend),
		echarts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: "{a}<br/>{b}: {c} ({d}%)",
		}),
	)

	inner := 0
	if p.spec.Kind == charts.KindDoughnut {
		inner = 40
	}
	rings := ringRadii(inner, 75, len(p.spec.Series))

	for si, s := range p.spec.Series {
		var data []opts.PieData
		for i, v := range s.Values {
			if !charts.Finite(v) {
				continue
			}
			d := opts.PieData{Name: p.spec.CategoryLabels[i], Value: *v}
			if len(s.Colors) > 0 {
				d.ItemStyle = &opts.ItemStyle{Color: s.Colors[i%len(s.Colors)]}
			}
			data = append(data, d)
		}

		chart := opts.PieChart{Radius: rings[si]}
		if p.spec.Kind == charts.KindPolarArea {
			chart.RoseType = "area"
		}
		pie.AddSeries(s.Label, data).SetSeriesOptions(echarts.WithPieChartOpts(chart))
	}
	return pie
}

// ringRadii splits [inner, outer] percent into n concentric rings
func ringRadii(inner, outer, n int) [][]string {
	if n <= 0 {
		return nil
	}
	step := (outer - inner) / n
	out := make([][]string, n)
	for i := range out {
		from := inner + i*step
		to := from + step
		if i == n-1 {
			to = outer
		}
		out[i] = []string{fmt.Sprintf("%d%%", from), fmt.Sprintf("%d%%", to)}
	}
	return out
}

// slug turns a title into a file-name friendly string
func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
