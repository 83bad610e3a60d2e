package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/aristath/schedboard/internal/domain"
	"github.com/aristath/schedboard/internal/modules/charts"
	"github.com/aristath/schedboard/internal/render"
)

// Panel pairs a metric widget with the rendering widget it owns a handle to
type Panel struct {
	Metric *MetricWidget
	Chart  *RenderWidget
}

// NewPanel wires a metric widget to a fresh rendering widget
func NewPanel(cfg MetricWidgetConfig, fetcher Fetcher, library render.Library, notifier Notifier, log zerolog.Logger) Panel {
	id := cfg.ID
	if id == "" {
		id = WidgetID(cfg.Plan.Family)
		cfg.ID = id
	}
	chart := NewRenderWidget(id, library, notifier, log)
	return Panel{
		Metric: NewMetricWidget(cfg, fetcher, chart, log),
		Chart:  chart,
	}
}

// NewPanels creates one panel per plan, all starting on bucket
func NewPanels(plans []charts.Plan, bucket domain.Bucket, fetcher Fetcher, library render.Library, notifier Notifier, opts Options, log zerolog.Logger) []Panel {
	panels := make([]Panel, len(plans))
	for i, plan := range plans {
		panels[i] = NewPanel(MetricWidgetConfig{
			ID:      WidgetID(plan.Family),
			Plan:    plan,
			Bucket:  bucket,
			Timeout: opts.FetchTimeout,
		}, fetcher, library, notifier, log)
	}
	return panels
}

// DefaultPlans returns the five dashboard plans with the unassigned-work plan
// replaced by assignment
func DefaultPlans(assignment charts.Plan) []charts.Plan {
	families := charts.Families()
	plans := make([]charts.Plan, 0, len(families))
	for _, f := range families {
		if f == charts.FamilyAssignment {
			plans = append(plans, assignment)
			continue
		}
		plans = append(plans, charts.MustPlanFor(f))
	}
	return plans
}

// Options configures the dashboard
type Options struct {
	APIURL       string
	MaxWidth     int // 0 = no limit
	MaxHeight    int
	FetchTimeout time.Duration
}

// Dashboard is the bubbletea model hosting every panel
type Dashboard struct {
	panels []Panel
	focus  int
	toasts *ToastQueue
	help   help.Model
	opts   Options
	log    zerolog.Logger

	width, height int
	ready         bool
	ticking       bool
}

// New creates the dashboard model
func New(panels []Panel, toasts *ToastQueue, opts Options, log zerolog.Logger) *Dashboard {
	if toasts == nil {
		toasts = NewToastQueue(DefaultToastTTL, log)
	}
	return &Dashboard{
		panels: panels,
		toasts: toasts,
		help:   help.New(),
		opts:   opts,
		log:    log.With().Str("component", "dashboard").Logger(),
	}
}

// Panels returns the hosted panels
func (d *Dashboard) Panels() []Panel { return d.panels }

// Focus returns the index of the focused panel
func (d *Dashboard) Focus() int { return d.focus }

// Init issues every widget's initial fetch
func (d *Dashboard) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(d.panels))
	for _, p := range d.panels {
		cmds = append(cmds, p.Metric.Init())
	}
	return tea.Batch(cmds...)
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		if d.opts.MaxWidth > 0 && d.width > d.opts.MaxWidth {
			d.width = d.opts.MaxWidth
		}
		if d.opts.MaxHeight > 0 && d.height > d.opts.MaxHeight {
			d.height = d.opts.MaxHeight
		}
		d.help.Width = d.width
		d.ready = true
		d.resizeCharts()

	case tea.KeyMsg:
		cmds = append(cmds, d.handleKey(msg))

	case toastTickMsg:
		d.ticking = d.toasts.Expire()
		d.resizeCharts()
		if d.ticking {
			cmds = append(cmds, toastTick())
		}

	case FetchResultMsg, LibraryLoadedMsg, RedrawMsg:
		cmds = append(cmds, routePanels(d.panels, msg))
	}

	if !d.ticking && d.toasts.Len() > 0 {
		d.ticking = true
		d.resizeCharts()
		cmds = append(cmds, toastTick())
	}

	return d, tea.Batch(cmds...)
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Help):
		d.help.ShowAll = !d.help.ShowAll
		d.resizeCharts()
	case len(d.panels) == 0:
		return nil
	case key.Matches(msg, keys.Next):
		d.focus = (d.focus + 1) % len(d.panels)
	case key.Matches(msg, keys.Prev):
		d.focus = (d.focus - 1 + len(d.panels)) % len(d.panels)
	case key.Matches(msg, keys.Week):
		bucket, err := domain.ParseBucket(msg.String())
		if err != nil {
			return nil
		}
		d.log.Debug().Str("widget", string(d.panels[d.focus].Metric.ID())).Str("bucket", string(bucket)).Msg("Bucket selected")
		return d.panels[d.focus].Metric.SelectBucket(bucket)
	case key.Matches(msg, keys.Retry):
		return d.panels[d.focus].Metric.Retry()
	}
	return nil
}
