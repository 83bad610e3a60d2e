package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/schedboard/internal/domain"
	"github.com/aristath/schedboard/internal/modules/charts"
	"github.com/aristath/schedboard/internal/theme"
)

// FetchState is the metric widget's fetch lifecycle
type FetchState int

const (
	FetchIdle FetchState = iota
	FetchAwaitingData
)

func (s FetchState) String() string {
	if s == FetchAwaitingData {
		return "awaiting-data"
	}
	return "idle"
}

// DefaultFetchTimeout bounds one fetch when the config does not set one
const DefaultFetchTimeout = 10 * time.Second

// MetricWidgetConfig configures one metric widget
type MetricWidgetConfig struct {
	ID      WidgetID
	Plan    charts.Plan
	Bucket  domain.Bucket // initial bucket; DefaultBucket when empty
	Timeout time.Duration
}

// MetricWidget fetches one metric family for the selected bucket and hands
// the built chart to its rendering widget. The plan is the only thing that
// differs between the dashboard's widgets.
type MetricWidget struct {
	id      WidgetID
	plan    charts.Plan
	fetcher Fetcher
	chart   ChartUpdater
	timeout time.Duration
	log     zerolog.Logger

	state             FetchState
	bucket            domain.Bucket
	pendingRenderPush bool
	requestID         string
	spec              *charts.ChartSpec
	err               error

	newRequestID func() string
}

// NewMetricWidget creates an idle widget on the configured bucket. Init issues
// the first fetch.
func NewMetricWidget(cfg MetricWidgetConfig, fetcher Fetcher, chart ChartUpdater, log zerolog.Logger) *MetricWidget {
	bucket := cfg.Bucket
	if !bucket.IsValid() {
		bucket = domain.DefaultBucket
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	id := cfg.ID
	if id == "" {
		id = WidgetID(cfg.Plan.Family)
	}

	return &MetricWidget{
		id:           id,
		plan:         cfg.Plan,
		fetcher:      fetcher,
		chart:        chart,
		timeout:      timeout,
		log:          log.With().Str("component", "metric_widget").Str("widget", string(id)).Logger(),
		state:        FetchIdle,
		bucket:       bucket,
		newRequestID: uuid.NewString,
	}
}

// ID returns the panel id
func (w *MetricWidget) ID() WidgetID { return w.id }

// Title returns the plan title
func (w *MetricWidget) Title() string { return w.plan.Title }

// Bucket returns the selected bucket
func (w *MetricWidget) Bucket() domain.Bucket { return w.bucket }

// State returns the fetch state
func (w *MetricWidget) State() FetchState { return w.state }

// Pending reports whether a user selection still waits for its chart push
func (w *MetricWidget) Pending() bool { return w.pendingRenderPush }

// Err returns the last fetch failure, nil after a success
func (w *MetricWidget) Err() error { return w.err }

// Spec returns the chart built from the last successful fetch, if any
func (w *MetricWidget) Spec() (charts.ChartSpec, bool) {
	if w.spec == nil {
		return charts.ChartSpec{}, false
	}
	return w.spec.Clone(), true
}

// Init fetches the initial bucket
func (w *MetricWidget) Init() tea.Cmd {
	return w.fetch()
}

// SelectBucket switches to bucket and fetches it. Selecting the current
// bucket again fetches again.
func (w *MetricWidget) SelectBucket(bucket domain.Bucket) tea.Cmd {
	if !bucket.IsValid() {
		w.log.Warn().Str("bucket", string(bucket)).Msg("Ignoring unknown bucket")
		return nil
	}
	w.bucket = bucket
	w.pendingRenderPush = true
	return w.fetch()
}

// Retry re-selects the current bucket
func (w *MetricWidget) Retry() tea.Cmd {
	return w.SelectBucket(w.bucket)
}

// Update handles fetch results addressed to this widget
func (w *MetricWidget) Update(msg tea.Msg) tea.Cmd {
	result, ok := msg.(FetchResultMsg)
	if !ok || result.Widget != w.id {
		return nil
	}

	if result.RequestID != w.requestID || result.Bucket != w.bucket {
		w.log.Debug().
			Str("bucket", string(result.Bucket)).
			Str("request_id", result.RequestID).
			Msg("Discarding stale fetch result")
		return nil
	}

	w.state = FetchIdle
	w.requestID = ""

	if result.Err != nil {
		w.err = fmt.Errorf("%w for %s: %w", ErrFetchFailed, result.Bucket, result.Err)
		w.spec = nil
		w.log.Warn().Err(result.Err).Str("bucket", string(result.Bucket)).Msg("Failed to fetch metric records")
		return nil
	}

	spec := w.plan.Build(result.Records)
	w.err = nil
	w.spec = &spec

	w.log.Debug().
		Str("bucket", string(result.Bucket)).
		Int("records", len(result.Records)).
		Bool("push", w.pendingRenderPush).
		Msg("Chart spec built")

	if w.pendingRenderPush {
		w.pendingRenderPush = false
		return w.chart.RenderOrUpdate(spec)
	}

	w.chart.SetConfig(spec)
	return w.chart.Mount()
}

func (w *MetricWidget) fetch() tea.Cmd {
	w.state = FetchAwaitingData
	w.requestID = w.newRequestID()

	id, family, bucket, requestID := w.id, w.plan.Family, w.bucket, w.requestID
	fetcher, timeout := w.fetcher, w.timeout

	w.log.Debug().Str("bucket", string(bucket)).Str("request_id", requestID).Msg("Fetching metric records")

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		records, err := fetcher.Fetch(ctx, family, bucket)
		return FetchResultMsg{
			Widget:    id,
			Bucket:    bucket,
			RequestID: requestID,
			Records:   records,
			Err:       err,
		}
	}
}

// View renders the widget header: title, bucket selector and status line
func (w *MetricWidget) View(focused bool) string {
	t := theme.Default

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Text)
	if focused {
		titleStyle = titleStyle.Foreground(t.Focus)
	}

	options := domain.BucketOptions()
	parts := make([]string, len(options))
	for i, opt := range options {
		style := lipgloss.NewStyle().Foreground(t.Muted)
		if domain.Bucket(opt.Value) == w.bucket {
			style = lipgloss.NewStyle().Foreground(t.Base).Background(t.Primary).Bold(true)
		}
		parts[i] = style.Render(fmt.Sprintf(" %s ", opt.Label))
	}

	var status string
	switch {
	case w.err != nil:
		status = lipgloss.NewStyle().Foreground(t.Error).Render(w.err.Error())
	case w.state == FetchAwaitingData:
		status = lipgloss.NewStyle().Foreground(t.Muted).Render("Fetching " + string(w.bucket) + "…")
	default:
		status = ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(w.plan.Title),
		strings.Join(parts, " "),
		status,
	)
}
