// Package dashboard hosts the metric widgets and the chart rendering widgets
// inside a bubbletea program.
package dashboard

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aristath/schedboard/internal/domain"
	"github.com/aristath/schedboard/internal/modules/charts"
)

var (
	// ErrFetchFailed marks a failed record fetch for the selected bucket
	ErrFetchFailed = errors.New("fetch failed")
	// ErrRenderInit marks a chart library that failed to load or construct
	ErrRenderInit = errors.New("chart initialization failed")
)

// LoadErrorTitle is the notification title for chart library failures
const LoadErrorTitle = "Error loading Chart"

// WidgetID names a dashboard panel. Metric and rendering widgets of the same
// panel share it.
type WidgetID string

// Fetcher fetches the records of one family for one bucket
type Fetcher interface {
	Fetch(ctx context.Context, family charts.Family, bucket domain.Bucket) ([]domain.MetricRecord, error)
}

// Notifier shows a user-visible error. Fire-and-forget.
type Notifier interface {
	NotifyError(title, message string)
}

// ChartUpdater is the handle a metric widget holds on its rendering widget
type ChartUpdater interface {
	// RenderOrUpdate constructs or updates the chart; callable in any state
	RenderOrUpdate(spec charts.ChartSpec) tea.Cmd
	// SetConfig sets the spec used by the initial construction path
	SetConfig(spec charts.ChartSpec)
	// Mount runs the initial construction path from the configured spec
	Mount() tea.Cmd
}

// FetchResultMsg carries the outcome of one fetch back to the event loop.
// Bucket and RequestID are the tags the fetch was issued with.
type FetchResultMsg struct {
	Widget    WidgetID
	Bucket    domain.Bucket
	RequestID string
	Records   []domain.MetricRecord
	Err       error
}

// LibraryLoadedMsg reports the end of a rendering widget's library load
type LibraryLoadedMsg struct {
	Widget WidgetID
	Err    error
}

// RedrawMsg asks a rendering widget to draw its pending data. Multiple
// updates between two redraws share one RedrawMsg.
type RedrawMsg struct {
	Widget WidgetID
}

type toastTickMsg time.Time

const toastTickInterval = time.Second

func toastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}
