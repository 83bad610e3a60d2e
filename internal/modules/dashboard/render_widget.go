package dashboard

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/aristath/schedboard/internal/modules/charts"
	"github.com/aristath/schedboard/internal/render"
)

// RenderState is the lifecycle of a rendering widget's drawing library
type RenderState int

const (
	StateNotLoaded RenderState = iota
	StateLoading
	StateReady
	// StateLoadFailed behaves like StateNotLoaded on the next call: the load is retried
	StateLoadFailed
)

func (s RenderState) String() string {
	switch s {
	case StateNotLoaded:
		return "not-loaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateLoadFailed:
		return "load-failed"
	default:
		return fmt.Sprintf("RenderState(%d)", int(s))
	}
}

// DefaultLoadTimeout bounds a single library load
const DefaultLoadTimeout = 30 * time.Second

// RenderWidget owns one live chart instance. The instance is constructed once,
// after the library has loaded, and every later spec updates it in place.
type RenderWidget struct {
	id          WidgetID
	library     render.Library
	notifier    Notifier
	log         zerolog.Logger
	loadTimeout time.Duration

	state    RenderState
	config   *charts.ChartSpec // set by the container for the initial construction path
	pending  *charts.ChartSpec // last spec received while the library was not ready
	instance render.Instance
	live     charts.ChartSpec // data currently held by instance

	redrawScheduled bool
	width, height   int

	loads      int
	constructs int
	redraws    int
}

// NewRenderWidget creates a rendering widget in the not-loaded state
func NewRenderWidget(id WidgetID, library render.Library, notifier Notifier, log zerolog.Logger) *RenderWidget {
	return &RenderWidget{
		id:          id,
		library:     library,
		notifier:    notifier,
		log:         log.With().Str("component", "render_widget").Str("widget", string(id)).Logger(),
		loadTimeout: DefaultLoadTimeout,
		state:       StateNotLoaded,
	}
}

// SetLoadTimeout overrides DefaultLoadTimeout
func (r *RenderWidget) SetLoadTimeout(d time.Duration) {
	r.loadTimeout = d
}

// ID returns the panel id
func (r *RenderWidget) ID() WidgetID { return r.id }

// State returns the library lifecycle state
func (r *RenderWidget) State() RenderState { return r.state }

// Instance returns the live instance, nil before construction
func (r *RenderWidget) Instance() render.Instance { return r.instance }

// Live returns a copy of the spec whose data the instance currently holds
func (r *RenderWidget) Live() charts.ChartSpec { return r.live.Clone() }

// Loads returns how many library loads were started
func (r *RenderWidget) Loads() int { return r.loads }

// Constructs returns how many instances were constructed
func (r *RenderWidget) Constructs() int { return r.constructs }

// Redraws returns how many in-place redraws were performed
func (r *RenderWidget) Redraws() int { return r.redraws }

// RenderOrUpdate constructs the chart from spec, or updates the live instance
// in place. Before the library is ready the spec is kept as pending and the
// last one received wins.
func (r *RenderWidget) RenderOrUpdate(spec charts.ChartSpec) tea.Cmd {
	if err := spec.Validate(); err != nil {
		r.log.Error().Err(err).Msg("Rejected chart spec")
		return nil
	}

	switch r.state {
	case StateNotLoaded, StateLoadFailed:
		r.setPending(spec)
		return r.startLoad()
	case StateLoading:
		r.setPending(spec)
		return nil
	}

	if r.instance == nil {
		r.construct(spec)
		return nil
	}

	data := spec.Data()
	if data.Equal(r.live.Data()) {
		return nil
	}

	r.instance.UpdateData(data)
	held := data.Clone()
	r.live.CategoryLabels = held.Labels
	r.live.Series = held.Series
	return r.scheduleRedraw()
}

// SetConfig sets the spec used by Mount
func (r *RenderWidget) SetConfig(spec charts.ChartSpec) {
	c := spec.Clone()
	r.config = &c
}

// Mount runs the construction path from the configured spec. It does nothing
// once an instance exists; later changes arrive through RenderOrUpdate.
func (r *RenderWidget) Mount() tea.Cmd {
	if r.config == nil || r.instance != nil {
		return nil
	}
	return r.RenderOrUpdate(*r.config)
}

// SetSize sets the area available to the chart
func (r *RenderWidget) SetSize(width, height int) {
	r.width, r.height = width, height
	if resizer, ok := r.instance.(render.Resizer); ok {
		resizer.Resize(width, height)
	}
}

// Update handles the widget's own load and redraw messages
func (r *RenderWidget) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case LibraryLoadedMsg:
		if msg.Widget != r.id || r.state != StateLoading {
			return nil
		}
		r.handleLoaded(msg.Err)

	case RedrawMsg:
		if msg.Widget != r.id {
			return nil
		}
		r.redrawScheduled = false
		r.redraw()
	}
	return nil
}

// View returns the instance frame, or a placeholder when there is none
func (r *RenderWidget) View() string {
	if r.instance != nil {
		return r.instance.View()
	}
	switch r.state {
	case StateLoading:
		return "Loading chart…"
	case StateLoadFailed:
		return "Chart unavailable"
	default:
		return ""
	}
}

func (r *RenderWidget) setPending(spec charts.ChartSpec) {
	c := spec.Clone()
	r.pending = &c
}

func (r *RenderWidget) startLoad() tea.Cmd {
	r.state = StateLoading
	r.loads++
	r.log.Debug().Int("attempt", r.loads).Msg("Loading chart library")

	id, library, timeout := r.id, r.library, r.loadTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return LibraryLoadedMsg{Widget: id, Err: library.Load(ctx)}
	}
}

func (r *RenderWidget) handleLoaded(err error) {
	if err != nil {
		r.state = StateLoadFailed
		err = fmt.Errorf("%w: %w", ErrRenderInit, err)
		r.log.Error().Err(err).Msg("Failed to load chart library")
		r.notifier.NotifyError(LoadErrorTitle, err.Error())
		return
	}

	r.state = StateReady
	r.log.Debug().Msg("Chart library loaded")

	if r.pending != nil {
		spec := *r.pending
		r.pending = nil
		r.construct(spec)
	}
}

func (r *RenderWidget) construct(spec charts.ChartSpec) {
	instance, err := r.library.Construct(spec.Clone())
	if err != nil {
		err = fmt.Errorf("%w: failed to construct %s chart: %w", ErrRenderInit, spec.Kind, err)
		r.log.Error().Err(err).Msg("Failed to construct chart")
		r.notifier.NotifyError(LoadErrorTitle, err.Error())
		return
	}

	r.instance = instance
	r.live = spec.Clone()
	r.constructs++

	if resizer, ok := instance.(render.Resizer); ok && r.width > 0 && r.height > 0 {
		resizer.Resize(r.width, r.height)
	}

	r.log.Debug().
		Str("kind", string(spec.Kind)).
		Int("categories", len(spec.CategoryLabels)).
		Msg("Chart constructed")
}

func (r *RenderWidget) scheduleRedraw() tea.Cmd {
	if r.redrawScheduled {
		return nil
	}
	r.redrawScheduled = true
	id := r.id
	return func() tea.Msg {
		return RedrawMsg{Widget: id}
	}
}

func (r *RenderWidget) redraw() {
	if r.instance == nil {
		return
	}
	if err := r.instance.Redraw(); err != nil {
		r.log.Error().Err(err).Msg("Failed to redraw chart")
		return
	}
	r.redraws++
}
