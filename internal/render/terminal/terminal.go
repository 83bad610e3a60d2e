// Package terminal draws charts as text frames with lipgloss and ntcharts.
package terminal

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/aristath/schedboard/internal/modules/charts"
	"github.com/aristath/schedboard/internal/render"
	"github.com/aristath/schedboard/internal/theme"
)

// Default frame size used until the dashboard reports the real one
const (
	DefaultWidth  = 40
	DefaultHeight = 10
)

// Library is the terminal drawing library. Load resolves the palette once;
// every Construct after that shares it.
type Library struct {
	mu      sync.Mutex
	loaded  bool
	theme   theme.Theme
	palette map[string]lipgloss.Color
	log     zerolog.Logger
}

// NewLibrary creates an unloaded terminal library
func NewLibrary(t theme.Theme, log zerolog.Logger) *Library {
	return &Library{
		theme: t,
		log:   log.With().Str("component", "terminal_renderer").Logger(),
	}
}

// Load resolves every chart palette color against the theme background
func (l *Library) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to load terminal renderer: %w", err)
	}

	palette := make(map[string]lipgloss.Color)
	for _, f := range charts.Families() {
		plan, err := charts.PlanFor(f)
		if err != nil {
			return fmt.Errorf("failed to load terminal renderer: %w", err)
		}
		for _, field := range plan.Fields {
			for _, css := range field.Colors {
				palette[css] = l.theme.ChartColor(css)
			}
		}
	}

	l.palette = palette
	l.loaded = true
	l.log.Debug().Int("colors", len(palette)).Msg("Terminal renderer loaded")
	return nil
}

// Construct creates a chart and draws its first frame
func (l *Library) Construct(spec charts.ChartSpec) (render.Instance, error) {
	l.mu.Lock()
	loaded := l.loaded
	l.mu.Unlock()

	if !loaded {
		return nil, render.ErrNotLoaded
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	c := &Chart{
		lib:    l,
		spec:   spec.Clone(),
		width:  DefaultWidth,
		height: DefaultHeight,
	}
	if err := c.Redraw(); err != nil {
		return nil, err
	}
	return c, nil
}

// color resolves a chart color, using the preloaded palette when possible
func (l *Library) color(css string) lipgloss.Color {
	l.mu.Lock()
	c, ok := l.palette[css]
	l.mu.Unlock()
	if ok {
		return c
	}
	return l.theme.ChartColor(css)
}
