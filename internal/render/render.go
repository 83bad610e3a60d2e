// Package render defines the drawing-library contract used by the dashboard's
// rendering widgets. Concrete libraries live in the terminal and web subpackages.
package render

import (
	"context"
	"errors"

	"github.com/aristath/schedboard/internal/modules/charts"
)

// ErrNotLoaded is returned by Construct when Load has not completed
var ErrNotLoaded = errors.New("chart library not loaded")

// Library is a chart-drawing library that must be loaded once before use
type Library interface {
	// Load performs the one-time asynchronous setup. Calling it again after
	// success is a no-op.
	Load(ctx context.Context) error
	// Construct creates a live chart instance from spec
	Construct(spec charts.ChartSpec) (Instance, error)
}

// Instance is a live chart owned by a single rendering widget
type Instance interface {
	// UpdateData replaces labels and series in place
	UpdateData(data charts.ChartData)
	// Redraw draws the current data
	Redraw() error
	// View returns the instance's current frame, or "" when it draws elsewhere
	View() string
}

// Resizer is implemented by instances whose frame depends on the available space
type Resizer interface {
	Resize(width, height int)
}
