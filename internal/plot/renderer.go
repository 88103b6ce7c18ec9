// Package plot draws plotly-style scatter descriptions on a character grid
// and turns cursor clicks into point events.
package plot

import (
	"context"
	"errors"

	"github.com/Rorical/RoriMeans/internal/models"
)

var ErrNoPlot = errors.New("no plot has been rendered")

// ClickPoint is one data point under a click. A nil coordinate means the
// point carried no numeric value for that axis.
type ClickPoint struct {
	X     *float64
	Y     *float64
	Trace int
}

// ClickEvent lists the points under the click, topmost first. It is empty
// when nothing was hit.
type ClickEvent struct {
	Points []ClickPoint
}

type ClickHandler func(ClickEvent)

// Renderer is a plotting surface. Every Render creates a new plot instance and
// drops any click subscription held on the previous one.
type Renderer interface {
	Render(ctx context.Context, plot models.PlotDescription) error
	Attach(handler ClickHandler) error
	Detach()
	AddMarker(p models.Point) error
}
