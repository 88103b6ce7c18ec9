package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Rorical/RoriMeans/internal/models"
	"github.com/Rorical/RoriMeans/internal/plot"
)

// PlotSource supplies the current plot description.
type PlotSource interface {
	Plot(ctx context.Context) (models.PlotDescription, error)
}

// PlotRefresher re-renders the plot from the service and keeps the overlay
// attached to whichever plot instance is live.
type PlotRefresher struct {
	source   PlotSource
	renderer plot.Renderer
	overlay  *CentroidOverlay
	mode     *ModeController
	logger   *slog.Logger
}

func NewPlotRefresher(source PlotSource, renderer plot.Renderer, overlay *CentroidOverlay, mode *ModeController, logger *slog.Logger) *PlotRefresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlotRefresher{
		source:   source,
		renderer: renderer,
		overlay:  overlay,
		mode:     mode,
		logger:   logger,
	}
}

// Refresh fetches and renders the plot. When the fetch fails the previous
// plot and its subscription stay in place.
func (r *PlotRefresher) Refresh(ctx context.Context) error {
	desc, err := r.source.Plot(ctx)
	if err != nil {
		return fmt.Errorf("fetch plot: %w", err)
	}

	r.overlay.Disarm()
	renderErr := r.renderer.Render(ctx, desc)
	r.rearm()

	if renderErr != nil {
		return fmt.Errorf("render plot: %w", renderErr)
	}
	return nil
}

// rearm attaches the overlay to the live instance when selecting manually.
func (r *PlotRefresher) rearm() {
	if !r.mode.IsManual() {
		return
	}
	if err := r.overlay.Arm(r.renderer); err != nil {
		if errors.Is(err, plot.ErrNoPlot) {
			r.logger.Debug("overlay not armed, nothing rendered yet")
			return
		}
		r.logger.Error("arm centroid overlay", "error", err)
	}
}
