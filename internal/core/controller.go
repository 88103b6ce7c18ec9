package core

import (
	"errors"
	"log/slog"

	"github.com/Rorical/RoriMeans/internal/models"
	"github.com/Rorical/RoriMeans/internal/plot"
)

const manualSelectionNotice = "Click on the plot to manually select centroids."

// Controller wires the client-side components around one renderer.
type Controller struct {
	Store        *ConfigStore
	Mode         *ModeController
	Overlay      *CentroidOverlay
	Refresher    *PlotRefresher
	Orchestrator *RequestOrchestrator
}

// NewController builds the components and applies the initial method, so a
// manual default starts in manual selection.
func NewController(clusters int, method models.Method, backend Backend, renderer plot.Renderer, notifier Notifier, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}

	store := NewConfigStore(clusters, models.MethodRandom)
	mode := NewModeController(store)
	overlay := NewCentroidOverlay(store, logger)
	refresher := NewPlotRefresher(backend, renderer, overlay, mode, logger)
	orchestrator := NewRequestOrchestrator(backend, store, mode, refresher, notifier, logger)

	mode.OnTransition(func(from, to models.Mode) {
		logger.Info("mode changed", "from", from.String(), "to", to.String())
		switch to {
		case models.ModeManualSelecting:
			notifier.Notify(models.Message{Content: manualSelectionNotice, Type: models.Program})
			if err := overlay.Arm(renderer); err != nil && !errors.Is(err, plot.ErrNoPlot) {
				logger.Error("arm centroid overlay", "error", err)
			}
		case models.ModeAutomatic:
			overlay.Disarm()
		}
	})
	mode.SelectMethod(method)

	return &Controller{
		Store:        store,
		Mode:         mode,
		Overlay:      overlay,
		Refresher:    refresher,
		Orchestrator: orchestrator,
	}
}
