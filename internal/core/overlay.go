package core

import (
	"log/slog"
	"sync"

	"github.com/Rorical/RoriMeans/internal/models"
	"github.com/Rorical/RoriMeans/internal/plot"
)

// CentroidOverlay turns clicks on the plot into manually selected centroids.
type CentroidOverlay struct {
	mu       sync.Mutex
	store    *ConfigStore
	renderer plot.Renderer
	armed    bool
	logger   *slog.Logger
}

func NewCentroidOverlay(store *ConfigStore, logger *slog.Logger) *CentroidOverlay {
	if logger == nil {
		logger = slog.Default()
	}
	return &CentroidOverlay{store: store, logger: logger}
}

// Arm subscribes to clicks on the renderer's current plot instance.
func (o *CentroidOverlay) Arm(r plot.Renderer) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := r.Attach(o.HandleClick); err != nil {
		o.armed = false
		return err
	}
	o.renderer = r
	o.armed = true
	return nil
}

// Disarm drops the click subscription. It is a no-op when not armed.
func (o *CentroidOverlay) Disarm() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.armed {
		return
	}
	o.renderer.Detach()
	o.armed = false
}

func (o *CentroidOverlay) Armed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.armed
}

// HandleClick records the first clicked point as a centroid and asks the
// renderer for a marker. Clicks without usable coordinates are logged and
// dropped.
func (o *CentroidOverlay) HandleClick(event plot.ClickEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.armed {
		o.logger.Debug("click ignored, overlay disarmed")
		return
	}
	if len(event.Points) == 0 {
		o.logger.Debug("click ignored, no data point under cursor")
		return
	}
	first := event.Points[0]
	if first.X == nil || first.Y == nil {
		o.logger.Debug("click ignored, data point has no coordinates", "trace", first.Trace)
		return
	}

	p := models.Point{X: *first.X, Y: *first.Y}
	o.store.AppendCentroid(p)
	o.logger.Info("centroid selected", "point", p.String(), "selected", o.store.CentroidCount())

	if err := o.renderer.AddMarker(p); err != nil {
		o.logger.Error("add centroid marker", "error", err)
	}
}
