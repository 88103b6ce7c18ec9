package core

import (
	"sync"

	"github.com/Rorical/RoriMeans/internal/models"
)

type modeTrigger struct {
	from   models.Mode
	manual bool
}

// Only these transitions exist. Selecting a method that keeps the current
// mode only updates the stored method.
var modeTransitions = map[modeTrigger]models.Mode{
	{from: models.ModeAutomatic, manual: true}:        models.ModeManualSelecting,
	{from: models.ModeManualSelecting, manual: false}: models.ModeAutomatic,
}

// TransitionFunc observes a mode change. It runs after the new mode is visible.
type TransitionFunc func(from, to models.Mode)

// ModeController decides whether clicks on the plot place centroids.
type ModeController struct {
	mu        sync.RWMutex
	mode      models.Mode
	store     *ConfigStore
	listeners []TransitionFunc
}

func NewModeController(store *ConfigStore) *ModeController {
	return &ModeController{
		mode:  models.ModeAutomatic,
		store: store,
	}
}

// OnTransition registers fn to run after every mode change.
func (mc *ModeController) OnTransition(fn TransitionFunc) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.listeners = append(mc.listeners, fn)
}

func (mc *ModeController) Mode() models.Mode {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.mode
}

func (mc *ModeController) IsManual() bool {
	return mc.Mode() == models.ModeManualSelecting
}

// SelectMethod records m and applies the matching transition, if any.
// Entering manual selection always starts from an empty centroid list.
// It returns the resulting mode.
func (mc *ModeController) SelectMethod(m models.Method) models.Mode {
	mc.store.SetMethod(m)

	mc.mu.Lock()
	from := mc.mode
	to, ok := modeTransitions[modeTrigger{from: from, manual: m.IsManual()}]
	if !ok {
		mc.mu.Unlock()
		return from
	}
	if to == models.ModeManualSelecting {
		mc.store.ClearCentroids()
	}
	mc.mode = to
	listeners := append([]TransitionFunc(nil), mc.listeners...)
	mc.mu.Unlock()

	for _, fn := range listeners {
		fn(from, to)
	}
	return to
}
