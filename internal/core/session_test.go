package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriMeans/internal/eventbus"
	"github.com/Rorical/RoriMeans/internal/models"
	"github.com/Rorical/RoriMeans/internal/plot"
)

type sessionHarness struct {
	t        *testing.T
	session  *Session
	backend  *fakeBackend
	bus      *eventbus.EventBus
	messages []models.Message
	last     eventbus.StateUpdateEvent
}

func startSession(t *testing.T, method models.Method, clusters int) *sessionHarness {
	t.Helper()
	bus := eventbus.NewEventBus()
	backend := newFakeBackend()
	s := NewSession(SessionOptions{
		ServerURL: "http://kmeans.test",
		Clusters:  clusters,
		Method:    method,
		Logger:    discardLogger(),
	}, backend, plot.NewCanvas(9, 9), bus)
	s.Start()

	h := &sessionHarness{t: t, session: s, backend: backend, bus: bus}
	t.Cleanup(func() {
		s.Stop()
		bus.Close()
	})
	h.waitFor(func(e eventbus.StateUpdateEvent) bool { return !e.Frame.Empty() && !e.Busy })
	return h
}

func (h *sessionHarness) send(e eventbus.UIEvent) {
	require.NoError(h.t, h.bus.SendToCore(e))
}

// waitFor drains state updates until cond holds for one of them.
func (h *sessionHarness) waitFor(cond func(eventbus.StateUpdateEvent) bool) eventbus.StateUpdateEvent {
	h.t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-h.bus.CoreToUI():
			update := ev.(eventbus.StateUpdateEvent)
			h.messages = append(h.messages, update.Messages...)
			h.last = update
			if cond(update) {
				return update
			}
		case <-timeout:
			h.t.Fatalf("timed out waiting for state update, last: %+v", h.last)
			return eventbus.StateUpdateEvent{}
		}
	}
}

func (h *sessionHarness) hasMessage(substr string) bool {
	for _, m := range h.messages {
		if strings.Contains(m.Content, substr) {
			return true
		}
	}
	return false
}

func TestSessionStartsWithWelcomeAndPlot(t *testing.T) {
	h := startSession(t, models.MethodRandom, 3)

	assert.True(t, h.hasMessage("-- RORIMEANS --"))
	assert.True(t, h.hasMessage("http://kmeans.test"))
	assert.Equal(t, "Initial Data Points", h.last.Frame.Title)
	assert.Equal(t, models.ModeAutomatic, h.last.Mode)
	assert.Equal(t, []string{"plot"}, h.backend.Calls())
}

func TestSessionManualSelectionScenario(t *testing.T) {
	h := startSession(t, models.MethodRandom, 3)

	h.send(eventbus.SelectMethodEvent{Method: models.MethodManual})
	h.waitFor(func(e eventbus.StateUpdateEvent) bool { return e.Mode == models.ModeManualSelecting })
	assert.True(t, h.hasMessage(manualSelectionNotice))

	// (2,6) and (4,4) are the cells of data points (1,1) and (2,2)
	h.send(eventbus.PlotClickEvent{Col: 2, Row: 6})
	h.send(eventbus.PlotClickEvent{Col: 4, Row: 4})
	state := h.waitFor(func(e eventbus.StateUpdateEvent) bool { return len(e.Config.Centroids) == 2 })
	assert.Equal(t, []models.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, state.Config.Centroids)
	assert.Equal(t, 'x', state.Frame.Cells[6][2].Glyph, "selected centroids get a marker")

	h.send(eventbus.CommandEvent{Command: models.CommandInitialize})
	h.waitFor(func(e eventbus.StateUpdateEvent) bool { return len(e.Messages) > 0 })
	assert.True(t, h.hasMessage("Please select 1 more centroid"))
	assert.Empty(t, h.backend.Initialized())

	h.send(eventbus.PlotClickEvent{Col: 6, Row: 2})
	h.send(eventbus.CommandEvent{Command: models.CommandInitialize})
	h.waitFor(func(e eventbus.StateUpdateEvent) bool {
		return len(h.backend.Initialized()) == 1 && !e.Busy
	})
	sent := h.backend.Initialized()[0]
	assert.Equal(t, []models.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}, sent.Centroids)
}

func TestSessionClickOnEmptyCellIsIgnored(t *testing.T) {
	h := startSession(t, models.MethodManual, 2)

	h.send(eventbus.PlotClickEvent{Col: 0, Row: 0})
	h.send(eventbus.SetClusterCountEvent{Count: 4})
	state := h.waitFor(func(e eventbus.StateUpdateEvent) bool { return e.Config.Clusters == 4 })

	assert.Empty(t, state.Config.Centroids)
}

func TestSessionReportsServiceErrors(t *testing.T) {
	h := startSession(t, models.MethodRandom, 3)
	h.backend.mu.Lock()
	h.backend.err = assert.AnError
	h.backend.mu.Unlock()

	h.send(eventbus.CommandEvent{Command: models.CommandStep})
	state := h.waitFor(func(e eventbus.StateUpdateEvent) bool { return e.Error != nil })

	assert.ErrorIs(t, state.Error, assert.AnError)
	assert.True(t, h.hasMessage("step:"))
}
