package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriMeans/internal/models"
)

func TestManualInitializeWithTooFewCentroidsSendsNothing(t *testing.T) {
	ctl, backend, renderer, _ := newTestController(models.MethodRandom, 3)
	ctl.Mode.SelectMethod(models.MethodManual)
	renderer.click(1, 1)
	renderer.click(2, 2)
	callsBefore := backend.Calls()
	before := ctl.Store.Snapshot()

	err := ctl.Orchestrator.Execute(context.Background(), models.CommandInitialize)

	var insufficient *InsufficientCentroidsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 1, insufficient.Missing())
	assert.Equal(t, "please select 1 more centroid on the plot (2 of 3 selected)", err.Error())
	assert.Equal(t, callsBefore, backend.Calls(), "no request is sent")
	assert.Equal(t, before, ctl.Store.Snapshot(), "config is unchanged")
	assert.False(t, ctl.Orchestrator.Busy())
}

func TestInsufficientCentroidsMessage(t *testing.T) {
	err := &InsufficientCentroidsError{Required: 4, Selected: 0}
	assert.Equal(t, 4, err.Missing())
	assert.Equal(t, "please select 4 more centroids on the plot (0 of 4 selected)", err.Error())
}

func TestManualInitializeSendsCentroidsInSelectionOrder(t *testing.T) {
	tests := []struct {
		name   string
		clicks []models.Point
	}{
		{"exactly enough", []models.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}},
		{"more than enough", []models.Point{{X: 3, Y: 3}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 0.5, Y: 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl, backend, renderer, _ := newTestController(models.MethodRandom, 3)
			ctl.Mode.SelectMethod(models.MethodManual)
			for _, p := range tt.clicks {
				renderer.click(p.X, p.Y)
			}

			require.NoError(t, ctl.Orchestrator.Execute(context.Background(), models.CommandInitialize))

			sent := backend.Initialized()
			require.Len(t, sent, 1)
			assert.Equal(t, 3, sent[0].Clusters)
			assert.Equal(t, models.MethodManual, sent[0].Method)
			assert.Equal(t, tt.clicks, sent[0].Centroids)
		})
	}
}

func TestAutomaticInitializeHasNoPrecondition(t *testing.T) {
	ctl, backend, _, notifier := newTestController(models.MethodKMeansPP, 5)
	backend.message = strPtr("KMeans initialized with 5 clusters using kmeans++ method.")

	require.NoError(t, ctl.Orchestrator.Execute(context.Background(), models.CommandInitialize))

	sent := backend.Initialized()
	require.Len(t, sent, 1)
	assert.Equal(t, models.RunConfig{Clusters: 5, Method: models.MethodKMeansPP, Centroids: []models.Point{}}, sent[0])
	assert.Equal(t, []models.Message{{Content: "KMeans initialized with 5 clusters using kmeans++ method.", Type: models.Server}}, notifier.Messages())
}

func TestEveryCommandRefreshesAfterResponse(t *testing.T) {
	for _, cmd := range models.Commands {
		t.Run(string(cmd), func(t *testing.T) {
			ctl, backend, _, _ := newTestController(models.MethodRandom, 3)

			require.NoError(t, ctl.Orchestrator.Execute(context.Background(), cmd))

			assert.Equal(t, []string{"plot", string(cmd), "plot"}, backend.Calls())
		})
	}
}

func TestMessagesAreOptional(t *testing.T) {
	ctl, backend, _, notifier := newTestController(models.MethodRandom, 3)

	require.NoError(t, ctl.Orchestrator.Execute(context.Background(), models.CommandStep))
	assert.Empty(t, notifier.Messages())

	backend.message = strPtr("KMeans has converged!")
	require.NoError(t, ctl.Orchestrator.Execute(context.Background(), models.CommandStep))
	assert.Len(t, notifier.Messages(), 1)
}

func TestGenerateClearsCentroids(t *testing.T) {
	for _, method := range []models.Method{models.MethodManual, models.MethodRandom} {
		t.Run(string(method), func(t *testing.T) {
			ctl, _, _, _ := newTestController(method, 2)
			ctl.Store.AppendCentroid(models.Point{X: 1, Y: 1})
			ctl.Store.AppendCentroid(models.Point{X: 2, Y: 2})

			require.NoError(t, ctl.Orchestrator.Execute(context.Background(), models.CommandGenerate))

			assert.Zero(t, ctl.Store.CentroidCount())
		})
	}
}

func TestServiceFailureSkipsRefresh(t *testing.T) {
	ctl, backend, renderer, notifier := newTestController(models.MethodManual, 2)
	renderer.click(1, 1)
	backend.err = errors.New("503 service unavailable")

	err := ctl.Orchestrator.Execute(context.Background(), models.CommandGenerate)

	assert.ErrorContains(t, err, "generate: 503 service unavailable")
	assert.Equal(t, []string{"plot", "generate"}, backend.Calls())
	assert.Equal(t, 1, ctl.Store.CentroidCount(), "a failed generate keeps the selection")
	assert.Len(t, notifier.Messages(), 1, "only the manual-mode notice")
	assert.True(t, renderer.Attached())
}

func TestRefreshFailureIsReported(t *testing.T) {
	ctl, backend, _, _ := newTestController(models.MethodRandom, 2)
	backend.plotErr = errors.New("timeout")

	err := ctl.Orchestrator.Execute(context.Background(), models.CommandReset)
	assert.ErrorContains(t, err, "refresh after reset")
}

func TestUnknownCommand(t *testing.T) {
	ctl, backend, _, _ := newTestController(models.MethodRandom, 2)
	err := ctl.Orchestrator.Execute(context.Background(), models.Command("predict"))
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Equal(t, []string{"plot"}, backend.Calls())
}

func TestOverlappingCommandIsRejected(t *testing.T) {
	ctl, backend, _, _ := newTestController(models.MethodRandom, 2)
	backend.block = make(chan struct{})

	var busyChanges []bool
	var mu sync.Mutex
	ctl.Orchestrator.OnBusyChange(func(busy bool) {
		mu.Lock()
		busyChanges = append(busyChanges, busy)
		mu.Unlock()
	})

	done := make(chan error, 1)
	go func() { done <- ctl.Orchestrator.Execute(context.Background(), models.CommandStep) }()

	require.Eventually(t, ctl.Orchestrator.Busy, time.Second, time.Millisecond)
	assert.ErrorIs(t, ctl.Orchestrator.Execute(context.Background(), models.CommandReset), ErrBusy)
	assert.ErrorIs(t, ctl.Orchestrator.Refresh(context.Background()), ErrBusy)

	close(backend.block)
	require.NoError(t, <-done)
	assert.False(t, ctl.Orchestrator.Busy())
	assert.Equal(t, []string{"plot", "step", "plot"}, backend.Calls())

	mu.Lock()
	assert.Equal(t, []bool{true, false}, busyChanges)
	mu.Unlock()

	require.NoError(t, ctl.Orchestrator.Execute(context.Background(), models.CommandReset))
}

func TestScenarioThreeClicksInitialize(t *testing.T) {
	ctl, backend, renderer, _ := newTestController(models.MethodRandom, 3)

	ctl.Mode.SelectMethod(models.MethodManual)
	renderer.click(1, 1)
	renderer.click(2, 2)
	renderer.click(3, 3)

	require.NoError(t, ctl.Orchestrator.Execute(context.Background(), models.CommandInitialize))
	sent := backend.Initialized()
	require.Len(t, sent, 1)
	assert.Equal(t, []models.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}, sent[0].Centroids)
}
