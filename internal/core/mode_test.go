package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Rorical/RoriMeans/internal/models"
)

func TestEnteringManualClearsCentroids(t *testing.T) {
	tests := []struct {
		name  string
		prior []models.Point
	}{
		{name: "empty"},
		{name: "one", prior: []models.Point{{X: 1, Y: 1}}},
		{name: "many", prior: []models.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewConfigStore(3, models.MethodRandom)
			for _, p := range tt.prior {
				store.AppendCentroid(p)
			}
			mc := NewModeController(store)

			got := mc.SelectMethod(models.MethodManual)

			assert.Equal(t, models.ModeManualSelecting, got)
			assert.Zero(t, store.CentroidCount())
			assert.Equal(t, models.MethodManual, store.Method())
		})
	}
}

func TestModeTransitions(t *testing.T) {
	tests := []struct {
		name        string
		start       models.Method
		selections  []models.Method
		wantMode    models.Mode
		wantChanges int
	}{
		{"automatic to manual", models.MethodRandom, []models.Method{models.MethodManual}, models.ModeManualSelecting, 1},
		{"manual back to automatic", models.MethodRandom, []models.Method{models.MethodManual, models.MethodKMeansPP}, models.ModeAutomatic, 2},
		{"automatic methods keep mode", models.MethodRandom, []models.Method{models.MethodFarthest, models.MethodKMeansPP}, models.ModeAutomatic, 0},
		{"manual twice is one transition", models.MethodRandom, []models.Method{models.MethodManual, models.MethodManual}, models.ModeManualSelecting, 1},
		{"unknown server method is automatic", models.MethodRandom, []models.Method{models.MethodManual, "spectral"}, models.ModeAutomatic, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := NewModeController(NewConfigStore(3, tt.start))
			changes := 0
			mc.OnTransition(func(from, to models.Mode) {
				assert.NotEqual(t, from, to)
				assert.Equal(t, to, mc.Mode(), "listeners see the new mode")
				changes++
			})

			for _, m := range tt.selections {
				mc.SelectMethod(m)
			}

			assert.Equal(t, tt.wantMode, mc.Mode())
			assert.Equal(t, tt.wantChanges, changes)
		})
	}
}

func TestReselectingManualKeepsSelection(t *testing.T) {
	store := NewConfigStore(3, models.MethodRandom)
	mc := NewModeController(store)
	mc.SelectMethod(models.MethodManual)
	store.AppendCentroid(models.Point{X: 1, Y: 1})

	mc.SelectMethod(models.MethodManual)

	assert.Equal(t, 1, store.CentroidCount())
}

func TestLeavingManualKeepsCentroids(t *testing.T) {
	store := NewConfigStore(3, models.MethodRandom)
	mc := NewModeController(store)
	mc.SelectMethod(models.MethodManual)
	store.AppendCentroid(models.Point{X: 1, Y: 1})

	mc.SelectMethod(models.MethodRandom)

	assert.False(t, mc.IsManual())
	assert.Equal(t, 1, store.CentroidCount())
	assert.Equal(t, models.MethodRandom, store.Method())
}
