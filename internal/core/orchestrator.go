package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/Rorical/RoriMeans/internal/models"
)

var (
	ErrBusy           = errors.New("another command is still running")
	ErrUnknownCommand = errors.New("unknown command")
)

// InsufficientCentroidsError aborts a manual initialize before any request is sent.
type InsufficientCentroidsError struct {
	Required int
	Selected int
}

func (e *InsufficientCentroidsError) Missing() int {
	return e.Required - e.Selected
}

func (e *InsufficientCentroidsError) Error() string {
	noun := "centroids"
	if e.Missing() == 1 {
		noun = "centroid"
	}
	return fmt.Sprintf("please select %d more %s on the plot (%d of %d selected)",
		e.Missing(), noun, e.Selected, e.Required)
}

// Backend is the remote k-means service.
type Backend interface {
	PlotSource
	Initialize(ctx context.Context, cfg models.RunConfig) (models.CommandResult, error)
	Step(ctx context.Context) (models.CommandResult, error)
	Generate(ctx context.Context) (models.CommandResult, error)
	Reset(ctx context.Context) (models.CommandResult, error)
	RunToConvergence(ctx context.Context) (models.CommandResult, error)
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(msg models.Message)
}

// RequestOrchestrator runs control commands one at a time. A command that
// arrives while another is in flight is rejected with ErrBusy.
type RequestOrchestrator struct {
	backend   Backend
	store     *ConfigStore
	mode      *ModeController
	refresher *PlotRefresher
	notifier  Notifier
	logger    *slog.Logger

	guard    *semaphore.Weighted
	inFlight atomic.Bool
	onBusy   func(busy bool)
}

func NewRequestOrchestrator(backend Backend, store *ConfigStore, mode *ModeController, refresher *PlotRefresher, notifier Notifier, logger *slog.Logger) *RequestOrchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestOrchestrator{
		backend:   backend,
		store:     store,
		mode:      mode,
		refresher: refresher,
		notifier:  notifier,
		logger:    logger,
		guard:     semaphore.NewWeighted(1),
	}
}

// OnBusyChange registers a hook called when a command starts and when it
// finishes, including its refresh.
func (o *RequestOrchestrator) OnBusyChange(fn func(busy bool)) {
	o.onBusy = fn
}

// Busy reports whether a command or refresh is in flight.
func (o *RequestOrchestrator) Busy() bool {
	return o.inFlight.Load()
}

// Execute sends cmd, surfaces the server message and refreshes the plot. The
// guard is held until the refresh settles, so every refresh follows its own
// command's response.
func (o *RequestOrchestrator) Execute(ctx context.Context, cmd models.Command) error {
	return o.exclusive(func() error {
		return o.execute(ctx, cmd)
	})
}

// Refresh re-renders the plot without sending a command.
func (o *RequestOrchestrator) Refresh(ctx context.Context) error {
	return o.exclusive(func() error {
		return o.refresher.Refresh(ctx)
	})
}

func (o *RequestOrchestrator) exclusive(fn func() error) error {
	if !o.guard.TryAcquire(1) {
		return ErrBusy
	}
	o.setBusy(true)
	defer func() {
		o.setBusy(false)
		o.guard.Release(1)
	}()
	return fn()
}

func (o *RequestOrchestrator) setBusy(busy bool) {
	o.inFlight.Store(busy)
	if o.onBusy != nil {
		o.onBusy(busy)
	}
}

func (o *RequestOrchestrator) execute(ctx context.Context, cmd models.Command) error {
	var (
		result models.CommandResult
		err    error
	)

	switch cmd {
	case models.CommandInitialize:
		snap := o.store.Snapshot()
		if o.mode.IsManual() && len(snap.Centroids) < snap.Clusters {
			return &InsufficientCentroidsError{Required: snap.Clusters, Selected: len(snap.Centroids)}
		}
		result, err = o.backend.Initialize(ctx, snap)
	case models.CommandStep:
		result, err = o.backend.Step(ctx)
	case models.CommandGenerate:
		result, err = o.backend.Generate(ctx)
		if err == nil {
			o.store.ClearCentroids()
		}
	case models.CommandReset:
		result, err = o.backend.Reset(ctx)
	case models.CommandRunToConvergence:
		result, err = o.backend.RunToConvergence(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}

	if err != nil {
		o.logger.Error("command failed", "command", cmd, "error", err)
		return fmt.Errorf("%s: %w", cmd, err)
	}
	o.logger.Info("command done", "command", cmd)

	if result.Message != nil {
		o.notifier.Notify(models.Message{Content: *result.Message, Type: models.Server})
	}

	if err := o.refresher.Refresh(ctx); err != nil {
		o.logger.Error("refresh failed", "command", cmd, "error", err)
		return fmt.Errorf("refresh after %s: %w", cmd, err)
	}
	return nil
}
