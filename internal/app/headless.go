package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"github.com/Rorical/RoriMeans/internal/config"
	"github.com/Rorical/RoriMeans/internal/core"
	"github.com/Rorical/RoriMeans/internal/models"
	"github.com/Rorical/RoriMeans/internal/plot"
)

// HeadlessRequest describes one non-interactive run. An empty Command only
// fetches and prints the plot.
type HeadlessRequest struct {
	Command   models.Command
	Clusters  int
	Method    models.Method
	Centroids []models.Point
}

// printNotifier writes notices to a terminal stream.
type printNotifier struct {
	out io.Writer
}

func (n printNotifier) Notify(msg models.Message) {
	switch msg.Type {
	case models.Server:
		fmt.Fprintln(n.out, msg.Content)
	case models.Warning:
		fmt.Fprintln(n.out, color.YellowString("warning: %s", msg.Content))
	case models.Error:
		fmt.Fprintln(n.out, color.RedString("error: %s", msg.Content))
	default:
		fmt.Fprintln(n.out, color.CyanString("%s", msg.Content))
	}
}

// RunHeadless runs a single command through the same orchestrator the TUI
// uses and prints the resulting plot. The plot is printed even when the
// command fails.
func RunHeadless(ctx context.Context, profile config.Profile, req HeadlessRequest, out io.Writer, logger *slog.Logger) error {
	clusters := profile.Clusters
	if req.Clusters > 0 {
		clusters = req.Clusters
	}
	method := profile.Method
	if req.Method != "" {
		method = req.Method
	}

	canvas := plot.NewCanvas(profile.PlotWidth, profile.PlotHeight)
	notifier := printNotifier{out: out}
	ctrl := core.NewController(clusters, method, NewBackend(profile, logger), canvas, notifier, logger)
	for _, p := range req.Centroids {
		ctrl.Store.AppendCentroid(p)
	}

	var err error
	if req.Command == "" {
		err = ctrl.Orchestrator.Refresh(ctx)
	} else {
		logger.Debug("sending command", "command", string(req.Command), "config", ctrl.Store.Snapshot())
		err = ctrl.Orchestrator.Execute(ctx, req.Command)
	}

	fmt.Fprint(out, plot.Sprint(canvas.Rasterize()))
	return err
}
