package core

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/Rorical/RoriMeans/internal/models"
	"github.com/Rorical/RoriMeans/internal/plot"
)

const testPlotData = `[{"x":[1,2,3],"y":[1,2,3],"name":"Data Points","marker":{"color":"blue"}}]`
const testPlotLayout = `{"title":{"text":"Initial Data Points"},"xaxis":{"range":[0,4]},"yaxis":{"range":[0,4]}}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func strPtr(s string) *string { return &s }

// fakeBackend records every call in order. Plot fetches are recorded as "plot".
type fakeBackend struct {
	mu          sync.Mutex
	calls       []string
	initialized []models.RunConfig
	message     *string
	err         error
	plotErr     error
	block       chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{}
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) Initialized() []models.RunConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.RunConfig(nil), b.initialized...)
}

func (b *fakeBackend) respond(ctx context.Context, cmd models.Command) (models.CommandResult, error) {
	b.mu.Lock()
	b.calls = append(b.calls, string(cmd))
	block, err, message := b.block, b.err, b.message
	b.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return models.CommandResult{}, ctx.Err()
		}
	}
	if err != nil {
		return models.CommandResult{}, err
	}
	return models.CommandResult{Message: message}, nil
}

func (b *fakeBackend) Initialize(ctx context.Context, cfg models.RunConfig) (models.CommandResult, error) {
	b.mu.Lock()
	b.initialized = append(b.initialized, cfg)
	b.mu.Unlock()
	return b.respond(ctx, models.CommandInitialize)
}

func (b *fakeBackend) Step(ctx context.Context) (models.CommandResult, error) {
	return b.respond(ctx, models.CommandStep)
}

func (b *fakeBackend) Generate(ctx context.Context) (models.CommandResult, error) {
	return b.respond(ctx, models.CommandGenerate)
}

func (b *fakeBackend) Reset(ctx context.Context) (models.CommandResult, error) {
	return b.respond(ctx, models.CommandReset)
}

func (b *fakeBackend) RunToConvergence(ctx context.Context) (models.CommandResult, error) {
	return b.respond(ctx, models.CommandRunToConvergence)
}

func (b *fakeBackend) Plot(ctx context.Context) (models.PlotDescription, error) {
	b.mu.Lock()
	b.calls = append(b.calls, "plot")
	plotErr := b.plotErr
	b.mu.Unlock()

	if plotErr != nil {
		return models.PlotDescription{}, plotErr
	}
	return models.PlotDescription{Data: []byte(testPlotData), Layout: []byte(testPlotLayout)}, nil
}

// fakeRenderer records the directives it receives and lets tests click.
type fakeRenderer struct {
	mu        sync.Mutex
	renders   int
	handler   plot.ClickHandler
	markers   []models.Point
	events    []string
	renderErr error
}

func (r *fakeRenderer) Render(_ context.Context, _ models.PlotDescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "render")
	if r.renderErr != nil {
		return r.renderErr
	}
	r.renders++
	r.handler = nil
	r.markers = nil
	return nil
}

func (r *fakeRenderer) Attach(h plot.ClickHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "attach")
	if r.renders == 0 {
		return plot.ErrNoPlot
	}
	r.handler = h
	return nil
}

func (r *fakeRenderer) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "detach")
	r.handler = nil
}

func (r *fakeRenderer) AddMarker(p models.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markers = append(r.markers, p)
	return nil
}

func (r *fakeRenderer) Attached() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handler != nil
}

func (r *fakeRenderer) Markers() []models.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Point(nil), r.markers...)
}

// click delivers a click at (x, y) if a handler is attached.
func (r *fakeRenderer) click(x, y float64) {
	r.send(plot.ClickEvent{Points: []plot.ClickPoint{{X: &x, Y: &y}}})
}

func (r *fakeRenderer) send(e plot.ClickEvent) {
	r.mu.Lock()
	h := r.handler
	r.mu.Unlock()
	if h != nil {
		h(e)
	}
}

// recordingNotifier collects notices.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []models.Message
}

func (n *recordingNotifier) Notify(msg models.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func (n *recordingNotifier) Messages() []models.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Message(nil), n.messages...)
}

// newTestController builds a controller with a rendered fake plot.
func newTestController(method models.Method, clusters int) (*Controller, *fakeBackend, *fakeRenderer, *recordingNotifier) {
	backend := newFakeBackend()
	renderer := &fakeRenderer{}
	notifier := &recordingNotifier{}
	ctl := NewController(clusters, method, backend, renderer, notifier, discardLogger())
	if err := ctl.Orchestrator.Refresh(context.Background()); err != nil {
		panic(err)
	}
	return ctl, backend, renderer, notifier
}
