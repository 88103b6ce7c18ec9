package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Rorical/RoriMeans/internal/eventbus"
	"github.com/Rorical/RoriMeans/internal/models"
	"github.com/Rorical/RoriMeans/internal/plot"
)

// Session owns one client session: the controller, the terminal canvas and
// the event loop that applies UI events.
type Session struct {
	*Controller

	canvas    *plot.Canvas
	state     *SessionState
	eventBus  *eventbus.EventBus
	logger    *slog.Logger
	serverURL string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	pushMu        sync.Mutex
	lastSentCount int // Track how many messages we've sent to UI
}

type SessionOptions struct {
	ServerURL string
	Clusters  int
	Method    models.Method
	Logger    *slog.Logger
}

func NewSession(opts SessionOptions, backend Backend, canvas *plot.Canvas, eb *eventbus.EventBus) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		canvas:    canvas,
		state:     NewSessionState(),
		eventBus:  eb,
		logger:    logger,
		serverURL: opts.ServerURL,
		ctx:       ctx,
		cancel:    cancel,
	}

	s.addWelcomeMessages()
	s.Controller = NewController(opts.Clusters, opts.Method, backend, canvas, s, logger)
	s.Orchestrator.OnBusyChange(func(bool) { s.pushStateToUI() })

	return s
}

// Notify implements Notifier.
func (s *Session) Notify(msg models.Message) {
	s.state.AddMessage(msg)
}

// Start pushes the initial state, starts the event loop and loads the first plot.
func (s *Session) Start() {
	s.pushStateToUI()

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.eventLoop()
	}()
	go func() {
		defer s.wg.Done()
		s.report("refresh", s.Orchestrator.Refresh(s.ctx))
		s.pushStateToUI()
	}()
}

// Stop cancels in-flight requests and waits for the session goroutines.
func (s *Session) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Session) eventLoop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-s.eventBus.UIToCore():
			if !ok {
				return
			}
			s.handleUIEvent(event)
		}
	}
}

func (s *Session) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.CommandEvent:
		s.dispatch(string(e.Command), func(ctx context.Context) error {
			return s.Orchestrator.Execute(ctx, e.Command)
		})
	case eventbus.RefreshEvent:
		s.dispatch("refresh", s.Orchestrator.Refresh)
	case eventbus.SelectMethodEvent:
		s.Mode.SelectMethod(e.Method)
	case eventbus.SetClusterCountEvent:
		s.Store.SetClusterCount(e.Count)
	case eventbus.PlotClickEvent:
		if !s.canvas.Click(e.Col, e.Row) {
			s.logger.Debug("plot click ignored, no overlay attached", "col", e.Col, "row", e.Row)
		}
	default:
		s.logger.Warn("unhandled UI event", "type", fmt.Sprintf("%T", event))
		return
	}
	s.pushStateToUI()
}

// dispatch runs a command off the event loop. The orchestrator's guard
// rejects it when another command is still in flight.
func (s *Session) dispatch(name string, run func(ctx context.Context) error) {
	if s.Orchestrator.Busy() {
		s.report(name, ErrBusy)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.report(name, run(s.ctx))
		s.pushStateToUI()
	}()
}

// report turns a command outcome into a notice. Local validation and busy
// rejections are warnings; everything else is an error.
func (s *Session) report(name string, err error) {
	if err == nil {
		s.state.ClearError()
		return
	}
	if errors.Is(err, context.Canceled) && s.ctx.Err() != nil {
		return
	}

	var insufficient *InsufficientCentroidsError
	switch {
	case errors.As(err, &insufficient):
		s.state.AddMessage(models.Message{Content: capitalize(insufficient.Error()), Type: models.Warning})
	case errors.Is(err, ErrBusy):
		s.state.AddMessage(models.Message{Content: fmt.Sprintf("Still busy, %s was not sent", name), Type: models.Warning})
	default:
		s.logger.Error("command error", "command", name, "error", err)
		s.state.SetError(err)
		s.state.AddMessage(models.Message{Content: err.Error(), Type: models.Error})
	}
}

func (s *Session) pushStateToUI() {
	s.pushMu.Lock()
	defer s.pushMu.Unlock()

	allMessages := s.state.GetMessages()

	// Only send new messages to reduce resource usage
	newMessages := allMessages[s.lastSentCount:]
	s.lastSentCount = len(allMessages)

	if err := s.eventBus.SendToUI(eventbus.StateUpdateEvent{
		Messages: newMessages,
		Config:   s.Store.Snapshot(),
		Mode:     s.Mode.Mode(),
		Frame:    s.canvas.Rasterize(),
		Busy:     s.Orchestrator.Busy(),
		Error:    s.state.GetLastError(),
	}); err != nil {
		s.logger.Error("send state to UI", "error", err)
	}
}

// GetInitialMessages returns the welcome notices.
func (s *Session) GetInitialMessages() []models.Message {
	return s.state.GetMessages()
}

func (s *Session) addWelcomeMessages() {
	s.state.AddProgramMessage("-- RORIMEANS --")
	s.state.AddProgramMessage(fmt.Sprintf("Service: %s", s.serverURL))
	s.state.AddProgramMessage("i init · s step · c converge · r reset · g generate · p redraw")
	s.state.AddProgramMessage("m method · +/- clusters · arrows move · space select · q quit")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
