package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriMeans/internal/config"
	"github.com/Rorical/RoriMeans/internal/core"
	"github.com/Rorical/RoriMeans/internal/dispatcher"
	"github.com/Rorical/RoriMeans/internal/eventbus"
	"github.com/Rorical/RoriMeans/internal/models"
	"github.com/Rorical/RoriMeans/internal/plot"
	"github.com/Rorical/RoriMeans/internal/remote"
)

const userAgent = "RoriMeans/1.0"

// Options adjust how an Application starts.
type Options struct {
	ServerURL string // Overrides the profile and environment when set
	Debug     bool
}

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	session    *core.Session
	model      *AppModel
	logFile    *os.File
}

func NewApplication(opts Options) (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.ServerURL != "" {
		cfg.OverrideServerURL(opts.ServerURL)
	}
	profile := cfg.Current()
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", cfg.ActiveProfile, err)
	}

	logger, logFile, err := newFileLogger(opts.Debug)
	if err != nil {
		return nil, err
	}

	backend := NewBackend(profile, logger)
	canvas := plot.NewCanvas(profile.PlotWidth, profile.PlotHeight)

	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(e eventbus.EventBusError) {
		logger.Warn("event bus error", "operation", e.Operation, "error", e.Err)
	})

	disp := dispatcher.NewEventDispatcher(eb)

	session := core.NewSession(core.SessionOptions{
		ServerURL: profile.ServerURL,
		Clusters:  profile.Clusters,
		Method:    profile.Method,
		Logger:    logger,
	}, backend, canvas, eb)

	model := &AppModel{
		appModel:   createInitialAppModel(profile.ServerURL),
		dispatcher: disp,
	}

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		session:    session,
		model:      model,
		logFile:    logFile,
	}, nil
}

// NewBackend builds the k-means service client for a profile.
func NewBackend(profile config.Profile, logger *slog.Logger) *remote.Client {
	return remote.NewClient(profile.ServerURL,
		remote.WithTimeout(profile.RequestTimeout.Std()),
		remote.WithUserAgent(userAgent),
		remote.WithLogger(logger),
	)
}

func (app *Application) Start() error {
	app.session.Start()

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.session.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
	if app.logFile != nil {
		app.logFile.Close()
	}
}

// newFileLogger sends slog output to the debug log, since the terminal
// belongs to the TUI.
func newFileLogger(debug bool) (*slog.Logger, *os.File, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, nil, fmt.Errorf("get config dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create config dir: %w", err)
	}

	f, err := tea.LogToFile(filepath.Join(dir, "debug.log"), "rorimeans")
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}

func createInitialAppModel(serverURL string) models.AppModel {
	// No initial messages in UI - they come from core as single source of truth
	return models.AppModel{
		Messages:  make([]models.Message, 0),
		Status:    "Connecting",
		ServerURL: serverURL,
	}
}
