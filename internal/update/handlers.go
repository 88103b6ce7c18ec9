package update

import (
	"fmt"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriMeans/internal/eventbus"
	"github.com/Rorical/RoriMeans/internal/models"
)

// MaxMessages bounds the notice history kept by the UI.
const MaxMessages = 200

var commandKeys = map[string]models.Command{
	"i": models.CommandInitialize,
	"s": models.CommandStep,
	"g": models.CommandGenerate,
	"r": models.CommandReset,
	"c": models.CommandRunToConvergence,
}

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	key := keyMsg.String()

	if cmd, ok := commandKeys[key]; ok {
		send(appModel, eb, eventbus.CommandEvent{Command: cmd})
		return nil
	}

	switch key {
	case "ctrl+c", "q":
		return tea.Quit
	case "p":
		send(appModel, eb, eventbus.RefreshEvent{})
	case "m":
		send(appModel, eb, eventbus.SelectMethodEvent{Method: CycleMethod(appModel.Config.Method, 1)})
	case "M":
		send(appModel, eb, eventbus.SelectMethodEvent{Method: CycleMethod(appModel.Config.Method, -1)})
	case "+", "=":
		send(appModel, eb, eventbus.SetClusterCountEvent{Count: appModel.Config.Clusters + 1})
	case "-":
		send(appModel, eb, eventbus.SetClusterCountEvent{Count: max(appModel.Config.Clusters-1, 1)})
	case "up", "k":
		moveCursor(appModel, 0, -1)
	case "down", "j":
		moveCursor(appModel, 0, 1)
	case "left", "h":
		moveCursor(appModel, -1, 0)
	case "right", "l":
		moveCursor(appModel, 1, 0)
	case " ", "enter":
		send(appModel, eb, eventbus.PlotClickEvent{Col: appModel.Cursor.Col, Row: appModel.Cursor.Row})
	}
	return nil
}

func send(appModel *models.AppModel, eb *eventbus.EventBus, event eventbus.UIEvent) {
	if err := eb.SendToCore(event); err != nil {
		appModel.Status = "Error sending event: " + err.Error()
	}
}

// CycleMethod returns the method step places away from current. Methods the
// client does not know restart the cycle.
func CycleMethod(current models.Method, step int) models.Method {
	idx := slices.Index(models.Methods, current)
	if idx < 0 {
		return models.Methods[0]
	}
	n := len(models.Methods)
	return models.Methods[((idx+step)%n+n)%n]
}

func moveCursor(appModel *models.AppModel, dc, dr int) {
	appModel.Cursor.Col += dc
	appModel.Cursor.Row += dr
	clampCursor(appModel)
}

func clampCursor(appModel *models.AppModel) {
	w, h := appModel.Frame.Width, appModel.Frame.Height
	if w == 0 || h == 0 {
		appModel.Cursor = models.Cursor{}
		return
	}
	appModel.Cursor.Col = min(max(appModel.Cursor.Col, 0), w-1)
	appModel.Cursor.Row = min(max(appModel.Cursor.Row, 0), h-1)
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		// Core only sends messages added since its last update
		appModel.Messages = append(appModel.Messages, event.Messages...)
		if extra := len(appModel.Messages) - MaxMessages; extra > 0 {
			appModel.Messages = appModel.Messages[extra:]
		}
		appModel.Config = event.Config
		appModel.Mode = event.Mode
		appModel.Frame = event.Frame
		appModel.Loading = event.Busy
		clampCursor(appModel)

		switch {
		case event.Error != nil:
			appModel.Status = "Error: " + event.Error.Error()
		case event.Busy:
			appModel.Status = "Working"
		case event.Mode == models.ModeManualSelecting:
			appModel.Status = fmt.Sprintf("Selecting centroids %d/%d", len(event.Config.Centroids), event.Config.Clusters)
		default:
			appModel.Status = "Ready"
		}
	}

	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Loading {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
