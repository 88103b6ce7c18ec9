package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriMeans/internal/dispatcher"
	"github.com/Rorical/RoriMeans/internal/models"
	"github.com/Rorical/RoriMeans/internal/update"
	"github.com/Rorical/RoriMeans/ui/components"
)

const visibleMessages = 8

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}

	cmd := update.HandleUpdateWithEventBus(&m.appModel, msg, m.dispatcher.GetEventBus())
	return m, cmd
}

func (m *AppModel) View() string {
	a := m.appModel

	var b strings.Builder

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		components.RenderPlot(a.Frame, a.Cursor, a.Mode),
		"  ",
		components.RenderLegend(a.Frame.Legend),
	))
	b.WriteString("\n")
	b.WriteString(components.RenderConfig(a.Config, a.Mode, a.ServerURL, a.Width))
	b.WriteString("\n")
	b.WriteString(components.RenderMessages(a.Messages, visibleMessages))
	b.WriteString(components.RenderStatus(a.Status, a.Loading, a.LoadingDots, a.Width))

	return b.String()
}
