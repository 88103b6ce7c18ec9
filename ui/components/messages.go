package components

import (
	"strings"

	"github.com/Rorical/RoriMeans/internal/models"
	"github.com/Rorical/RoriMeans/ui/styles"
)

// RenderMessages draws the most recent notices, at most limit of them.
func RenderMessages(messages []models.Message, limit int) string {
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	var b strings.Builder

	serverStyle := styles.ServerStyle()
	warningStyle := styles.WarningStyle()
	errorStyle := styles.ErrorStyle()
	programStyle := styles.ProgramStyle()

	for _, msg := range messages {
		switch msg.Type {
		case models.Server:
			b.WriteString(serverStyle.Render(msg.Content) + "\n")
		case models.Warning:
			b.WriteString(warningStyle.Render("! "+msg.Content) + "\n")
		case models.Error:
			b.WriteString(errorStyle.Render("Error: "+msg.Content) + "\n")
		case models.Program:
			b.WriteString(programStyle.Render(msg.Content) + "\n")
		}
	}

	return b.String()
}
