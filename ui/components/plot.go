package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriMeans/internal/models"
	"github.com/Rorical/RoriMeans/ui/styles"
)

// RenderPlot draws the frame inside a border with the cursor cell highlighted.
func RenderPlot(frame models.Frame, cursor models.Cursor, mode models.Mode) string {
	if frame.Empty() {
		return styles.PlotStyle().Padding(1, 2).Render("Waiting for plot")
	}

	cursorStyle := styles.CursorStyle(mode == models.ModeManualSelecting)

	var grid strings.Builder
	for r, row := range frame.Cells {
		if r > 0 {
			grid.WriteByte('\n')
		}
		for c, cell := range row {
			glyph := string(cell.Glyph)
			if r == cursor.Row && c == cursor.Col {
				if cell.Trace < 0 {
					glyph = "+"
				}
				grid.WriteString(cursorStyle.Render(glyph))
				continue
			}
			grid.WriteString(styles.TraceStyle(cell.Color).Render(glyph))
		}
	}

	axis := styles.AxisStyle().Render(fmt.Sprintf("x: [%.2f, %.2f]  y: [%.2f, %.2f]",
		frame.XRange[0], frame.XRange[1], frame.YRange[0], frame.YRange[1]))

	parts := make([]string, 0, 3)
	if frame.Title != "" {
		parts = append(parts, styles.TitleStyle().Render(frame.Title))
	}
	parts = append(parts, styles.PlotStyle().Render(grid.String()), axis)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func RenderLegend(legend []models.LegendEntry) string {
	entries := make([]string, 0, len(legend))
	for _, e := range legend {
		entries = append(entries, styles.TraceStyle(e.Color).Render(string(e.Glyph))+" "+e.Name)
	}
	return lipgloss.JoinVertical(lipgloss.Left, entries...)
}
