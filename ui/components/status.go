package components

import (
	"fmt"
	"strings"

	"github.com/Rorical/RoriMeans/internal/models"
	"github.com/Rorical/RoriMeans/ui/styles"
)

func RenderStatus(status string, loading bool, loadingDots int, width int) string {
	statusStyle := styles.StatusStyle(width)

	statusContent := status
	if loading {
		statusContent += strings.Repeat(".", loadingDots)
	}

	return statusStyle.Render(statusContent)
}

// RenderConfig shows the run configuration the next initialize will send.
func RenderConfig(cfg models.RunConfig, mode models.Mode, serverURL string, width int) string {
	line := fmt.Sprintf("clusters: %d  method: %s  mode: %s", cfg.Clusters, cfg.Method, mode)
	if mode == models.ModeManualSelecting {
		line += fmt.Sprintf("  selected: %d/%d", len(cfg.Centroids), cfg.Clusters)
	}
	if serverURL != "" {
		line += "  @ " + serverURL
	}
	return styles.ConfigStyle(width).Render(line)
}
