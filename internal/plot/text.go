package plot

import (
	"fmt"
	"strings"

	"github.com/Rorical/RoriMeans/internal/models"
)

// Sprint renders a frame as plain text with a border, axis ranges and legend.
func Sprint(f models.Frame) string {
	if f.Empty() {
		return "(no plot)\n"
	}

	var b strings.Builder
	if f.Title != "" {
		b.WriteString(f.Title + "\n")
	}

	border := "+" + strings.Repeat("-", f.Width) + "+\n"
	b.WriteString(border)
	for _, row := range f.Cells {
		b.WriteByte('|')
		for _, cell := range row {
			b.WriteRune(cell.Glyph)
		}
		b.WriteString("|\n")
	}
	b.WriteString(border)

	fmt.Fprintf(&b, "x: [%.2f, %.2f]  y: [%.2f, %.2f]\n", f.XRange[0], f.XRange[1], f.YRange[0], f.YRange[1])
	for _, e := range f.Legend {
		fmt.Fprintf(&b, "  %c %s\n", e.Glyph, e.Name)
	}
	return b.String()
}
