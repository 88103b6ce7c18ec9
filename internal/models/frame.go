package models

// Cell is one character of a rasterised plot. Trace is -1 for empty cells.
type Cell struct {
	Glyph rune
	Color string
	Trace int
}

// LegendEntry describes how a trace is drawn.
type LegendEntry struct {
	Name  string
	Glyph rune
	Color string
}

// Frame is a rasterised plot ready to be styled by the UI.
type Frame struct {
	Title      string
	Width      int
	Height     int
	Cells      [][]Cell // [row][col], row 0 at the top
	Legend     []LegendEntry
	XRange     [2]float64
	YRange     [2]float64
	Generation int // Render instance that produced the frame
}

// Empty reports whether nothing has been rendered yet.
func (f Frame) Empty() bool {
	return f.Generation == 0
}
