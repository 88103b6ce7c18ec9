package plot

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/Rorical/RoriMeans/internal/models"
)

const (
	markerName  = "Selected Centroid"
	markerGlyph = 'x'
	markerColor = "196"
)

var palette = []string{"33", "208", "41", "170", "226", "45", "203", "141"}

var namedColors = map[string]string{
	"blue":   "33",
	"red":    "196",
	"green":  "41",
	"orange": "208",
	"purple": "141",
	"yellow": "226",
	"cyan":   "45",
	"black":  "240",
	"gray":   "245",
	"grey":   "245",
	"white":  "255",
}

var symbolGlyphs = map[string]rune{
	"circle":  '•',
	"x":       'x',
	"cross":   '+',
	"square":  '■',
	"diamond": '◆',
	"star":    '*',
}

type tracePoint struct {
	x, y *float64
}

type trace struct {
	name   string
	glyph  rune
	color  string
	points []tracePoint
}

// Canvas is the terminal Renderer. It keeps the traces of the current plot
// instance and rasterises them on demand.
type Canvas struct {
	mu         sync.Mutex
	width      int
	height     int
	title      string
	traces     []trace
	xRange     [2]float64
	yRange     [2]float64
	generation int
	handler    ClickHandler
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:  max(width, 2),
		height: max(height, 2),
	}
}

// Size returns the grid dimensions in cells.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// Generation identifies the current plot instance; zero before the first render.
func (c *Canvas) Generation() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *Canvas) Render(ctx context.Context, plot models.PlotDescription) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := gjson.ParseBytes(plot.Data)
	if !data.IsArray() {
		return fmt.Errorf("plot data is not a trace array")
	}
	layout := gjson.ParseBytes(plot.Layout)

	traces := make([]trace, 0, len(data.Array()))
	for i, t := range data.Array() {
		traces = append(traces, parseTrace(i, t))
	}

	xr := axisRange(layout.Get("xaxis.range"), traces, func(p tracePoint) *float64 { return p.x })
	yr := axisRange(layout.Get("yaxis.range"), traces, func(p tracePoint) *float64 { return p.y })

	title := layout.Get("title.text").String()
	if title == "" && layout.Get("title").Type == gjson.String {
		title = layout.Get("title").String()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.title = title
	c.traces = traces
	c.xRange = xr
	c.yRange = yr
	c.generation++
	c.handler = nil
	return nil
}

func (c *Canvas) Attach(handler ClickHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == 0 {
		return ErrNoPlot
	}
	c.handler = handler
	return nil
}

func (c *Canvas) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = nil
}

// Attached reports whether a click handler is subscribed to the current instance.
func (c *Canvas) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler != nil
}

// AddMarker appends a single-point trace. Earlier markers are left untouched.
func (c *Canvas) AddMarker(p models.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == 0 {
		return ErrNoPlot
	}
	x, y := p.X, p.Y
	c.traces = append(c.traces, trace{
		name:   markerName,
		glyph:  markerGlyph,
		color:  markerColor,
		points: []tracePoint{{x: &x, y: &y}},
	})
	return nil
}

// Click resolves a grid cell to the points drawn there and forwards the event
// to the attached handler. It returns false when no handler is attached.
func (c *Canvas) Click(col, row int) bool {
	c.mu.Lock()
	handler := c.handler
	event := ClickEvent{}
	if handler != nil {
		event = c.hitTest(col, row)
	}
	c.mu.Unlock()

	if handler == nil {
		return false
	}
	handler(event)
	return true
}

func (c *Canvas) hitTest(col, row int) ClickEvent {
	var event ClickEvent
	for ti := len(c.traces) - 1; ti >= 0; ti-- {
		for _, p := range c.traces[ti].points {
			pc, pr, ok := c.cell(p)
			if ok && pc == col && pr == row {
				event.Points = append(event.Points, ClickPoint{X: p.x, Y: p.y, Trace: ti})
			}
		}
	}
	return event
}

// cell maps a point to grid coordinates. Points without both coordinates or
// outside the axis ranges are not drawn.
func (c *Canvas) cell(p tracePoint) (int, int, bool) {
	if p.x == nil || p.y == nil {
		return 0, 0, false
	}
	fx := (*p.x - c.xRange[0]) / (c.xRange[1] - c.xRange[0])
	fy := (*p.y - c.yRange[0]) / (c.yRange[1] - c.yRange[0])
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 || math.IsNaN(fx) || math.IsNaN(fy) {
		return 0, 0, false
	}
	col := int(math.Round(fx * float64(c.width-1)))
	row := c.height - 1 - int(math.Round(fy*float64(c.height-1)))
	return col, row, true
}

// Rasterize draws the current instance. Later traces overwrite earlier ones.
func (c *Canvas) Rasterize() models.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	cells := make([][]models.Cell, c.height)
	for r := range cells {
		cells[r] = make([]models.Cell, c.width)
		for col := range cells[r] {
			cells[r][col] = models.Cell{Glyph: ' ', Trace: -1}
		}
	}

	for ti, t := range c.traces {
		for _, p := range t.points {
			col, row, ok := c.cell(p)
			if !ok {
				continue
			}
			cells[row][col] = models.Cell{Glyph: t.glyph, Color: t.color, Trace: ti}
		}
	}

	// Every selected centroid is its own trace; list the name once.
	legend := lo.UniqBy(lo.Map(c.traces, func(t trace, _ int) models.LegendEntry {
		return models.LegendEntry{Name: t.name, Glyph: t.glyph, Color: t.color}
	}), func(e models.LegendEntry) string {
		return e.Name
	})

	return models.Frame{
		Title:      c.title,
		Width:      c.width,
		Height:     c.height,
		Cells:      cells,
		Legend:     legend,
		XRange:     c.xRange,
		YRange:     c.yRange,
		Generation: c.generation,
	}
}

func parseTrace(index int, t gjson.Result) trace {
	xs := t.Get("x").Array()
	ys := t.Get("y").Array()
	n := max(len(xs), len(ys))

	points := make([]tracePoint, n)
	for i := range points {
		if i < len(xs) {
			points[i].x = number(xs[i])
		}
		if i < len(ys) {
			points[i].y = number(ys[i])
		}
	}

	name := t.Get("name").String()
	if name == "" {
		name = fmt.Sprintf("trace %d", index)
	}

	glyph := '•'
	if g, ok := symbolGlyphs[t.Get("marker.symbol").String()]; ok {
		glyph = g
	}

	color := palette[index%len(palette)]
	if mc := t.Get("marker.color"); mc.Type == gjson.String {
		if named, ok := namedColors[mc.String()]; ok {
			color = named
		}
	}

	return trace{name: name, glyph: glyph, color: color, points: points}
}

func number(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Float()
	return &v
}

func axisRange(explicit gjson.Result, traces []trace, coord func(tracePoint) *float64) [2]float64 {
	if bounds := explicit.Array(); len(bounds) == 2 && bounds[0].Type == gjson.Number && bounds[1].Type == gjson.Number {
		low, high := bounds[0].Float(), bounds[1].Float()
		if high > low {
			return [2]float64{low, high}
		}
	}

	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, t := range traces {
		for _, p := range t.points {
			if p.x == nil || p.y == nil {
				continue
			}
			v := *coord(p)
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}
	}

	switch {
	case math.IsInf(minV, 1):
		return [2]float64{0, 1}
	case minV == maxV:
		return [2]float64{minV - 1, maxV + 1}
	}
	pad := (maxV - minV) * 0.05
	return [2]float64{minV - pad, maxV + pad}
}
