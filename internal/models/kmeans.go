package models

import (
	"encoding/json"
	"fmt"
)

// Point is a position on the plot in data coordinates.
type Point struct {
	X float64
	Y float64
}

// MarshalJSON encodes the point as an [x, y] pair, the form the service expects.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("point must have 2 coordinates, got %d", len(pair))
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// Method is a centroid initialization strategy understood by the service.
type Method string

const (
	MethodRandom   Method = "random"
	MethodFarthest Method = "farthest"
	MethodKMeansPP Method = "kmeans++"
	MethodManual   Method = "manual"
)

// Methods lists the strategies in the order the UI cycles through them.
var Methods = []Method{MethodRandom, MethodFarthest, MethodKMeansPP, MethodManual}

func (m Method) IsManual() bool {
	return m == MethodManual
}

// RunConfig is the configuration sent on initialize.
type RunConfig struct {
	Clusters  int     `json:"clusters"`
	Method    Method  `json:"method"`
	Centroids []Point `json:"centroids"`
}

// Mode says whether clicks on the plot place centroids.
type Mode int

const (
	ModeAutomatic Mode = iota
	ModeManualSelecting
)

func (m Mode) String() string {
	switch m {
	case ModeAutomatic:
		return "automatic"
	case ModeManualSelecting:
		return "manual selection"
	default:
		return "unknown"
	}
}

// PlotDescription is the renderer input returned by GET /plot. The client
// forwards both halves untouched.
type PlotDescription struct {
	Data   json.RawMessage `json:"data"`
	Layout json.RawMessage `json:"layout"`
}

// CommandResult is the response envelope of every control command.
type CommandResult struct {
	Message *string `json:"message,omitempty"`
}

// Command names one of the algorithm-control operations.
type Command string

const (
	CommandInitialize       Command = "initialize"
	CommandStep             Command = "step"
	CommandGenerate         Command = "generate"
	CommandReset            Command = "reset"
	CommandRunToConvergence Command = "run-to-convergence"
)

// Commands lists every control command.
var Commands = []Command{
	CommandInitialize,
	CommandStep,
	CommandGenerate,
	CommandReset,
	CommandRunToConvergence,
}

// Path returns the service endpoint for the command.
func (c Command) Path() string {
	return "/" + string(c)
}

// ParseCommand maps a command name to a Command.
func ParseCommand(name string) (Command, bool) {
	for _, c := range Commands {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}
