package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/wavesim/internal/waves"
)

var ErrInvalidConfig = errors.New("sim: invalid run configuration")

type Metric interface {
	Name() string
	Observe(f *waves.Field, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f *waves.Field, t float64)
}

// Config drives a run. A negative probe coordinate selects the grid centre.
type Config struct {
	FrameDt       float64
	Duration      float64
	ValidateState bool
	ProbeRow      int
	ProbeCol      int
}

func DefaultConfig() Config {
	return Config{
		FrameDt:       1.0 / 60,
		Duration:      10.0,
		ValidateState: true,
		ProbeRow:      -1,
		ProbeCol:      -1,
	}
}

type Result struct {
	Times      []float64
	Energies   []float64
	Probe      []float64
	Frames     int
	StepsTaken int
	Splashes   int
	Metrics    map[string]float64
	Errors     []error
	Rows, Cols int
	Final      []float32
}

type SimError struct {
	Time    float64
	Frame   int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %s", e.Frame, e.Time, e.Message)
}
