package metrics

import (
	"math"

	"github.com/san-kum/wavesim/internal/waves"
)

// Energy tracks the sum of squared heights: its mean over the run and the
// last observed value.
type Energy struct {
	name    string
	sum     float64
	last    float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f *waves.Field, t float64) {
	e.last = f.Energy()
	e.sum += e.last
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *Energy) Last() float64 { return e.last }

func (e *Energy) Reset() {
	e.sum = 0
	e.last = 0
	e.samples = 0
}

// EnergyDecay is the ratio of the final energy to the largest energy seen.
// A damped pond tends to 0; values above 1 are impossible.
type EnergyDecay struct {
	name    string
	peak    float64
	current float64
}

func NewEnergyDecay() *EnergyDecay {
	return &EnergyDecay{name: "energy_decay"}
}

func (e *EnergyDecay) Name() string { return e.name }

func (e *EnergyDecay) Observe(f *waves.Field, t float64) {
	e.current = f.Energy()
	e.peak = math.Max(e.peak, e.current)
}

func (e *EnergyDecay) Value() float64 {
	if e.peak == 0 {
		return 0
	}
	return e.current / e.peak
}

func (e *EnergyDecay) Reset() {
	e.peak = 0
	e.current = 0
}
