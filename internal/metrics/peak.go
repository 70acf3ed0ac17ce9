package metrics

import (
	"math"

	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/waves"
)

// Peak is the largest |height| seen and when it happened.
type Peak struct {
	name string
	max  float64
	at   float64
}

func NewPeak() *Peak {
	return &Peak{name: "peak"}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(f *waves.Field, t float64) {
	h := f.MaxAbsHeight()
	if h > p.max || math.IsNaN(h) {
		p.max = h
		p.at = t
	}
}

func (p *Peak) Value() float64 { return p.max }

// At returns the frame time of the peak.
func (p *Peak) At() float64 { return p.at }

func (p *Peak) Reset() {
	p.max = 0
	p.at = 0
}

// Standard returns the metric set recorded by every stored run.
func Standard(threshold float64) []sim.Metric {
	return []sim.Metric{NewEnergy(), NewEnergyDecay(), NewPeak(), NewStability(threshold)}
}
