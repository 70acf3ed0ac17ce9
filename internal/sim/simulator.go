package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/wavesim/internal/rain"
	"github.com/san-kum/wavesim/internal/waves"
)

// Simulator runs the per-frame disturb, update, observe sequence against a
// single field.
type Simulator struct {
	field     *waves.Field
	source    rain.Source
	metrics   []Metric
	observers []Observer
}

func New(field *waves.Field, source rain.Source) *Simulator {
	if source == nil {
		source = rain.NewNone()
	}
	return &Simulator{
		field:     field,
		source:    source,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Field() *waves.Field    { return s.field }
func (s *Simulator) Source() rain.Source    { return s.source }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	pi, pj := s.probe(cfg)

	frames := int(math.Round(cfg.Duration / cfg.FrameDt))
	result := &Result{
		Times:    make([]float64, 0, frames+1),
		Energies: make([]float64, 0, frames+1),
		Probe:    make([]float64, 0, frames+1),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
		Rows:     s.field.RowCount(),
		Cols:     s.field.ColumnCount(),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	slog.Debug("run started",
		slog.Int("rows", result.Rows),
		slog.Int("cols", result.Cols),
		slog.Int("frames", frames),
		slog.String("source", s.source.Name()),
		slog.Float64("courant", s.field.Params().Courant()),
	)

	t := 0.0
	s.record(result, t, pi, pj)

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			result.Final = s.field.Heights()
			return result, ctx.Err()
		default:
		}

		result.Splashes += s.source.Emit(s.field, cfg.FrameDt)
		if s.field.Update(cfg.FrameDt) {
			result.StepsTaken++
		}
		t += cfg.FrameDt
		result.Frames++

		if cfg.ValidateState && !s.field.IsValid() {
			err := SimError{Time: t, Frame: i, Message: "field diverged (NaN/Inf height)"}
			slog.Warn("run stopped", slog.Any("err", err))
			result.Errors = append(result.Errors, err)
			break
		}

		for _, m := range s.metrics {
			m.Observe(s.field, t)
		}
		for _, obs := range s.observers {
			obs.OnFrame(s.field, t)
		}
		s.record(result, t, pi, pj)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = s.field.Heights()

	slog.Debug("run finished",
		slog.Int("frames", result.Frames),
		slog.Int("steps", result.StepsTaken),
		slog.Int("splashes", result.Splashes),
	)
	return result, nil
}

func (s *Simulator) record(r *Result, t float64, pi, pj int) {
	r.Times = append(r.Times, t)
	r.Energies = append(r.Energies, s.field.Energy())
	r.Probe = append(r.Probe, float64(s.field.Height(pi, pj)))
}

func (s *Simulator) probe(cfg Config) (int, int) {
	i, j := cfg.ProbeRow, cfg.ProbeCol
	if i < 0 {
		i = s.field.RowCount() / 2
	}
	if j < 0 {
		j = s.field.ColumnCount() / 2
	}
	return i, j
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.FrameDt > 0) {
		return fmt.Errorf("%w: frame dt must be positive, got %f", ErrInvalidConfig, cfg.FrameDt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.ProbeRow >= s.field.RowCount() || cfg.ProbeCol >= s.field.ColumnCount() {
		return fmt.Errorf("%w: probe (%d,%d) outside %dx%d grid", ErrInvalidConfig,
			cfg.ProbeRow, cfg.ProbeCol, s.field.RowCount(), s.field.ColumnCount())
	}
	return nil
}

// RunWithCallback advances frame by frame until the duration elapses or the
// callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(f *waves.Field, t float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.field, t) {
			return nil
		}

		s.source.Emit(s.field, cfg.FrameDt)
		s.field.Update(cfg.FrameDt)
		t += cfg.FrameDt

		if cfg.ValidateState && !s.field.IsValid() {
			return fmt.Errorf("field diverged at t=%.4f", t)
		}
	}

	return nil
}
