package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/metrics"
	"github.com/san-kum/wavesim/internal/sim"
)

var ErrUnknownParam = errors.New("automation: unknown sweep parameter")

// Scenario is a preset plus a list of parameter sweeps to run against it.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Preset      string  `yaml:"preset"`
	Sweeps      []Sweep `yaml:"sweeps"`
}

// Sweep varies one parameter linearly over Steps values.
type Sweep struct {
	Param string  `yaml:"param"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Steps int     `yaml:"steps"`
}

type SweepResult struct {
	Param       string  `json:"param"`
	Value       float64 `json:"value"`
	Courant     float64 `json:"courant"`
	Stable      bool    `json:"stable"`
	Finite      bool    `json:"finite"`
	FinalEnergy float64 `json:"final_energy"`
	Peak        float64 `json:"peak"`
	Decay       float64 `json:"decay"`
	Frames      int     `json:"frames"`
}

type ScenarioResult struct {
	Sweep   Sweep
	Results []SweepResult
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	return &scenario, nil
}

func RunScenario(ctx context.Context, scenario *Scenario) ([]ScenarioResult, error) {
	base := config.DefaultConfig()
	if scenario.Preset != "" {
		base = config.GetPreset(scenario.Preset)
		if base == nil {
			return nil, fmt.Errorf("scenario %s: unknown preset %q", scenario.Name, scenario.Preset)
		}
	}

	out := make([]ScenarioResult, 0, len(scenario.Sweeps))
	for i, sw := range scenario.Sweeps {
		slog.Info("scenario sweep", slog.String("scenario", scenario.Name), slog.Int("sweep", i+1), slog.String("param", sw.Param))
		results, err := RunSweep(ctx, base, sw)
		if err != nil {
			return out, fmt.Errorf("sweep %d: %w", i+1, err)
		}
		out = append(out, ScenarioResult{Sweep: sw, Results: results})
	}

	return out, nil
}

// Values returns the parameter values visited by the sweep.
func (s Sweep) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.Steps-1)
	values := make([]float64, s.Steps)
	for i := range values {
		values[i] = s.Min + float64(i)*step
	}
	return values
}

func applyParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "speed":
		cfg.Physics.Speed = v
	case "damping":
		cfg.Physics.Damping = v
	case "time_step":
		cfg.Physics.TimeStep = v
	case "spatial_step":
		cfg.Grid.SpatialStep = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

// RunSweep runs base once per sweep value. Divergent runs are reported with
// Finite=false rather than failing the sweep.
func RunSweep(ctx context.Context, base *config.Config, sw Sweep) ([]SweepResult, error) {
	values := sw.Values()
	results := make([]SweepResult, 0, len(values))

	for i, v := range values {
		cfg := base.Clone()
		if err := applyParam(cfg, sw.Param, v); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sw.Param, v, err)
		}

		f, err := cfg.NewField()
		if err != nil {
			return nil, err
		}
		src, err := cfg.RainSource(cfg.Run.Seed)
		if err != nil {
			return nil, err
		}

		s := sim.New(f, src)
		peak := metrics.NewPeak()
		decay := metrics.NewEnergyDecay()
		s.AddMetric(peak)
		s.AddMetric(decay)

		result, err := s.Run(ctx, cfg.SimConfig())
		if err != nil {
			return nil, err
		}

		finalEnergy := result.Energies[len(result.Energies)-1]
		results = append(results, SweepResult{
			Param:       sw.Param,
			Value:       v,
			Courant:     cfg.Params().Courant(),
			Stable:      cfg.Params().Stable(),
			Finite:      len(result.Errors) == 0 && !math.IsNaN(finalEnergy) && !math.IsInf(finalEnergy, 0),
			FinalEnergy: finalEnergy,
			Peak:        peak.Value(),
			Decay:       decay.Value(),
			Frames:      result.Frames,
		})

		slog.Debug("sweep point", slog.Int("index", i+1), slog.Int("of", len(values)),
			slog.String("param", sw.Param), slog.Float64("value", v))
	}

	return results, nil
}

// EnsembleStats summarises one configuration run under several rain seeds.
type EnsembleStats struct {
	Runs       int
	MeanEnergy float64
	StdEnergy  float64
	Diverged   int
}

// RunEnsemble runs base concurrently under seeds seedStart..seedStart+n-1.
func RunEnsemble(ctx context.Context, base *config.Config, n int, seedStart int64) (*EnsembleStats, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}

	build := func(seed int64) (*sim.Simulator, error) {
		f, err := base.NewField()
		if err != nil {
			return nil, err
		}
		src, err := base.RainSource(seed)
		if err != nil {
			return nil, err
		}
		return sim.New(f, src), nil
	}

	results, err := sim.NewEnsemble(build, n, seedStart).Run(ctx, base.SimConfig())
	if err != nil {
		return nil, err
	}

	return ensembleStats(results), nil
}

func ensembleStats(results []*sim.Result) *EnsembleStats {
	stats := &EnsembleStats{Runs: len(results)}
	finals := make([]float64, 0, len(results))
	for _, r := range results {
		if len(r.Errors) > 0 || len(r.Energies) == 0 {
			stats.Diverged++
			continue
		}
		finals = append(finals, r.Energies[len(r.Energies)-1])
	}
	if len(finals) == 0 {
		return stats
	}

	for _, e := range finals {
		stats.MeanEnergy += e
	}
	stats.MeanEnergy /= float64(len(finals))
	for _, e := range finals {
		d := e - stats.MeanEnergy
		stats.StdEnergy += d * d
	}
	stats.StdEnergy = math.Sqrt(stats.StdEnergy / float64(len(finals)))
	return stats
}
