package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/sim"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Grid.Rows, cfg.Grid.Cols = 21, 21
	cfg.Run.Duration = 5
	cfg.Run.Splash = 1
	cfg.Rain.Pattern = "none"
	return cfg
}

func TestSweepValues(t *testing.T) {
	values := Sweep{Min: 0, Max: 1, Steps: 5}.Values()
	expected := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range expected {
		if values[i] != expected[i] {
			t.Errorf("value %d: expected %f, got %f", i, expected[i], values[i])
		}
	}

	if v := (Sweep{Min: 2, Max: 9, Steps: 1}).Values(); len(v) != 1 || v[0] != 2 {
		t.Errorf("expected single value 2, got %v", v)
	}
}

func TestRunSweepSpeed(t *testing.T) {
	results, err := RunSweep(context.Background(), smallConfig(), Sweep{Param: "speed", Min: 1, Max: 50, Steps: 2})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	slow, fast := results[0], results[1]
	if !slow.Stable || !slow.Finite {
		t.Errorf("expected speed 1 to be stable and finite, got %+v", slow)
	}
	if fast.Stable {
		t.Errorf("expected speed 50 to break the courant bound, got %f", fast.Courant)
	}
	if fast.Finite {
		t.Error("expected speed 50 to diverge")
	}
	if slow.Peak <= 0 {
		t.Errorf("expected a positive peak, got %f", slow.Peak)
	}
}

func TestRunSweepDamping(t *testing.T) {
	results, err := RunSweep(context.Background(), smallConfig(), Sweep{Param: "damping", Min: 0, Max: 2, Steps: 2})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if results[1].FinalEnergy >= results[0].FinalEnergy {
		t.Errorf("expected heavier damping to leave less energy: %f vs %f",
			results[1].FinalEnergy, results[0].FinalEnergy)
	}
}

func TestRunSweepUnknownParam(t *testing.T) {
	_, err := RunSweep(context.Background(), smallConfig(), Sweep{Param: "gravity", Min: 1, Max: 2, Steps: 2})
	if !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestRunSweepInvalidValue(t *testing.T) {
	_, err := RunSweep(context.Background(), smallConfig(), Sweep{Param: "time_step", Min: 0, Max: 0.03, Steps: 2})
	if err == nil {
		t.Error("expected error for a zero time step")
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := []byte(`name: damping-study
description: how fast a pond settles
preset: undamped
sweeps:
  - param: damping
    min: 0
    max: 1
    steps: 2
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "damping-study" || sc.Preset != "undamped" {
		t.Errorf("unexpected scenario %+v", sc)
	}
	if len(sc.Sweeps) != 1 || sc.Sweeps[0].Steps != 2 {
		t.Fatalf("unexpected sweeps %+v", sc.Sweeps)
	}

	sc.Sweeps[0].Steps = 1
	out, err := RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(out) != 1 || len(out[0].Results) != 1 {
		t.Errorf("expected one result, got %+v", out)
	}
}

func TestRunScenarioUnknownPreset(t *testing.T) {
	_, err := RunScenario(context.Background(), &Scenario{Name: "x", Preset: "hurricane"})
	if err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRunEnsemble(t *testing.T) {
	cfg := smallConfig()
	cfg.Run.Splash = 0
	cfg.Run.Duration = 2
	cfg.Rain.Pattern = "random"
	cfg.Rain.Interval = 0.1
	cfg.Rain.Margin = 2

	stats, err := RunEnsemble(context.Background(), cfg, 3, 7)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if stats.Runs != 3 || stats.Diverged != 0 {
		t.Errorf("expected 3 finite runs, got %+v", stats)
	}
	if stats.MeanEnergy <= 0 {
		t.Errorf("expected positive mean energy, got %f", stats.MeanEnergy)
	}
	if stats.StdEnergy == 0 {
		t.Error("expected seeds to spread the final energy")
	}
}

func TestRunEnsembleRejectsNoRuns(t *testing.T) {
	_, err := RunEnsemble(context.Background(), smallConfig(), -1, 0)
	if !errors.Is(err, sim.ErrInvalidConfig) {
		t.Errorf("expected sim.ErrInvalidConfig, got %v", err)
	}
}
