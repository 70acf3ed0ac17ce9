package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/san-kum/wavesim/internal/automation"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/export"
	"github.com/san-kum/wavesim/internal/metrics"
	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/storage"
	"github.com/san-kum/wavesim/internal/waves"
)

func simulate(ctx context.Context, cfg *config.Config) (*sim.Simulator, *sim.Result, error) {
	f, err := cfg.NewField()
	if err != nil {
		return nil, nil, err
	}
	src, err := cfg.RainSource(cfg.Run.Seed)
	if err != nil {
		return nil, nil, err
	}

	s := sim.New(f, src)
	for _, m := range metrics.Standard(config.DefaultStabilityLimit) {
		s.AddMetric(m)
	}

	result, err := s.Run(ctx, cfg.SimConfig())
	return s, result, err
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("running %s: %dx%d, c=%.2f, mu=%.2f, %s rain for %.1fs\n",
		name, cfg.Grid.Rows, cfg.Grid.Cols, cfg.Physics.Speed, cfg.Physics.Damping, cfg.Rain.Pattern, cfg.Run.Duration)

	start := time.Now()
	s, result, err := simulate(cmd.Context(), cfg)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		slog.Warn("run interrupted", slog.Any("err", err), slog.Int("frames", result.Frames))
	}
	elapsed := time.Since(start)

	fmt.Printf("frames: %d  steps: %d  splashes: %d  (%.2fs wall)\n",
		result.Frames, result.StepsTaken, result.Splashes, elapsed.Seconds())
	if len(result.Energies) > 0 {
		fmt.Printf("energy: %.4f -> %.4f  peak: %.4f\n",
			result.Energies[0], result.Energies[len(result.Energies)-1], result.Metrics["peak"])
	}
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	if noSave {
		return nil
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(storage.RunInfo{
		Preset:   name,
		Source:   s.Source().Name(),
		Seed:     cfg.Run.Seed,
		FrameDt:  cfg.Run.FrameDt,
		Duration: cfg.Run.Duration,
		Params:   cfg.Params(),
	}, result)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	fmt.Printf("saved: %s\n", runID)
	return nil
}

func exportOBJ(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	s, result, err := simulate(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return result.Errors[0]
	}

	file, err := os.Create(objPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := export.WriteOBJ(file, s.Field()); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d vertices, %d triangles)\n", objPath, s.Field().VertexCount(), s.Field().TriangleCount())
	return nil
}

func benchSolver(cmd *cobra.Command, args []string) error {
	if cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cpuProfile), profile.Quiet).Stop()
	}

	sizes := []int{32, 64, 128, 160, 256}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRID\tCELLS\tSTEPS\tTIME\tSTEPS/SEC\tCELLS/SEC")

	for _, n := range sizes {
		p := waves.DefaultParams()
		p.Rows, p.Cols = n, n
		f, err := waves.New(p)
		if err != nil {
			return err
		}
		f.Disturb(n/2, n/2, 1)

		start := time.Now()
		for i := 0; i < benchSteps; i++ {
			f.Step()
		}
		elapsed := time.Since(start)

		perSec := float64(benchSteps) / elapsed.Seconds()
		fmt.Fprintf(w, "%dx%d\t%d\t%d\t%v\t%.0f\t%.2e\n",
			n, n, n*n, benchSteps, elapsed.Round(time.Microsecond), perSec, perSec*float64(n*n))
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if scenario != "" {
		sc, err := automation.LoadScenario(scenario)
		if err != nil {
			return err
		}
		fmt.Printf("scenario: %s (%s)\n", sc.Name, sc.Preset)
		if sc.Description != "" {
			fmt.Println(sc.Description)
		}
		results, err := automation.RunScenario(ctx, sc)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("\nsweep %s %g..%g\n", r.Sweep.Param, r.Sweep.Min, r.Sweep.Max)
			if err := printSweep(r.Results); err != nil {
				return err
			}
		}
		return nil
	}

	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	results, err := automation.RunSweep(ctx, cfg, automation.Sweep{
		Param: sweepParam,
		Min:   sweepMin,
		Max:   sweepMax,
		Steps: sweepSteps,
	})
	if err != nil {
		return err
	}
	return printSweep(results)
}

func printSweep(results []automation.SweepResult) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tVALUE\tCOURANT\tSTABLE\tFINITE\tFINAL ENERGY\tPEAK\tDECAY")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%.4g\t%.3f\t%v\t%v\t%.4f\t%.4f\t%.3f\n",
			r.Param, r.Value, r.Courant, r.Stable, r.Finite, r.FinalEnergy, r.Peak, r.Decay)
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	stats, err := automation.RunEnsemble(cmd.Context(), cfg, ensembleRun, cfg.Run.Seed)
	if err != nil {
		return err
	}

	fmt.Printf("%s ensemble: %d runs in %.2fs\n", name, stats.Runs, time.Since(start).Seconds())
	fmt.Printf("final energy: %.4f ± %.4f\n", stats.MeanEnergy, stats.StdEnergy)
	if stats.Diverged > 0 {
		fmt.Printf("diverged: %d\n", stats.Diverged)
	}
	return nil
}
