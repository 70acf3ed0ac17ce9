package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/wavesim/internal/analysis"
	"github.com/san-kum/wavesim/internal/export"
	"github.com/san-kum/wavesim/internal/storage"
)

const frontThreshold = 1e-3

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tGRID\tSOURCE\tDURATION\tSTEPS\tFINAL ENERGY\tSTATUS")
	for _, run := range runs {
		status := "ok"
		if len(run.Errors) > 0 {
			status = "diverged"
		}
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%s\t%.1fs\t%d\t%.4f\t%s\n",
			run.ID, run.Preset, run.Params.Rows, run.Params.Cols, run.Source,
			run.Duration, run.Steps, run.Metrics["energy"], status)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runID := args[0]

	series, err := store.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) < 2 {
		return fmt.Errorf("run %s has too few samples to plot", runID)
	}

	fmt.Println(asciigraph.Plot(series.Energies,
		asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("energy")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(series.Probe,
		asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("probe height")))

	if svgPath != "" {
		svg := export.SeriesToSVG(series.Times, series.Energies, 640, 240, "#4fc3f7")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	if mapPath != "" {
		heights, rows, cols, err := store.LoadHeights(runID)
		if err != nil {
			return err
		}
		if err := os.WriteFile(mapPath, []byte(export.HeightmapToSVG(heights, rows, cols, 4)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", mapPath)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runID := args[0]

	meta, err := store.Load(runID)
	if err != nil {
		return err
	}
	series, err := store.LoadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s, %dx%d)\n", meta.ID, meta.Preset, meta.Params.Rows, meta.Params.Cols)
	fmt.Printf("courant: %.3f  stable: %v\n", meta.Params.Courant(), meta.Params.Stable())
	for _, name := range []string{"energy", "energy_decay", "peak", "stability"} {
		if v, ok := meta.Metrics[name]; ok {
			fmt.Printf("%-13s %.4f\n", name+":", v)
		}
	}

	if len(series.Probe) >= 4 {
		spectrum := analysis.PowerSpectrum(series.Probe)
		fmt.Printf("\ndominant probe frequency: %.3f Hz\n", analysis.DominantFrequency(series.Probe, meta.FrameDt))

		crossings := analysis.ZeroCrossings(series.Probe, meta.FrameDt, 0)
		if period := analysis.MeanPeriod(crossings); period > 0 {
			fmt.Printf("mean period: %.3fs over %d crossings\n", period, len(crossings))
		}

		if len(spectrum) > 1 {
			fmt.Println(asciigraph.Plot(spectrum[1:],
				asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("probe power spectrum")))
		}
	}

	heights, rows, cols, err := store.LoadHeights(runID)
	if err != nil {
		return err
	}
	if profile := analysis.RadialProfile(heights, rows, cols, rows/2, cols/2); len(profile) > 1 {
		fmt.Printf("\nfront radius: %d cells\n", analysis.FrontRadius(profile, frontThreshold))
		fmt.Println(asciigraph.Plot(profile,
			asciigraph.Height(6), asciigraph.Width(60), asciigraph.Caption("mean |height| by radius")))
	}

	if showPhase && len(series.Probe) >= 2 {
		portrait := analysis.GeneratePhasePortrait(series.Probe, meta.FrameDt)
		fmt.Println()
		fmt.Println(analysis.PhasePortraitToASCII(portrait, 60, 20))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	data, err := store.Export(args[0], withHeights)
	if err != nil {
		return err
	}

	if outPath == "" {
		return storage.ExportJSON(os.Stdout, data)
	}
	if err := storage.ExportJSONFile(outPath, data); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	series, err := store.LoadSeries(args[0])
	if err != nil {
		return err
	}

	if outPath == "" {
		return storage.ExportSeriesCSV(os.Stdout, series)
	}

	file, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := storage.ExportSeriesCSV(file, series); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}
