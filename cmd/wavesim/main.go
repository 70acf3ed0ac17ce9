package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/viz"
)

var (
	dataDir  string
	logLevel string

	configFile string
	preset     string

	rows     int
	cols     int
	dx       float64
	dt       float64
	speed    float64
	damping  float64
	frameDt  float64
	duration float64
	seed     int64
	pattern  string
	splash   float64

	outPath     string
	objPath     string
	withHeights bool
	svgPath     string
	mapPath     string
	showPhase   bool
	cpuProfile  string
	benchSteps  int
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	scenario    string
	ensembleRun int
	noSave      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wavesim",
		Short: "damped 2d wave pond simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".wavesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the result",
		RunE:  runSimulation,
	}
	addFieldFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print the summary without storing the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addFieldFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and probe series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the energy series as svg")
	plotCmd.Flags().StringVar(&mapPath, "heightmap", "", "also write the final surface as svg")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and spread analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().BoolVar(&showPhase, "phase", false, "draw the probe phase portrait")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&withHeights, "heights", false, "include the final height grid")
	exportCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the time,energy,probe series as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")

	exportOBJCmd := &cobra.Command{
		Use:   "export-obj",
		Short: "simulate and write the final surface as a wavefront obj mesh",
		RunE:  exportOBJ,
	}
	addFieldFlags(exportOBJCmd)
	exportOBJCmd.Flags().StringVarP(&objPath, "output", "o", "surface.obj", "output file")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the solver across grid sizes",
		RunE:  benchSolver,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 500, "steps per grid size")
	benchCmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "write a cpu profile into this directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter, or run a scenario file",
		RunE:  runSweep,
	}
	addFieldFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "damping", "parameter: speed, damping, time_step, spatial_step")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().StringVar(&scenario, "scenario", "", "scenario yaml file")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run one configuration under several rain seeds in parallel",
		RunE:  runEnsemble,
	}
	addFieldFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&ensembleRun, "runs", 8, "number of seeds")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd,
		exportOBJCmd, benchCmd, sweepCmd, ensembleCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
	return nil
}

func addFieldFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&rows, "rows", def.Grid.Rows, "grid rows")
	f.IntVar(&cols, "cols", def.Grid.Cols, "grid columns")
	f.Float64Var(&dx, "dx", def.Grid.SpatialStep, "spatial step")
	f.Float64Var(&dt, "dt", def.Physics.TimeStep, "solver time step")
	f.Float64Var(&speed, "speed", def.Physics.Speed, "wave speed")
	f.Float64Var(&damping, "damping", def.Physics.Damping, "damping")
	f.Float64Var(&frameDt, "frame-dt", def.Run.FrameDt, "frame interval")
	f.Float64Var(&duration, "time", def.Run.Duration, "duration")
	f.Int64Var(&seed, "seed", def.Run.Seed, "rain seed")
	f.StringVar(&pattern, "rain", def.Rain.Pattern, "rain pattern (none, random, noise)")
	f.Float64Var(&splash, "splash", 0, "splash the centre with this magnitude before the first frame")
}

// resolveConfig layers preset, then config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "demo"

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		name = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = "custom"
	}

	fl := cmd.Flags()
	if fl.Changed("rows") {
		cfg.Grid.Rows = rows
	}
	if fl.Changed("cols") {
		cfg.Grid.Cols = cols
	}
	if fl.Changed("dx") {
		cfg.Grid.SpatialStep = dx
	}
	if fl.Changed("dt") {
		cfg.Physics.TimeStep = dt
	}
	if fl.Changed("speed") {
		cfg.Physics.Speed = speed
	}
	if fl.Changed("damping") {
		cfg.Physics.Damping = damping
	}
	if fl.Changed("frame-dt") {
		cfg.Run.FrameDt = frameDt
	}
	if fl.Changed("time") {
		cfg.Run.Duration = duration
	}
	if fl.Changed("seed") {
		cfg.Run.Seed = seed
	}
	if fl.Changed("rain") {
		cfg.Rain.Pattern = pattern
	}
	if fl.Changed("splash") {
		cfg.Run.Splash = splash
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	if p := cfg.Params(); !p.Stable() {
		slog.Warn("courant number above the stability bound, the field will likely diverge",
			slog.Float64("courant", p.Courant()))
	}
	return cfg, name, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return viz.RunLive(cfg, name)
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Printf("  %-9s %3dx%-3d speed=%.2f damping=%.2f rain=%s\n",
			name, p.Grid.Rows, p.Grid.Cols, p.Physics.Speed, p.Physics.Damping, p.Rain.Pattern)
	}
	return nil
}
