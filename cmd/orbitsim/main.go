package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/sim"
)

var (
	dataDir      string
	logLevel     string
	configFile   string
	preset       string
	integrator   string
	direction    string
	anchorMode   string
	timestepMode string
	dt           float64
	duration     float64
	sampleEvery  int
	name         string
	// live / serve
	timeScale   float64
	frameRate   int
	gifPath     string
	addr        string
	metricsAddr string
	// sweeps
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	numTrials  int
	mcPerturb  float64
	seed       int64
	divPerturb float64
	tuneSpread float64
	tuneSteps  int
	tuneMetric string
	// output
	outFile     string
	traceWidth  int
	traceHeight int
	svgWidth    int
	svgHeight   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orbitsim",
		Short: "two-body orbit simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			log.SetTimeFormat(time.Kitchen)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&sampleEvery, "sample", 1, "record every n-th tick")
	runCmd.Flags().StringVar(&name, "name", "", "run name (defaults to the config name)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot separation and anchor mass over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	traceCmd := &cobra.Command{
		Use:   "trace [run_id]",
		Short: "draw the orbit paths of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  traceRun,
	}
	traceCmd.Flags().IntVar(&traceWidth, "width", 60, "canvas width in cells")
	traceCmd.Flags().IntVar(&traceHeight, "height", 24, "canvas height in cells")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the orbit",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	divergenceCmd := &cobra.Command{
		Use:   "divergence",
		Short: "estimate how fast nearby orbits separate",
		Args:  cobra.NoArgs,
		RunE:  runDivergence,
	}
	addSimFlags(divergenceCmd)
	divergenceCmd.Flags().Float64Var(&divPerturb, "perturb", 1e-6, "initial offset of the first orbiter")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export orbit paths to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", int(config.FieldWidth), "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", int(config.FieldHeight), "image height")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scene",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the anchor mass",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", config.StarMass/2, "smallest anchor mass")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", config.StarMass*2, "largest anchor mass")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of masses")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb the launch speed and count bound orbits",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSimFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&numTrials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().Float64Var(&mcPerturb, "perturb", 0.3, "relative speed perturbation")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search the launch speed and timestep",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&tuneSpread, "spread", 0.2, "relative speed range around circular")
	tuneCmd.Flags().IntVar(&tuneSteps, "steps", 9, "speeds to try")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "radius_deviation", "metric to minimize")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario and store it",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in a terminal dashboard",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().Float64Var(&timeScale, "speed", 1, "simulated seconds per real second")
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	liveCmd.Flags().StringVar(&gifPath, "gif", "orbit.gif", "where g saves the recording")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames over websocket and export metrics",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	addSimFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "separate listen address for /metrics")
	serveCmd.Flags().Float64Var(&timeScale, "speed", 1, "simulated seconds per real second")
	serveCmd.Flags().IntVar(&frameRate, "fps", 60, "frames per second")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [file]",
		Short: "write the active configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	addSimFlags(initCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, traceCmd, analyzeCmd, divergenceCmd,
		exportJSONCmd, exportCSVCmd, exportSVGCmd, compareCmd, sweepCmd, monteCarloCmd, tuneCmd,
		scenarioCmd, liveCmd, serveCmd, presetsCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("command failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&integrator, "integrator", "leapfrog", "integrator")
	cmd.Flags().StringVar(&direction, "direction", "clockwise", "orbit direction (clockwise, counterclockwise)")
	cmd.Flags().StringVar(&anchorMode, "anchor", "fixed", "anchor mode (fixed, mobile)")
	cmd.Flags().StringVar(&timestepMode, "timestep", "fixed", "timestep mode (fixed, variable)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultStep, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
}

// loadConfig resolves defaults, then the preset, then the config file, then
// any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("direction") {
		cfg.Direction = direction
	}
	if flags.Changed("anchor") {
		cfg.AnchorMode = anchorMode
	}
	if flags.Changed("timestep") {
		cfg.Timestep.Mode = timestepMode
	}
	if flags.Changed("dt") {
		cfg.Timestep.Step = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Debug("config", "name", cfg.Name, "integrator", cfg.Integrator, "anchor", cfg.AnchorMode, "dt", cfg.Timestep.Step)
	return cfg, nil
}

func anchorModeName(cfg *config.Config) string {
	mode, err := sim.ParseAnchorMode(cfg.AnchorMode)
	if err != nil {
		return cfg.AnchorMode
	}
	return mode.String()
}
