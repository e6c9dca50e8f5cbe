package main

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/orbitsim/internal/automation"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/optim"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/stream"
	"github.com/san-kum/orbitsim/internal/telemetry"
	"github.com/san-kum/orbitsim/internal/viz"
)

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log.Info("sweeping anchor mass", "min", sweepMin, "max", sweepMax, "steps", sweepSteps)
	results, err := automation.RunSweep(cmd.Context(), &automation.MassSweep{
		Base:     cfg,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MASS\tPERIOD\tRADIUS_DEV\tDRIFT\tSTABLE")
	for _, r := range results {
		period := "-"
		if r.Period > 0 {
			period = fmt.Sprintf("%.3fs", r.Period)
		}
		fmt.Fprintf(w, "%.4g\t%s\t%.4f\t%.2e\t%v\n", r.AnchorMass, period, r.RadiusDeviation, r.EnergyDrift, !r.Unstable)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: mcPerturb,
		NumTrials:    numTrials,
		Seed:         seed,
	})
	if err != nil {
		return err
	}

	bound, escaped := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d\n", len(results))
	fmt.Printf("bound: %d (%.1f%%)\n", bound, 100*float64(bound)/float64(len(results)))
	fmt.Printf("escaped: %d\n", escaped)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	cfg := sc.Config()
	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	result, err := automation.RunScenario(cmd.Context(), sc, exp)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Name:       sc.Name,
		Integrator: cfg.Integrator,
		AnchorMode: anchorModeName(cfg),
		Dt:         cfg.Timestep.Step,
		Duration:   cfg.Duration,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("  %s\n", sc.Description)
	}
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("final %s mass: %.4g\n", exp.System().Anchor().Name, exp.System().Anchor().Mass)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup("energy_drift", "closest_approach"); err != nil {
		return err
	}

	return viz.Run(exp, viz.Options{
		TimeScale: timeScale,
		FPS:       frameRate,
		GIFPath:   gifPath,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	collector := telemetry.NewCollector()
	exp.AddObserver(collector)
	if err := exp.Setup("energy_drift"); err != nil {
		return err
	}

	opts := stream.DefaultOptions()
	opts.TimeScale = timeScale
	if frameRate > 0 {
		opts.Interval = time.Second / time.Duration(frameRate)
	}
	srv := stream.NewServer(exp, opts)

	mux := http.NewServeMux()
	mux.Handle("/ws", srv.Handler())
	if metricsAddr == "" {
		mux.Handle("/metrics", collector.Handler())
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		log.Info("streaming", "addr", addr, "ws", "/ws")
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return httpSrv.Close()
	})
	if metricsAddr != "" {
		g.Go(func() error {
			return collector.Serve(ctx, metricsAddr)
		})
	}

	return g.Wait()
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir, err := physics.ParseDirection(cfg.Direction)
	if err != nil {
		return err
	}

	grid := optim.NewGridSearch(
		optim.Param{Name: "speed", Values: optim.Linspace(1-tuneSpread, 1+tuneSpread, tuneSteps)},
		optim.Param{Name: "dt", Values: []float64{cfg.Timestep.Step, cfg.Timestep.Step / 2}},
	)

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		run := cfg.Clone()
		run.Timestep.Step = params["dt"]
		run.SampleEvery = math.MaxInt32

		exp := experiment.New(run)
		if err := exp.Setup(tuneMetric); err != nil {
			return nil, err
		}
		automation.Launch(exp.System(), dir, params["speed"])
		return exp, nil
	}

	best, trials, err := grid.Search(cmd.Context(), build, tuneMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SPEED\tDT\t%s\n", strings.ToUpper(tuneMetric))
	for _, t := range trials {
		fmt.Fprintf(w, "%.3f\t%.5f\t%.4e\n", t.Params["speed"], t.Params["dt"], t.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: speed=%.3f dt=%.5f %s=%.4e\n", best.Params["speed"], best.Params["dt"], tuneMetric, best.Value)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tANCHOR\tORBITERS\tINTEG")
	for _, n := range config.ListPresets() {
		p := config.GetPreset(n)
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", n, anchorModeName(p), len(p.Orbiters), p.Integrator)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	log.Info("wrote config", "path", args[0])
	return nil
}
