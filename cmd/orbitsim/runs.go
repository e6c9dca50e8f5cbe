package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	log.Info("running simulation", "name", cfg.Name, "integrator", cfg.Integrator, "duration", cfg.Duration)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	for _, e := range result.Errors {
		log.Warn("run stopped early", "err", e)
	}

	runName := name
	if runName == "" {
		runName = cfg.Name
	}
	runID, err := st.Save(storage.RunMetadata{
		Name:       runName,
		Integrator: cfg.Integrator,
		AnchorMode: anchorModeName(cfg),
		Dt:         cfg.Timestep.Step,
		Duration:   cfg.Duration,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	for _, n := range sortedMetricNames(result.Metrics) {
		fmt.Printf("  %s: %.6g\n", n, result.Metrics[n])
	}

	return nil
}

func sortedMetricNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDURATION\tDT\tINTEG\tANCHOR\tBODIES\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%s\t%.2e\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.AnchorMode,
			strings.Join(run.Bodies, ","),
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Trajectory, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(traj.Rows) == 0 {
		return nil, nil, fmt.Errorf("run %s has no data", runID)
	}
	return meta, traj, nil
}

// separation returns the distance of body from the first (anchor) body in
// every row.
func separation(traj *storage.Trajectory, body string) []float64 {
	bodies := traj.Bodies()
	ax, ay := traj.Column(bodies[0]+"_x"), traj.Column(bodies[0]+"_y")
	bx, by := traj.Column(body+"_x"), traj.Column(body+"_y")
	if bx == nil || by == nil {
		return nil
	}

	out := make([]float64, len(bx))
	for i := range bx {
		out[i] = math.Hypot(bx[i]-ax[i], by[i]-ay[i])
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	bodies := traj.Bodies()
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("bodies: %s\n", strings.Join(bodies, ", "))
	fmt.Printf("samples: %d\n\n", len(traj.Rows))

	for _, b := range bodies[1:] {
		graph := asciigraph.Plot(separation(traj, b),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s separation", b)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	mass := traj.Column(bodies[0] + "_mass")
	graph := asciigraph.Plot(mass,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s mass", bodies[0])),
	)
	fmt.Println(graph)

	return nil
}

func traceRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	frames := traj.Frames()
	paths := export.PathsFromFrames(frames)

	var all []dynamo.Vector2
	for _, p := range paths[1:] {
		all = append(all, p.Points...)
	}
	center := paths[0].Points[0]

	canvas := viz.NewCanvas(traceWidth, traceHeight)
	view := viz.FitViewport(center, all)
	for _, p := range paths[1:] {
		canvas.Plot(view, p.Points)
	}
	cx, cy := view.Project(canvas, center)
	canvas.DrawDisc(cx, cy, 2)

	fmt.Printf("run: %s (%d frames)\n", meta.ID, len(frames))
	fmt.Println(canvas.String())
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(traj.Times) < 4 {
		return fmt.Errorf("run %s is too short to analyze", meta.ID)
	}

	sampleDt := traj.Times[1] - traj.Times[0]
	fmt.Printf("frequency analysis: %s\n\n", meta.ID)

	for _, b := range traj.Bodies()[1:] {
		x := traj.Column(b + "_x")
		ps := analysis.PowerSpectrum(x)
		plotData := ps[1:max(2, len(ps)/4+1)]

		graph := asciigraph.Plot(plotData,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (%s_x)", b)),
		)
		fmt.Println(graph)
		fmt.Println()

		period, err := analysis.DominantPeriod(x, sampleDt)
		if err != nil {
			log.Warn("no dominant period", "body", b, "err", err)
			continue
		}
		fmt.Printf("%s period: %.3f s (%.3f hz)\n\n", b, period, 1/period)
	}

	return nil
}

func runDivergence(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	build := func(offset dynamo.Vector2) (*sim.System, error) {
		exp := experiment.New(cfg.Clone())
		if err := exp.Setup("energy_drift"); err != nil {
			return nil, err
		}
		o := exp.System().Orbiters()[0]
		o.Position = o.Position.Add(offset)
		return exp.System(), nil
	}

	lambda, err := analysis.Divergence(build, divPerturb, cfg.Timestep.Step, cfg.Duration)
	if err != nil {
		return err
	}

	fmt.Printf("divergence rate: %.4e /s over %.1fs\n", lambda, cfg.Duration)
	if lambda > 0.1 {
		fmt.Println("nearby orbits separate quickly")
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, traj.Frames())
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, &dynamo.Result{Frames: traj.Frames(), Times: traj.Times})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(export.PathsFromFrames(traj.Frames()), svgWidth, svgHeight)
	if outFile == "" {
		_, err := fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	log.Info("wrote svg", "path", outFile)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s (dt=%.4f, duration=%.1fs)\n\n", cfg.Name, cfg.Timestep.Step, cfg.Duration)
	fmt.Printf("%-12s  %-12s  %-12s  %-12s\n", "integrator", "energy_drift", "radius_dev", "time_ms")
	fmt.Println(strings.Repeat("-", 54))

	for _, intName := range args {
		run := cfg.Clone()
		run.Integrator = intName
		run.SampleEvery = math.MaxInt32

		exp := experiment.New(run)
		if err := exp.Setup("radius_deviation"); err != nil {
			fmt.Printf("%-12s  error: %v\n", intName, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(cmd.Context())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", intName, err)
			continue
		}

		fmt.Printf("%-12s  %12.2e  %12.4f  %12.2f\n", intName, result.EnergyDrift,
			result.Metrics["radius_deviation"], float64(elapsed.Microseconds())/1000)
	}

	return nil
}
