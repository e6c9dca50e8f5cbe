package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

// MassSweep runs the base config once per anchor mass between Min and Max.
type MassSweep struct {
	Base     *config.Config
	Min      float64
	Max      float64
	NumSteps int
}

type SweepResult struct {
	AnchorMass      float64
	Period          float64
	RadiusDeviation float64
	EnergyDrift     float64
	Unstable        bool
}

// RunSweep builds every variant up front and runs them as one parallel
// ensemble.
func RunSweep(ctx context.Context, sweep *MassSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if sweep.Min <= 0 || sweep.Max < sweep.Min {
		return nil, fmt.Errorf("invalid mass range [%v, %v]", sweep.Min, sweep.Max)
	}

	step := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	masses := make([]float64, sweep.NumSteps)
	systems := make([]*sim.System, sweep.NumSteps)

	for i := range masses {
		masses[i] = sweep.Min + float64(i)*step

		cfg := sweep.Base.Clone()
		cfg.Anchor.Mass = masses[i]

		exp := experiment.New(cfg)
		if err := exp.Setup("radius_deviation"); err != nil {
			return nil, fmt.Errorf("mass %v: %w", masses[i], err)
		}
		systems[i] = exp.System()
	}

	runCfg := dynamo.Config{
		Dt:          sweep.Base.Timestep.Step,
		Duration:    sweep.Base.Duration,
		SampleEvery: max(sweep.Base.SampleEvery, 1),
	}
	results, err := sim.NewEnsemble(systems...).Run(ctx, runCfg)
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(results))
	for i, r := range results {
		xs := make([]float64, 0, len(r.Frames))
		for _, f := range r.Frames {
			if len(f.Bodies) > 1 {
				xs = append(xs, f.Bodies[1].X)
			}
		}
		period, err := analysis.DominantPeriod(xs, runCfg.Dt*float64(runCfg.SampleEvery))
		if err != nil {
			period = math.NaN()
		}

		out[i] = SweepResult{
			AnchorMass:      masses[i],
			Period:          period,
			RadiusDeviation: r.Metrics["radius_deviation"],
			EnergyDrift:     r.EnergyDrift,
			Unstable:        len(r.Errors) > 0,
		}
		log.Debug("sweep", "step", i+1, "of", len(results), "mass", masses[i], "period", period)
	}

	return out, nil
}

// MonteCarloConfig launches the first orbiter with its circular speed scaled
// by a random factor in [1-Perturbation, 1+Perturbation].
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID    int
	SpeedScale float64
	FinalDist  float64
	Bound      bool
}

// escapeFactor is how far, relative to the start, an orbiter may wander
// before the trial counts as unbound.
const escapeFactor = 10.0

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("need at least one trial")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	dir, err := physics.ParseDirection(cfg.Base.Direction)
	if err != nil {
		return nil, err
	}

	runCfg := dynamo.Config{
		Dt:          cfg.Base.Timestep.Step,
		Duration:    cfg.Base.Duration,
		SampleEvery: math.MaxInt32,
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		scale := 1 + (rng.Float64()-0.5)*2*cfg.Perturbation

		exp := experiment.New(cfg.Base.Clone())
		if err := exp.Setup("closest_approach"); err != nil {
			return nil, err
		}
		s := exp.System()
		anchor, body := s.Anchor(), s.Orbiters()[0]
		r0 := Launch(s, dir, scale)

		result, err := s.Run(ctx, runCfg)
		if err != nil {
			return nil, err
		}

		dist := physics.Distance(body, anchor)
		results = append(results, MonteCarloResult{
			TrialID:    trial,
			SpeedScale: scale,
			FinalDist:  dist,
			Bound:      len(result.Errors) == 0 && dist < escapeFactor*r0,
		})

		if (trial+1)%10 == 0 {
			log.Info("monte carlo", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// Launch replaces the first orbiter's automatic start with an explicit
// velocity: scale times the circular speed, tangent to the anchor in dir.
// It returns the starting distance.
func Launch(s *sim.System, dir physics.Direction, scale float64) float64 {
	anchor, body := s.Anchor(), s.Orbiters()[0]
	d := body.Position.Sub(anchor.Position)
	r0 := d.Len()

	tangent := dynamo.Vector2{X: d.Y / r0, Y: -d.X / r0}
	if dir == physics.CounterClockwise {
		tangent = tangent.Scale(-1)
	}
	speed := physics.CircularSpeed(s.Options().Gravity, body, anchor) * scale
	body.Velocity = tangent.Scale(speed).Add(anchor.Velocity)
	body.AutoOrbit = false
	return r0
}

func MonteCarloStats(results []MonteCarloResult) (bound int, escaped int) {
	for _, r := range results {
		if r.Bound {
			bound++
		} else {
			escaped++
		}
	}
	return
}
