package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Divergence estimates how fast nearby trajectories separate. It builds two
// systems, the second with its first orbiter displaced by perturbation along
// x, ticks both for duration and returns ln(d(t)/d0)/t. Bounded orbits give
// small values; positive growth means the run is sensitive to its start.
func Divergence(
	build func(offset dynamo.Vector2) (*sim.System, error),
	perturbation, dt, duration float64,
) (float64, error) {
	if perturbation <= 0 || dt <= 0 || duration <= 0 {
		return 0, fmt.Errorf("perturbation, dt and duration must be positive")
	}

	base, err := build(dynamo.Vector2{})
	if err != nil {
		return 0, err
	}
	nudged, err := build(dynamo.Vector2{X: perturbation})
	if err != nil {
		return 0, err
	}

	steps := int(math.Round(duration / dt))
	for i := 0; i < steps; i++ {
		if err := base.Tick(dt); err != nil {
			return 0, err
		}
		if err := nudged.Tick(dt); err != nil {
			return 0, err
		}
	}

	a := base.Orbiters()[0].Position
	b := nudged.Orbiters()[0].Position
	sep := b.Sub(a).Len()
	if sep == 0 {
		return 0, nil
	}

	return math.Log(sep/perturbation) / (float64(steps) * dt), nil
}
