package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
)

type integratorFactory func(physics.Gravity, physics.Direction) dynamo.Integrator

type Registry struct {
	integrators map[string]integratorFactory
	metrics     map[string]func(physics.Gravity) dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]integratorFactory),
		metrics:     make(map[string]func(physics.Gravity) dynamo.Metric),
	}

	r.integrators["leapfrog"] = func(g physics.Gravity, d physics.Direction) dynamo.Integrator {
		return integrators.NewLeapfrog(g, d)
	}
	r.integrators["euler"] = func(g physics.Gravity, d physics.Direction) dynamo.Integrator {
		return integrators.NewEuler(g, d)
	}
	r.integrators["verlet"] = func(g physics.Gravity, d physics.Direction) dynamo.Integrator {
		return integrators.NewVerlet(g, d)
	}
	r.integrators["rk4"] = func(g physics.Gravity, d physics.Direction) dynamo.Integrator {
		return integrators.NewRK4(g, d)
	}

	r.metrics["energy"] = func(g physics.Gravity) dynamo.Metric { return metrics.NewEnergy(g) }
	r.metrics["energy_drift"] = func(g physics.Gravity) dynamo.Metric { return metrics.NewEnergyDrift(g) }
	r.metrics["radius_deviation"] = func(physics.Gravity) dynamo.Metric { return metrics.NewRadiusDeviation() }
	r.metrics["closest_approach"] = func(physics.Gravity) dynamo.Metric { return metrics.NewClosestApproach() }

	return r
}

func (r *Registry) GetIntegrator(name string, g physics.Gravity, dir physics.Direction) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(g, dir), nil
}

func (r *Registry) GetMetric(name string, g physics.Gravity) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(g), nil
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics(g physics.Gravity) []dynamo.Metric {
	out := make([]dynamo.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name](g))
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
