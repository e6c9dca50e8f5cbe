package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/orbitsim/internal/experiment"
)

// Param is one axis of the grid.
type Param struct {
	Name   string
	Values []float64
}

// GridSearch tries every combination of its parameters and keeps the one
// with the smallest value of a result metric.
type GridSearch struct {
	params []Param
}

func NewGridSearch(params ...Param) *GridSearch {
	return &GridSearch{params: params}
}

// Trial is one evaluated grid point.
type Trial struct {
	Params   map[string]float64
	Value    float64
	Unstable bool
}

// Builder returns a set-up experiment for one grid point.
type Builder func(params map[string]float64) (*experiment.Experiment, error)

// Search runs every grid point and returns the best trial plus all trials
// in grid order. Runs that go unstable are recorded but never win.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (Trial, []Trial, error) {
	if len(g.params) == 0 {
		return Trial{}, nil, fmt.Errorf("grid search needs at least one parameter")
	}
	for _, p := range g.params {
		if len(p.Values) == 0 {
			return Trial{}, nil, fmt.Errorf("parameter %s has no values", p.Name)
		}
	}

	best := Trial{Value: math.Inf(1)}
	var trials []Trial

	err := g.searchRecursive(ctx, 0, map[string]float64{}, func(current map[string]float64) error {
		exp, err := build(current)
		if err != nil {
			return err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("unknown metric: %s", metricName)
		}

		trial := Trial{Params: copyParams(current), Value: val, Unstable: len(result.Errors) > 0}
		trials = append(trials, trial)
		log.Debug("grid point", "params", trial.Params, metricName, val)

		if !trial.Unstable && val < best.Value {
			best = trial
		}
		return nil
	})
	if err != nil {
		return Trial{}, trials, err
	}
	if best.Params == nil {
		return Trial{}, trials, fmt.Errorf("no stable grid point")
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval func(map[string]float64) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.params) {
		return eval(current)
	}

	p := g.params[depth]
	for _, val := range p.Values {
		current[p.Name] = val
		if err := g.searchRecursive(ctx, depth+1, current, eval); err != nil {
			return err
		}
	}
	delete(current, p.Name)
	return nil
}

func copyParams(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
