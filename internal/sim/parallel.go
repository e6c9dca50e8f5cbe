package sim

import (
	"context"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Ensemble runs independent systems in parallel. Systems must not share
// bodies or metrics.
type Ensemble struct {
	systems []*System
}

func NewEnsemble(systems ...*System) *Ensemble {
	return &Ensemble{systems: systems}
}

func (e *Ensemble) Run(ctx context.Context, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(e.systems))
	errs := make([]error, len(e.systems))

	dynamo.ParallelFor(len(e.systems), 1, func(start, end int) {
		for i := start; i < end; i++ {
			results[i], errs[i] = e.systems[i].Run(ctx, cfg)
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
