package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// RadiusDeviation is the worst relative change of any orbiter's distance to
// the anchor compared to the first observation. A closed circular orbit
// keeps it near zero.
type RadiusDeviation struct {
	name     string
	initial  []float64
	maxDelta float64
}

func NewRadiusDeviation() *RadiusDeviation {
	return &RadiusDeviation{name: "radius_deviation"}
}

func (r *RadiusDeviation) Name() string { return r.name }

func (r *RadiusDeviation) Observe(anchor *dynamo.Body, orbiters []*dynamo.Body, t float64) {
	if r.initial == nil {
		r.initial = make([]float64, len(orbiters))
		for i, o := range orbiters {
			r.initial[i] = physics.Distance(o, anchor)
		}
		return
	}

	for i, o := range orbiters {
		if i >= len(r.initial) || r.initial[i] == 0 {
			continue
		}
		d := math.Abs(physics.Distance(o, anchor)-r.initial[i]) / r.initial[i]
		r.maxDelta = math.Max(r.maxDelta, d)
	}
}

func (r *RadiusDeviation) Value() float64 {
	return r.maxDelta
}

func (r *RadiusDeviation) Reset() {
	r.initial = nil
	r.maxDelta = 0
}

// ClosestApproach is the smallest orbiter-anchor distance observed.
type ClosestApproach struct {
	name    string
	min     float64
	samples int
}

func NewClosestApproach() *ClosestApproach {
	return &ClosestApproach{name: "closest_approach"}
}

func (c *ClosestApproach) Name() string { return c.name }

func (c *ClosestApproach) Observe(anchor *dynamo.Body, orbiters []*dynamo.Body, t float64) {
	for _, o := range orbiters {
		d := physics.Distance(o, anchor)
		if c.samples == 0 || d < c.min {
			c.min = d
		}
		c.samples++
	}
}

func (c *ClosestApproach) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.min
}

func (c *ClosestApproach) Reset() {
	c.min = 0
	c.samples = 0
}
