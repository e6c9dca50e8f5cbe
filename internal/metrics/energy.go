package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

func totalEnergy(g physics.Gravity, anchor *dynamo.Body, orbiters []*dynamo.Body) float64 {
	e := physics.KineticEnergy(anchor)
	for _, o := range orbiters {
		e += physics.KineticEnergy(o) + g.PotentialEnergy(o, anchor)
	}
	return e
}

// Energy reports the mean total energy over the observed ticks.
type Energy struct {
	name    string
	gravity physics.Gravity
	samples int
	sum     float64
}

func NewEnergy(g physics.Gravity) *Energy {
	return &Energy{
		name:    "energy",
		gravity: g,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(anchor *dynamo.Body, orbiters []*dynamo.Body, t float64) {
	e.sum += totalEnergy(e.gravity, anchor, orbiters)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *Energy) Reset() {
	e.sum = 0
	e.samples = 0
}

// EnergyDrift reports the largest relative departure from the energy seen on
// the first observation.
type EnergyDrift struct {
	name          string
	gravity       physics.Gravity
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g physics.Gravity) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: g,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(anchor *dynamo.Body, orbiters []*dynamo.Body, t float64) {
	energy := totalEnergy(e.gravity, anchor, orbiters)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
