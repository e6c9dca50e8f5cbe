package sim

import (
	"fmt"
	"strings"

	"github.com/san-kum/orbitsim/internal/physics"
)

// AnchorMode decides whether the anchor body is integrated.
type AnchorMode int

const (
	// AnchorFixed keeps the anchor in place; only orbiters move.
	AnchorFixed AnchorMode = iota
	// AnchorMobile also steps the anchor, pulled by the orbiters' barycenter.
	AnchorMobile
)

func (m AnchorMode) String() string {
	if m == AnchorMobile {
		return "mobile"
	}
	return "fixed"
}

func ParseAnchorMode(s string) (AnchorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return AnchorFixed, nil
	case "mobile":
		return AnchorMobile, nil
	}
	return AnchorFixed, fmt.Errorf("unknown anchor mode: %s", s)
}

type TimestepMode int

const (
	// TimestepFixed accumulates elapsed time and spends it in equal steps.
	TimestepFixed TimestepMode = iota
	// TimestepVariable takes one step of the elapsed time, capped at MaxStep.
	TimestepVariable
)

func (m TimestepMode) String() string {
	if m == TimestepVariable {
		return "variable"
	}
	return "fixed"
}

func ParseTimestepMode(s string) (TimestepMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return TimestepFixed, nil
	case "variable":
		return TimestepVariable, nil
	}
	return TimestepFixed, fmt.Errorf("unknown timestep mode: %s", s)
}

type Timestep struct {
	Mode        TimestepMode
	Step        float64
	MaxStep     float64
	MaxSubsteps int
}

type Options struct {
	Gravity       physics.Gravity
	AnchorMode    AnchorMode
	Timestep      Timestep
	ValidateState bool
}

func DefaultOptions() Options {
	return Options{
		Gravity:    physics.DefaultGravity(),
		AnchorMode: AnchorFixed,
		Timestep: Timestep{
			Mode:        TimestepFixed,
			Step:        1.0 / 80,
			MaxStep:     0.05,
			MaxSubsteps: 8,
		},
		ValidateState: true,
	}
}
