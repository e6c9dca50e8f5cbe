package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestVector2_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		v     Vector2
		valid bool
	}{
		{"zero", Vector2{}, true},
		{"normal", Vector2{1.5, -2}, true},
		{"with NaN", Vector2{math.NaN(), 0}, false},
		{"with +Inf", Vector2{0, math.Inf(1)}, false},
		{"with -Inf", Vector2{math.Inf(-1), 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestVector2_Arithmetic(t *testing.T) {
	a := Vector2{1, 2}
	b := Vector2{4, 6}

	if got := a.Add(b); got != (Vector2{5, 8}) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != (Vector2{3, 4}) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(-2); got != (Vector2{-2, -4}) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := b.Sub(a).Len(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Len = %v, want 5", got)
	}
}

func TestNewBody(t *testing.T) {
	tests := []struct {
		name    string
		pos     Vector2
		mass    float64
		radius  float64
		wantErr error
	}{
		{"valid", Vector2{1, 1}, 1e9, 5, nil},
		{"zero radius", Vector2{}, 1, 0, nil},
		{"zero mass", Vector2{}, 0, 5, ErrNonPositiveMass},
		{"negative mass", Vector2{}, -1, 5, ErrNonPositiveMass},
		{"negative radius", Vector2{}, 1, -1, ErrNegativeRadius},
		{"NaN position", Vector2{math.NaN(), 0}, 1, 1, ErrNonFinite},
		{"Inf mass", Vector2{}, math.Inf(1), 1, ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBody("b", tt.pos, Vector2{}, tt.mass, tt.radius)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Phase != PhaseUninitialized {
				t.Errorf("new body phase = %v, want %v", b.Phase, PhaseUninitialized)
			}
			if !b.AutoOrbit {
				t.Error("new body should default to auto-orbit")
			}
		})
	}
}

func TestBodiesOwnTheirVectors(t *testing.T) {
	a, _ := NewBody("a", Vector2{0, 0}, Vector2{}, 1, 1)
	b, _ := NewBody("b", Vector2{0, 0}, Vector2{}, 1, 1)

	a.Velocity.X = 42
	a.Acceleration.Y = 7
	if b.Velocity.X != 0 || b.Acceleration.Y != 0 {
		t.Error("bodies share vector state")
	}

	c := a.Clone()
	c.Position.X = 99
	if a.Position.X == 99 {
		t.Error("Clone did not create an independent copy")
	}
}

func TestFrameBody(t *testing.T) {
	f := Frame{Bodies: []BodyView{{Name: "star"}, {Name: "earth", X: 3}}}

	b, ok := f.Body("earth")
	if !ok || b.X != 3 {
		t.Errorf("Body(earth) = %v, %v", b, ok)
	}
	if _, ok := f.Body("moon"); ok {
		t.Error("expected missing body")
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Tick: 150, Time: 1.5, Body: "earth", Wrapped: ErrUnstable}
	expected := "tick 150 (t=1.5000) body earth: dynamo: simulation unstable (state diverged)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrUnstable) {
		t.Error("SimulationError does not unwrap to ErrUnstable")
	}
}

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		seen := make([]int32, n)
		ParallelFor(n, 3, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, c)
			}
		}
	}
}
