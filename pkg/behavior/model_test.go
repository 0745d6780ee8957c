package behavior

import (
	"errors"
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
)

func TestModel_Evaluate_ActiveRules(t *testing.T) {
	p := DefaultParams()
	bounds := geometry.NewRect(0, 0, 1000, 1000)
	me := body(5, 5, 0, 0) // inside the boundary margin
	target := TargetAt(geometry.Vector2D{X: 200, Y: 5})

	classic := Model{Boundary: BoundaryWrap, Bounds: bounds, Influences: []Influence{InfluenceSeek}}
	f := classic.Evaluate(me, nil, target, p)
	if !f.Boundary.IsZero() {
		t.Errorf("wrap policy must not produce a boundary force, got %v", f.Boundary)
	}
	if f.Seek.X <= 0 {
		t.Errorf("classic model should seek the target, got %v", f.Seek)
	}
	if !f.Chase.IsZero() {
		t.Errorf("classic model has no chase influence, got %v", f.Chase)
	}

	survival := Model{Boundary: BoundaryRepel, Bounds: bounds, Influences: []Influence{InfluenceChase}}
	f = survival.Evaluate(me, nil, target, p)
	if f.Boundary.X <= 0 || f.Boundary.Y <= 0 {
		t.Errorf("repel policy should push away from the corner, got %v", f.Boundary)
	}
	if f.Chase.X <= 0 {
		t.Errorf("survival model should chase the target in range, got %v", f.Chase)
	}
	if !f.Seek.IsZero() {
		t.Errorf("survival model has no seek influence, got %v", f.Seek)
	}
}

func TestModel_Force_SumIsNotClamped(t *testing.T) {
	p := DefaultParams()
	p.SeekWeight = 1
	p.BoundaryWeight = 1
	m := Model{Boundary: BoundaryRepel, Bounds: geometry.NewRect(0, 0, 1000, 1000), Influences: []Influence{InfluenceSeek}}

	// boundary and seek both push along +X with a full force budget each
	me := body(10, 500, 0, 0)
	got := m.Force(me, nil, TargetAt(geometry.Vector2D{X: 600, Y: 500}), p)

	if math.Abs(got.X-2*p.MaxForce) > tolerance || math.Abs(got.Y) > tolerance {
		t.Errorf("Force = %v; want (%v, 0)", got, 2*p.MaxForce)
	}
}

func TestModel_Force_NoTarget(t *testing.T) {
	p := DefaultParams()
	m := Model{Influences: []Influence{InfluenceSeek, InfluenceChase}}
	if got := m.Force(body(10, 10, 3, 4), nil, NoTarget, p); !got.IsZero() {
		t.Errorf("lonely boid without target got force %v; want zero", got)
	}
}

func TestForces_Sum_Weights(t *testing.T) {
	p := DefaultParams()
	unit := geometry.Vector2D{X: 1}
	f := Forces{Separation: unit, Alignment: unit, Cohesion: unit}
	want := p.SeparationWeight + p.AlignmentWeight + p.CohesionWeight
	if got := f.Sum(p); math.Abs(got.X-want) > tolerance {
		t.Errorf("Sum = %v; want (%v, 0)", got, want)
	}
}

func TestModel_Confine(t *testing.T) {
	bounds := geometry.NewRect(0, 0, 100, 100)
	out := geometry.Vector2D{X: -1, Y: 50}

	if got := (Model{Boundary: BoundaryWrap, Bounds: bounds}).Confine(out); got != (geometry.Vector2D{X: 100, Y: 50}) {
		t.Errorf("wrap Confine = %v; want (100, 50)", got)
	}
	if got := (Model{Boundary: BoundaryRepel, Bounds: bounds}).Confine(out); got != out {
		t.Errorf("repel Confine must not move the boid, got %v", got)
	}
}

func TestModel_Validate(t *testing.T) {
	bounds := geometry.NewRect(0, 0, 100, 100)
	tests := []struct {
		name    string
		model   Model
		wantErr bool
	}{
		{"free flock", Model{}, false},
		{"wrap with bounds", Model{Boundary: BoundaryWrap, Bounds: bounds}, false},
		{"repel without bounds", Model{Boundary: BoundaryRepel}, true},
		{"unknown policy", Model{Boundary: BoundaryPolicy(9), Bounds: bounds}, true},
		{"unknown influence", Model{Influences: []Influence{Influence(7)}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidParams) {
				t.Errorf("error %v does not wrap ErrInvalidParams", err)
			}
		})
	}
}

func TestParsePolicyAndInfluence(t *testing.T) {
	for _, s := range []string{"none", "wrap", "REPEL"} {
		b, err := ParseBoundaryPolicy(s)
		if err != nil {
			t.Fatalf("ParseBoundaryPolicy(%q): %v", s, err)
		}
		if b.String() == "" {
			t.Errorf("empty name for %q", s)
		}
	}
	if _, err := ParseBoundaryPolicy("bounce"); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("ParseBoundaryPolicy(bounce) error = %v; want ErrInvalidParams", err)
	}
	if inf, err := ParseInfluence("Chase"); err != nil || inf != InfluenceChase {
		t.Errorf("ParseInfluence(Chase) = %v, %v", inf, err)
	}
	if _, err := ParseInfluence("flee"); err == nil {
		t.Error("ParseInfluence(flee) should fail")
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero maxSpeed", func(p *Params) { p.MaxSpeed = 0 }},
		{"negative maxForce", func(p *Params) { p.MaxForce = -1 }},
		{"NaN maxSpeed", func(p *Params) { p.MaxSpeed = math.NaN() }},
		{"negative separation radius", func(p *Params) { p.SeparationRadius = -5 }},
		{"infinite cohesion radius", func(p *Params) { p.CohesionRadius = math.Inf(1) }},
		{"NaN weight", func(p *Params) { p.AlignmentWeight = math.NaN() }},
	}
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("DefaultParams should be valid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Validate() = %v; want ErrInvalidParams", err)
			}
		})
	}
}

func TestParams_NeighborRadius(t *testing.T) {
	p := DefaultParams()
	if got := p.NeighborRadius(); got != 75 {
		t.Errorf("NeighborRadius = %v; want 75", got)
	}
	p.SeparationRadius = 120
	if got := p.NeighborRadius(); got != 120 {
		t.Errorf("NeighborRadius = %v; want 120", got)
	}
}
