package behavior

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned (wrapped) by Params.Validate and Model.Validate.
var ErrInvalidParams = errors.New("invalid steering parameters")

// Params holds the tunables of one boid.
// The flocking radii are independent: each rule only looks at neighbours inside its own radius.
type Params struct {
	MaxSpeed float64 `json:"maxSpeed"`
	MaxForce float64 `json:"maxForce"` // clamp applied to every individual rule output

	SeparationRadius float64 `json:"separationRadius"` // personal space
	AlignmentRadius  float64 `json:"alignmentRadius"`
	CohesionRadius   float64 `json:"cohesionRadius"`

	SeparationWeight float64 `json:"separationWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight"`
	CohesionWeight   float64 `json:"cohesionWeight"`

	SeekWeight     float64 `json:"seekWeight"`
	ChaseWeight    float64 `json:"chaseWeight"`
	BoundaryWeight float64 `json:"boundaryWeight"`

	BoundaryMargin float64 `json:"boundaryMargin"` // distance from an edge where the push starts
	ChaseDistance  float64 `json:"chaseDistance"`  // target is ignored beyond this distance
}

// DefaultParams returns the flocking constants shared by both game flavors,
// with the classic speed and force.
func DefaultParams() Params {
	return Params{
		MaxSpeed:         150,
		MaxForce:         5,
		SeparationRadius: 50,
		AlignmentRadius:  75,
		CohesionRadius:   75,
		SeparationWeight: 1.5,
		AlignmentWeight:  1.0,
		CohesionWeight:   1.0,
		SeekWeight:       1.2,
		ChaseWeight:      0.5,
		BoundaryWeight:   2.0,
		BoundaryMargin:   100,
		ChaseDistance:    300,
	}
}

// NeighborRadius is the largest of the three flocking radii, the only distance
// a neighbour query has to cover for this boid.
func (p Params) NeighborRadius() float64 {
	return math.Max(p.SeparationRadius, math.Max(p.AlignmentRadius, p.CohesionRadius))
}

// Validate rejects parameters that would make the rules silently wrong.
func (p Params) Validate() error {
	if !(p.MaxSpeed > 0) || math.IsInf(p.MaxSpeed, 0) {
		return fmt.Errorf("%w: maxSpeed must be a positive finite number, got %v", ErrInvalidParams, p.MaxSpeed)
	}
	if !(p.MaxForce > 0) || math.IsInf(p.MaxForce, 0) {
		return fmt.Errorf("%w: maxForce must be a positive finite number, got %v", ErrInvalidParams, p.MaxForce)
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"separationRadius", p.SeparationRadius},
		{"alignmentRadius", p.AlignmentRadius},
		{"cohesionRadius", p.CohesionRadius},
		{"boundaryMargin", p.BoundaryMargin},
		{"chaseDistance", p.ChaseDistance},
	}
	for _, f := range nonNegative {
		if !(f.value >= 0) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a non-negative finite number, got %v", ErrInvalidParams, f.name, f.value)
		}
	}

	weights := []struct {
		name  string
		value float64
	}{
		{"separationWeight", p.SeparationWeight},
		{"alignmentWeight", p.AlignmentWeight},
		{"cohesionWeight", p.CohesionWeight},
		{"seekWeight", p.SeekWeight},
		{"chaseWeight", p.ChaseWeight},
		{"boundaryWeight", p.BoundaryWeight},
	}
	for _, w := range weights {
		if math.IsNaN(w.value) || math.IsInf(w.value, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidParams, w.name, w.value)
		}
	}
	return nil
}
