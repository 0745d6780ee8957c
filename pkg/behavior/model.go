package behavior

import (
	"fmt"
	"strings"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
)

// BoundaryPolicy selects how a flock is kept inside its world.
type BoundaryPolicy int

const (
	// BoundaryNone leaves boids free to leave the bounds.
	BoundaryNone BoundaryPolicy = iota
	// BoundaryWrap teleports boids to the opposite edge after integration (classic flavor).
	BoundaryWrap
	// BoundaryRepel adds a steering force away from nearby edges (survival flavor).
	BoundaryRepel
)

var boundaryNames = map[BoundaryPolicy]string{
	BoundaryNone:  "none",
	BoundaryWrap:  "wrap",
	BoundaryRepel: "repel",
}

func (b BoundaryPolicy) String() string {
	if s, ok := boundaryNames[b]; ok {
		return s
	}
	return fmt.Sprintf("BoundaryPolicy(%d)", int(b))
}

// ParseBoundaryPolicy maps "none", "wrap" or "repel" to a BoundaryPolicy.
func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	for b, name := range boundaryNames {
		if strings.EqualFold(s, name) {
			return b, nil
		}
	}
	return BoundaryNone, fmt.Errorf("%w: unknown boundary policy %q", ErrInvalidParams, s)
}

// Influence is an optional rule driven by an external target.
type Influence int

const (
	// InfluenceSeek always steers towards the target (weighted by SeekWeight).
	InfluenceSeek Influence = iota
	// InfluenceChase steers towards the target only within ChaseDistance (weighted by ChaseWeight).
	InfluenceChase
)

func (i Influence) String() string {
	switch i {
	case InfluenceSeek:
		return "seek"
	case InfluenceChase:
		return "chase"
	default:
		return fmt.Sprintf("Influence(%d)", int(i))
	}
}

// ParseInfluence maps "seek" or "chase" to an Influence.
func ParseInfluence(s string) (Influence, error) {
	switch strings.ToLower(s) {
	case "seek":
		return InfluenceSeek, nil
	case "chase":
		return InfluenceChase, nil
	default:
		return 0, fmt.Errorf("%w: unknown influence %q", ErrInvalidParams, s)
	}
}

// Model is the steering model shared by every boid of a simulation.
// Both game flavors are the same model: classic is {Wrap, [Seek]}, survival is {Repel, [Chase]}.
type Model struct {
	Boundary   BoundaryPolicy
	Bounds     geometry.Rect
	Influences []Influence
}

// Validate checks that the policy is known and that the bounds exist when a policy needs them.
func (m Model) Validate() error {
	if _, ok := boundaryNames[m.Boundary]; !ok {
		return fmt.Errorf("%w: unknown boundary policy %d", ErrInvalidParams, int(m.Boundary))
	}
	if m.Boundary != BoundaryNone && m.Bounds.Empty() {
		return fmt.Errorf("%w: boundary policy %s needs non-empty bounds, got min %s max %s",
			ErrInvalidParams, m.Boundary, m.Bounds.Min, m.Bounds.Max)
	}
	for _, inf := range m.Influences {
		if inf != InfluenceSeek && inf != InfluenceChase {
			return fmt.Errorf("%w: unknown influence %d", ErrInvalidParams, int(inf))
		}
	}
	return nil
}

// Forces holds every rule output of one boid for one tick, each already clamped to MaxForce.
type Forces struct {
	Separation geometry.Vector2D
	Alignment  geometry.Vector2D
	Cohesion   geometry.Vector2D
	Boundary   geometry.Vector2D
	Seek       geometry.Vector2D
	Chase      geometry.Vector2D
}

// Sum is the weighted sum of the rule outputs. The sum itself is not clamped,
// so combined behaviours may exceed a single rule's force budget.
func (f Forces) Sum(p Params) geometry.Vector2D {
	return f.Separation.Mul(p.SeparationWeight).
		Add(f.Alignment.Mul(p.AlignmentWeight)).
		Add(f.Cohesion.Mul(p.CohesionWeight)).
		Add(f.Boundary.Mul(p.BoundaryWeight)).
		Add(f.Seek.Mul(p.SeekWeight)).
		Add(f.Chase.Mul(p.ChaseWeight))
}

// Evaluate runs every active rule for self. neighbors only needs to be
// filtered by NeighborRadius, each rule applies its own radius.
func (m Model) Evaluate(self Body, neighbors []Body, target Target, p Params) Forces {
	f := Forces{
		Separation: Separation(self, neighbors, p),
		Alignment:  Alignment(self, neighbors, p),
		Cohesion:   Cohesion(self, neighbors, p),
	}
	if m.Boundary == BoundaryRepel {
		f.Boundary = AvoidBoundary(self, m.Bounds, p)
	}
	for _, inf := range m.Influences {
		switch inf {
		case InfluenceSeek:
			if target.Valid {
				f.Seek = Seek(self, target.Position, p)
			}
		case InfluenceChase:
			f.Chase = Chase(self, target, p)
		}
	}
	return f
}

// Force is the acceleration of self for this tick.
func (m Model) Force(self Body, neighbors []Body, target Target, p Params) geometry.Vector2D {
	return m.Evaluate(self, neighbors, target, p).Sum(p)
}

// Confine applies the post-integration correction of the boundary policy to a position.
func (m Model) Confine(pos geometry.Vector2D) geometry.Vector2D {
	if m.Boundary == BoundaryWrap && !m.Bounds.Empty() {
		return m.Bounds.Wrap(pos)
	}
	return pos
}
