package behavior

import (
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
)

// Body is the part of a boid the steering rules read.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// https://en.wikipedia.org/wiki/Boids
type Body struct {
	Position geometry.Vector2D
	Velocity geometry.Vector2D
}

// Target is an external point a boid may seek or chase.
// The zero value is "no target": every rule that uses it contributes nothing.
type Target struct {
	Position geometry.Vector2D
	Valid    bool
}

// TargetAt returns a valid Target at p.
func TargetAt(p geometry.Vector2D) Target {
	return Target{Position: p, Valid: true}
}

// NoTarget is the absent target, used when the tracked entity is gone.
var NoTarget = Target{}

// steer turns a desired velocity into a steering delta clamped to MaxForce.
func steer(self Body, desired geometry.Vector2D, p Params) geometry.Vector2D {
	return desired.WithLen(p.MaxSpeed).Sub(self.Velocity).Limit(p.MaxForce)
}

// separationSum accumulates (self-other).normalized()/distance over neighbours
// strictly inside radius and returns the sum with the number of contributors.
func separationSum(self Body, neighbors []Body, radius float64) (geometry.Vector2D, int) {
	var sum geometry.Vector2D
	count := 0
	for _, other := range neighbors {
		d := self.Position.DistanceTo(other.Position)
		if d > 0 && d < radius {
			away := self.Position.Sub(other.Position).Normalize().Mul(1 / d)
			sum = sum.Add(away)
			count++
		}
	}
	return sum, count
}

// Separation steers away from crowding neighbours, the closest ones weighing the most.
func Separation(self Body, neighbors []Body, p Params) geometry.Vector2D {
	sum, count := separationSum(self, neighbors, p.SeparationRadius)
	if count == 0 {
		return geometry.Zero
	}
	avg := sum.Mul(1 / float64(count))
	if avg.LenSqr() == 0 {
		// symmetric crowd, pushes cancel out
		return geometry.Zero
	}
	return steer(self, avg, p)
}

// Alignment steers towards the average heading of the neighbours inside AlignmentRadius.
func Alignment(self Body, neighbors []Body, p Params) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0
	for _, other := range neighbors {
		d := self.Position.DistanceTo(other.Position)
		if d > 0 && d < p.AlignmentRadius {
			sum = sum.Add(other.Velocity)
			count++
		}
	}
	if count == 0 {
		return geometry.Zero
	}
	return steer(self, sum.Mul(1/float64(count)), p)
}

// Cohesion seeks the centroid of the neighbours inside CohesionRadius.
func Cohesion(self Body, neighbors []Body, p Params) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0
	for _, other := range neighbors {
		d := self.Position.DistanceTo(other.Position)
		if d > 0 && d < p.CohesionRadius {
			sum = sum.Add(other.Position)
			count++
		}
	}
	if count == 0 {
		return geometry.Zero
	}
	return Seek(self, sum.Mul(1/float64(count)), p)
}

// Seek steers towards target at full speed.
// A target sitting exactly on the boid yields no force.
func Seek(self Body, target geometry.Vector2D, p Params) geometry.Vector2D {
	offset := target.Sub(self.Position)
	if offset.IsZero() {
		return geometry.Zero
	}
	return steer(self, offset, p)
}

// Chase seeks the target only while it is valid and closer than ChaseDistance.
func Chase(self Body, target Target, p Params) geometry.Vector2D {
	if !target.Valid {
		return geometry.Zero
	}
	if self.Position.DistanceTo(target.Position) >= p.ChaseDistance {
		return geometry.Zero
	}
	return Seek(self, target.Position, p)
}

// AvoidBoundary pushes inward on every axis where the boid is within BoundaryMargin of an edge.
// For each axis the min edge is tested before the max edge. An empty bounds rect disables the rule.
func AvoidBoundary(self Body, bounds geometry.Rect, p Params) geometry.Vector2D {
	if bounds.Empty() {
		return geometry.Zero
	}
	var desired geometry.Vector2D
	pos := self.Position

	if pos.X < bounds.Min.X+p.BoundaryMargin {
		desired.X = p.MaxSpeed
	} else if pos.X > bounds.Max.X-p.BoundaryMargin {
		desired.X = -p.MaxSpeed
	}

	if pos.Y < bounds.Min.Y+p.BoundaryMargin {
		desired.Y = p.MaxSpeed
	} else if pos.Y > bounds.Max.Y-p.BoundaryMargin {
		desired.Y = -p.MaxSpeed
	}

	if desired.IsZero() {
		return geometry.Zero
	}
	return steer(self, desired, p)
}
