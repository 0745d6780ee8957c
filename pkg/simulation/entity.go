package simulation

import (
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
)

// AgentID identifies an agent for its whole life inside a Simulation.
type AgentID uint64

// AgentState is what the host supplies when it spawns an agent.
type AgentState struct {
	Position geometry.Vector2D
	Velocity geometry.Vector2D
	// Radius is the collision radius reported back to the host, zero means Config.AgentRadius.
	Radius float64
}

// Agent is one boid. The Simulation owns the authoritative copy,
// callers only ever get values.
type Agent struct {
	ID       AgentID           `json:"id"`
	Position geometry.Vector2D `json:"position"`
	Velocity geometry.Vector2D `json:"velocity"`
	Heading  float64           `json:"heading"` // radians, last non-degenerate velocity angle
	Radius   float64           `json:"radius"`
	Params   behavior.Params   `json:"-"`
}

// body is the steering view of the agent.
func (a *Agent) body() behavior.Body {
	return behavior.Body{Position: a.Position, Velocity: a.Velocity}
}

// integrate advances the agent by dt under acceleration acc.
func (a *Agent) integrate(acc geometry.Vector2D, dt float64, model behavior.Model) {
	a.Velocity = a.Velocity.Add(acc.Mul(dt)).Limit(a.Params.MaxSpeed)
	a.Position = model.Confine(a.Position.Add(a.Velocity.Mul(dt)))
	a.updateHeading()
}

// updateHeading never touches the heading on a zero velocity, atan2(0,0) carries no direction.
func (a *Agent) updateHeading() {
	if a.Velocity.LenSqr() > 0 {
		a.Heading = a.Velocity.Angle()
	}
}

// DistanceTo gives the cartesian distance from this Agent and the other
func (a *Agent) DistanceTo(other *Agent) float64 {
	return a.Position.DistanceTo(other.Position)
}

// Touches reports whether the agent's collision circle overlaps the circle (center, radius).
func (a *Agent) Touches(center geometry.Vector2D, radius float64) bool {
	r := a.Radius + radius
	return a.Position.DistanceSquaredTo(center) < r*r
}
