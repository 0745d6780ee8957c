package simulation

import "github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"

// Snapshot is what the host renders: a frozen copy of the flock after a step.
type Snapshot struct {
	Tick    uint64  `json:"tick"`
	Elapsed float64 `json:"elapsed"` // simulated seconds
	Paused  bool    `json:"paused"`
	Agents  []Agent `json:"agents"`
}

// Find returns the agent with that id, if it is part of the snapshot.
func (s *Snapshot) Find(id AgentID) (Agent, bool) {
	for _, a := range s.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return Agent{}, false
}

// Touching is Simulation.Touching over the frozen agents.
func (s *Snapshot) Touching(center geometry.Vector2D, radius float64) []AgentID {
	var ids []AgentID
	for i := range s.Agents {
		if s.Agents[i].Touches(center, radius) {
			ids = append(ids, s.Agents[i].ID)
		}
	}
	return ids
}
