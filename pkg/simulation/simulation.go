package simulation

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidConfig   = errors.New("invalid simulation config")
	ErrInvalidAgent    = errors.New("invalid agent")
	ErrInvalidTimeStep = errors.New("invalid time step")
	ErrNonFiniteForce  = errors.New("non-finite steering force")
	ErrUnknownAgent    = errors.New("unknown agent")
)

// Option customises a Simulation at construction time.
type Option func(*Simulation)

// WithLogger sets the logger, the default discards everything.
func WithLogger(l Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.log = l
		}
	}
}

// WithNeighborIndex replaces the index selected by Config.NeighborIndex.
func WithNeighborIndex(idx NeighborIndex) Option {
	return func(s *Simulation) {
		if idx != nil {
			s.index = idx
		}
	}
}

// Simulation owns a flat collection of agents and advances them one tick per Step.
// It is not safe for concurrent use: the host serialises Step, spawns and reads.
type Simulation struct {
	cfg      Config
	model    behavior.Model
	defaults behavior.Params

	agents []Agent
	byID   map[AgentID]int
	nextID AgentID

	paused  bool
	tick    uint64
	elapsed float64

	index    NeighborIndex
	workers  int
	snapshot []behavior.Body     // read snapshot of the current tick
	forces   []geometry.Vector2D // one acceleration per agent
	scratch  [][]behavior.Body   // neighbour buffers, one per worker

	log Logger
}

// New validates cfg and returns an empty, active simulation.
func New(cfg *Config, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := cfg.Model()
	if err != nil {
		return nil, err
	}
	index, err := NewNeighborIndex(cfg.NeighborIndex, cfg.Params.NeighborRadius())
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:      *cfg,
		model:    model,
		defaults: cfg.Params,
		byID:     make(map[AgentID]int),
		index:    index,
		workers:  max(cfg.Workers, 1),
		log:      NewNoOpLogger(),
	}
	s.cfg.Influences = slices.Clone(cfg.Influences)
	for _, opt := range opts {
		opt(s)
	}
	s.scratch = make([][]behavior.Body, s.workers)

	s.log.Infof("simulation ready: flavor=%s boundary=%s influences=%v index=%s workers=%d",
		cfg.Flavor, model.Boundary, cfg.Influences, cfg.NeighborIndex, s.workers)
	return s, nil
}

// Config returns a copy of the configuration the simulation was built with.
func (s *Simulation) Config() Config {
	c := s.cfg
	c.Influences = slices.Clone(s.cfg.Influences)
	return c
}

// Model returns the steering model shared by every agent.
func (s *Simulation) Model() behavior.Model {
	return s.model
}

// ============================================================================
// Spawn / despawn
// ============================================================================

// AddAgent inserts a new agent. params nil means the configured defaults.
// The initial velocity is clamped to MaxSpeed so the speed invariant holds from the start.
func (s *Simulation) AddAgent(state AgentState, params *behavior.Params) (AgentID, error) {
	if !state.Position.IsFinite() || !state.Velocity.IsFinite() {
		return 0, fmt.Errorf("%w: non-finite state position=%v velocity=%v", ErrInvalidAgent, state.Position, state.Velocity)
	}
	if state.Radius < 0 || math.IsNaN(state.Radius) || math.IsInf(state.Radius, 0) {
		return 0, fmt.Errorf("%w: radius must be a non-negative finite number, got %v", ErrInvalidAgent, state.Radius)
	}
	p := s.defaults
	if params != nil {
		if err := params.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidAgent, err)
		}
		p = *params
	}
	radius := state.Radius
	if radius == 0 {
		radius = s.cfg.AgentRadius
	}

	s.nextID++
	a := Agent{
		ID:       s.nextID,
		Position: state.Position,
		Velocity: state.Velocity.Limit(p.MaxSpeed),
		Radius:   radius,
		Params:   p,
	}
	a.updateHeading()

	s.byID[a.ID] = len(s.agents)
	s.agents = append(s.agents, a)
	s.log.Debugf("agent %d added at %s velocity %s", a.ID, a.Position, a.Velocity)
	return a.ID, nil
}

// RemoveAgent drops the agent, reporting whether it existed.
// The relative order of the remaining agents is kept, so ticks stay reproducible.
func (s *Simulation) RemoveAgent(id AgentID) bool {
	i, ok := s.byID[id]
	if !ok {
		return false
	}
	s.agents = slices.Delete(s.agents, i, i+1)
	delete(s.byID, id)
	for j := i; j < len(s.agents); j++ {
		s.byID[s.agents[j].ID] = j
	}
	s.log.Debugf("agent %d removed", id)
	return true
}

// Clear removes every agent. IDs keep increasing afterwards.
func (s *Simulation) Clear() {
	n := len(s.agents)
	s.agents = s.agents[:0]
	clear(s.byID)
	s.log.Infof("cleared %d agents", n)
}

// SetAgentParams retunes one agent.
func (s *Simulation) SetAgentParams(id AgentID, params behavior.Params) error {
	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAgent, id)
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAgent, err)
	}
	s.agents[i].Params = params
	s.agents[i].Velocity = s.agents[i].Velocity.Limit(params.MaxSpeed)
	return nil
}

// SetParams retunes every agent and becomes the default for later spawns.
func (s *Simulation) SetParams(params behavior.Params) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	s.defaults = params
	for i := range s.agents {
		s.agents[i].Params = params
		s.agents[i].Velocity = s.agents[i].Velocity.Limit(params.MaxSpeed)
	}
	s.log.Infof("params updated for %d agents: %+v", len(s.agents), params)
	return nil
}

// Params returns the steering defaults given to agents spawned without their own.
func (s *Simulation) Params() behavior.Params {
	return s.defaults
}

// ============================================================================
// Read access (between steps only)
// ============================================================================

// Len returns the number of agents.
func (s *Simulation) Len() int {
	return len(s.agents)
}

// Agent returns a copy of the agent with that id.
func (s *Simulation) Agent(id AgentID) (Agent, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Agent{}, false
	}
	return s.agents[i], true
}

// Agents returns a copy of every agent in insertion order.
func (s *Simulation) Agents() []Agent {
	return slices.Clone(s.agents)
}

// Touching returns the ids of the agents whose collision circle overlaps (center, radius).
// The host decides what a hit means.
func (s *Simulation) Touching(center geometry.Vector2D, radius float64) []AgentID {
	var ids []AgentID
	for i := range s.agents {
		if s.agents[i].Touches(center, radius) {
			ids = append(ids, s.agents[i].ID)
		}
	}
	return ids
}

// Snapshot is a deep copy of the simulation state, safe to hand to another goroutine.
func (s *Simulation) Snapshot() *Snapshot {
	return &Snapshot{
		Tick:    s.tick,
		Elapsed: s.elapsed,
		Paused:  s.paused,
		Agents:  s.Agents(),
	}
}

// ============================================================================
// Active / Paused
// ============================================================================

// Paused reports whether Step is currently a no-op.
func (s *Simulation) Paused() bool {
	return s.paused
}

// SetPaused freezes or resumes the simulation.
func (s *Simulation) SetPaused(paused bool) {
	if s.paused == paused {
		return
	}
	s.paused = paused
	s.log.Infof("simulation paused=%t at tick %d", paused, s.tick)
}

func (s *Simulation) Pause()  { s.SetPaused(true) }
func (s *Simulation) Resume() { s.SetPaused(false) }

// Tick returns the number of steps taken while active.
func (s *Simulation) Tick() uint64 {
	return s.tick
}

// ============================================================================
// Step
// ============================================================================

// Step advances every agent by dt seconds.
//
// All forces are computed against a snapshot taken before any agent moves, so the
// processing order never matters. The force phase may run on several workers; the
// integration phase only starts once every force is known. On error no agent is touched.
func (s *Simulation) Step(dt float64, target behavior.Target) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return fmt.Errorf("%w: dt=%v", ErrInvalidTimeStep, dt)
	}
	if s.paused {
		return nil
	}

	n := len(s.agents)
	s.snapshot = s.snapshot[:0]
	for i := range s.agents {
		s.snapshot = append(s.snapshot, s.agents[i].body())
	}
	s.index.Build(s.snapshot)

	if cap(s.forces) < n {
		s.forces = make([]geometry.Vector2D, n)
	}
	s.forces = s.forces[:n]

	if err := s.computeForces(target); err != nil {
		return err
	}

	for i := range s.agents {
		s.agents[i].integrate(s.forces[i], dt, s.model)
	}
	s.tick++
	s.elapsed += dt
	return nil
}

func (s *Simulation) computeForces(target behavior.Target) error {
	n := len(s.agents)
	workers := min(s.workers, n)
	if workers <= 1 {
		return s.forceRange(0, n, 0, target)
	}

	var g errgroup.Group
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, n)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			return s.forceRange(lo, hi, w, target)
		})
	}
	return g.Wait()
}

// forceRange computes the forces of agents [lo, hi) with scratch buffer w.
// It only reads shared state and writes s.forces[lo:hi].
func (s *Simulation) forceRange(lo, hi, w int, target behavior.Target) error {
	buf := s.scratch[w]
	for i := lo; i < hi; i++ {
		p := s.agents[i].Params
		buf = s.index.Query(i, p.NeighborRadius(), buf[:0])
		f := s.model.Force(s.snapshot[i], buf, target, p)
		if !f.IsFinite() {
			return fmt.Errorf("%w: agent %d at %s", ErrNonFiniteForce, s.agents[i].ID, s.agents[i].Position)
		}
		s.forces[i] = f
	}
	s.scratch[w] = buf
	return nil
}
