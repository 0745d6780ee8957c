package world

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/simulation"
)

var ErrInvalidHostConfig = errors.New("invalid host config")

// HostConfig holds the game side settings, the simulation itself has no spawn policy.
type HostConfig struct {
	InitialAgents int           `json:"initialAgents" mapstructure:"initial-agents"`
	PerWave       int           `json:"perWave" mapstructure:"per-wave"`
	WaveInterval  time.Duration `json:"waveInterval" mapstructure:"wave-interval"` // zero disables waves
	Seed          uint64        `json:"seed" mapstructure:"seed"`

	// SpawnArea defaults to the simulation bounds, then to the whole world.
	SpawnArea geometry.Rect `json:"spawnArea" mapstructure:"-"`

	SnapshotBuffer int `json:"snapshotBuffer" mapstructure:"snapshot-buffer"`
}

func DefaultHostConfig() HostConfig {
	return HostConfig{
		InitialAgents:  20,
		PerWave:        10,
		WaveInterval:   20 * time.Second,
		Seed:           1,
		SnapshotBuffer: 10,
	}
}

func (c HostConfig) Validate() error {
	if c.InitialAgents < 0 || c.PerWave < 0 {
		return fmt.Errorf("%w: agent counts must be >= 0, got initial=%d perWave=%d", ErrInvalidHostConfig, c.InitialAgents, c.PerWave)
	}
	if c.WaveInterval < 0 {
		return fmt.Errorf("%w: waveInterval must be >= 0, got %s", ErrInvalidHostConfig, c.WaveInterval)
	}
	if c.SnapshotBuffer < 0 {
		return fmt.Errorf("%w: snapshotBuffer must be >= 0, got %d", ErrInvalidHostConfig, c.SnapshotBuffer)
	}
	return nil
}

// Spawner adds the initial flock and then a new wave every WaveInterval of simulated time.
type Spawner struct {
	cfg    HostConfig
	flavor string
	area   geometry.Rect
	rng    *rand.Rand

	wave      int
	sinceWave time.Duration
}

func NewSpawner(cfg HostConfig, simCfg simulation.Config) *Spawner {
	area := cfg.SpawnArea
	if area.Empty() {
		area = simCfg.Bounds
	}
	if area.Empty() {
		area = geometry.NewRect(0, 0, simCfg.WorldWidth, simCfg.WorldHeight)
	}
	return &Spawner{
		cfg:    cfg,
		flavor: simCfg.Flavor,
		area:   area,
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// Wave returns the number of waves spawned since the last reset, the initial flock is wave 0.
func (s *Spawner) Wave() int {
	return s.wave
}

func (s *Spawner) Area() geometry.Rect {
	return s.area
}

// Reset forgets the waves, the random sequence keeps going.
func (s *Spawner) Reset() {
	s.wave = 0
	s.sinceWave = 0
}

// Populate adds the initial flock.
func (s *Spawner) Populate(sim *simulation.Simulation) (int, error) {
	return s.spawn(sim, s.cfg.InitialAgents)
}

// Advance accounts for dt of simulated time and spawns every wave that fell due.
// The caller does not advance a paused simulation.
func (s *Spawner) Advance(sim *simulation.Simulation, dt time.Duration) (int, error) {
	if s.cfg.WaveInterval <= 0 || s.cfg.PerWave == 0 || dt <= 0 {
		return 0, nil
	}
	s.sinceWave += dt
	total := 0
	for s.sinceWave >= s.cfg.WaveInterval {
		s.sinceWave -= s.cfg.WaveInterval
		n, err := s.spawn(sim, s.cfg.PerWave)
		total += n
		if err != nil {
			return total, err
		}
		s.wave++
	}
	return total, nil
}

func (s *Spawner) spawn(sim *simulation.Simulation, n int) (int, error) {
	maxSpeed := sim.Params().MaxSpeed
	for i := 0; i < n; i++ {
		state := simulation.AgentState{
			Position: geometry.Vector2D{
				X: s.area.Min.X + s.rng.Float64()*s.area.Width(),
				Y: s.area.Min.Y + s.rng.Float64()*s.area.Height(),
			},
			Velocity: s.velocity(maxSpeed),
		}
		if _, err := sim.AddAgent(state, nil); err != nil {
			return i, fmt.Errorf("spawning agent %d of %d: %w", i+1, n, err)
		}
	}
	return n, nil
}

// velocity follows the flavor: classic boids start anywhere in the speed square,
// survival boids start at half speed in a random direction.
func (s *Spawner) velocity(maxSpeed float64) geometry.Vector2D {
	if s.flavor == simulation.FlavorSurvival {
		return geometry.NewVectorPolar(maxSpeed*0.5, s.rng.Float64()*2*math.Pi)
	}
	return geometry.Vector2D{
		X: (s.rng.Float64()*2 - 1) * maxSpeed,
		Y: (s.rng.Float64()*2 - 1) * maxSpeed,
	}
}
