package simulation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Flavors are the two built-in presets. They differ mostly by how
// snappy the steering is (maxForce 5 vs 100) and by how boids are kept on screen.
const (
	FlavorClassic  = "classic"
	FlavorSurvival = "survival"
)

//go:embed config.schema.json
var configSchema string

const configSchemaURL = "config.schema.json"

type Config struct {
	Flavor string `json:"flavor"`

	// World Dimensions
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	// Bounds used by the boundary policy, usually the world or an inset of it.
	Bounds     geometry.Rect `json:"bounds"`
	Boundary   string        `json:"boundary"`   // none | wrap | repel
	Influences []string      `json:"influences"` // seek, chase

	// Steering defaults given to every agent spawned without its own params.
	behavior.Params

	AgentRadius float64 `json:"agentRadius"` // collision radius reported to the host

	// Neighbour query strategy and parallelism of the force phase.
	NeighborIndex string `json:"neighborIndex"` // bruteforce | grid
	Workers       int    `json:"workers"`       // <= 1 means serial
}

// ClassicConfig is the wrap-around flock that seeks the player everywhere on screen.
func ClassicConfig() *Config {
	return &Config{
		Flavor:        FlavorClassic,
		WorldWidth:    1280,
		WorldHeight:   720,
		Bounds:        geometry.NewRect(0, 0, 1280, 720),
		Boundary:      "wrap",
		Influences:    []string{"seek"},
		Params:        behavior.DefaultParams(),
		AgentRadius:   8,
		NeighborIndex: IndexBruteForce,
		Workers:       1,
	}
}

// SurvivalConfig is the fenced flock that only chases the player when it gets close.
func SurvivalConfig() *Config {
	p := behavior.DefaultParams()
	p.MaxSpeed = 200
	p.MaxForce = 100
	return &Config{
		Flavor:        FlavorSurvival,
		WorldWidth:    1280,
		WorldHeight:   720,
		Bounds:        geometry.NewRect(50, 50, 1230, 670),
		Boundary:      "repel",
		Influences:    []string{"chase"},
		Params:        p,
		AgentRadius:   8,
		NeighborIndex: IndexBruteForce,
		Workers:       1,
	}
}

func DefaultConfig() *Config {
	return ClassicConfig()
}

// PresetConfig returns the preset named flavor.
func PresetConfig(flavor string) (*Config, error) {
	switch flavor {
	case FlavorClassic, "":
		return ClassicConfig(), nil
	case FlavorSurvival:
		return SurvivalConfig(), nil
	default:
		return nil, fmt.Errorf("%w: unknown flavor %q", ErrInvalidConfig, flavor)
	}
}

// Model builds the steering model described by the config.
func (c *Config) Model() (behavior.Model, error) {
	boundary, err := behavior.ParseBoundaryPolicy(c.Boundary)
	if err != nil {
		return behavior.Model{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	m := behavior.Model{Boundary: boundary, Bounds: c.Bounds}
	for _, name := range c.Influences {
		inf, err := behavior.ParseInfluence(name)
		if err != nil {
			return behavior.Model{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		m.Influences = append(m.Influences, inf)
	}
	if err := m.Validate(); err != nil {
		return behavior.Model{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return m, nil
}

// Validate fails fast on configurations that would give silently wrong ticks.
func (c *Config) Validate() error {
	if _, err := PresetConfig(c.Flavor); err != nil {
		return err
	}
	if !(c.WorldWidth > 0) || !(c.WorldHeight > 0) {
		return fmt.Errorf("%w: world size must be positive, got %vx%v", ErrInvalidConfig, c.WorldWidth, c.WorldHeight)
	}
	if err := c.Params.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Model(); err != nil {
		return err
	}
	if !(c.AgentRadius >= 0) || math.IsInf(c.AgentRadius, 0) {
		return fmt.Errorf("%w: agentRadius must be a non-negative finite number, got %v", ErrInvalidConfig, c.AgentRadius)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := NewNeighborIndex(c.NeighborIndex, c.Params.NeighborRadius()); err != nil {
		return err
	}
	return nil
}

// LoadConfig loads configuration from a JSON file and validates it against the schema.
// An empty schemaFile uses the schema embedded in the package.
// Fields missing from the file keep the value of the preset named by its "flavor".
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	// 1. Compile Schema
	var (
		sch *jsonschema.Schema
		err error
	)
	if schemaFile == "" {
		sch, err = jsonschema.CompileString(configSchemaURL, configSchema)
	} else {
		sch, err = jsonschema.Compile(schemaFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Overlay onto the preset
	var head struct {
		Flavor string `json:"flavor"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg, err := PresetConfig(head.Flavor)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
