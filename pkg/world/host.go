package world

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	systemName = "FlockWorld"
	worldName  = "world"
)

// Host runs a Simulation inside a goakt actor system.
// Its methods are safe to call from the render loop.
type Host struct {
	system   actor.ActorSystem
	worldPID *actor.PID
	frames   chan *Frame
	target   atomic.Pointer[behavior.Target]
	log      simulation.Logger
}

type HostOption func(*hostOptions)

type hostOptions struct {
	log simulation.Logger
}

// WithLogger logs the host, the world actor and the simulation to l.
func WithLogger(l simulation.Logger) HostOption {
	return func(o *hostOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// NewHost builds the simulation, starts the actor system and spawns the world.
// The initial flock is spawned asynchronously, the first frame reports it.
func NewHost(ctx context.Context, cfg *simulation.Config, hostCfg HostConfig, opts ...HostOption) (*Host, error) {
	o := hostOptions{log: simulation.NewNoOpLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := hostCfg.Validate(); err != nil {
		return nil, err
	}
	sim, err := simulation.New(cfg, simulation.WithLogger(o.log))
	if err != nil {
		return nil, err
	}

	system, err := actor.NewActorSystem(systemName, actor.WithLogger(golog.DiscardLogger))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	h := &Host{
		system: system,
		frames: make(chan *Frame, hostCfg.SnapshotBuffer),
		log:    o.log,
	}
	h.SetTarget(behavior.NoTarget)

	spawner := NewSpawner(hostCfg, sim.Config())
	world := NewWorldActor(sim, spawner, h.frames, h.currentTarget, o.log)
	pid, err := system.Spawn(ctx, worldName, world)
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}
	h.worldPID = pid
	return h, nil
}

// Frames delivers a frame after every message handled by the world.
// Frames are dropped while the reader lags behind.
func (h *Host) Frames() <-chan *Frame {
	return h.frames
}

// SetTarget sets the target used by the following ticks.
func (h *Host) SetTarget(t behavior.Target) {
	h.target.Store(&t)
}

func (h *Host) currentTarget() behavior.Target {
	return *h.target.Load()
}

// Tick asks the world to advance by dt.
func (h *Host) Tick(ctx context.Context, dt time.Duration) error {
	return actor.Tell(ctx, h.worldPID, durationpb.New(dt))
}

func (h *Host) SetPaused(ctx context.Context, paused bool) error {
	return actor.Tell(ctx, h.worldPID, wrapperspb.Bool(paused))
}

// Restart replaces the flock with a fresh initial one.
func (h *Host) Restart(ctx context.Context) error {
	return actor.Tell(ctx, h.worldPID, &emptypb.Empty{})
}

// SetParams retunes every agent of the flock and the later spawns.
// Invalid params are logged and ignored by the world.
func (h *Host) SetParams(ctx context.Context, p behavior.Params) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}
	return actor.Tell(ctx, h.worldPID, msg)
}

// Stop shuts the actor system down. No frame is sent afterwards.
func (h *Host) Stop(ctx context.Context) error {
	if err := h.system.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop actor system: %w", err)
	}
	h.log.Infof("host stopped")
	return nil
}
