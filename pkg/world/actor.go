package world

import (
	"encoding/json"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Messages understood by the WorldActor:
//
//	*durationpb.Duration  advance the flock by that much simulated time
//	*wrapperspb.BoolValue pause (true) or resume (false)
//	*emptypb.Empty        restart with a fresh initial flock
//	*structpb.Struct      retune the steering params, keys are the JSON names of behavior.Params

// Frame is what the world pushes to its reader after every message.
type Frame struct {
	*simulation.Snapshot
	Wave int `json:"wave"`
}

// TargetFunc returns the external target for the next tick.
type TargetFunc func() behavior.Target

// WorldActor owns the Simulation. Every mutation goes through its mailbox,
// readers only ever see the snapshots it pushes.
type WorldActor struct {
	sim        *simulation.Simulation
	spawner    *Spawner
	target     TargetFunc
	snapshotCh chan<- *Frame
	log        simulation.Logger

	// --- Benchmark Stats ---
	steps       int
	dropped     int
	lastLogTime time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit
func NewWorldActor(sim *simulation.Simulation, spawner *Spawner, snapshotCh chan<- *Frame, target TargetFunc, log simulation.Logger) *WorldActor {
	if target == nil {
		target = func() behavior.Target { return behavior.NoTarget }
	}
	if log == nil {
		log = simulation.NewNoOpLogger()
	}
	return &WorldActor{
		sim:         sim,
		spawner:     spawner,
		target:      target,
		snapshotCh:  snapshotCh,
		log:         log,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	w.log.Infof("world %s starting", ctx.ActorName())
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		n, err := w.spawner.Populate(w.sim)
		if err != nil {
			w.log.Errorf("initial flock: %v", err)
		}
		w.log.Infof("world started with %d agents", n)
		w.pushSnapshot()

	// The main simulation step, driven by the host loop
	case *durationpb.Duration:
		w.step(msg.AsDuration())
		w.logBenchmarks()
		w.pushSnapshot()

	case *wrapperspb.BoolValue:
		w.sim.SetPaused(msg.GetValue())
		w.pushSnapshot()

	case *emptypb.Empty:
		w.restart()
		w.pushSnapshot()

	case *structpb.Struct:
		w.retune(msg)
		w.pushSnapshot()

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	w.log.Infof("world %s stopped after %d agents, tick %d", ctx.ActorName(), w.sim.Len(), w.sim.Tick())
	return nil
}

func (w *WorldActor) step(d time.Duration) {
	if !w.sim.Paused() {
		n, err := w.spawner.Advance(w.sim, d)
		if err != nil {
			w.log.Errorf("wave %d: %v", w.spawner.Wave()+1, err)
		}
		if n > 0 {
			w.log.Infof("wave %d: %d agents joined, flock is %d", w.spawner.Wave(), n, w.sim.Len())
		}
	}
	if err := w.sim.Step(d.Seconds(), w.target()); err != nil {
		w.log.Warnf("step skipped: %v", err)
		return
	}
	w.steps++
}

func (w *WorldActor) restart() {
	w.sim.Clear()
	w.spawner.Reset()
	n, err := w.spawner.Populate(w.sim)
	if err != nil {
		w.log.Errorf("restart: %v", err)
	}
	w.log.Infof("world restarted with %d agents", n)
}

// retune overlays the received fields on the current params, missing keys are kept.
func (w *WorldActor) retune(msg *structpb.Struct) {
	raw, err := protojson.Marshal(msg)
	if err != nil {
		w.log.Errorf("retune: %v", err)
		return
	}
	p := w.sim.Params()
	if err := json.Unmarshal(raw, &p); err != nil {
		w.log.Warnf("retune rejected: %v", err)
		return
	}
	if err := w.sim.SetParams(p); err != nil {
		w.log.Warnf("retune rejected: %v", err)
	}
}

func (w *WorldActor) pushSnapshot() {
	select {
	case w.snapshotCh <- &Frame{Snapshot: w.sim.Snapshot(), Wave: w.spawner.Wave()}:
	default:
		// reader busy, skip frame
		w.dropped++
	}
}

func (w *WorldActor) logBenchmarks() {
	if time.Since(w.lastLogTime) >= time.Second {
		w.log.Debugf("steps/sec: %d, dropped snapshots: %d, agents: %d", w.steps, w.dropped, w.sim.Len())
		w.steps = 0
		w.dropped = 0
		w.lastLogTime = time.Now()
	}
}
