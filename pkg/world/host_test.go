package world

import (
	"context"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameTimeout = 5 * time.Second

func startHost(t *testing.T, cfg *simulation.Config, hostCfg HostConfig) *Host {
	t.Helper()
	ctx := context.Background()
	h, err := NewHost(ctx, cfg, hostCfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, h.Stop(ctx))
	})
	return h
}

func nextFrame(t *testing.T, h *Host) *Frame {
	t.Helper()
	select {
	case f := <-h.Frames():
		return f
	case <-time.After(frameTimeout):
		t.Fatal("no frame from the world")
		return nil
	}
}

func TestHost_Lifecycle(t *testing.T) {
	ctx := context.Background()
	h := startHost(t, simulation.ClassicConfig(), DefaultHostConfig())

	first := nextFrame(t, h)
	assert.Len(t, first.Agents, 20)
	assert.Zero(t, first.Tick)
	assert.Zero(t, first.Wave)

	require.NoError(t, h.Tick(ctx, time.Second/60))
	f := nextFrame(t, h)
	assert.Equal(t, uint64(1), f.Tick)
	assert.InDelta(t, 1.0/60, f.Elapsed, 1e-9)

	// pausing freezes the flock, ticks are still answered
	require.NoError(t, h.SetPaused(ctx, true))
	paused := nextFrame(t, h)
	assert.True(t, paused.Paused)
	require.NoError(t, h.Tick(ctx, time.Second/60))
	still := nextFrame(t, h)
	assert.Equal(t, paused.Tick, still.Tick)
	assert.Equal(t, paused.Agents, still.Agents)

	require.NoError(t, h.SetPaused(ctx, false))
	assert.False(t, nextFrame(t, h).Paused)

	require.NoError(t, h.Restart(ctx))
	restarted := nextFrame(t, h)
	require.Len(t, restarted.Agents, 20)
	for _, a := range restarted.Agents {
		_, found := first.Find(a.ID)
		assert.False(t, found, "agent %d survived the restart", a.ID)
	}
}

func TestHost_Waves(t *testing.T) {
	ctx := context.Background()
	hostCfg := DefaultHostConfig()
	hostCfg.InitialAgents = 5
	hostCfg.PerWave = 3
	hostCfg.WaveInterval = time.Second
	h := startHost(t, simulation.SurvivalConfig(), hostCfg)
	require.Len(t, nextFrame(t, h).Agents, 5)

	require.NoError(t, h.Tick(ctx, time.Second))
	f := nextFrame(t, h)
	assert.Len(t, f.Agents, 8)
	assert.Equal(t, 1, f.Wave)

	// no wave while paused
	require.NoError(t, h.SetPaused(ctx, true))
	nextFrame(t, h)
	require.NoError(t, h.Tick(ctx, 5*time.Second))
	f = nextFrame(t, h)
	assert.Len(t, f.Agents, 8)
	assert.Equal(t, 1, f.Wave)
}

func TestHost_TargetIsSought(t *testing.T) {
	ctx := context.Background()
	hostCfg := DefaultHostConfig()
	hostCfg.InitialAgents = 1
	hostCfg.SpawnArea = geometry.NewRect(100, 100, 100.5, 100.5)
	cfg := simulation.ClassicConfig()
	cfg.Boundary = "none"
	cfg.MaxForce = 100
	h := startHost(t, cfg, hostCfg)
	start := nextFrame(t, h).Agents[0]

	target := geometry.Vector2D{X: 1000, Y: start.Position.Y}
	h.SetTarget(behavior.TargetAt(target))
	for i := 0; i < 240; i++ {
		require.NoError(t, h.Tick(ctx, time.Second/60))
		nextFrame(t, h)
	}
	require.NoError(t, h.Tick(ctx, time.Second/60))
	end := nextFrame(t, h).Agents[0]

	assert.Less(t, end.Position.DistanceTo(target), start.Position.DistanceTo(target))
	assert.Greater(t, end.Velocity.X, 0.0)
}

func TestHost_SetParams(t *testing.T) {
	ctx := context.Background()
	h := startHost(t, simulation.SurvivalConfig(), DefaultHostConfig())
	nextFrame(t, h)

	p := behavior.DefaultParams()
	p.MaxSpeed = 50
	p.MaxForce = 20
	require.NoError(t, h.SetParams(ctx, p))
	f := nextFrame(t, h)
	require.Len(t, f.Agents, 20)
	for _, a := range f.Agents {
		assert.Equal(t, p, a.Params)
		assert.LessOrEqual(t, a.Velocity.Len(), 50+1e-9)
	}

	// invalid params are ignored
	p.MaxSpeed = 0
	require.NoError(t, h.SetParams(ctx, p))
	f = nextFrame(t, h)
	assert.Equal(t, 50.0, f.Agents[0].Params.MaxSpeed)
}

func TestHost_InvalidTickIsSkipped(t *testing.T) {
	ctx := context.Background()
	h := startHost(t, simulation.ClassicConfig(), DefaultHostConfig())
	nextFrame(t, h)

	require.NoError(t, h.Tick(ctx, -time.Second))
	f := nextFrame(t, h)
	assert.Zero(t, f.Tick)
}

func TestNewHost_InvalidConfig(t *testing.T) {
	ctx := context.Background()

	cfg := simulation.ClassicConfig()
	cfg.MaxSpeed = -1
	_, err := NewHost(ctx, cfg, DefaultHostConfig())
	assert.ErrorIs(t, err, simulation.ErrInvalidConfig)

	hostCfg := DefaultHostConfig()
	hostCfg.PerWave = -3
	_, err = NewHost(ctx, simulation.ClassicConfig(), hostCfg)
	assert.ErrorIs(t, err, ErrInvalidHostConfig)
}
