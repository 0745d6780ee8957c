package main

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/ui"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/world"
	"go.uber.org/zap"
)

const playerRadius = 12

// Game is the ebiten side: it reads frames from the host, draws them,
// and turns the cursor into the flock's target.
type Game struct {
	ctx   context.Context
	host  *world.Host
	cfg   simulation.Config
	frame *world.Frame
	log   *zap.SugaredLogger

	panel           *ui.Panel
	widgetSepWeight *ui.Slider
	widgetAliWeight *ui.Slider
	widgetCohWeight *ui.Slider
	widgetTarget    *ui.Slider // seek or chase weight, depending on the flavor
	widgetMaxSpeed  *ui.Slider
	widgetMaxForce  *ui.Slider
	widgetSepRadius *ui.Slider
	widgetShowRange *ui.Checkbox

	paused       bool
	restartAsked bool
	pauseAsked   bool

	hits     int
	touching map[simulation.AgentID]bool
	player   geometry.Vector2D
}

func NewGame(ctx context.Context, host *world.Host, cfg simulation.Config, log *zap.SugaredLogger) *Game {
	g := &Game{
		ctx:      ctx,
		host:     host,
		cfg:      cfg,
		frame:    &world.Frame{Snapshot: &simulation.Snapshot{}},
		log:      log,
		touching: make(map[simulation.AgentID]bool),
	}

	p := cfg.Params
	panel := ui.NewPanel(10, 10, 240, 430, "Flock ("+cfg.Flavor+")")
	panel.AddSection("Weights")
	g.widgetSepWeight = panel.AddSlider("Separation", 0, 5, p.SeparationWeight)
	g.widgetAliWeight = panel.AddSlider("Alignment", 0, 5, p.AlignmentWeight)
	g.widgetCohWeight = panel.AddSlider("Cohesion", 0, 5, p.CohesionWeight)
	if cfg.Flavor == simulation.FlavorSurvival {
		g.widgetTarget = panel.AddSlider("Chase", 0, 5, p.ChaseWeight)
	} else {
		g.widgetTarget = panel.AddSlider("Seek", 0, 5, p.SeekWeight)
	}
	panel.AddSection("Physics")
	g.widgetMaxSpeed = panel.AddSlider("Max Speed", 10, 400, p.MaxSpeed)
	g.widgetMaxForce = panel.AddSlider("Max Force", 1, 200, p.MaxForce)
	g.widgetSepRadius = panel.AddSlider("Separation Radius", 5, 150, p.SeparationRadius)
	panel.AddSection("View")
	g.widgetShowRange = panel.AddCheckbox("Show separation radius", false)
	panel.AddButton("Pause / Resume (P)", func() { g.pauseAsked = true })
	panel.AddButton("Restart (R)", func() { g.restartAsked = true })
	g.panel = panel
	return g
}

func (g *Game) Update() error {
	g.panel.Update()

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.pauseAsked = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.restartAsked = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.panel.Visible = !g.panel.Visible
	}

	if g.pauseAsked {
		g.pauseAsked = false
		g.paused = !g.paused
		if err := g.host.SetPaused(g.ctx, g.paused); err != nil {
			return err
		}
	}
	if g.restartAsked {
		g.restartAsked = false
		g.log.Infof("restart after %d hits at wave %d", g.hits, g.frame.Wave)
		g.hits = 0
		clear(g.touching)
		if err := g.host.Restart(g.ctx); err != nil {
			return err
		}
	}
	if g.slidersChanged() {
		if err := g.host.SetParams(g.ctx, g.params()); err != nil {
			return err
		}
	}

	// Latest frame, non-blocking
	select {
	case f := <-g.host.Frames():
		g.frame = f
	default:
	}

	mx, my := ebiten.CursorPosition()
	g.player = geometry.Vector2D{X: float64(mx), Y: float64(my)}
	if g.panel.Contains(mx, my) || !g.inWorld(g.player) {
		g.host.SetTarget(behavior.NoTarget)
	} else {
		g.host.SetTarget(behavior.TargetAt(g.player))
		g.countHits()
	}

	return g.host.Tick(g.ctx, time.Second/time.Duration(ebiten.TPS()))
}

// countHits counts every agent that starts touching the player, a contact is counted once.
func (g *Game) countHits() {
	now := g.frame.Touching(g.player, playerRadius)
	seen := make(map[simulation.AgentID]bool, len(now))
	for _, id := range now {
		if !g.touching[id] {
			g.hits++
		}
		seen[id] = true
	}
	g.touching = seen
}

func (g *Game) slidersChanged() bool {
	changed := false
	for _, s := range []*ui.Slider{g.widgetSepWeight, g.widgetAliWeight, g.widgetCohWeight, g.widgetTarget, g.widgetMaxSpeed, g.widgetMaxForce, g.widgetSepRadius} {
		// no short-circuit, every slider must be reset
		changed = s.Changed() || changed
	}
	return changed
}

func (g *Game) params() behavior.Params {
	p := g.cfg.Params
	p.SeparationWeight = g.widgetSepWeight.Value
	p.AlignmentWeight = g.widgetAliWeight.Value
	p.CohesionWeight = g.widgetCohWeight.Value
	if g.cfg.Flavor == simulation.FlavorSurvival {
		p.ChaseWeight = g.widgetTarget.Value
	} else {
		p.SeekWeight = g.widgetTarget.Value
	}
	p.MaxSpeed = g.widgetMaxSpeed.Value
	p.MaxForce = g.widgetMaxForce.Value
	p.SeparationRadius = g.widgetSepRadius.Value
	return p
}

func (g *Game) inWorld(p geometry.Vector2D) bool {
	return geometry.NewRect(0, 0, g.cfg.WorldWidth, g.cfg.WorldHeight).Contains(p)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 10, G: 10, B: 30, A: 255})

	if g.cfg.Boundary == "repel" {
		b := g.cfg.Bounds
		vector.StrokeRect(screen, float32(b.Min.X), float32(b.Min.Y), float32(b.Width()), float32(b.Height()), 1, color.RGBA{R: 80, G: 80, B: 120, A: 255}, true)
	}

	for i := range g.frame.Agents {
		a := &g.frame.Agents[i]
		if g.widgetShowRange.Value {
			vector.StrokeCircle(screen, float32(a.Position.X), float32(a.Position.Y), float32(a.Params.SeparationRadius), 1, color.RGBA{R: 50, G: 100, B: 255, A: 60}, true)
		}
		drawBoid(screen, a)
	}

	drawPlayer(screen, g.player)
	g.panel.Draw(screen)

	status := ""
	if g.frame.Paused {
		status = "PAUSED\n"
	}
	msg := fmt.Sprintf("%sFPS: %.1f\nTPS: %.1f\n\nAgents: %d\nWave: %d\nTime: %.1fs\nHits: %d",
		status,
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		len(g.frame.Agents),
		g.frame.Wave,
		g.frame.Elapsed,
		g.hits)
	ebitenutil.DebugPrintAt(screen, msg, int(g.cfg.WorldWidth)-120, 10)
}

func (g *Game) Layout(w, h int) (int, int) { return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight) }
