package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/simulation"
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	playerShip *ebiten.Image
)

func init() {
	whiteImage.Fill(color.White)

	// . = transparent, C = cockpit, B = hull, D = wings, F = exhaust
	design := []string{
		".......C.......",
		"......CWC......",
		"......CBC......",
		".....BBBBB.....",
		"....B.B.B.B....",
		"...D..B.B..D...",
		"..D...F.F...D..",
		".D...........D.",
	}
	palette := map[rune]color.RGBA{
		'C': {R: 0, G: 255, B: 255, A: 255},
		'W': {R: 255, G: 255, B: 255, A: 255},
		'B': {R: 255, G: 200, B: 0, A: 255},
		'D': {R: 200, G: 120, B: 0, A: 255},
		'F': {R: 255, G: 100, B: 0, A: 200},
	}
	playerShip = generateSprite(design, palette)
}

// generateSprite converts an ASCII grid into an Ebiten image
func generateSprite(design []string, palette map[rune]color.RGBA) *ebiten.Image {
	h := len(design)
	w := len(design[0])
	img := ebiten.NewImage(w, h)

	for y, row := range design {
		for x, char := range row {
			if col, ok := palette[char]; ok {
				img.Set(x, y, col)
			}
		}
	}
	return img
}

func drawPlayer(screen *ebiten.Image, at geometry.Vector2D) {
	op := &ebiten.DrawImageOptions{}
	w, h := playerShip.Bounds().Dx(), playerShip.Bounds().Dy()
	op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
	op.GeoM.Scale(1.5, 1.5)
	op.GeoM.Translate(at.X, at.Y)
	screen.DrawImage(playerShip, op)
}

// drawBoid draws a triangle pointing along the heading, sized by the collision radius.
func drawBoid(screen *ebiten.Image, a *simulation.Agent) {
	angle := a.Heading
	tip := a.Radius * 0.75
	side := a.Radius * 0.625
	if tip == 0 {
		tip, side = 6, 5
	}

	tipX := a.Position.X + math.Cos(angle)*tip
	tipY := a.Position.Y + math.Sin(angle)*tip
	rightX := a.Position.X + math.Cos(angle+2.5)*side
	rightY := a.Position.Y + math.Sin(angle+2.5)*side
	leftX := a.Position.X + math.Cos(angle-2.5)*side
	leftY := a.Position.Y + math.Sin(angle-2.5)*side

	// faster boids are drawn brighter
	r, gr, b := float32(0.4), float32(0.8), float32(1.0)
	if a.Params.MaxSpeed > 0 {
		k := float32(0.5 + 0.5*a.Velocity.Len()/a.Params.MaxSpeed)
		r, gr, b = r*k, gr*k, b*k
	}

	vertices := []ebiten.Vertex{
		{DstX: float32(tipX), DstY: float32(tipY), SrcX: 1, SrcY: 1, ColorR: r, ColorG: gr, ColorB: b, ColorA: 1},
		{DstX: float32(rightX), DstY: float32(rightY), SrcX: 1, SrcY: 1, ColorR: r, ColorG: gr, ColorB: b, ColorA: 1},
		{DstX: float32(leftX), DstY: float32(leftY), SrcX: 1, SrcY: 1, ColorR: r, ColorG: gr, ColorB: b, ColorA: 1},
	}
	indices := []uint16{0, 1, 2}

	screen.DrawTriangles(vertices, indices, whiteImage, &ebiten.DrawTrianglesOptions{})
}
