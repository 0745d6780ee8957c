package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	margin        = 10
	labelHeight   = 15
	sectionHeight = 25
)

// Widget is anything the panel can lay out.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
}

type section struct {
	title string
	y     float64
}

// Panel stacks widgets vertically in a box that can be hidden.
type Panel struct {
	X, Y          float64
	Width, Height float64
	Title         string
	Visible       bool

	BGColor     color.RGBA
	BorderColor color.RGBA

	widgets  []Widget
	sections []section
	next     float64 // y of the next widget
}

func NewPanel(x, y, width, height float64, title string) *Panel {
	return &Panel{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Title:       title,
		Visible:     true,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
		next:        y + 30,
	}
}

func (p *Panel) AddSection(title string) {
	p.sections = append(p.sections, section{title: title, y: p.next})
	p.next += sectionHeight
}

func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+margin, p.next+labelHeight, p.Width-2*margin, label, min, max, value)
	p.widgets = append(p.widgets, s)
	p.next += labelHeight + s.H + margin
	return s
}

func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+margin, p.next, label, value)
	p.widgets = append(p.widgets, &labeled{Widget: c, label: label, x: c.X + c.Size + 8, y: c.Y})
	p.next += c.Size + margin
	return c
}

func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+margin, p.next, p.Width-2*margin, 22, label, onClick)
	p.widgets = append(p.widgets, b)
	p.next += b.Height + margin
	return b
}

// Contains reports whether the point is over the visible panel, the host ignores such clicks.
func (p *Panel) Contains(mx, my int) bool {
	return p.Visible && contains(p.X, p.Y, p.Width, p.Height, mx, my)
}

func (p *Panel) Update() {
	if !p.Visible {
		return
	}
	for _, w := range p.widgets {
		w.Update()
	}
}

func (p *Panel) Draw(screen *ebiten.Image) {
	if !p.Visible {
		return
	}
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+margin), int(p.Y+5))

	for _, s := range p.sections {
		vector.FillRect(screen, float32(p.X+5), float32(s.y), float32(p.Width-10), 20, color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
		ebitenutil.DebugPrintAt(screen, s.title, int(p.X+margin), int(s.y+3))
	}
	for _, w := range p.widgets {
		w.Draw(screen)
	}
}

// labeled draws a caption to the right of its widget.
type labeled struct {
	Widget
	label string
	x, y  float64
}

func (l *labeled) Draw(screen *ebiten.Image) {
	l.Widget.Draw(screen)
	ebitenutil.DebugPrintAt(screen, l.label, int(l.x), int(l.y))
}
