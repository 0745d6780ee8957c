package simulation

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
)

func at(x, y float64) behavior.Body {
	return behavior.Body{Position: geometry.Vector2D{X: x, Y: y}}
}

func TestGrid_Build(t *testing.T) {
	// cell size = 100
	g := NewGrid(100)
	snapshot := []behavior.Body{
		at(50, 50),   // cell 0,0
		at(150, 50),  // cell 1,0
		at(50, 150),  // cell 0,1
		at(250, 250), // cell 2,2
		at(-1, -1),   // cell -1,-1 (floor, not truncation)
	}

	g.Build(snapshot)

	want := map[gridKey]int{
		{x: 0, y: 0}:   0,
		{x: 1, y: 0}:   1,
		{x: 0, y: 1}:   2,
		{x: 2, y: 2}:   3,
		{x: -1, y: -1}: 4,
	}
	for key, idx := range want {
		if list := g.cells[key]; !slices.Contains(list, idx) {
			t.Errorf("Expected body %d in cell %v, got %v", idx, key, list)
		}
	}
	if slices.Contains(g.cells[gridKey{x: 0, y: 0}], 1) {
		t.Errorf("Did not expect body 1 in cell 0,0")
	}
	if got := g.occupied(); got != 5 {
		t.Errorf("occupied cells = %d; want 5", got)
	}

	// rebuilding with everybody in one cell keeps the old cells but empties them
	g.Build([]behavior.Body{at(10, 10), at(20, 20)})
	if got := g.occupied(); got != 1 {
		t.Errorf("occupied cells after rebuild = %d; want 1", got)
	}
}

func TestGrid_Query(t *testing.T) {
	g := NewGrid(100)
	snapshot := []behavior.Body{
		at(150, 150), // subject, cell 1,1
		at(60, 60),   // cell 0,0, distance ~127
		at(120, 150), // same cell, distance 30
		at(350, 350), // cell 3,3, far
		at(150, 150), // coincident with subject
		at(150, 240), // cell 1,2, distance 90
	}
	g.Build(snapshot)

	got := g.Query(0, 100, nil)
	positions := make([]geometry.Vector2D, 0, len(got))
	for _, b := range got {
		positions = append(positions, b.Position)
	}

	if len(got) != 2 {
		t.Fatalf("Query returned %d bodies (%v); want 2", len(got), positions)
	}
	if !slices.Contains(positions, geometry.Vector2D{X: 120, Y: 150}) || !slices.Contains(positions, geometry.Vector2D{X: 150, Y: 240}) {
		t.Errorf("Query = %v; want (120,150) and (150,240)", positions)
	}
}

func TestGrid_MinimumCellSize(t *testing.T) {
	if got := NewGrid(0).CellSize(); got != minCellSize {
		t.Errorf("CellSize = %v; want %v", got, minCellSize)
	}
}

func TestNeighborIndexes_Agree(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	snapshot := make([]behavior.Body, 300)
	for i := range snapshot {
		snapshot[i] = at(rng.Float64()*1000-100, rng.Float64()*800-100)
	}
	// a couple of coincident bodies
	snapshot[10] = snapshot[20]

	brute := &BruteForce{}
	brute.Build(snapshot)

	for _, cell := range []float64{25, 75, 200} {
		grid := NewGrid(cell)
		grid.Build(snapshot)

		for _, radius := range []float64{50, 75, 120} {
			for i := range snapshot {
				want := sortedPositions(brute.Query(i, radius, nil))
				got := sortedPositions(grid.Query(i, radius, nil))
				if !slices.Equal(want, got) {
					t.Fatalf("cell=%v radius=%v subject=%d: grid found %d neighbours, brute force %d",
						cell, radius, i, len(got), len(want))
				}
			}
		}
	}
}

func TestNewNeighborIndex(t *testing.T) {
	if idx, err := NewNeighborIndex(IndexGrid, 75); err != nil {
		t.Fatal(err)
	} else if _, ok := idx.(*Grid); !ok {
		t.Errorf("grid index has type %T", idx)
	}
	if idx, err := NewNeighborIndex("", 75); err != nil {
		t.Fatal(err)
	} else if _, ok := idx.(*BruteForce); !ok {
		t.Errorf("default index has type %T", idx)
	}
	if _, err := NewNeighborIndex("kdtree", 75); err == nil {
		t.Error("unknown index should fail")
	}
}

func sortedPositions(bodies []behavior.Body) []geometry.Vector2D {
	out := make([]geometry.Vector2D, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, b.Position)
	}
	slices.SortFunc(out, func(a, b geometry.Vector2D) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})
	return out
}

func BenchmarkGrid_Build(b *testing.B) {
	snapshot := make([]behavior.Body, 1000)
	for i := range snapshot {
		snapshot[i] = at(float64(i), float64(i%700))
	}
	g := NewGrid(75)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Build(snapshot)
	}
}

func BenchmarkNeighborQuery(b *testing.B) {
	snapshot := make([]behavior.Body, 1000)
	rng := rand.New(rand.NewPCG(1, 1))
	for i := range snapshot {
		snapshot[i] = at(rng.Float64()*1280, rng.Float64()*720)
	}
	indexes := map[string]NeighborIndex{
		IndexBruteForce: &BruteForce{},
		IndexGrid:       NewGrid(75),
	}
	for name, idx := range indexes {
		idx.Build(snapshot)
		b.Run(name, func(b *testing.B) {
			var buf []behavior.Body
			for i := 0; i < b.N; i++ {
				buf = idx.Query(i%len(snapshot), 75, buf[:0])
			}
		})
	}
}
