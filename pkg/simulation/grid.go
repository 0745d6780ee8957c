package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/behavior"
)

// minCellSize keeps the grid from degenerating into millions of tiny cells.
const minCellSize = 10.0

type gridKey struct {
	x, y int
}

// Grid is a spatial hash over the tick snapshot.
// With the cell size set to the neighbour radius a query only visits the 3x3 block around the subject.
type Grid struct {
	cellSize float64
	cells    map[gridKey][]int // indices into snapshot
	snapshot []behavior.Body
}

// NewGrid creates an empty grid, cellSize is clamped to a minimum of 10.
func NewGrid(cellSize float64) *Grid {
	return &Grid{
		cellSize: math.Max(cellSize, minCellSize),
		cells:    make(map[gridKey][]int),
	}
}

// CellSize returns the side of one grid cell.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

func (g *Grid) key(x, y float64) gridKey {
	// floor, not int(): a boid at x=-1 belongs to cell -1, not cell 0
	return gridKey{x: int(math.Floor(x / g.cellSize)), y: int(math.Floor(y / g.cellSize))}
}

// Build re-buckets every body. Slices are truncated instead of reallocated,
// so after the first ticks the grid allocates almost nothing.
func (g *Grid) Build(snapshot []behavior.Body) {
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	g.snapshot = snapshot
	for i, b := range snapshot {
		k := g.key(b.Position.X, b.Position.Y)
		g.cells[k] = append(g.cells[k], i)
	}
}

// Query scans only the cells overlapping the square around the query disc.
func (g *Grid) Query(subject int, radius float64, dst []behavior.Body) []behavior.Body {
	me := g.snapshot[subject].Position
	radiusSq := radius * radius

	lo := g.key(me.X-radius, me.Y-radius)
	hi := g.key(me.X+radius, me.Y+radius)

	for gx := lo.x; gx <= hi.x; gx++ {
		for gy := lo.y; gy <= hi.y; gy++ {
			indices, ok := g.cells[gridKey{x: gx, y: gy}]
			if !ok {
				continue
			}
			for _, j := range indices {
				if j == subject {
					continue
				}
				other := g.snapshot[j]
				distSq := me.DistanceSquaredTo(other.Position)
				if distSq > 0 && distSq < radiusSq {
					dst = append(dst, other)
				}
			}
		}
	}
	return dst
}

// occupied returns the number of non-empty cells, used by tests and debug logs.
func (g *Grid) occupied() int {
	n := 0
	for _, c := range g.cells {
		if len(c) > 0 {
			n++
		}
	}
	return n
}
