package simulation

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/behavior"
)

// NeighborIndex answers radius queries over the read snapshot of one tick.
// Build is called once per tick before any Query; Query must be safe to call
// from several goroutines once Build has returned.
type NeighborIndex interface {
	Build(snapshot []behavior.Body)
	// Query appends to dst every body j != subject with 0 < distance < radius and returns dst.
	Query(subject int, radius float64, dst []behavior.Body) []behavior.Body
}

// Names accepted by Config.NeighborIndex.
const (
	IndexBruteForce = "bruteforce"
	IndexGrid       = "grid"
)

// NewNeighborIndex returns the index registered under name.
// cellSize is only used by the grid.
func NewNeighborIndex(name string, cellSize float64) (NeighborIndex, error) {
	switch name {
	case IndexBruteForce, "":
		return &BruteForce{}, nil
	case IndexGrid:
		return NewGrid(cellSize), nil
	default:
		return nil, fmt.Errorf("%w: unknown neighbor index %q", ErrInvalidConfig, name)
	}
}

// BruteForce scans every body for every query: O(n) per agent, O(n²) per tick.
// Perfectly fine for the tens of boids of a wave game.
type BruteForce struct {
	snapshot []behavior.Body
}

func (b *BruteForce) Build(snapshot []behavior.Body) {
	b.snapshot = snapshot
}

func (b *BruteForce) Query(subject int, radius float64, dst []behavior.Body) []behavior.Body {
	me := b.snapshot[subject].Position
	radiusSq := radius * radius
	for j, other := range b.snapshot {
		if j == subject {
			continue
		}
		distSq := me.DistanceSquaredTo(other.Position)
		if distSq > 0 && distSq < radiusSq {
			dst = append(dst, other)
		}
	}
	return dst
}
