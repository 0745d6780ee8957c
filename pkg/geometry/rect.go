package geometry

// Rect is an axis-aligned rectangle, Min is the top-left corner in screen coordinates.
type Rect struct {
	Min Vector2D `json:"min"`
	Max Vector2D `json:"max"`
}

// NewRect builds a Rect from its two corners.
func NewRect(minX, minY, maxX, maxY float64) Rect {
	return Rect{Min: Vector2D{minX, minY}, Max: Vector2D{maxX, maxY}}
}

// Width of the rectangle.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height of the rectangle.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether the rectangle has no area (zero value included).
func (r Rect) Empty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// Contains reports whether p lies inside the rectangle, edges included.
func (r Rect) Contains(p Vector2D) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Wrap teleports each coordinate that lies strictly outside the rectangle to the opposite edge.
// A coordinate exactly on an edge is left where it is.
func (r Rect) Wrap(p Vector2D) Vector2D {
	if p.X < r.Min.X {
		p.X = r.Max.X
	} else if p.X > r.Max.X {
		p.X = r.Min.X
	}
	if p.Y < r.Min.Y {
		p.Y = r.Max.Y
	} else if p.Y > r.Max.Y {
		p.Y = r.Min.Y
	}
	return p
}
