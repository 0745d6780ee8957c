package geometry

import "testing"

func TestRect_Wrap(t *testing.T) {
	r := NewRect(0, 0, 800, 600)

	tests := []struct {
		name string
		in   Vector2D
		want Vector2D
	}{
		{"inside is unchanged", Vector2D{400, 300}, Vector2D{400, 300}},
		{"exactly on min edge is not wrapped", Vector2D{0, 0}, Vector2D{0, 0}},
		{"exactly on max edge is not wrapped", Vector2D{800, 600}, Vector2D{800, 600}},
		{"just past left goes to right edge", Vector2D{-0.01, 10}, Vector2D{800, 10}},
		{"just past right goes to left edge", Vector2D{800.01, 10}, Vector2D{0, 10}},
		{"just past top goes to bottom edge", Vector2D{10, -1}, Vector2D{10, 600}},
		{"just past bottom goes to top edge", Vector2D{10, 601}, Vector2D{10, 0}},
		{"corner wraps both axes", Vector2D{-5, 605}, Vector2D{800, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Wrap(tt.in)
			if got != tt.want {
				t.Errorf("Wrap(%v) = %v; want %v", tt.in, got, tt.want)
			}
			// wrapping lands on an edge, so a second wrap is a no-op
			if again := r.Wrap(got); again != got {
				t.Errorf("Wrap is not idempotent: %v -> %v", got, again)
			}
		})
	}
}

func TestRect_Basics(t *testing.T) {
	r := NewRect(50, 50, 1230, 670)
	if r.Width() != 1180 || r.Height() != 620 {
		t.Errorf("size = %vx%v; want 1180x620", r.Width(), r.Height())
	}
	if r.Empty() {
		t.Error("non-degenerate rect reported empty")
	}
	if !(Rect{}).Empty() {
		t.Error("zero rect should be empty")
	}
	if !r.Contains(Vector2D{50, 670}) {
		t.Error("edge point should be contained")
	}
	if r.Contains(Vector2D{49, 100}) {
		t.Error("outside point should not be contained")
	}
}
