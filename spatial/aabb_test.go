package spatial

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestAABBContainsPoint(t *testing.T) {
	box := NewAABB(r2.Vec{X: 0, Y: 0}, 10)

	tests := []struct {
		name string
		p    r2.Vec
		want bool
	}{
		{"center", r2.Vec{X: 0, Y: 0}, true},
		{"interior", r2.Vec{X: 3, Y: -7}, true},
		{"right edge", r2.Vec{X: 10, Y: 0}, true},
		{"left edge", r2.Vec{X: -10, Y: 0}, true},
		{"top edge", r2.Vec{X: 0, Y: 10}, true},
		{"corner", r2.Vec{X: -10, Y: -10}, true},
		{"just outside x", r2.Vec{X: 10.0001, Y: 0}, false},
		{"just outside y", r2.Vec{X: 0, Y: -10.0001}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := box.ContainsPoint(tc.p); got != tc.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestAABBIntersects(t *testing.T) {
	a := NewAABB(r2.Vec{X: 0, Y: 0}, 10)

	tests := []struct {
		name string
		b    AABB
		want bool
	}{
		{"same box", a, true},
		{"overlapping", NewAABB(r2.Vec{X: 15, Y: 5}, 10), true},
		{"contained", NewAABB(r2.Vec{X: 1, Y: 1}, 1), true},
		{"touching edge", NewAABB(r2.Vec{X: 20, Y: 0}, 10), false},
		{"touching corner", NewAABB(r2.Vec{X: 20, Y: 20}, 10), false},
		{"separated on y only", NewAABB(r2.Vec{X: 0, Y: 25}, 10), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Intersects(tc.b); got != tc.want {
				t.Errorf("Intersects = %v, want %v", got, tc.want)
			}
			if got := tc.b.Intersects(a); got != tc.want {
				t.Errorf("reverse Intersects = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewAABBPanicsOnNonPositiveHalf(t *testing.T) {
	for _, half := range []float64{0, -1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewAABB(half=%v) did not panic", half)
				}
			}()
			NewAABB(r2.Vec{}, half)
		}()
	}
}

func TestAABBQuadrants(t *testing.T) {
	box := NewAABB(r2.Vec{X: 0, Y: 0}, 100)
	want := map[int]r2.Vec{
		NE: {X: 50, Y: 50},
		NW: {X: -50, Y: 50},
		SE: {X: 50, Y: -50},
		SW: {X: -50, Y: -50},
	}
	for q, c := range want {
		got := box.quadrant(q)
		if got.Center != c || got.Half != 50 {
			t.Errorf("quadrant %d = %+v, want center %v half 50", q, got, c)
		}
	}
}
