package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// unit0 returns the unit vector of v, or the zero vector when v has no length.
func unit0(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// rotate rotates v counter-clockwise by angle radians.
func rotate(v r2.Vec, angle float64) r2.Vec {
	sin, cos := math.Sincos(angle)
	return r2.Vec{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// InView reports whether dir lies inside the vision cone around heading:
// the cosine of the angle between them must exceed threshold. Zero-length
// vectors are never in view.
func InView(heading, dir r2.Vec, threshold float64) bool {
	h, d := unit0(heading), unit0(dir)
	if h == (r2.Vec{}) || d == (r2.Vec{}) {
		return false
	}
	return r2.Dot(h, d) > threshold
}

// wrap maps v into [0, extent).
func wrap(v, extent float64) float64 {
	v = math.Mod(v, extent)
	if v < 0 {
		v += extent
	}
	return v
}

// WrapPosition maps p into the square world [0, extent) on both axes.
func WrapPosition(p r2.Vec, extent float64) r2.Vec {
	return r2.Vec{X: wrap(p.X, extent), Y: wrap(p.Y, extent)}
}
