package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// RectSDF returns the signed distance from p to the axis-aligned rectangle
// with the given centre and half-size: negative inside, zero on the
// boundary, positive outside.
func RectSDF(p, center, half r2.Vec) float64 {
	tl := r2.Sub(center, half)
	br := r2.Add(center, half)
	d := r2.Vec{
		X: math.Max(tl.X-p.X, p.X-br.X),
		Y: math.Max(tl.Y-p.Y, p.Y-br.Y),
	}
	outside := r2.Norm(r2.Vec{X: math.Max(d.X, 0), Y: math.Max(d.Y, 0)})
	inside := math.Min(math.Max(d.X, d.Y), 0)
	return outside + inside
}

// NearestPoint returns the point on the rectangle closest to p and whether p
// lies strictly inside it. Outside (or on an edge) the answer is the clamped
// projection. Inside it is the projection onto the nearest face; ties go to
// +X, then -X, then +Y, then -Y.
func NearestPoint(p, center, half r2.Vec) (r2.Vec, bool) {
	tl := r2.Sub(center, half)
	br := r2.Add(center, half)

	inside := p.X > tl.X && p.X < br.X && p.Y > tl.Y && p.Y < br.Y
	if !inside {
		return r2.Vec{
			X: math.Max(tl.X, math.Min(p.X, br.X)),
			Y: math.Max(tl.Y, math.Min(p.Y, br.Y)),
		}, false
	}

	switch nearestFace(p, tl, br) {
	case faceRight:
		return r2.Vec{X: br.X, Y: p.Y}, true
	case faceLeft:
		return r2.Vec{X: tl.X, Y: p.Y}, true
	case faceTop:
		return r2.Vec{X: p.X, Y: br.Y}, true
	default:
		return r2.Vec{X: p.X, Y: tl.Y}, true
	}
}

type face uint8

const (
	faceRight face = iota // +X
	faceLeft              // -X
	faceTop               // +Y
	faceBottom            // -Y
)

// faceNormals are the outward unit normals indexed by face.
var faceNormals = [4]r2.Vec{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// nearestFace picks the face with the smallest absolute distance to p,
// preferring earlier faces on ties.
func nearestFace(p, tl, br r2.Vec) face {
	dists := [4]float64{
		math.Abs(br.X - p.X),
		math.Abs(p.X - tl.X),
		math.Abs(br.Y - p.Y),
		math.Abs(p.Y - tl.Y),
	}
	best := faceRight
	for f := faceLeft; f <= faceBottom; f++ {
		if dists[f] < dists[best] {
			best = f
		}
	}
	return best
}
