// Package geometry holds the pure point math behind zone editing: centroids,
// centroid-relative expansion and viewport rescaling.
package geometry

import (
	"gonum.org/v1/gonum/floats"
)

// Point is a position in the overlay's logical coordinate space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in logical units.
type Size struct {
	W float64
	H float64
}

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Centroid returns the arithmetic mean of pts. An empty slice yields the origin.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	n := float64(len(pts))
	return Point{X: floats.Sum(xs) / n, Y: floats.Sum(ys) / n}
}

// Expand scales every point about the centroid by (1 + ratio). Negative ratios
// shrink, zero returns an identical copy. The input is never modified.
func Expand(pts []Point, ratio float64) []Point {
	out := make([]Point, len(pts))
	if ratio == 0 {
		copy(out, pts)
		return out
	}
	c := Centroid(pts)
	k := 1 + ratio
	for i, p := range pts {
		out[i] = Point{X: c.X + (p.X-c.X)*k, Y: c.Y + (p.Y-c.Y)*k}
	}
	return out
}

// CentroidQuad is Centroid for a fixed four-point zone.
func CentroidQuad(q [4]Point) Point { return Centroid(q[:]) }

// ExpandQuad is Expand for a fixed four-point zone.
func ExpandQuad(q [4]Point, ratio float64) [4]Point {
	var out [4]Point
	copy(out[:], Expand(q[:], ratio))
	return out
}

// Rescale maps points captured in a `from` viewport into a `to` viewport,
// scaling each axis independently. Empty sizes return an unchanged copy.
func Rescale(pts []Point, from, to Size) []Point {
	out := make([]Point, len(pts))
	copy(out, pts)
	if from.Empty() || to.Empty() || from == to {
		return out
	}
	sx, sy := to.W/from.W, to.H/from.H
	for i := range out {
		out[i].X *= sx
		out[i].Y *= sy
	}
	return out
}
