// Package geometry holds the 2-D primitives shared by the triangulator,
// the warper and the overlay placer: points, triangles, barycentric and
// circumcircle predicates, and the closed-form affine solve.
package geometry

import "math"

// Point is a 2-D coordinate in image pixel space. NaN/Inf components mark
// an absent landmark; use Valid to test.
type Point struct {
	X, Y float64
}

// Valid reports whether p has finite coordinates.
func (p Point) Valid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// InBounds reports whether p lies in [0,w) x [0,h).
func (p Point) InBounds(w, h int) bool {
	return p.X >= 0 && p.X < float64(w) && p.Y >= 0 && p.Y < float64(h)
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Dot returns the dot product of p and q treated as vectors.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Norm returns the Euclidean length of p treated as a vector.
func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// Scale returns p scaled independently by sx, sy.
func (p Point) Scale(sx, sy float64) Point {
	return Point{p.X * sx, p.Y * sy}
}
