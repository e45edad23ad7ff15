package geometry

// Triangle is a triple of points, ordered as given (no winding fix-up).
type Triangle struct {
	A, B, C Point
}

// Area returns the unsigned area of t.
func (t Triangle) Area() float64 {
	cross := (t.B.X-t.A.X)*(t.C.Y-t.A.Y) - (t.C.X-t.A.X)*(t.B.Y-t.A.Y)
	if cross < 0 {
		cross = -cross
	}
	return cross / 2
}

const containmentEpsilon = 1e-3

// PointInTriangle reports whether p lies inside (or on the tolerant edge
// of) t, via the barycentric vector dot-product method. Degenerate
// triangles (near-zero denominator) are reported as non-containing.
func PointInTriangle(p Point, t Triangle) bool {
	v0 := t.C.Sub(t.A)
	v1 := t.B.Sub(t.A)
	v2 := p.Sub(t.A)

	dot00 := v0.Dot(v0)
	dot01 := v0.Dot(v1)
	dot02 := v0.Dot(v2)
	dot11 := v1.Dot(v1)
	dot12 := v1.Dot(v2)

	denom := dot00*dot11 - dot01*dot01
	if denom < 1e-10 && denom > -1e-10 {
		return false
	}

	invDenom := 1 / denom
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return u >= -containmentEpsilon && v >= -containmentEpsilon && u+v <= 1+containmentEpsilon
}

// InCircumcircle reports whether p lies strictly inside the circumcircle
// of (a,b,c): translate so p is the origin, then take the sign of the
// 3x3 determinant with rows (x, y, x^2+y^2), taken relative to the winding
// of (a,b,c) so either vertex order gives the same answer. Exactly zero is
// treated as outside.
func InCircumcircle(p, a, b, c Point) bool {
	ax, ay := a.X-p.X, a.Y-p.Y
	bx, by := b.X-p.X, b.Y-p.Y
	cx, cy := c.X-p.X, c.Y-p.Y

	aSq := ax*ax + ay*ay
	bSq := bx*bx + by*by
	cSq := cx*cx + cy*cy

	det := ax*(by*cSq-bSq*cy) - ay*(bx*cSq-bSq*cx) + aSq*(bx*cy-by*cx)

	orient := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if orient < 0 {
		det = -det
	}

	return det > 0
}
