package geometry

// Affine is the 2-D map (x',y') = (a*x+b*y+c, d*x+e*y+f).
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// Apply maps p through the transform.
func (m Affine) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

const affineDetEpsilon = 1e-10

// FromTriangles solves the affine transform mapping src -> dst, closed
// form. ok is false if the src triangle is degenerate (|det| < 1e-10), in
// which case m is the zero value.
func FromTriangles(src, dst Triangle) (m Affine, ok bool) {
	x1, y1 := src.A.X, src.A.Y
	x2, y2 := src.B.X, src.B.Y
	x3, y3 := src.C.X, src.C.Y

	det := x1*(y2-y3) - y1*(x2-x3) + (x2*y3 - x3*y2)
	if det < affineDetEpsilon && det > -affineDetEpsilon {
		return Affine{}, false
	}
	invDet := 1 / det

	u1, v1 := dst.A.X, dst.A.Y
	u2, v2 := dst.B.X, dst.B.Y
	u3, v3 := dst.C.X, dst.C.Y

	a := (u1*(y2-y3) + u2*(y3-y1) + u3*(y1-y2)) * invDet
	b := (u1*(x3-x2) + u2*(x1-x3) + u3*(x2-x1)) * invDet
	c := (u1*(x2*y3-x3*y2) + u2*(x3*y1-x1*y3) + u3*(x1*y2-x2*y1)) * invDet

	d := (v1*(y2-y3) + v2*(y3-y1) + v3*(y1-y2)) * invDet
	e := (v1*(x3-x2) + v2*(x1-x3) + v3*(x2-x1)) * invDet
	f := (v1*(x2*y3-x3*y2) + v2*(x3*y1-x1*y3) + v3*(x1*y2-x2*y1)) * invDet

	return Affine{A: a, B: b, C: c, D: d, E: e, F: f}, true
}

// Invert returns the inverse of m. ok is false if m is singular.
func (m Affine) Invert() (inv Affine, ok bool) {
	det := m.A*m.E - m.B*m.D
	if det < affineDetEpsilon && det > -affineDetEpsilon {
		return Affine{}, false
	}
	invDet := 1 / det

	a := m.E * invDet
	b := -m.B * invDet
	d := -m.D * invDet
	e := m.A * invDet

	c := -(a*m.C + b*m.F)
	f := -(d*m.C + e*m.F)

	return Affine{A: a, B: b, C: c, D: d, E: e, F: f}, true
}
