package geometry

import "testing"

func TestPointInTriangle(t *testing.T) {
	tri := Triangle{A: Point{0, 0}, B: Point{10, 0}, C: Point{0, 10}}

	cases := []struct {
		name string
		p    Point
		want bool
	}{
		{"centroid", Point{3, 3}, true},
		{"vertex", Point{0, 0}, true},
		{"outside", Point{9, 9}, false},
		{"far outside", Point{100, 100}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := PointInTriangle(c.p, tri); got != c.want {
				t.Errorf("PointInTriangle(%v) = %v, want %v", c.p, got, c.want)
			}
		})
	}
}

func TestPointInTriangleDegenerate(t *testing.T) {
	// collinear triangle has zero area -> containment must be false everywhere
	tri := Triangle{A: Point{0, 0}, B: Point{5, 0}, C: Point{10, 0}}
	if PointInTriangle(Point{5, 0}, tri) {
		t.Error("degenerate triangle reported as containing a point")
	}
}

func TestInCircumcircle(t *testing.T) {
	a := Point{0, 0}
	b := Point{10, 0}
	c := Point{0, 10}

	if !InCircumcircle(Point{3, 3}, a, b, c) {
		t.Error("expected interior point inside circumcircle")
	}
	if InCircumcircle(Point{100, 100}, a, b, c) {
		t.Error("expected far point outside circumcircle")
	}
}

func TestAffineIdentity(t *testing.T) {
	tri := Triangle{A: Point{0, 0}, B: Point{10, 0}, C: Point{0, 10}}
	m, ok := FromTriangles(tri, tri)
	if !ok {
		t.Fatal("expected a solvable affine for a non-degenerate triangle")
	}
	for _, p := range []Point{tri.A, tri.B, tri.C, {3, 3}} {
		got := m.Apply(p)
		if diff := got.Sub(p).Norm(); diff > 1e-9 {
			t.Errorf("identity affine moved %v to %v", p, got)
		}
	}
}

func TestAffineDegenerate(t *testing.T) {
	collinear := Triangle{A: Point{0, 0}, B: Point{5, 0}, C: Point{10, 0}}
	dst := Triangle{A: Point{0, 0}, B: Point{1, 1}, C: Point{2, 2}}
	if _, ok := FromTriangles(collinear, dst); ok {
		t.Error("expected degenerate source triangle to be rejected")
	}
}

func TestAffineInvertRoundTrip(t *testing.T) {
	src := Triangle{A: Point{0, 0}, B: Point{10, 2}, C: Point{1, 10}}
	dst := Triangle{A: Point{5, 5}, B: Point{20, 8}, C: Point{6, 25}}

	m, ok := FromTriangles(src, dst)
	if !ok {
		t.Fatal("expected solvable affine")
	}
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("expected invertible affine")
	}

	for _, p := range []Point{src.A, src.B, src.C, {4, 4}} {
		roundTrip := inv.Apply(m.Apply(p))
		if diff := roundTrip.Sub(p).Norm(); diff > 1e-6 {
			t.Errorf("round trip for %v landed at %v", p, roundTrip)
		}
	}
}

func TestAreaOfDegenerateIsZero(t *testing.T) {
	tri := Triangle{A: Point{0, 0}, B: Point{5, 0}, C: Point{10, 0}}
	if tri.Area() != 0 {
		t.Errorf("expected zero area for collinear triangle, got %v", tri.Area())
	}
}
