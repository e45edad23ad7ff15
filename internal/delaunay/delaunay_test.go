package delaunay

import (
	"math"
	"math/rand"
	"testing"

	"facemorph/internal/geometry"
)

func TestTriangulateFewPointsIsEmpty(t *testing.T) {
	pts := []geometry.Point{{1, 1}, {2, 2}}
	if got := Triangulate(pts, 100, 100); got != nil {
		t.Errorf("expected nil triangulation for <3 points, got %v", got)
	}
}

func TestTriangulateSquareHasNoSuperVertex(t *testing.T) {
	pts := []geometry.Point{
		{10, 10}, {90, 10}, {90, 90}, {10, 90}, {50, 50},
	}
	tris := Triangulate(pts, 100, 100)
	if len(tris) == 0 {
		t.Fatal("expected at least one triangle")
	}
	for _, tr := range tris {
		for _, idx := range []int{tr.I, tr.J, tr.K} {
			if idx < 0 || idx >= len(pts) {
				t.Errorf("triangle %v references out-of-range/super-triangle index %d", tr, idx)
			}
		}
		if tr.I == tr.J || tr.J == tr.K || tr.I == tr.K {
			t.Errorf("triangle %v has a repeated vertex", tr)
		}
	}
}

func TestTriangulateDropsOutOfBoundsAndNonFinite(t *testing.T) {
	pts := []geometry.Point{
		{10, 10}, {90, 10}, {90, 90}, {10, 90}, {50, 50},
		{-5, -5},                       // out of bounds
		{math.NaN(), math.NaN()},       // non-finite
	}
	tris := Triangulate(pts, 100, 100)
	for _, tr := range tris {
		for _, idx := range []int{tr.I, tr.J, tr.K} {
			if idx == 5 || idx == 6 {
				t.Errorf("triangle %v references a dropped point", tr)
			}
		}
	}
}

func TestTriangulateDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	pts := make([]geometry.Point, 200)
	for i := range pts {
		pts[i] = geometry.Point{
			X: 300 + r.NormFloat64()*40,
			Y: 300 + r.NormFloat64()*40,
		}
	}

	first := Triangulate(pts, 600, 600)
	second := Triangulate(pts, 600, 600)

	if len(first) != len(second) {
		t.Fatalf("non-deterministic triangle count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !sameTriangle(first[i], second[i]) {
			t.Fatalf("triangle %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func sameTriangle(a, b Triangle) bool {
	as := []int{a.I, a.J, a.K}
	bs := []int{b.I, b.J, b.K}
	// same multiset, orientation-independent
	for _, x := range as {
		found := false
		for j, y := range bs {
			if x == y {
				bs = append(bs[:j], bs[j+1:]...)
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
