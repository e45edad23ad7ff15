// Package delaunay implements the Bowyer-Watson incremental Delaunay
// triangulation over a filtered 2-D point set.
package delaunay

import (
	"math"

	"facemorph/internal/geometry"
)

// Triangle is an unordered triple of indices into the original (unfiltered)
// point slice passed to Triangulate.
type Triangle struct {
	I, J, K int
}

type triangleIdx struct {
	a, b, c int // indices into the working point set (includes super-triangle verts)
}

type edge struct {
	u, v int
}

// normalized returns e with the lower index first, so (u,v) and (v,u)
// compare equal.
func (e edge) normalized() edge {
	if e.u > e.v {
		return edge{e.v, e.u}
	}
	return e
}

// Triangulate runs Bowyer-Watson over points, which are expected to lie in
// [0,w) x [0,h). Points outside that box or with non-finite coordinates are
// dropped before triangulation; the returned triangles reference indices
// into the original points slice. Fewer than 3 valid points yields an empty
// (not erroring) result.
//
// Given an identical points slice (same values, same order), the returned
// triangle set is identical modulo orientation: insertion order is exactly
// the filtered input order, and tie-breaks are deterministic (see
// geometry.InCircumcircle).
func Triangulate(points []geometry.Point, w, h int) []Triangle {
	// Filter, keeping a remap from working index -> original index.
	origIndex := make([]int, 0, len(points))
	pts := make([]geometry.Point, 0, len(points))
	for i, p := range points {
		if !p.Valid() {
			continue
		}
		if !p.InBounds(w, h) {
			continue
		}
		pts = append(pts, p)
		origIndex = append(origIndex, i)
	}

	n := len(pts)
	if n < 3 {
		return nil
	}

	m := 10.0 * math.Max(float64(w), float64(h))
	superA := geometry.Point{X: -m, Y: -m}
	superB := geometry.Point{X: float64(w) + 2*m, Y: -m}
	superC := geometry.Point{X: float64(w) / 2, Y: float64(h) + 2*m}

	work := make([]geometry.Point, n, n+3)
	copy(work, pts)
	work = append(work, superA, superB, superC)
	superBase := n

	tris := []triangleIdx{{superBase, superBase + 1, superBase + 2}}

	for i := 0; i < n; i++ {
		p := work[i]

		var bad []triangleIdx
		var keep []triangleIdx
		for _, tr := range tris {
			if geometry.InCircumcircle(p, work[tr.a], work[tr.b], work[tr.c]) {
				bad = append(bad, tr)
			} else {
				keep = append(keep, tr)
			}
		}

		boundary := boundaryEdges(bad)

		for _, e := range boundary {
			keep = append(keep, triangleIdx{e.u, e.v, i})
		}

		tris = keep
	}

	result := make([]Triangle, 0, len(tris))
	for _, tr := range tris {
		if tr.a >= superBase || tr.b >= superBase || tr.c >= superBase {
			continue
		}
		result = append(result, Triangle{
			I: origIndex[tr.a],
			J: origIndex[tr.b],
			K: origIndex[tr.c],
		})
	}
	return result
}

// boundaryEdges returns the edges of bad that belong to exactly one
// triangle in bad (i.e. the hole's polygonal boundary), in a deterministic
// order (by triangle order, then edge order within each triangle).
func boundaryEdges(bad []triangleIdx) []edge {
	count := make(map[edge]int, len(bad)*3)
	order := make([]edge, 0, len(bad)*3)

	for _, tr := range bad {
		edges := [3]edge{
			{tr.a, tr.b}, {tr.b, tr.c}, {tr.c, tr.a},
		}
		for _, e := range edges {
			ne := e.normalized()
			if count[ne] == 0 {
				order = append(order, ne)
			}
			count[ne]++
		}
	}

	boundary := make([]edge, 0, len(order))
	for _, e := range order {
		if count[e] == 1 {
			boundary = append(boundary, e)
		}
	}
	return boundary
}
