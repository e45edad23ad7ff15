// Package warp implements the piecewise-affine triangle warper: inverse-
// affine mapping with bilinear sampling, writing into a destination image
// triangle-by-triangle.
package warp

import (
	"image"
	"image/color"

	"facemorph/internal/geometry"
)

// Triangle warps the src image's srcTri region into dst at dstTri, via the
// inverse of the affine mapping srcTri -> dstTri. Destination pixels whose
// center lies outside dstTri, or whose inverse-mapped source coordinate
// falls outside [0,src.W-1) x [0,src.H-1), are left untouched. Alpha is set
// to 255 for every written pixel.
//
// dst is written in place; src is read-only. Overlapping triangles called
// in sequence simply overwrite — callers must iterate triangles in a fixed
// order to get deterministic output.
//
// The returned bool reports whether the triangle was skipped because its
// srcTri->dstTri affine solve was singular (near-zero determinant), so a
// caller can tally degenerate-affine skips separately from triangles that
// simply fell outside dst's bounds.
func Triangle(src *image.RGBA, dst *image.RGBA, srcTri, dstTri geometry.Triangle) (degenerateAffine bool) {
	dstBounds := dst.Bounds()

	minX := int(minOf3(dstTri.A.X, dstTri.B.X, dstTri.C.X))
	maxX := int(maxOf3(dstTri.A.X, dstTri.B.X, dstTri.C.X)) + 1
	minY := int(minOf3(dstTri.A.Y, dstTri.B.Y, dstTri.C.Y))
	maxY := int(maxOf3(dstTri.A.Y, dstTri.B.Y, dstTri.C.Y)) + 1

	if minX < dstBounds.Min.X {
		minX = dstBounds.Min.X
	}
	if minY < dstBounds.Min.Y {
		minY = dstBounds.Min.Y
	}
	if maxX > dstBounds.Max.X {
		maxX = dstBounds.Max.X
	}
	if maxY > dstBounds.Max.Y {
		maxY = dstBounds.Max.Y
	}
	if minX >= maxX || minY >= maxY {
		return false
	}

	forward, ok := geometry.FromTriangles(srcTri, dstTri)
	if !ok {
		return true
	}
	inv, ok := forward.Invert()
	if !ok {
		return true
	}

	srcBounds := src.Bounds()
	srcW := srcBounds.Dx()
	srcH := srcBounds.Dy()

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			center := geometry.Point{X: float64(x), Y: float64(y)}
			if !geometry.PointInTriangle(center, dstTri) {
				continue
			}

			sp := inv.Apply(center)
			sx, sy := sp.X, sp.Y
			if sx < 0 || sy < 0 || sx >= float64(srcW-1) || sy >= float64(srcH-1) {
				continue
			}

			c := bilinearSample(src, sx, sy)
			dst.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return false
}

// bilinearSample samples src at fractional coordinates (x,y), blending the
// four integer neighbors.
func bilinearSample(src *image.RGBA, x, y float64) color.RGBA {
	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1

	fx := x - float64(x0)
	fy := y - float64(y0)

	c00 := src.RGBAAt(x0, y0)
	c10 := src.RGBAAt(x1, y0)
	c01 := src.RGBAAt(x0, y1)
	c11 := src.RGBAAt(x1, y1)

	return color.RGBA{
		R: lerp2(c00.R, c10.R, c01.R, c11.R, fx, fy),
		G: lerp2(c00.G, c10.G, c01.G, c11.G, fx, fy),
		B: lerp2(c00.B, c10.B, c01.B, c11.B, fx, fy),
		A: lerp2(c00.A, c10.A, c01.A, c11.A, fx, fy),
	}
}

func lerp2(c00, c10, c01, c11 uint8, fx, fy float64) uint8 {
	top := float64(c00)*(1-fx) + float64(c10)*fx
	bottom := float64(c01)*(1-fx) + float64(c11)*fx
	v := top*(1-fy) + bottom*fy
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func minOf3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func maxOf3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
