package mask

import (
	"image"
	"image/color"

	"facemorph/internal/geometry"
)

// rasterizePolygon fills poly (walk order, at least 3 points) into a w x h
// single-channel mask: 255 inside, 0 outside, via a scanline even-odd test.
func rasterizePolygon(poly []geometry.Point, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	if len(poly) < 3 {
		return img
	}

	for y := 0; y < h; y++ {
		fy := float64(y) + 0.5
		var xs []float64
		n := len(poly)
		for i := 0; i < n; i++ {
			p0 := poly[i]
			p1 := poly[(i+1)%n]
			if (p0.Y <= fy && p1.Y > fy) || (p1.Y <= fy && p0.Y > fy) {
				t := (fy - p0.Y) / (p1.Y - p0.Y)
				xs = append(xs, p0.X+t*(p1.X-p0.X))
			}
		}
		sortFloats(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(xs[i] + 0.5)
			x1 := int(xs[i+1] + 0.5)
			if x0 < 0 {
				x0 = 0
			}
			if x1 > w {
				x1 = w
			}
			for x := x0; x < x1; x++ {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func sortFloats(xs []float64) {
	for i := 1; i < len(xs); i++ {
		v := xs[i]
		j := i - 1
		for j >= 0 && xs[j] > v {
			xs[j+1] = xs[j]
			j--
		}
		xs[j+1] = v
	}
}

// centroid returns the arithmetic mean of poly.
func centroid(poly []geometry.Point) geometry.Point {
	var sx, sy float64
	for _, p := range poly {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(poly))
	return geometry.Point{X: sx / n, Y: sy / n}
}

// erodeTowardCentroid scales every point of poly toward its centroid by
// factor (the hull mask uses factor 0.98).
func erodeTowardCentroid(poly []geometry.Point, factor float64) []geometry.Point {
	c := centroid(poly)
	out := make([]geometry.Point, len(poly))
	for i, p := range poly {
		out[i] = geometry.Point{
			X: c.X + (p.X-c.X)*factor,
			Y: c.Y + (p.Y-c.Y)*factor,
		}
	}
	return out
}
