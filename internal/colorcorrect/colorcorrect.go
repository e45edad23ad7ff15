// Package colorcorrect implements per-channel mean-matching color
// correction: it nudges a warped patch's chroma halfway toward the
// source's, measured over the masked region.
package colorcorrect

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/stat"
)

// maskThreshold is the "pixels with m > 127" gate.
const maskThreshold = 127

// Correct returns a copy of warped with each channel scaled by
// 1 + 0.5*(srcMean-warpedMean)/max(warpedMean,1), computed over pixels
// where hullMask > 127. Alpha is preserved unchanged. If either region is
// empty (no unmasked pixels, or warped has no opaque pixels under the
// mask), warped is returned unmodified — correction is skipped, not
// approximated.
func Correct(src, warped *image.RGBA, hullMask *image.Gray) *image.RGBA {
	bounds := warped.Bounds()

	var srcR, srcG, srcB []float64
	var wR, wG, wB []float64

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if hullMask.GrayAt(x, y).Y <= maskThreshold {
				continue
			}
			w := warped.RGBAAt(x, y)
			if w.A == 0 {
				continue
			}
			s := src.RGBAAt(x, y)
			srcR = append(srcR, float64(s.R))
			srcG = append(srcG, float64(s.G))
			srcB = append(srcB, float64(s.B))
			wR = append(wR, float64(w.R))
			wG = append(wG, float64(w.G))
			wB = append(wB, float64(w.B))
		}
	}

	if len(srcR) == 0 {
		return warped
	}

	fr := factor(stat.Mean(srcR, nil), stat.Mean(wR, nil))
	fg := factor(stat.Mean(srcG, nil), stat.Mean(wG, nil))
	fb := factor(stat.Mean(srcB, nil), stat.Mean(wB, nil))

	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			w := warped.RGBAAt(x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: clip(float64(w.R) * fr),
				G: clip(float64(w.G) * fg),
				B: clip(float64(w.B) * fb),
				A: w.A,
			})
		}
	}
	return out
}

func factor(srcMean, warpedMean float64) float64 {
	denom := warpedMean
	if denom < 1 {
		denom = 1
	}
	return 1 + 0.5*(srcMean-warpedMean)/denom
}

func clip(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
