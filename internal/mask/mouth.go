package mask

import (
	"image"
	"image/color"
	"math"

	"facemorph/internal/geometry"
	"facemorph/internal/landmarks"
)

// DefaultMouthAntiAliasRadii is the "~3px blur for anti-aliased edges"
// pass used when a caller doesn't configure its own.
var DefaultMouthAntiAliasRadii = []float64{3}

// openThreshold is the gate below which the mouth mask is absent.
const openThreshold = 0.15

// Openness computes the mouth openness ratio from src. ok
// is false if any of the four landmarks it depends on (13, 14, 78, 308)
// is absent.
func Openness(src landmarks.Set) (openness float64, ok bool) {
	top, ok1 := src.Get(landmarks.InnerLipTop)
	bottom, ok2 := src.Get(landmarks.InnerLipBottom)
	left, ok3 := src.Get(landmarks.MouthCornerL)
	right, ok4 := src.Get(landmarks.MouthCornerR)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, false
	}

	horiz := math.Abs(right.X - left.X)
	if horiz < 1 {
		horiz = 1
	}
	ratio := math.Abs(bottom.Y-top.Y) / horiz

	o := (ratio - 0.08) / 0.25
	if o < 0 {
		o = 0
	}
	if o > 1 {
		o = 1
	}
	return o, true
}

// BuildMouthMask builds the mouth-interior restore mask. antiAliasRadii
// are the blur passes fed to blurPasses; a nil or empty slice falls back
// to DefaultMouthAntiAliasRadii. present is false when the landmarks are
// absent or openness is below openThreshold, in which case mask is nil.
func BuildMouthMask(src landmarks.Set, w, h int, antiAliasRadii []float64) (mask *image.Gray, present bool) {
	if len(antiAliasRadii) == 0 {
		antiAliasRadii = DefaultMouthAntiAliasRadii
	}

	openness, ok := Openness(src)
	if !ok || openness < openThreshold {
		return nil, false
	}

	var poly []geometry.Point
	for _, idx := range landmarks.InnerLipIndices {
		p, ok := src.Get(idx)
		if !ok {
			continue
		}
		poly = append(poly, p)
	}
	if len(poly) < 3 {
		return nil, false
	}

	raster := rasterizePolygon(poly, w, h)
	blurred := blurPasses(raster, antiAliasRadii)

	scale := 1.5 * openness
	if scale > 1 {
		scale = 1
	}
	scaleGray(blurred, scale)

	return blurred, true
}

func scaleGray(img *image.Gray, factor float64) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := float64(img.GrayAt(x, y).Y) * factor
			if v > 255 {
				v = 255
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v + 0.5)})
		}
	}
}
