// Package mask builds the feathered hull face mask and the mouth-interior
// mask used by the morph orchestrator.
package mask

import (
	"errors"
	"image"

	"facemorph/internal/geometry"
	"facemorph/internal/landmarks"
)

// ErrNotEnoughHullPoints is returned when fewer than 3 hull landmarks are
// valid, the MaskConstructionFailed condition.
var ErrNotEnoughHullPoints = errors.New("mask: fewer than 3 valid hull points")

// hullErosionFactor is the hull-shrink erosion factor.
const hullErosionFactor = 0.98

// DefaultHullBlurRadii are the five successive feathering blur passes used
// when a caller doesn't configure its own.
var DefaultHullBlurRadii = []float64{60, 50, 40, 25, 10}

// BuildHullMask builds the feathered convex-hull face mask for src over a
// w x h frame. blurRadii are the successive feathering passes fed to
// blurPasses; a nil or empty slice falls back to DefaultHullBlurRadii.
// Returns ErrNotEnoughHullPoints if the hull walk has fewer than 3 valid
// landmarks.
func BuildHullMask(src landmarks.Set, w, h int, blurRadii []float64) (*image.Gray, error) {
	if len(blurRadii) == 0 {
		blurRadii = DefaultHullBlurRadii
	}

	var poly []geometry.Point
	for _, idx := range landmarks.HullIndices {
		p, ok := src.Get(idx)
		if !ok {
			continue
		}
		poly = append(poly, p)
	}
	if len(poly) < 3 {
		return nil, ErrNotEnoughHullPoints
	}

	eroded := erodeTowardCentroid(poly, hullErosionFactor)
	raster := rasterizePolygon(eroded, w, h)
	return blurPasses(raster, blurRadii), nil
}
