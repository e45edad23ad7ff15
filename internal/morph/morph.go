// Package morph implements the face-morph orchestrator: it drives the
// triangulator, the warper, the mask builders and the color corrector
// through one source-target-alpha call and writes the composited result.
package morph

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"facemorph/internal/colorcorrect"
	"facemorph/internal/delaunay"
	"facemorph/internal/geometry"
	"facemorph/internal/landmarks"
	"facemorph/internal/mask"
	"facemorph/internal/warp"
	"facemorph/logger"
)

// betaFullStrength is the compositing threshold above which the blend
// factor switches from linear to the sqrt-boosted branch.
const betaFullStrength = 0.95

// betaMinimum is the compositing "no-op" floor for the blend factor.
const betaMinimum = 0.01

// animalMaskFloor is the compositing hard edge used for is_animal targets.
const animalMaskFloor = 0.1

// minTriangleArea is the per-triangle rejection threshold during warping.
const minTriangleArea = 1.0

// Config holds the engine-wide tunables a caller configures once at
// startup: mask feathering radii and an is_animal default. Morph itself
// does not read IsAnimalDefault; it always uses its isAnimal argument.
// The zero value is valid — empty radii fall back to the mask package
// defaults.
type Config struct {
	HullBlurRadii       []float64
	MouthAntiAliasRadii []float64
	IsAnimalDefault     bool
}

// Engine runs morph calls. Besides cfg it carries no per-call mutable
// state other than the scratch buffer pool, so a single Engine may be
// shared by callers that serialize their calls, or one Engine per
// goroutine for parallel callers.
type Engine struct {
	pool *scratchPool
	log  *logger.BufferedLogger
	cfg  Config
}

// New returns an Engine. log may be nil, in which case calls are unlogged.
func New(log *logger.BufferedLogger, cfg Config) *Engine {
	return &Engine{pool: newScratchPool(), log: log, cfg: cfg}
}

// Morph runs one full source-target-alpha morph call. out must already be
// allocated at src's dimensions; its contents are fully overwritten on
// success, and on every recoverable failure it becomes an exact copy of
// src. A non-nil, non-recoverable *Error (Kind == DimensionMismatch)
// leaves out untouched.
func (e *Engine) Morph(src, tgt *image.RGBA, srcLm, tgtLm landmarks.Set, alpha float64, out *image.RGBA, isAnimal bool) *Error {
	var cl *logger.CallLogger
	if e.log != nil {
		cl = e.log.StartCall()
	}
	defer cl.Commit()

	srcBounds := src.Bounds()
	tgtBounds := tgt.Bounds()
	outBounds := out.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()

	if outBounds.Dx() != srcW || outBounds.Dy() != srcH {
		cl.Errorf("dimension mismatch: out=%dx%d src=%dx%d", outBounds.Dx(), outBounds.Dy(), srcW, srcH)
		return newError(DimensionMismatch, "output dimensions must match source")
	}

	if srcLm.ValidCount() < landmarks.MinValid || tgtLm.ValidCount() < landmarks.MinValid {
		copyRGBA(out, src)
		cl.Warnf("insufficient landmarks: src=%d tgt=%d", srcLm.ValidCount(), tgtLm.ValidCount())
		return newError(InsufficientLandmarks, "fewer than MinValid valid landmarks")
	}

	// Step 1: scale target landmarks into source-image space.
	sx := float64(srcW) / float64(tgtBounds.Dx())
	sy := float64(srcH) / float64(tgtBounds.Dy())
	tgtLmScaled := tgtLm.Scale(sx, sy)

	// Step 2: triangulate the key-index subset of the scaled target.
	tris := e.triangulate(tgtLmScaled, srcW, srcH, len(srcLm), len(tgtLmScaled))
	if len(tris) == 0 {
		copyRGBA(out, src)
		cl.Warnf("degenerate mesh: 0 usable triangles")
		return newError(DegenerateMesh, "triangulation yielded no usable triangles")
	}

	// Step 3.
	copyRGBA(out, src)

	// Step 4: rescale target into a scratch buffer at source dimensions.
	scaledTgt := e.pool.getRGBA(srcW, srcH)
	defer e.pool.putRGBA(srcW, srcH, scaledTgt)
	draw.BiLinear.Scale(scaledTgt, scaledTgt.Bounds(), tgt, tgtBounds, draw.Src, nil)

	// Step 5: warped starts fully transparent (A=0 sentinel).
	warped := e.pool.getRGBA(srcW, srcH)
	defer e.pool.putRGBA(srcW, srcH, warped)

	// Step 6.
	usable := 0
	for triIdx, t := range tris {
		si, siOK := srcLm.Get(t.I)
		sj, sjOK := srcLm.Get(t.J)
		sk, skOK := srcLm.Get(t.K)
		ti, tiOK := tgtLmScaled.Get(t.I)
		tj, tjOK := tgtLmScaled.Get(t.J)
		tk, tkOK := tgtLmScaled.Get(t.K)
		if !siOK || !sjOK || !skOK || !tiOK || !tjOK || !tkOK {
			continue
		}

		sTri := geometry.Triangle{A: si, B: sj, C: sk}
		tTri := geometry.Triangle{A: ti, B: tj, C: tk}
		if math.Abs(sTri.Area()) < minTriangleArea || math.Abs(tTri.Area()) < minTriangleArea {
			continue
		}

		if warp.Triangle(scaledTgt, warped, tTri, sTri) {
			cl.DegenerateAffine(triIdx)
			continue
		}
		usable++
	}
	cl.Mesh(len(tris), usable)
	if usable == 0 {
		cl.Warnf("degenerate mesh: all triangles rejected (absent vertex, area or degenerate affine)")
		return newError(DegenerateMesh, "all candidate triangles were degenerate")
	}

	// Step 7.
	hullMask, err := mask.BuildHullMask(srcLm, srcW, srcH, e.cfg.HullBlurRadii)
	if err != nil {
		cl.Errorf("mask construction failed: %v", err)
		return newError(MaskConstructionFailed, err.Error())
	}

	// Step 8.
	mouthMask, mouthPresent := mask.BuildMouthMask(srcLm, srcW, srcH, e.cfg.MouthAntiAliasRadii)

	// Step 9.
	corrected := colorcorrect.Correct(src, warped, hullMask)

	// Step 10.
	composite(out, src, corrected, hullMask, mouthMask, mouthPresent, alpha, isAnimal)

	return nil
}

// triangulate filters the key-index subset of tgtLm to valid, in-bounds
// points, triangulates, then remaps back to landmark indices and drops any
// triangle referencing an out-of-range index in either landmark array.
func (e *Engine) triangulate(tgtLm landmarks.Set, w, h int, srcLmLen, tgtLmLen int) []delaunay.Triangle {
	type entry struct {
		idx int
		pt  geometry.Point
	}

	var entries []entry
	for _, idx := range landmarks.KeyTriangulationIndices {
		p, ok := tgtLm.Get(idx)
		if !ok || !p.InBounds(w, h) {
			continue
		}
		entries = append(entries, entry{idx: idx, pt: p})
	}

	pts := make([]geometry.Point, len(entries))
	for i, en := range entries {
		pts[i] = en.pt
	}

	raw := delaunay.Triangulate(pts, w, h)

	out := make([]delaunay.Triangle, 0, len(raw))
	for _, t := range raw {
		i, j, k := entries[t.I].idx, entries[t.J].idx, entries[t.K].idx
		if i >= srcLmLen || j >= srcLmLen || k >= srcLmLen {
			continue
		}
		if i >= tgtLmLen || j >= tgtLmLen || k >= tgtLmLen {
			continue
		}
		out = append(out, delaunay.Triangle{I: i, J: j, K: k})
	}
	return out
}

// composite blends warped (the color-corrected warp result) over src using
// the hull mask, the is_animal hard-edge rule, and the mouth-interior
// restore mask, writing the result into out.
func composite(out, src, warped *image.RGBA, hullMask, mouthMask *image.Gray, mouthPresent bool, alpha float64, isAnimal bool) {
	bounds := out.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			s := src.RGBAAt(x, y)
			w := warped.RGBAAt(x, y)
			m := float64(hullMask.GrayAt(x, y).Y) / 255

			var beta float64
			switch {
			case isAnimal:
				if m > animalMaskFloor {
					beta = alpha
				}
			case alpha > betaFullStrength:
				beta = math.Sqrt(m) * alpha
			default:
				beta = m * alpha
			}

			mu := 0.0
			if mouthPresent && !isAnimal {
				mu = float64(mouthMask.GrayAt(x, y).Y) / 255
			}

			var outC color.RGBA
			if w.A > 0 && beta > betaMinimum {
				rMorph := float64(s.R)*(1-beta) + float64(w.R)*beta
				gMorph := float64(s.G)*(1-beta) + float64(w.G)*beta
				bMorph := float64(s.B)*(1-beta) + float64(w.B)*beta

				outC = color.RGBA{
					R: roundClip(rMorph*(1-mu) + float64(s.R)*mu),
					G: roundClip(gMorph*(1-mu) + float64(s.G)*mu),
					B: roundClip(bMorph*(1-mu) + float64(s.B)*mu),
					A: 255,
				}
			} else {
				outC = color.RGBA{R: s.R, G: s.G, B: s.B, A: 255}
			}
			out.SetRGBA(x, y, outC)
		}
	}
}

func roundClip(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func copyRGBA(dst, src *image.RGBA) {
	sb := src.Bounds()
	db := dst.Bounds()
	for y := 0; y < sb.Dy() && y < db.Dy(); y++ {
		sRow := src.Pix[(y)*src.Stride : (y)*src.Stride+sb.Dx()*4]
		dRow := dst.Pix[(y)*dst.Stride : (y)*dst.Stride+sb.Dx()*4]
		copy(dRow, sRow)
	}
}
