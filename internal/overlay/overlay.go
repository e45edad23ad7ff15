// Package overlay implements a rigid 2-D addon placer: a head-pose
// estimate (yaw, roll) from facial landmarks, and a per-kind placement
// and drawing transform for glasses/moustache/hat overlay images.
package overlay

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"

	"facemorph/internal/geometry"
	"facemorph/internal/landmarks"
	"facemorph/internal/morph"
)

// Kind selects which anchor/size/center rule resolvePlacement applies.
type Kind int

const (
	Glasses Kind = iota
	Moustache
	Hat
)

// Pose is a head-pose estimate derived from eye and cheek landmarks.
type Pose struct {
	Roll float64 // radians, atan2-derived eye-line angle
	Yaw  float64 // radians, cheek-distance asymmetry scaled to [-pi/2, pi/2]
}

// EstimatePose computes the head-pose estimate from src. ok is false if
// any of the five landmarks it depends on (1, 33, 234, 263, 454) is
// absent.
func EstimatePose(src landmarks.Set) (pose Pose, ok bool) {
	leftEye, ok1 := src.Get(landmarks.LeftEyeAnchor)
	rightEye, ok2 := src.Get(landmarks.RightEyeAnchor)
	nose, ok3 := src.Get(landmarks.NoseTip)
	leftCheek, ok4 := src.Get(landmarks.LeftCheek)
	rightCheek, ok5 := src.Get(landmarks.RightCheek)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return Pose{}, false
	}

	roll := math.Atan2(rightEye.Y-leftEye.Y, rightEye.X-leftEye.X)

	dl := dist(nose, leftCheek)
	dr := dist(nose, rightCheek)
	sum := dl + dr
	var yaw float64
	if sum > 0 {
		yaw = ((dl - dr) / sum) * (math.Pi / 2)
	}

	return Pose{Roll: roll, Yaw: yaw}, true
}

func dist(a, b geometry.Point) float64 {
	return floats.Norm([]float64{a.X - b.X, a.Y - b.Y}, 2)
}

// placement is the resolved anchor geometry for one overlay draw.
type placement struct {
	center   geometry.Point
	width    float64
	flipY    bool
}

// resolvePlacement implements the per-kind anchor table. ok is
// false (OverlayAnchorMissing) if any anchor landmark the kind needs is
// absent.
func resolvePlacement(kind Kind, src landmarks.Set) (p placement, ok bool) {
	switch kind {
	case Glasses:
		left, ok1 := src.Get(landmarks.LeftEyeAnchor)
		right, ok2 := src.Get(landmarks.RightEyeAnchor)
		if !ok1 || !ok2 {
			return placement{}, false
		}
		return placement{
			center: midpoint(left, right),
			width:  2.2 * dist(left, right),
			flipY:  true,
		}, true

	case Moustache:
		left, ok1 := src.Get(landmarks.MouthLeftAnchor)
		right, ok2 := src.Get(landmarks.MouthRightAnchor)
		if !ok1 || !ok2 {
			return placement{}, false
		}
		return placement{
			center: midpoint(left, right),
			width:  1.8 * dist(left, right),
			flipY:  true,
		}, true

	case Hat:
		forehead, ok1 := src.Get(landmarks.ForeheadAnchor)
		left, ok2 := src.Get(landmarks.LeftCheekAnchor)
		right, ok3 := src.Get(landmarks.RightCheekAnchor)
		if !ok1 || !ok2 || !ok3 {
			return placement{}, false
		}
		mid := midpoint(left, right)
		return placement{
			center: geometry.Point{X: mid.X, Y: forehead.Y},
			width:  1.8 * dist(left, right),
			flipY:  true,
		}, true
	}
	return placement{}, false
}

func midpoint(a, b geometry.Point) geometry.Point {
	return geometry.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Place draws overlayImg onto dst, transformed per the rule for kind:
// size and center resolved from src's anchors, then (in this order)
// translate to center, rotate by the head-pose roll, scale X by the
// faux-perspective factor, flip Y, drawn centered at the overlay's own
// origin. Returns an OverlayAnchorMissing *morph.Error if a required
// anchor is absent; the draw is then skipped and dst is untouched.
func Place(dst *image.RGBA, overlayImg image.Image, kind Kind, src landmarks.Set) *morph.Error {
	pose, ok := EstimatePose(src)
	if !ok {
		return morph.NewOverlayAnchorMissingError("head pose anchors absent")
	}

	p, ok := resolvePlacement(kind, src)
	if !ok {
		return morph.NewOverlayAnchorMissingError("placement anchors absent")
	}

	ob := overlayImg.Bounds()
	srcW, srcH := float64(ob.Dx()), float64(ob.Dy())
	if srcW == 0 || srcH == 0 {
		return morph.NewOverlayAnchorMissingError("overlay image has zero extent")
	}

	scaleX := 1 - 0.3*math.Abs(pose.Yaw)
	width := p.width
	height := width * srcH / srcW

	cosR, sinR := math.Cos(pose.Roll), math.Sin(pose.Roll)

	dstBounds := dst.Bounds()
	halfDiag := math.Hypot(width, height)
	minX := int(p.center.X - halfDiag)
	maxX := int(p.center.X + halfDiag)
	minY := int(p.center.Y - halfDiag)
	maxY := int(p.center.Y + halfDiag)
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

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			// Invert: destination pixel -> centered offset -> undo flip ->
			// undo scale -> undo rotate -> normalized overlay-local coords.
			ox := float64(x) - p.center.X
			oy := float64(y) - p.center.Y

			// Undo rotation.
			rx := ox*cosR + oy*sinR
			ry := -ox*sinR + oy*cosR

			// Undo the faux-perspective X scale.
			if scaleX != 0 {
				rx /= scaleX
			}

			// Undo the Y flip applied to these kinds.
			if p.flipY {
				ry = -ry
			}

			u := rx/width + 0.5
			v := ry/height + 0.5
			if u < 0 || u >= 1 || v < 0 || v >= 1 {
				continue
			}

			sx := int(u * srcW)
			sy := int(v * srcH)
			c := color.RGBAModel.Convert(overlayImg.At(ob.Min.X+sx, ob.Min.Y+sy)).(color.RGBA)
			if c.A == 0 {
				continue
			}
			blendOver(dst, x, y, c)
		}
	}

	return nil
}

func blendOver(dst *image.RGBA, x, y int, c color.RGBA) {
	if c.A == 255 {
		dst.SetRGBA(x, y, c)
		return
	}
	bg := dst.RGBAAt(x, y)
	a := float64(c.A) / 255
	out := color.RGBA{
		R: uint8(float64(c.R)*a + float64(bg.R)*(1-a)),
		G: uint8(float64(c.G)*a + float64(bg.G)*(1-a)),
		B: uint8(float64(c.B)*a + float64(bg.B)*(1-a)),
		A: 255,
	}
	dst.SetRGBA(x, y, out)
}
