// Package interpolate implements editor-side landmark expansion: eight
// manually placed key points become a deterministic 478-point landmark
// set compatible with the engine's index tables.
package interpolate

import "math"

// Point is a plain float coordinate pair; Interpolate478 computes in this
// type and rounds each point to integers for its output.
type Point struct {
	X, Y float64
}

// NumPoints is the fixed output size.
const NumPoints = 478

// Keys names the eight ordered input points, in the order Interpolate478
// requires them.
type Keys struct {
	LeftEye, RightEye   Point
	Nose                Point
	MouthL, MouthR      Point
	Chin                Point
	LeftCheek, RightCheek Point
}

// Interpolate478 expands k into exactly NumPoints integer-rounded 2-D
// points, via a disjoint, ordered set of assignment rules. Indices 152,
// 234 and 454 come out equal to k.Chin, k.LeftCheek and k.RightCheek
// respectively.
func Interpolate478(k Keys) [][2]int {
	eyeCenter := Point{(k.LeftEye.X + k.RightEye.X) / 2, (k.LeftEye.Y + k.RightEye.Y) / 2}
	eyeWidth := math.Abs(k.RightEye.X - k.LeftEye.X)
	faceWidth := math.Abs(k.RightCheek.X - k.LeftCheek.X)
	faceHeight := 2 * math.Abs(k.Chin.Y-eyeCenter.Y)

	out := make([]Point, NumPoints)
	assigned := make([]bool, NumPoints)

	place := func(idx int, p Point) {
		if idx < 0 || idx >= NumPoints || assigned[idx] {
			return
		}
		out[idx] = p
		assigned[idx] = true
	}

	placeRing := func(start int, n int, center Point, radius float64) {
		for i := 0; i < n; i++ {
			angle := 2 * math.Pi * float64(i) / float64(n)
			place(start+i, Point{
				X: center.X + radius*math.Cos(angle),
				Y: center.Y + radius*math.Sin(angle),
			})
		}
	}

	// Rules 1-5: rings around the five primary anchors.
	placeRing(33, 6, k.LeftEye, 0.15*eyeWidth)
	placeRing(263, 6, k.RightEye, 0.15*eyeWidth)
	placeRing(1, 5, k.Nose, 0.10*faceWidth)
	placeRing(61, 7, k.MouthL, 0.05*faceWidth)
	placeRing(291, 7, k.MouthR, 0.05*faceWidth)

	// Rule 6: exact copies.
	place(152, k.Chin)
	place(234, k.LeftCheek)
	place(454, k.RightCheek)

	// Rule 7: forehead band, linear across cheeks at a fixed height above
	// the eye line.
	foreheadY := eyeCenter.Y - 0.3*faceHeight
	for i := 0; i < 10; i++ {
		t := float64(i) / 9
		x := lerp(k.LeftCheek.X, k.RightCheek.X, t)
		place(i, Point{X: x, Y: foreheadY})
	}

	// Rule 8: half-ellipse face contour from left cheek through the chin
	// to the right cheek, spanning indices 10..152 inclusive. Runs after
	// rule 7 (forehead); the contour never touches the forehead's 0..9.
	rx := faceWidth / 2
	ry := faceHeight / 2
	contourN := 152 - 10 + 1
	for i := 0; i < contourN; i++ {
		t := float64(i) / float64(contourN-1)
		angle := math.Pi + math.Pi*t
		place(10+i, Point{
			X: eyeCenter.X + rx*math.Cos(angle),
			Y: eyeCenter.Y - ry*math.Sin(angle),
		})
	}

	// Rule 9: nose bridge, linear from the eye-line center to the nose tip.
	for i := 0; i < 8; i++ {
		t := float64(i) / 7
		place(168+i, Point{
			X: lerp(eyeCenter.X, k.Nose.X, t),
			Y: lerp(eyeCenter.Y, k.Nose.Y, t),
		})
	}

	// Rule 10: mouth band, linear mouthL->mouthR baseline with a
	// sinusoidal vertical perturbation, for whatever in 61..291 the
	// earlier rules left unassigned (the contour already claims 61..152).
	for idx := 61; idx <= 291; idx++ {
		if assigned[idx] {
			continue
		}
		t := float64(idx-61) / float64(291-61)
		y := lerp(k.MouthL.Y, k.MouthR.Y, t) + 0.05*faceHeight*math.Sin(2*math.Pi*t)
		place(idx, Point{
			X: lerp(k.MouthL.X, k.MouthR.X, t),
			Y: y,
		})
	}

	// Rule 11: sinusoidal eye bands, for whatever in 33..133 and
	// 263..362 the earlier rules left unassigned (the contour already
	// claims all of 33..133).
	placeEyeBand := func(lo, hi int, center Point) {
		span := hi - lo
		for idx := lo; idx <= hi; idx++ {
			if assigned[idx] {
				continue
			}
			t := float64(idx-lo) / float64(span)
			angle := 2 * math.Pi * t
			radius := 0.4 * eyeWidth * (1 + 0.15*math.Sin(3*angle))
			place(idx, Point{
				X: center.X + radius*math.Cos(angle),
				Y: center.Y + radius*math.Sin(angle)*0.6,
			})
		}
	}
	placeEyeBand(33, 133, k.LeftEye)
	placeEyeBand(263, 362, k.RightEye)

	// Rule 12: default 20x24 grid fill across the face rectangle for
	// anything still unassigned.
	rectMinX := k.LeftCheek.X
	rectMaxX := k.RightCheek.X
	rectMinY := foreheadY
	rectMaxY := k.Chin.Y

	const cols, rows = 20, 24
	cell := 0
	for idx := 0; idx < NumPoints; idx++ {
		if assigned[idx] {
			continue
		}
		col := cell % cols
		row := (cell / cols) % rows
		cell++
		var tx, ty float64
		if cols > 1 {
			tx = float64(col) / float64(cols-1)
		}
		if rows > 1 {
			ty = float64(row) / float64(rows-1)
		}
		place(idx, Point{
			X: lerp(rectMinX, rectMaxX, tx),
			Y: lerp(rectMinY, rectMaxY, ty),
		})
	}

	result := make([][2]int, NumPoints)
	for i, p := range out {
		result[i] = [2]int{roundInt(p.X), roundInt(p.Y)}
	}
	return result
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func roundInt(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
