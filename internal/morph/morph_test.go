package morph

import (
	"image"
	"image/color"
	"math"
	"testing"

	"facemorph/internal/geometry"
	"facemorph/internal/landmarks"
)

const testDim = 300

// fullLandmarkSet builds a 478-entry set with every index placed on a
// grid inside [0,testDim)x[0,testDim), then overrides the hull walk and
// the inner-lip walk with an explicit, well-formed polygon so mask
// construction and the openness ratio behave predictably.
func fullLandmarkSet() landmarks.Set {
	set := make(landmarks.Set, 478)
	for i := range set {
		x := float64(20 + (i%22)*11)
		y := float64(20 + (i/22)*11)
		set[i] = geometry.Point{X: x, Y: y}
	}

	hull := []geometry.Point{
		{140, 60}, {170, 65}, {195, 75}, {215, 90}, {230, 110}, {240, 135},
		{245, 160}, {240, 185}, {230, 210}, {215, 230}, {195, 245}, {170, 255},
		{140, 260}, {110, 255}, {85, 245}, {65, 230}, {50, 210}, {45, 185},
		{40, 160}, {45, 135}, {50, 110}, {65, 90}, {85, 75}, {110, 65},
		{125, 62}, {130, 61}, {135, 60}, {145, 60}, {150, 61}, {155, 62},
		{160, 63}, {165, 64}, {175, 67}, {185, 71}, {60, 100}, {55, 95},
	}
	for i, idx := range landmarks.HullIndices {
		set[idx] = hull[i%len(hull)]
	}

	const cx, cy, rx, ry = 140.0, 175.0, 25.0, 12.0
	for i, idx := range landmarks.InnerLipIndices {
		angle := math.Pi + 2*math.Pi*float64(i)/float64(len(landmarks.InnerLipIndices))
		set[idx] = geometry.Point{
			X: cx + rx*math.Cos(angle),
			Y: cy - ry*math.Sin(angle),
		}
	}

	return set
}

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x % 256),
				G: uint8(y % 256),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func TestMorphAlphaZeroIsByteIdenticalToSource(t *testing.T) {
	src := gradientImage(testDim, testDim)
	tgt := gradientImage(testDim, testDim)
	lm := fullLandmarkSet()

	out := image.NewRGBA(image.Rect(0, 0, testDim, testDim))
	eng := New(nil, Config{})

	morphErr := eng.Morph(src, tgt, lm, lm, 0.0, out, false)
	if morphErr != nil {
		t.Fatalf("unexpected error: %v", morphErr)
	}

	for i := range out.Pix {
		// alpha channel gets forced to 255 regardless of source, so skip
		// the source alpha byte when comparing (every 4th starting at 3).
		if i%4 == 3 {
			continue
		}
		if out.Pix[i] != src.Pix[i] {
			t.Fatalf("byte %d differs: out=%d src=%d", i, out.Pix[i], src.Pix[i])
		}
	}
}

func TestMorphOutAlphaIsAlways255(t *testing.T) {
	src := gradientImage(testDim, testDim)
	tgt := gradientImage(testDim, testDim)
	lm := fullLandmarkSet()

	out := image.NewRGBA(image.Rect(0, 0, testDim, testDim))
	eng := New(nil, Config{})

	if morphErr := eng.Morph(src, tgt, lm, lm, 0.8, out, false); morphErr != nil {
		t.Fatalf("unexpected error: %v", morphErr)
	}

	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if out.RGBAAt(x, y).A != 255 {
				t.Fatalf("pixel (%d,%d) has A=%d, want 255", x, y, out.RGBAAt(x, y).A)
			}
		}
	}
}

func TestMorphCornerOutsideHullPreservesSourcePixel(t *testing.T) {
	src := gradientImage(testDim, testDim)
	tgt := gradientImage(testDim, testDim)
	lm := fullLandmarkSet()

	out := image.NewRGBA(image.Rect(0, 0, testDim, testDim))
	eng := New(nil, Config{})

	if morphErr := eng.Morph(src, tgt, lm, lm, 1.0, out, false); morphErr != nil {
		t.Fatalf("unexpected error: %v", morphErr)
	}

	got := out.RGBAAt(0, 0)
	want := src.RGBAAt(0, 0)
	if got.R != want.R || got.G != want.G || got.B != want.B {
		t.Fatalf("corner pixel changed: got %v want %v", got, want)
	}
}

func TestMorphInsufficientLandmarksCopiesSource(t *testing.T) {
	src := gradientImage(testDim, testDim)
	tgt := gradientImage(testDim, testDim)
	lm := fullLandmarkSet()
	short := lm[:399]

	out := image.NewRGBA(image.Rect(0, 0, testDim, testDim))
	eng := New(nil, Config{})

	morphErr := eng.Morph(src, tgt, short, lm, 1.0, out, false)
	if morphErr == nil || morphErr.Kind != InsufficientLandmarks {
		t.Fatalf("expected InsufficientLandmarks, got %v", morphErr)
	}
	if !morphErr.Recoverable() {
		t.Fatal("InsufficientLandmarks should be recoverable")
	}

	for i := range out.Pix {
		if i%4 == 3 {
			continue
		}
		if out.Pix[i] != src.Pix[i] {
			t.Fatalf("byte %d differs from source after recovery copy", i)
		}
	}
}

func TestMorphDimensionMismatchIsFatal(t *testing.T) {
	src := gradientImage(testDim, testDim)
	tgt := gradientImage(testDim, testDim)
	lm := fullLandmarkSet()

	out := image.NewRGBA(image.Rect(0, 0, testDim+10, testDim))
	sentinel := color.RGBA{R: 9, G: 9, B: 9, A: 9}
	for y := 0; y < out.Bounds().Dy(); y++ {
		for x := 0; x < out.Bounds().Dx(); x++ {
			out.SetRGBA(x, y, sentinel)
		}
	}

	eng := New(nil, Config{})
	morphErr := eng.Morph(src, tgt, lm, lm, 1.0, out, false)
	if morphErr == nil || morphErr.Kind != DimensionMismatch {
		t.Fatalf("expected DimensionMismatch, got %v", morphErr)
	}
	if morphErr.Recoverable() {
		t.Fatal("DimensionMismatch must not be recoverable")
	}

	got := out.RGBAAt(0, 0)
	if got != sentinel {
		t.Fatal("out buffer was modified despite fatal dimension mismatch")
	}
}

func TestMorphIdentityWarpApproxEqualsSourceInsideHull(t *testing.T) {
	src := gradientImage(testDim, testDim)
	tgt := gradientImage(testDim, testDim)
	lm := fullLandmarkSet()

	out := image.NewRGBA(image.Rect(0, 0, testDim, testDim))
	eng := New(nil, Config{})

	if morphErr := eng.Morph(src, tgt, lm, lm, 1.0, out, false); morphErr != nil {
		t.Fatalf("unexpected error: %v", morphErr)
	}

	// (140,175) sits at the lip-ellipse center, well inside the hull.
	got := out.RGBAAt(140, 175)
	want := src.RGBAAt(140, 175)
	diff := func(a, b uint8) int {
		d := int(a) - int(b)
		if d < 0 {
			d = -d
		}
		return d
	}
	if diff(got.R, want.R) > 5 || diff(got.G, want.G) > 5 || diff(got.B, want.B) > 5 {
		t.Fatalf("identity warp drifted too far: got %v want %v", got, want)
	}
}

func TestMorphMouthInteriorPreservedWhenOpen(t *testing.T) {
	src := gradientImage(testDim, testDim)
	lipColor := color.RGBA{R: 220, G: 40, B: 40, A: 255}
	for y := 163; y <= 187; y++ {
		for x := 115; x <= 165; x++ {
			if (x-140)*(x-140)/(25*25)+(y-175)*(y-175)/(12*12) <= 1 {
				src.SetRGBA(x, y, lipColor)
			}
		}
	}

	tgt := image.NewRGBA(image.Rect(0, 0, testDim, testDim))
	uniform := color.RGBA{R: 30, G: 200, B: 30, A: 255}
	for y := 0; y < testDim; y++ {
		for x := 0; x < testDim; x++ {
			tgt.SetRGBA(x, y, uniform)
		}
	}

	lm := fullLandmarkSet()
	out := image.NewRGBA(image.Rect(0, 0, testDim, testDim))
	eng := New(nil, Config{})

	if morphErr := eng.Morph(src, tgt, lm, lm, 1.0, out, false); morphErr != nil {
		t.Fatalf("unexpected error: %v", morphErr)
	}

	got := out.RGBAAt(140, 175)
	diff := func(a, b uint8) int {
		d := int(a) - int(b)
		if d < 0 {
			d = -d
		}
		return d
	}
	if diff(got.R, lipColor.R) > 10 || diff(got.G, lipColor.G) > 10 || diff(got.B, lipColor.B) > 10 {
		t.Fatalf("mouth interior not preserved: got %v want near %v", got, lipColor)
	}
}
