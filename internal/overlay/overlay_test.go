package overlay

import (
	"image"
	"image/color"
	"math"
	"testing"

	"facemorph/internal/geometry"
	"facemorph/internal/landmarks"
)

func setWith(pairs map[int]geometry.Point) landmarks.Set {
	set := make(landmarks.Set, 478)
	nan := math.NaN()
	for i := range set {
		set[i] = geometry.Point{X: nan, Y: nan}
	}
	for idx, p := range pairs {
		set[idx] = p
	}
	return set
}

func TestEstimatePoseRollZeroWhenEyesLevel(t *testing.T) {
	lm := setWith(map[int]geometry.Point{
		landmarks.LeftEyeAnchor:  {X: 100, Y: 100},
		landmarks.RightEyeAnchor: {X: 200, Y: 100},
		landmarks.NoseTip:        {X: 150, Y: 130},
		landmarks.LeftCheek:      {X: 90, Y: 140},
		landmarks.RightCheek:     {X: 210, Y: 140},
	})

	pose, ok := EstimatePose(lm)
	if !ok {
		t.Fatal("expected pose estimate to succeed")
	}
	if math.Abs(pose.Roll) > 1e-9 {
		t.Fatalf("expected roll 0, got %v", pose.Roll)
	}
}

func TestEstimatePoseRoll45Degrees(t *testing.T) {
	lm := setWith(map[int]geometry.Point{
		landmarks.LeftEyeAnchor:  {X: 100, Y: 100},
		landmarks.RightEyeAnchor: {X: 200, Y: 200},
		landmarks.NoseTip:        {X: 150, Y: 150},
		landmarks.LeftCheek:      {X: 90, Y: 140},
		landmarks.RightCheek:     {X: 210, Y: 140},
	})

	pose, ok := EstimatePose(lm)
	if !ok {
		t.Fatal("expected pose estimate to succeed")
	}
	want := math.Pi / 4
	if math.Abs(pose.Roll-want) > 1e-9 {
		t.Fatalf("expected roll %v, got %v", want, pose.Roll)
	}
}

func TestEstimatePoseMissingAnchor(t *testing.T) {
	lm := setWith(map[int]geometry.Point{
		landmarks.LeftEyeAnchor: {X: 100, Y: 100},
	})
	if _, ok := EstimatePose(lm); ok {
		t.Fatal("expected EstimatePose to fail with missing anchors")
	}
}

func TestPlaceSkipsWhenAnchorMissing(t *testing.T) {
	lm := setWith(map[int]geometry.Point{})
	dst := image.NewRGBA(image.Rect(0, 0, 50, 50))
	overlayImg := image.NewRGBA(image.Rect(0, 0, 10, 10))

	err := Place(dst, overlayImg, Glasses, lm)
	if err == nil {
		t.Fatal("expected OverlayAnchorMissing error")
	}
}

func TestPlaceDrawsOpaquePixelsNearCenter(t *testing.T) {
	lm := setWith(map[int]geometry.Point{
		landmarks.LeftEyeAnchor:  {X: 90, Y: 120},
		landmarks.RightEyeAnchor: {X: 150, Y: 120},
		landmarks.NoseTip:        {X: 120, Y: 150},
		landmarks.LeftCheek:      {X: 80, Y: 160},
		landmarks.RightCheek:     {X: 160, Y: 160},
	})

	dst := image.NewRGBA(image.Rect(0, 0, 240, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 240; x++ {
			dst.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	overlayImg := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			overlayImg.SetRGBA(x, y, color.RGBA{R: 0, G: 0, B: 0, A: 255})
		}
	}

	if err := Place(dst, overlayImg, Glasses, lm); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	center := dst.RGBAAt(120, 120)
	if center.R != 0 || center.G != 0 || center.B != 0 {
		t.Fatalf("expected overlay drawn at eye midpoint, got %v", center)
	}
}
