package interpolate

import "testing"

func sampleKeys() Keys {
	return Keys{
		LeftEye:    Point{X: 80, Y: 120},
		RightEye:   Point{X: 160, Y: 120},
		Nose:       Point{X: 120, Y: 150},
		MouthL:     Point{X: 95, Y: 190},
		MouthR:     Point{X: 145, Y: 190},
		Chin:       Point{X: 120, Y: 230},
		LeftCheek:  Point{X: 60, Y: 150},
		RightCheek: Point{X: 180, Y: 150},
	}
}

func TestInterpolate478ReturnsExactlyNumPoints(t *testing.T) {
	out := Interpolate478(sampleKeys())
	if len(out) != NumPoints {
		t.Fatalf("expected %d points, got %d", NumPoints, len(out))
	}
}

func TestInterpolate478ExactCopyAnchors(t *testing.T) {
	k := sampleKeys()
	out := Interpolate478(k)

	check := func(idx int, want Point) {
		got := out[idx]
		wantX, wantY := roundInt(want.X), roundInt(want.Y)
		if got[0] != wantX || got[1] != wantY {
			t.Errorf("index %d: got (%d,%d) want (%d,%d)", idx, got[0], got[1], wantX, wantY)
		}
	}
	check(152, k.Chin)
	check(234, k.LeftCheek)
	check(454, k.RightCheek)
}

func TestInterpolate478Deterministic(t *testing.T) {
	k := sampleKeys()
	a := Interpolate478(k)
	b := Interpolate478(k)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d differs between identical calls: %v vs %v", i, a[i], b[i])
		}
	}
}
