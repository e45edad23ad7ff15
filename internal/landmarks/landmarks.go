// Package landmarks defines the ordered landmark set consumed by the morph
// engine, its JSON wire format, and the fixed index tables (hull walk,
// key-triangulation set, inner-lip walk, addon anchors).
package landmarks

import (
	"encoding/json"
	"sort"

	"facemorph/internal/geometry"
)

// MinValid is the minimum number of valid entries a landmark array must
// carry for a morph call to proceed.
const MinValid = 400

// Set is an ordered sequence of 2-D points indexed 0..N-1. Absent entries
// are represented by a non-finite Point (see geometry.Point.Valid).
type Set []geometry.Point

// ValidCount returns the number of entries with finite coordinates.
func (s Set) ValidCount() int {
	n := 0
	for _, p := range s {
		if p.Valid() {
			n++
		}
	}
	return n
}

// Get returns s[i] and whether it is both in range and valid.
func (s Set) Get(i int) (geometry.Point, bool) {
	if i < 0 || i >= len(s) {
		return geometry.Point{}, false
	}
	p := s[i]
	return p, p.Valid()
}

// Scale returns a copy of s with every valid point scaled by (sx,sy).
// Absent entries are preserved as absent.
func (s Set) Scale(sx, sy float64) Set {
	out := make(Set, len(s))
	for i, p := range s {
		if !p.Valid() {
			out[i] = p
			continue
		}
		out[i] = p.Scale(sx, sy)
	}
	return out
}

// rawPoint unmarshals a single [x, y] entry, tolerating null and non-finite
// values by mapping them to an absent geometry.Point.
type rawPoint struct {
	x, y float64
	ok   bool
}

func (r *rawPoint) UnmarshalJSON(data []byte) error {
	var pair *[2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		// Malformed entries are tolerated as absent, same as null.
		r.ok = false
		return nil
	}
	if pair == nil {
		r.ok = false
		return nil
	}
	r.x, r.y, r.ok = pair[0], pair[1], true
	return nil
}

// ParseJSON decodes the landmark JSON wire format: a top-level array of
// [x,y] pairs, null, or malformed entries (any of which become an absent
// point).
func ParseJSON(data []byte) (Set, error) {
	var raw []rawPoint
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(Set, len(raw))
	for i, r := range raw {
		if !r.ok {
			out[i] = geometry.Point{X: nan(), Y: nan()}
			continue
		}
		out[i] = geometry.Point{X: r.x, Y: r.y}
	}
	return out, nil
}

func nan() float64 {
	var zero float64
	return zero / zero
}

// HullIndices is the 36-entry face-contour walk used to build the feathered
// hull mask. Follows the conventional face-oval landmark ordering.
var HullIndices = []int{
	10, 338, 297, 332, 284, 251, 389, 356, 454, 323,
	361, 288, 397, 365, 379, 378, 400, 377, 152, 148,
	176, 149, 150, 136, 172, 58, 132, 93, 234, 127,
	162, 21, 54, 103, 67, 109,
}

// InnerLipIndices is the 20-entry inner-mouth walk used by the mouth mask.
var InnerLipIndices = []int{
	78, 95, 88, 178, 87, 14, 317, 402, 318, 324,
	308, 415, 310, 311, 312, 13, 82, 81, 80, 191,
}

// Addon anchor indices. ForeheadAnchor (10) is the top-of-forehead point
// used to place hats above the brow line; it is distinct from Chin (152),
// the jaw point used by the interpolator.
const (
	LeftEyeAnchor    = 33
	RightEyeAnchor   = 263
	MouthLeftAnchor  = 61
	MouthRightAnchor = 291
	ForeheadAnchor   = 10
	LeftCheekAnchor  = 234
	RightCheekAnchor = 454
)

// Chin is the interpolator's chin anchor; LeftCheek and RightCheek above
// double as its other two exact-copy anchors.
const Chin = 152

// Head-pose landmark indices.
const (
	NoseTip    = 1
	LeftCheek  = 234
	RightCheek = 454
)

// Mouth-openness landmark indices.
const (
	InnerLipTop    = 13
	InnerLipBottom = 14
	MouthCornerL   = 78
	MouthCornerR   = 308
)

var (
	leftEye      = []int{33, 7, 163, 144, 145, 153, 154, 155, 133, 173, 157, 158, 159, 160, 161, 246}
	rightEye     = []int{263, 249, 390, 373, 374, 380, 381, 382, 362, 398, 384, 385, 386, 387, 388, 466}
	leftEyebrow  = []int{46, 53, 52, 65, 55, 70, 63, 105, 66, 107}
	rightEyebrow = []int{276, 283, 282, 295, 285, 300, 293, 334, 296, 336}
	leftIris     = []int{468, 469, 470, 471, 472}
	rightIris    = []int{473, 474, 475, 476, 477}
	nose         = []int{1, 2, 4, 5, 6, 19, 45, 94, 97, 98, 115, 168, 195, 196, 197, 220, 275, 279, 294, 327, 331, 344, 440}
	lipsOuter    = []int{61, 146, 91, 181, 84, 17, 314, 405, 321, 375, 291, 409, 270, 269, 267, 0, 37, 39, 40, 185}
	cheeks       = []int{234, 454, 93, 323}
	forehead     = []int{10, 108, 109, 151, 337, 338, 67, 297}
)

// KeyTriangulationIndices is the de-duplicated, sorted vertex set used to
// seed the Delaunay mesh: face contour, eyes, eyebrows, nose, lips
// (inner/outer), cheeks, forehead, iris.
var KeyTriangulationIndices = buildKeyTriangulationIndices()

func buildKeyTriangulationIndices() []int {
	groups := [][]int{
		HullIndices, leftEye, rightEye, leftEyebrow, rightEyebrow,
		leftIris, rightIris, nose, lipsOuter, InnerLipIndices,
		cheeks, forehead,
	}

	seen := make(map[int]struct{})
	var all []int
	for _, g := range groups {
		for _, idx := range g {
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			all = append(all, idx)
		}
	}
	sort.Ints(all)
	return all
}
