package mask

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// blurPasses runs successive Gaussian blurs over a single-channel mask,
// one pass per radius in radii, each pass feeding the next (used both for
// the hull mask's feathering and the mouth mask's anti-alias pass). Radii
// are used directly as the imaging.Blur sigma.
func blurPasses(gray *image.Gray, radii []float64) *image.Gray {
	current := grayToNRGBA(gray)
	for _, r := range radii {
		current = imaging.Blur(current, r)
	}
	return nrgbaToGray(current)
}

func grayToNRGBA(gray *image.Gray) *image.NRGBA {
	b := gray.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := gray.GrayAt(x, y).Y
			out.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

func nrgbaToGray(img *image.NRGBA) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			out.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: c.R})
		}
	}
	return out
}
