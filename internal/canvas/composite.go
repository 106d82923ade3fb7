package canvas

import (
	"image"
	"image/color"
	"math"
)

// NewOverlay returns a fully transparent, non-premultiplied layer the size
// of c. Shapes painted into it replace pixels, alpha included.
func NewOverlay(c *Canvas) *image.NRGBA {
	return image.NewNRGBA(c.Bounds())
}

// Composite returns base with overlay blended "over" it:
//
//	out = round(O*a + B*(1-a))
//
// per channel, with a = overlay alpha / 255. Neither input is modified.
// Pixels of the overlay outside base bounds are ignored.
func Composite(base *Canvas, overlay *image.NRGBA) *Canvas {
	out := base.Clone()
	r := base.Bounds().Intersect(overlay.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			o := overlay.NRGBAAt(x, y)
			if o.A == 0 {
				continue
			}
			b := out.RGBAAt(x, y)
			out.SetRGBA(x, y, Blend(b, o))
		}
	}
	return out
}

// Blend mixes one overlay pixel over one opaque base pixel.
func Blend(base color.RGBA, over color.NRGBA) color.RGBA {
	a := float64(over.A) / 0xFF
	mix := func(o, b uint8) uint8 {
		return Clamp8(int(math.Round(float64(o)*a + float64(b)*(1-a))))
	}
	return color.RGBA{
		R: mix(over.R, base.R),
		G: mix(over.G, base.G),
		B: mix(over.B, base.B),
		A: 0xFF,
	}
}
