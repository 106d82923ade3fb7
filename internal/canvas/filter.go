package canvas

import (
	"image"

	"github.com/disintegration/gift"
)

const (
	// BlurSigma softens hard shape edges without losing detail.
	BlurSigma float32 = 0.5

	SharpenSigma     float32 = 1
	SharpenAmount    float32 = 1.5
	SharpenThreshold float32 = 3.0 / 255
)

// Blur returns a Gaussian-blurred copy of c.
func Blur(c *Canvas, sigma float32) *Canvas {
	return apply(c, gift.New(gift.GaussianBlur(sigma)))
}

// Sharpen returns an unsharp-masked copy of c. Only differences larger than
// threshold (on a 0..1 channel scale) are amplified.
func Sharpen(c *Canvas, sigma, amount, threshold float32) *Canvas {
	return apply(c, gift.New(gift.UnsharpMask(sigma, amount, threshold)))
}

// Enhance applies the default sharpening used for the enhanced variant.
func Enhance(c *Canvas) *Canvas {
	return Sharpen(c, SharpenSigma, SharpenAmount, SharpenThreshold)
}

func apply(c *Canvas, g *gift.GIFT) *Canvas {
	dst := image.NewRGBA(g.Bounds(c.Bounds()))
	g.Draw(dst, c.RGBA)
	// Filters operate on every channel; keep the canvas opaque.
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xFF
	}
	return &Canvas{RGBA: dst}
}
