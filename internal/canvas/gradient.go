package canvas

import "image/color"

// TestGradient returns a canvas where red follows the row, green follows the
// column and blue is fixed at 128. It stands in for model output when
// checking that the image tooling works end to end.
func TestGradient(width, height int) *Canvas {
	c := New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c.SetRGBA(x, y, color.RGBA{
				R: uint8(y * 255 / height),
				G: uint8(x * 255 / width),
				B: 128,
				A: 0xFF,
			})
		}
	}
	return c
}
