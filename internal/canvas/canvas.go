package canvas

import (
	"image"
	"image/color"
	"image/draw"
)

// Canvas is an opaque RGB pixel buffer. It is backed by an *image.RGBA whose
// alpha channel is always 0xFF, so it can be handed to image/draw, encoders
// and filters without conversion.
type Canvas struct {
	*image.RGBA
}

// New returns a width x height canvas filled with black.
// The caller is responsible for validating dimensions.
func New(width, height int) *Canvas {
	c := &Canvas{RGBA: image.NewRGBA(image.Rect(0, 0, width, height))}
	c.Fill(color.RGBA{A: 0xFF})
	return c
}

// FromImage copies any image into a new canvas anchored at (0,0).
// Alpha is discarded by drawing over opaque black.
func FromImage(img image.Image) *Canvas {
	b := img.Bounds()
	c := New(b.Dx(), b.Dy())
	draw.Draw(c.RGBA, c.Bounds(), img, b.Min, draw.Over)
	return c
}

func (c *Canvas) Width() int  { return c.Bounds().Dx() }
func (c *Canvas) Height() int { return c.Bounds().Dy() }

// Clone returns a deep copy.
func (c *Canvas) Clone() *Canvas {
	out := &Canvas{RGBA: image.NewRGBA(c.Bounds())}
	copy(out.Pix, c.Pix)
	return out
}

// Equal reports whether both canvases have the same size and pixels.
func (c *Canvas) Equal(other *Canvas) bool {
	if other == nil || c.Bounds() != other.Bounds() {
		return false
	}
	for y := 0; y < c.Height(); y++ {
		a := c.Pix[y*c.Stride : y*c.Stride+c.Width()*4]
		b := other.Pix[y*other.Stride : y*other.Stride+other.Width()*4]
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// RGB returns the channels of the pixel at (x, y).
func (c *Canvas) RGB(x, y int) (r, g, b uint8) {
	p := c.RGBAAt(x, y)
	return p.R, p.G, p.B
}

// Fill paints the whole canvas.
func (c *Canvas) Fill(col color.RGBA) {
	col.A = 0xFF
	draw.Draw(c.RGBA, c.Bounds(), &image.Uniform{C: col}, image.Point{}, draw.Src)
}

// Opaque forces col to full alpha.
func Opaque(col color.RGBA) color.RGBA {
	col.A = 0xFF
	return col
}

// Scale multiplies each channel by f and truncates, the way integer colour
// arithmetic on tuples does. f is clamped to [0,1] so the result can never
// leave the channel range.
func Scale(col color.RGBA, f float64) color.RGBA {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return color.RGBA{
		R: uint8(float64(col.R) * f),
		G: uint8(float64(col.G) * f),
		B: uint8(float64(col.B) * f),
		A: 0xFF,
	}
}

// Clamp8 limits v to a valid 8-bit channel value.
func Clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}
