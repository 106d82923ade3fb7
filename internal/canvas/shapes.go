package canvas

import (
	"image"
	"image/color"
	"image/draw"
)

// Box is an inclusive pixel box: both corners are painted.
// It mirrors how drawing libraries take [x0, y0, x1, y1] coordinates.
type Box struct {
	X0, Y0, X1, Y1 int
}

// Rect converts the box to a half-open image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X0, b.Y0, b.X1+1, b.Y1+1)
}

// Grow expands the box by n pixels on every side.
func (b Box) Grow(n int) Box {
	return Box{X0: b.X0 - n, Y0: b.Y0 - n, X1: b.X1 + n, Y1: b.Y1 + n}
}

// FillRect paints the box clipped to dst bounds.
func FillRect(dst draw.Image, b Box, col color.Color) {
	r := b.Rect().Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, &image.Uniform{C: col}, image.Point{}, draw.Src)
}

// StrokeRect paints an outline of the given width inside the box.
func StrokeRect(dst draw.Image, b Box, col color.Color, width int) {
	if width <= 0 {
		return
	}
	if b.X1-b.X0+1 <= 2*width || b.Y1-b.Y0+1 <= 2*width {
		FillRect(dst, b, col)
		return
	}
	FillRect(dst, Box{b.X0, b.Y0, b.X1, b.Y0 + width - 1}, col)
	FillRect(dst, Box{b.X0, b.Y1 - width + 1, b.X1, b.Y1}, col)
	FillRect(dst, Box{b.X0, b.Y0 + width, b.X0 + width - 1, b.Y1 - width}, col)
	FillRect(dst, Box{b.X1 - width + 1, b.Y0 + width, b.X1, b.Y1 - width}, col)
}

// FillEllipse paints the ellipse inscribed in the box. A pixel is painted
// when its centre lies inside the ellipse whose radii reach the outer edges
// of the box, so a 1x1 box yields a single pixel.
func FillEllipse(dst draw.Image, b Box, col color.Color) {
	if b.X1 < b.X0 || b.Y1 < b.Y0 {
		return
	}
	cx := float64(b.X0+b.X1) / 2
	cy := float64(b.Y0+b.Y1) / 2
	rx := float64(b.X1-b.X0)/2 + 0.5
	ry := float64(b.Y1-b.Y0)/2 + 0.5
	clip := dst.Bounds()
	for y := b.Y0; y <= b.Y1; y++ {
		if y < clip.Min.Y || y >= clip.Max.Y {
			continue
		}
		dy := (float64(y) - cy) / ry
		for x := b.X0; x <= b.X1; x++ {
			if x < clip.Min.X || x >= clip.Max.X {
				continue
			}
			dx := (float64(x) - cx) / rx
			if dx*dx+dy*dy <= 1 {
				dst.Set(x, y, col)
			}
		}
	}
}

// FillCircle paints a disc of radius r around (cx, cy).
func FillCircle(dst draw.Image, cx, cy, r int, col color.Color) {
	FillEllipse(dst, Box{cx - r, cy - r, cx + r, cy + r}, col)
}

// Line paints a one pixel wide line between both end points, inclusive,
// using Bresenham's algorithm.
func Line(dst draw.Image, x0, y0, x1, y1 int, col color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	clip := dst.Bounds()
	e := dx + dy
	for {
		if (image.Point{X: x0, Y: y0}).In(clip) {
			dst.Set(x0, y0, col)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// HLine paints row y across the full width of dst.
func HLine(dst draw.Image, y int, col color.Color) {
	b := dst.Bounds()
	FillRect(dst, Box{b.Min.X, y, b.Max.X - 1, y}, col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
