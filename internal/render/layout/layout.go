package layout

import (
	"image"

	"github.com/rook-computer/neoncity/internal/canvas"
)

// Inset shrinks rect by paddingPx on all sides.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	out := image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
	return Normalize(out)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// SplitHorizontal splits rect into top and bottom parts.
// topHeightPx is clamped to [0, rect.Dy()].
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top image.Rectangle, bottom image.Rectangle) {
	rect = Normalize(rect)
	height := rect.Dy()
	if topHeightPx < 0 {
		topHeightPx = 0
	}
	if topHeightPx > height {
		topHeightPx = height
	}
	top = image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topHeightPx)
	bottom = image.Rect(rect.Min.X, rect.Min.Y+topHeightPx, rect.Max.X, rect.Max.Y)
	return top, bottom
}

// AnchorBottomRight returns a rectangle of size (widthPx,heightPx) placed in the bottom-right of rect.
func AnchorBottomRight(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	widthPx = clamp(widthPx, 0, rect.Dx())
	heightPx = clamp(heightPx, 0, rect.Dy())
	return image.Rect(rect.Max.X-widthPx, rect.Max.Y-heightPx, rect.Max.X, rect.Max.Y)
}

// FitRect returns the largest rectangle with the aspect ratio of src that
// fits into dst, centred.
func FitRect(dst image.Rectangle, src image.Rectangle) image.Rectangle {
	dst = Normalize(dst)
	if src.Dx() <= 0 || src.Dy() <= 0 || dst.Empty() {
		return image.Rectangle{Min: dst.Min, Max: dst.Min}
	}
	w := dst.Dx()
	h := w * src.Dy() / src.Dx()
	if h > dst.Dy() {
		h = dst.Dy()
		w = h * src.Dx() / src.Dy()
	}
	x := dst.Min.X + (dst.Dx()-w)/2
	y := dst.Min.Y + (dst.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// ClampBox limits an inclusive box to a width x height canvas.
// The result may be empty (X1 < X0) when the box lies fully outside.
func ClampBox(b canvas.Box, width, height int) canvas.Box {
	return canvas.Box{
		X0: clamp(b.X0, 0, width-1),
		Y0: clamp(b.Y0, 0, height-1),
		X1: clamp(b.X1, 0, width-1),
		Y1: clamp(b.Y1, 0, height-1),
	}
}

// Intersect returns the overlap of two inclusive boxes.
func Intersect(a, b canvas.Box) canvas.Box {
	return canvas.Box{
		X0: max(a.X0, b.X0),
		Y0: max(a.Y0, b.Y0),
		X1: min(a.X1, b.X1),
		Y1: min(a.Y1, b.Y1),
	}
}

// Contains reports whether inner lies within outer. Empty boxes are
// contained everywhere.
func Contains(outer, inner canvas.Box) bool {
	if inner.X1 < inner.X0 || inner.Y1 < inner.Y0 {
		return true
	}
	return inner.X0 >= outer.X0 && inner.Y0 >= outer.Y0 && inner.X1 <= outer.X1 && inner.Y1 <= outer.Y1
}

// Cells partitions a box into a grid of cellW x cellH cells, row-major,
// anchored at the top-left corner. Rows count the inclusive pixel height;
// columns stop one pixel short of the right edge. Partial cells at the far
// edges are dropped.
func Cells(b canvas.Box, cellW, cellH int) []canvas.Box {
	if cellW <= 0 || cellH <= 0 {
		return nil
	}
	cols := (b.X1 - b.X0) / cellW
	rows := (b.Y1 - b.Y0 + 1) / cellH
	if cols <= 0 || rows <= 0 {
		return nil
	}
	out := make([]canvas.Box, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := b.X0 + col*cellW
			y := b.Y0 + row*cellH
			out = append(out, canvas.Box{X0: x, Y0: y, X1: x + cellW - 1, Y1: y + cellH - 1})
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
