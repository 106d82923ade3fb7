package render

import (
	"image/color"
	"math/rand"

	"github.com/rook-computer/neoncity/internal/canvas"
	"github.com/rook-computer/neoncity/internal/render/layout"
)

// Building is a silhouette block anchored to the bottom of the canvas.
type Building struct {
	Box   canvas.Box
	Color color.RGBA
}

// Window is one cell of a building facade.
type Window struct {
	Box   canvas.Box
	Color color.RGBA
	Lit   bool
}

// LightTrail is a flying car: a bright body followed by fading segments.
type LightTrail struct {
	X, Y   int
	Color  color.RGBA
	Length int
}

// NeonSign is an outlined rectangle with glow rings around it.
type NeonSign struct {
	Box   canvas.Box
	Color color.RGBA
}

// GlowHalo is a radial haze painted into the overlay layer.
type GlowHalo struct {
	X, Y   int
	Radius int
}

// scene collects the entities sampled during one render so that later
// stages can refer to earlier ones. It never outlives the call.
type scene struct {
	width, height int
	buildings     []Building
	facades       [][]Window // parallel to buildings
	cars          []LightTrail
	signs         []NeonSign
	glows         []GlowHalo
}

// randInt returns a uniform integer in [lo, hi]. An empty range collapses to
// lo, which happens for canvases smaller than the scene geometry.
func randInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

func choose(rng *rand.Rand, palette []color.RGBA) color.RGBA {
	return palette[rng.Intn(len(palette))]
}

func sampleBuilding(rng *rand.Rand, w, h int) Building {
	x := randInt(rng, 0, w-buildingMaxWidth)
	y := randInt(rng, h/3, h-buildingMaxMargin)
	bw := randInt(rng, buildingMinWidth, buildingMaxWidth)
	box := layout.ClampBox(canvas.Box{X0: x, Y0: y, X1: x + bw, Y1: h}, w, h)
	return Building{
		Box: box,
		Color: color.RGBA{
			R: uint8(randInt(rng, 10, 30)),
			G: uint8(randInt(rng, 10, 30)),
			B: uint8(randInt(rng, 10, 30)),
			A: 0xFF,
		},
	}
}

// facade lays out the window grid of b. Every returned window lies within
// the building box.
func facade(rng *rand.Rand, b Building, litProbability float64) []Window {
	cells := layout.Cells(b.Box, windowCellWidth, windowCellHeight)
	out := make([]Window, 0, len(cells))
	for _, cell := range cells {
		win := Window{
			Box: canvas.Box{
				X0: cell.X0 + windowInset,
				Y0: cell.Y0 + windowInset,
				X1: cell.X0 + windowInset + windowWidth,
				Y1: cell.Y0 + windowInset + windowHeight,
			},
			Color: b.Color,
		}
		if rng.Float64() < litProbability {
			win.Lit = true
			win.Color = choose(rng, WindowPalette)
		}
		win.Box = layout.Intersect(win.Box, b.Box)
		out = append(out, win)
	}
	return out
}

func sampleCar(rng *rand.Rand, w, h int) LightTrail {
	return LightTrail{
		X:      randInt(rng, 0, w),
		Y:      randInt(rng, h/4, h/2),
		Color:  choose(rng, SignPalette),
		Length: randInt(rng, trailMinLength, trailMaxLength),
	}
}

func sampleSign(rng *rand.Rand, w, h int) NeonSign {
	x := randInt(rng, 50, w-100)
	y := randInt(rng, h/3, h/2)
	return NeonSign{
		Box:   canvas.Box{X0: x, Y0: y, X1: x + signWidth, Y1: y + signHeight},
		Color: choose(rng, SignPalette),
	}
}

func sampleGlow(rng *rand.Rand, w, h int) GlowHalo {
	return GlowHalo{
		X:      randInt(rng, 0, w),
		Y:      randInt(rng, 0, h/2),
		Radius: randInt(rng, glowMinRadius, glowMaxRadius),
	}
}

// ringAlpha is the overlay alpha of the glow ring at radius r: zero at the
// rim, growing towards the centre.
func ringAlpha(radius, r int) uint8 {
	return uint8(glowMaxAlpha * (radius - r) / radius)
}
