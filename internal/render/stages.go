package render

import (
	"image/color"
	"math/rand"

	"github.com/rook-computer/neoncity/internal/canvas"
)

// Stage is one drawing pass. Draw always completes; it only mutates the
// canvas and consumes randomness from rng.
type Stage struct {
	Name        string
	Description string
	Draw        func(c *canvas.Canvas, rng *rand.Rand)
}

// stages returns the drawing pipeline bound to a fresh scene. Order matters:
// each stage paints over the previous ones.
func (r *Renderer) stages(s *scene) []Stage {
	o := r.Options
	return []Stage{
		{"sky", "Painting dusk sky gradient", func(c *canvas.Canvas, _ *rand.Rand) {
			drawSky(c)
		}},
		{"buildings", "Raising skyscrapers", func(c *canvas.Canvas, rng *rand.Rand) {
			drawBuildings(c, rng, s, o.Buildings)
		}},
		{"windows", "Lighting neon windows", func(c *canvas.Canvas, rng *rand.Rand) {
			drawWindows(c, rng, s, o.WindowLitProbability)
		}},
		{"cars", "Launching flying cars", func(c *canvas.Canvas, rng *rand.Rand) {
			drawCars(c, rng, s, o.Cars)
		}},
		{"signs", "Hanging neon signs", func(c *canvas.Canvas, rng *rand.Rand) {
			drawSigns(c, rng, s, o.Signs)
		}},
		{"rain", "Adding rain", func(c *canvas.Canvas, rng *rand.Rand) {
			drawRain(c, rng, o.RainDrops)
		}},
		{"glow", "Blending atmospheric glow", func(c *canvas.Canvas, rng *rand.Rand) {
			drawGlow(c, rng, s, o.Glows)
		}},
	}
}

// SkyColor is the gradient colour of row y on a canvas of the given height:
// purple fades out towards the bottom while blue grows.
func SkyColor(y, height int) color.RGBA {
	t := float64(y) / float64(height)
	purple := int(60 * (1 - t))
	blue := int(30 + 40*t)
	return color.RGBA{R: uint8(purple + 20), G: 10, B: uint8(blue), A: 0xFF}
}

func drawSky(c *canvas.Canvas) {
	for y := 0; y < c.Height(); y++ {
		canvas.HLine(c, y, SkyColor(y, c.Height()))
	}
}

func drawBuildings(c *canvas.Canvas, rng *rand.Rand, s *scene, n int) {
	for i := 0; i < n; i++ {
		b := sampleBuilding(rng, s.width, s.height)
		canvas.FillRect(c, b.Box, b.Color)
		s.buildings = append(s.buildings, b)
	}
}

// drawWindows paints each facade as if it had been drawn right after its
// building: pixels covered by a building raised later stay dark.
func drawWindows(c *canvas.Canvas, rng *rand.Rand, s *scene, litProbability float64) {
	for i, b := range s.buildings {
		front := s.buildings[i+1:]
		windows := facade(rng, b, litProbability)
		s.facades = append(s.facades, windows)
		for _, w := range windows {
			if !w.Lit {
				continue
			}
			for y := w.Box.Y0; y <= w.Box.Y1; y++ {
				for x := w.Box.X0; x <= w.Box.X1; x++ {
					if !occluded(front, x, y) {
						c.SetRGBA(x, y, w.Color)
					}
				}
			}
		}
	}
}

func occluded(front []Building, x, y int) bool {
	for _, b := range front {
		if x >= b.Box.X0 && x <= b.Box.X1 && y >= b.Box.Y0 && y <= b.Box.Y1 {
			return true
		}
	}
	return false
}

// drawCars paints the trail first and the body last so the light source
// stays the brightest point.
func drawCars(c *canvas.Canvas, rng *rand.Rand, s *scene, n int) {
	for i := 0; i < n; i++ {
		car := sampleCar(rng, s.width, s.height)
		for j := car.Length - 1; j >= 0; j-- {
			alpha := 1 - float64(j)/float64(car.Length)
			x := car.X - j
			canvas.FillEllipse(c, canvas.Box{X0: x - 1, Y0: car.Y - 1, X1: x + 1, Y1: car.Y + 1},
				canvas.Scale(car.Color, alpha*trailIntensity))
		}
		canvas.FillEllipse(c, canvas.Box{X0: car.X - 3, Y0: car.Y - 2, X1: car.X + 3, Y1: car.Y + 2}, car.Color)
		s.cars = append(s.cars, car)
	}
}

func drawSigns(c *canvas.Canvas, rng *rand.Rand, s *scene, n int) {
	for i := 0; i < n; i++ {
		sign := sampleSign(rng, s.width, s.height)
		canvas.StrokeRect(c, sign.Box, sign.Color, signStrokeWidth)
		for g := 0; g < signGlowRings; g++ {
			canvas.StrokeRect(c, sign.Box.Grow(g), canvas.Scale(sign.Color, 0.8-0.2*float64(g)), 1)
		}
		s.signs = append(s.signs, sign)
	}
}

func drawRain(c *canvas.Canvas, rng *rand.Rand, n int) {
	w, h := c.Width(), c.Height()
	for i := 0; i < n; i++ {
		x := randInt(rng, 0, w)
		y := randInt(rng, 0, h-50)
		canvas.Line(c, x, y, x-rainSlant, y+rainLength, RainColor)
	}
}

// drawGlow paints concentric discs into a transparent overlay, outermost
// first, and composites the overlay over the canvas. Discs replace overlay
// pixels rather than accumulating.
func drawGlow(c *canvas.Canvas, rng *rand.Rand, s *scene, n int) {
	overlay := canvas.NewOverlay(c)
	for i := 0; i < n; i++ {
		g := sampleGlow(rng, s.width, s.height)
		for r := g.Radius; r > 0; r -= glowRingStep {
			col := GlowColor
			col.A = ringAlpha(g.Radius, r)
			canvas.FillCircle(overlay, g.X, g.Y, r, col)
		}
		s.glows = append(s.glows, g)
	}
	out := canvas.Composite(c, overlay)
	copy(c.Pix, out.Pix)
}
