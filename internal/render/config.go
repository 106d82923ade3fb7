package render

import "image/color"

// Neon palette used for lit windows.
var (
	Cyan      = color.RGBA{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF}
	Magenta   = color.RGBA{R: 0xFF, G: 0x00, B: 0xFF, A: 0xFF}
	Yellow    = color.RGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF}
	Green     = color.RGBA{R: 0x00, G: 0xFF, B: 0x64, A: 0xFF}
	Orange    = color.RGBA{R: 0xFF, G: 0x64, B: 0x00, A: 0xFF}
	LightBlue = color.RGBA{R: 0x64, G: 0x64, B: 0xFF, A: 0xFF}

	WindowPalette = []color.RGBA{Cyan, Magenta, Yellow, Green, Orange, LightBlue}

	// Cars and signs only use the three primaries of the palette.
	SignPalette = []color.RGBA{Magenta, Cyan, Yellow}

	RainColor = color.RGBA{R: 100, G: 150, B: 200, A: 0xFF}

	// GlowColor is the hue of the atmospheric haze; alpha comes per ring.
	GlowColor = color.NRGBA{R: 0xFF, G: 0x64, B: 0xFF}
)

// Defaults for the logical canvas and the scene.
const (
	DefaultWidth  = 512
	DefaultHeight = 512

	// MaxDimension bounds a single side so a typo cannot allocate gigabytes.
	MaxDimension = 8192

	DefaultBuildings = 15
	DefaultCars      = 8
	DefaultSigns     = 6
	DefaultRainDrops = 200
	DefaultGlows     = 10

	DefaultWindowLitProbability = 0.7
)

// Scene geometry. Cell and window sizes are in pixels.
const (
	windowCellWidth  = 15
	windowCellHeight = 20
	windowInset      = 5
	windowWidth      = 8
	windowHeight     = 12

	buildingMinWidth  = 30
	buildingMaxWidth  = 80
	buildingMaxMargin = 50

	trailMinLength = 15
	trailMaxLength = 30
	trailIntensity = 0.5

	signWidth       = 60
	signHeight      = 20
	signStrokeWidth = 2
	signGlowRings   = 3

	rainLength = 15
	rainSlant  = 2

	glowMinRadius = 30
	glowMaxRadius = 80
	glowRingStep  = 5
	glowMaxAlpha  = 30
)
