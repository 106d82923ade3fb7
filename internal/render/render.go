package render

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rook-computer/neoncity/internal/canvas"
)

// ErrInvalidArgument is returned for dimensions or options that cannot be
// drawn. Nothing is rendered when it is returned.
var ErrInvalidArgument = errors.New("invalid argument")

// None asks for zero of an entity (or a window lit probability of 0),
// since a zero field takes the package default.
const None = -1

// Options configures one render. Zero entity counts fall back to the
// package defaults and None disables an entity; the canvas size is always
// taken as given.
type Options struct {
	Width  int
	Height int
	// Seed initialises the random source when Render is not handed one.
	Seed int64

	Buildings int
	Cars      int
	Signs     int
	RainDrops int
	Glows     int

	WindowLitProbability float64
}

// DefaultOptions returns the stock 512x512 scene.
func DefaultOptions() Options {
	o := Options{Width: DefaultWidth, Height: DefaultHeight}
	o.normalize()
	return o
}

func (o *Options) normalize() {
	count(&o.Buildings, DefaultBuildings)
	count(&o.Cars, DefaultCars)
	count(&o.Signs, DefaultSigns)
	count(&o.RainDrops, DefaultRainDrops)
	count(&o.Glows, DefaultGlows)
	switch o.WindowLitProbability {
	case 0:
		o.WindowLitProbability = DefaultWindowLitProbability
	case None:
		o.WindowLitProbability = 0
	}
}

func count(n *int, def int) {
	switch *n {
	case 0:
		*n = def
	case None:
		*n = 0
	}
}

// Validate reports whether the options describe a drawable scene.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d must be positive", ErrInvalidArgument, o.Width, o.Height)
	}
	if o.Width > MaxDimension || o.Height > MaxDimension {
		return fmt.Errorf("%w: canvas size %dx%d exceeds %d", ErrInvalidArgument, o.Width, o.Height, MaxDimension)
	}
	for _, n := range []int{o.Buildings, o.Cars, o.Signs, o.RainDrops, o.Glows} {
		if n < 0 && n != None {
			return fmt.Errorf("%w: entity count %d must not be negative", ErrInvalidArgument, n)
		}
	}
	if p := o.WindowLitProbability; p != None && (p < 0 || p > 1) {
		return fmt.Errorf("%w: window probability %v outside [0,1]", ErrInvalidArgument, o.WindowLitProbability)
	}
	return nil
}

// StageTiming records how long one stage took.
type StageTiming struct {
	Name     string
	Duration time.Duration
}

// Renderer draws the procedural cityscape. A Renderer holds no per-call
// state, so one value can serve concurrent renders.
type Renderer struct {
	Options Options

	// Progress, when set, is called before each stage runs.
	Progress func(stage Stage)
}

// New returns a renderer for opts with defaults applied to zero fields.
func New(opts Options) *Renderer {
	opts.normalize()
	return &Renderer{Options: opts}
}

// Result holds both persisted variants of one render.
type Result struct {
	Base     *canvas.Canvas
	Enhanced *canvas.Canvas
	Timings  []StageTiming
}

// Draw runs the drawing stages on a new canvas and returns it without
// post-processing. A nil rng is seeded from Options.Seed.
func (r *Renderer) Draw(rng *rand.Rand) (*canvas.Canvas, []StageTiming, error) {
	if err := r.Options.Validate(); err != nil {
		return nil, nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(r.Options.Seed))
	}

	s := &scene{width: r.Options.Width, height: r.Options.Height}
	c := canvas.New(s.width, s.height)
	stages := r.stages(s)
	timings := make([]StageTiming, 0, len(stages)+2)
	for _, st := range stages {
		timings = append(timings, r.run(st, c, rng))
	}
	return c, timings, nil
}

// Render draws the scene and applies the softening blur.
func (r *Renderer) Render(rng *rand.Rand) (*canvas.Canvas, error) {
	res, err := r.render(rng, false)
	if err != nil {
		return nil, err
	}
	return res.Base, nil
}

// RenderVariants draws the scene and produces both the blurred base image
// and its sharpened variant.
func (r *Renderer) RenderVariants(rng *rand.Rand) (Result, error) {
	return r.render(rng, true)
}

func (r *Renderer) render(rng *rand.Rand, enhanced bool) (Result, error) {
	c, timings, err := r.Draw(rng)
	if err != nil {
		return Result{}, err
	}
	res := Result{Base: c}
	blur := Stage{Name: "blur", Description: "Softening edges", Draw: func(c *canvas.Canvas, _ *rand.Rand) {
		res.Base = canvas.Blur(c, canvas.BlurSigma)
	}}
	timings = append(timings, r.run(blur, c, nil))
	if enhanced {
		sharpen := Stage{Name: "sharpen", Description: "Sharpening enhanced variant", Draw: func(c *canvas.Canvas, _ *rand.Rand) {
			res.Enhanced = canvas.Enhance(c)
		}}
		timings = append(timings, r.run(sharpen, res.Base, nil))
	}
	res.Timings = timings
	return res, nil
}

func (r *Renderer) run(st Stage, c *canvas.Canvas, rng *rand.Rand) StageTiming {
	if r.Progress != nil {
		r.Progress(st)
	}
	start := time.Now()
	st.Draw(c, rng)
	return StageTiming{Name: st.Name, Duration: time.Since(start)}
}

// Render draws a width x height cityscape with the default scene, using rng
// for every random choice. It returns ErrInvalidArgument for non-positive
// sizes.
func Render(width, height int, rng *rand.Rand) (*canvas.Canvas, error) {
	return New(Options{Width: width, Height: height}).Render(rng)
}

// StageNames lists the pipeline in execution order, post-processing
// included.
func StageNames() []string {
	r := New(Options{})
	var names []string
	for _, st := range r.stages(&scene{}) {
		names = append(names, st.Name)
	}
	return append(names, "blur", "sharpen")
}
