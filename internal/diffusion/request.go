package diffusion

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned before any network call for requests the
// backend would reject.
var ErrInvalidRequest = errors.New("invalid request")

const maxSize = 2048

type Hints struct {
	AttentionSlicing bool
	CPUOffload       bool
	ForceCPU         bool
}

// Request describes one text-to-image generation. Zero numeric fields take
// the defaults of a 512x512 SD 1.5 run.
type Request struct {
	Prompt         string
	NegativePrompt string
	Width          int
	Height         int
	Steps          int
	GuidanceScale  float64
	// Seed -1 lets the backend pick.
	Seed      int64
	Sampler   string
	Model     string
	Precision Precision
	Hints     Hints
}

func (r *Request) normalize() {
	if r.Width == 0 {
		r.Width = DefaultSize
	}
	if r.Height == 0 {
		r.Height = DefaultSize
	}
	if r.Steps == 0 {
		r.Steps = 20
	}
	if r.GuidanceScale == 0 {
		r.GuidanceScale = DefaultGuidance
	}
	if r.Model == "" {
		r.Model = DefaultModel
	}
}

func (r Request) Validate() error {
	if r.Prompt == "" {
		return fmt.Errorf("%w: empty prompt", ErrInvalidRequest)
	}
	if r.Width <= 0 || r.Height <= 0 || r.Width > maxSize || r.Height > maxSize {
		return fmt.Errorf("%w: size %dx%d outside 1..%d", ErrInvalidRequest, r.Width, r.Height, maxSize)
	}
	// SD latents are 8x downsampled.
	if r.Width%8 != 0 || r.Height%8 != 0 {
		return fmt.Errorf("%w: size %dx%d not a multiple of 8", ErrInvalidRequest, r.Width, r.Height)
	}
	if r.Steps < 1 || r.Steps > 150 {
		return fmt.Errorf("%w: steps %d outside 1..150", ErrInvalidRequest, r.Steps)
	}
	if r.GuidanceScale < 1 || r.GuidanceScale > 30 {
		return fmt.Errorf("%w: guidance %v outside 1..30", ErrInvalidRequest, r.GuidanceScale)
	}
	return nil
}
