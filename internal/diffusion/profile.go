package diffusion

import (
	"fmt"
	"sort"
)

const (
	DefaultModel    = "runwayml/stable-diffusion-v1-5"
	DefaultSize     = 512
	DefaultGuidance = 7.5

	// SamplerDPMSolver is the WebUI name of the DPM-solver multistep sampler.
	SamplerDPMSolver = "DPM++ 2M"
)

const (
	richPrompt = "futuristic city at sunset, cyberpunk style, neon lights, ultra detailed, 8k, masterpiece, " +
		"high quality, skyscrapers with glowing windows, flying cars, rain reflections"
	richNegative = "blurry, bad quality, low resolution, ugly, deformed, extra limbs"

	shortPrompt = "futuristic cyberpunk city at sunset, neon lights, skyscrapers, flying cars, " +
		"detailed architecture, masterpiece"
	shortNegative = "blurry, bad quality, low resolution, ugly"
)

// Precision of the model weights requested from the backend.
type Precision string

const (
	Float16 Precision = "fp16"
	Float32 Precision = "fp32"
)

// Profile is a device preset: how heavy a generation the host can afford.
type Profile struct {
	Name        string
	Description string // printed before generating
	Precision   Precision
	Steps       int
	Sampler     string // empty leaves the backend default

	// Hints passed to the backend as override settings. A remote backend
	// may ignore them.
	AttentionSlicing bool
	CPUOffload       bool
	ForceCPU         bool

	Prompt         string
	NegativePrompt string
}

var profiles = map[string]Profile{
	"gpu": {
		Name:           "gpu",
		Description:    "Using GPU acceleration",
		Precision:      Float16,
		Steps:          30,
		Prompt:         richPrompt,
		NegativePrompt: richNegative,
	},
	"cpu": {
		Name:             "cpu",
		Description:      "Using CPU mode (will be slower but more compatible)",
		Precision:        Float32,
		Steps:            20,
		AttentionSlicing: true,
		CPUOffload:       true,
		Prompt:           shortPrompt,
		NegativePrompt:   shortNegative,
	},
	"pure-cpu": {
		Name:             "pure-cpu",
		Description:      "Pure CPU mode, CUDA disabled",
		Precision:        Float32,
		Steps:            15,
		Sampler:          SamplerDPMSolver,
		AttentionSlicing: true,
		CPUOffload:       true,
		ForceCPU:         true,
		Prompt:           shortPrompt,
		NegativePrompt:   shortNegative,
	},
}

// ProfileByName looks up one of the presets gpu, cpu and pure-cpu.
func ProfileByName(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: unknown profile %q (want one of %v)", ErrInvalidRequest, name, ProfileNames())
	}
	return p, nil
}

func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Request builds the generation request of the profile.
func (p Profile) Request(seed int64) Request {
	return Request{
		Prompt:         p.Prompt,
		NegativePrompt: p.NegativePrompt,
		Width:          DefaultSize,
		Height:         DefaultSize,
		Steps:          p.Steps,
		GuidanceScale:  DefaultGuidance,
		Seed:           seed,
		Sampler:        p.Sampler,
		Model:          DefaultModel,
		Precision:      p.Precision,
		Hints: Hints{
			AttentionSlicing: p.AttentionSlicing,
			CPUOffload:       p.CPUOffload,
			ForceCPU:         p.ForceCPU,
		},
	}
}
