package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rook-computer/neoncity/internal/render"
)

const (
	EnvOutDir   = "NEONCITY_OUT"
	EnvSeed     = "NEONCITY_SEED"
	EnvWidth    = "NEONCITY_WIDTH"
	EnvHeight   = "NEONCITY_HEIGHT"
	EnvStdioLog = "NEONCITY_STDIO_LOG"

	DefaultOutDir    = "ai-output"
	BaseFileName     = "cyberpunk-city.png"
	EnhancedFileName = "cyberpunk-city-enhanced.png"
)

// Config holds the settings of one CLI render. Flags override the values
// read from the environment.
type Config struct {
	OutDir string
	Width  int
	Height int

	// Seed is used when SeedSet is true; otherwise a time-based seed is
	// picked at render time and reported.
	Seed    int64
	SeedSet bool
}

func DefaultConfigFromEnv() (Config, error) {
	cfg := Config{OutDir: DefaultOutDir, Width: render.DefaultWidth, Height: render.DefaultHeight}
	if raw := os.Getenv(EnvOutDir); raw != "" {
		cfg.OutDir = raw
	}
	if raw := os.Getenv(EnvSeed); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be an integer (got %q): %w", EnvSeed, raw, err)
		}
		cfg.Seed, cfg.SeedSet = seed, true
	}
	for _, dim := range []struct {
		env string
		dst *int
	}{{EnvWidth, &cfg.Width}, {EnvHeight, &cfg.Height}} {
		raw := os.Getenv(dim.env)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be an integer (got %q): %w", dim.env, raw, err)
		}
		*dim.dst = v
	}
	return cfg, nil
}

// Options converts the config to renderer options, resolving the seed.
func (c Config) Options() render.Options {
	opts := render.DefaultOptions()
	opts.Width, opts.Height = c.Width, c.Height
	opts.Seed = c.Seed
	if !c.SeedSet {
		opts.Seed = time.Now().UnixNano()
	}
	return opts
}

func (c Config) BasePath() string     { return filepath.Join(c.OutDir, BaseFileName) }
func (c Config) EnhancedPath() string { return filepath.Join(c.OutDir, EnhancedFileName) }
