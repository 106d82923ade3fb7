package web

import (
	"context"
	"errors"
	"math/rand"
	"net/http"

	"github.com/rook-computer/neoncity/internal/canvas"
	"github.com/rook-computer/neoncity/internal/render"
	"github.com/rook-computer/neoncity/internal/state"
)

// StatusSource exposes the last CLI render.
//
// The concrete implementation is typically *state.Store.
type StatusSource interface {
	Snapshot() state.State
}

// sysLogger matches the logging shape used by app.Logger.
type sysLogger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopSysLogger struct{}

func (noopSysLogger) Infof(string, string, ...interface{})  {}
func (noopSysLogger) Errorf(string, string, ...interface{}) {}

// Variant selects which post-processed image the render endpoint returns.
type Variant string

const (
	VariantBase     Variant = "base"
	VariantEnhanced Variant = "enhanced"
)

// RenderFunc renders one image on demand.
type RenderFunc func(ctx context.Context, opts render.Options, variant Variant) (*canvas.Canvas, error)

// GalleryStorage abstracts the directory of generated images.
type GalleryStorage interface {
	List(ctx context.Context) ([]string, error)
	Download(ctx context.Context, w http.ResponseWriter, r *http.Request, name string) error
	Delete(ctx context.Context, name string) error
}

type APIV1Deps struct {
	Status  StatusSource
	Gallery GalleryStorage
	Render  RenderFunc
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Status == nil {
		out.Status = state.NewStore()
	}
	if out.Gallery == nil {
		out.Gallery = NoopGalleryStorage{Err: errors.New("gallery not configured")}
	}
	if out.Render == nil {
		out.Render = DefaultRender
	}
	return out
}

// DefaultRender draws with the procedural renderer, seeded from opts.Seed.
func DefaultRender(ctx context.Context, opts render.Options, variant Variant) (*canvas.Canvas, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := render.New(opts)
	rng := rand.New(rand.NewSource(opts.Seed))
	if variant == VariantEnhanced {
		res, err := r.RenderVariants(rng)
		if err != nil {
			return nil, err
		}
		return res.Enhanced, nil
	}
	return r.Render(rng)
}

type NoopGalleryStorage struct{ Err error }

func (s NoopGalleryStorage) List(context.Context) ([]string, error) { return nil, s.err() }

func (s NoopGalleryStorage) Download(context.Context, http.ResponseWriter, *http.Request, string) error {
	return s.err()
}

func (s NoopGalleryStorage) Delete(context.Context, string) error { return s.err() }

func (s NoopGalleryStorage) err() error {
	if s.Err != nil {
		return s.Err
	}
	return errors.New("gallery not configured")
}
